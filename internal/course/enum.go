package course

type CourseStatus string

const (
	StatusDraft     CourseStatus = "DRAFT"
	StatusSubmitted CourseStatus = "SUBMITTED"
	StatusInReview  CourseStatus = "IN_REVIEW"
	StatusApproved  CourseStatus = "APPROVED"
	StatusRejected  CourseStatus = "REJECTED"
	StatusArchived  CourseStatus = "ARCHIVED"
)

type QuestionType string

const (
	QuestionYesNo          QuestionType = "YES_NO"
	QuestionSingleChoice   QuestionType = "SINGLE_CHOICE"
	QuestionMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionMatching       QuestionType = "MATCHING"
)

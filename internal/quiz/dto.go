package quiz

import (
	"time"

	"github.com/google/uuid"
)

type SubmitAttemptRequest struct {
	Answers []SubmittedAnswer `json:"answers" validate:"dive"`
}

type AttemptView struct {
	AttemptID uuid.UUID           `json:"attempt_id"`
	QuizID    uuid.UUID           `json:"quiz_id"`
	StartedAt time.Time           `json:"started_at"`
	Resumed   bool                `json:"resumed"`
	Questions []PresentedQuestion `json:"questions"`
	// RemainingAttempts is nil when the quiz allows unlimited attempts.
	RemainingAttempts *int `json:"remaining_attempts"`
}

type SubmitView struct {
	AttemptID uuid.UUID `json:"attempt_id"`
	Result
	CourseCompleted bool `json:"course_completed"`
}

package progress

import (
	"time"

	"github.com/google/uuid"
)

type LessonProgressRequest struct {
	Completed      bool `json:"completed"`
	TimeSpentDelta int  `json:"time_spent_delta" validate:"min=0"`
}

type LessonProgressResult struct {
	Progress        *LessonProgress `json:"progress"`
	ModuleStatus    ModuleStatus    `json:"module_status"`
	CourseCompleted bool            `json:"course_completed"`
}

type ModuleSummary struct {
	ModuleID         uuid.UUID    `json:"module_id"`
	Title            string       `json:"title"`
	Status           ModuleStatus `json:"status"`
	QuizPassed       *bool        `json:"quiz_passed"`
	CompletedAt      *time.Time   `json:"completed_at,omitempty"`
	TotalLessons     int          `json:"total_lessons"`
	CompletedLessons int          `json:"completed_lessons"`
}

type CourseSummary struct {
	CourseID         uuid.UUID       `json:"course_id"`
	TotalLessons     int             `json:"total_lessons"`
	CompletedLessons int             `json:"completed_lessons"`
	Percentage       int             `json:"percentage"`
	TimeSpent        int             `json:"time_spent"`
	EnrolledAt       time.Time       `json:"enrolled_at"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
	LastAccessAt     *time.Time      `json:"last_access_at,omitempty"`
	Modules          []ModuleSummary `json:"modules"`
}

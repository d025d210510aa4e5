package progress

import (
	"time"

	"github.com/google/uuid"
)

type LessonProgress struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_lesson_progress_user_lesson" json:"user_id"`
	LessonID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_lesson_progress_user_lesson;index" json:"lesson_id"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	// TimeSpent is cumulative, in seconds.
	TimeSpent int       `gorm:"not null;default:0;check:time_spent >= 0" json:"time_spent"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}

type ModuleProgress struct {
	ID          uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_module_progress_user_module" json:"user_id"`
	ModuleID    uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_module_progress_user_module;index" json:"module_id"`
	Status      ModuleStatus `gorm:"type:varchar(20);not null;default:NOT_STARTED" json:"status"`
	QuizPassed  *bool        `json:"quiz_passed"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (ModuleProgress) TableName() string {
	return "module_progress"
}

package quiz

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QuizAttempt is one sitting of a learner on a module quiz. It is in
// progress while CompletedAt is nil; at most one such row exists per
// (user, quiz).
type QuizAttempt struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_quiz_attempts_in_progress,where:completed_at IS NULL" json:"user_id"`
	QuizID      uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_quiz_attempts_in_progress,where:completed_at IS NULL" json:"quiz_id"`
	StartedAt   time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Score       int        `gorm:"not null;default:0" json:"score"`
	MaxScore    int        `gorm:"not null;default:0" json:"max_score"`
	Percentage  int        `gorm:"not null;default:0" json:"percentage"`
	Passed      bool       `gorm:"not null;default:false" json:"passed"`

	Answers []QuizAnswer `gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

type QuizAnswer struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AttemptID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_quiz_answers_attempt_question" json:"attempt_id"`
	QuestionID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_quiz_answers_attempt_question" json:"question_id"`
	Answer        datatypes.JSON `gorm:"type:jsonb" json:"answer,omitempty"`
	IsCorrect     bool           `gorm:"not null" json:"is_correct"`
	PointsAwarded int            `gorm:"not null;default:0" json:"points_awarded"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

package course

import (
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/access"
	"github.com/saulo-duarte/learnpath/internal/expiry"
	"gorm.io/datatypes"
)

type Course struct {
	ID             uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title          string       `gorm:"type:text;not null" json:"title"`
	Description    string       `gorm:"type:text" json:"description"`
	InstructorName string       `gorm:"type:text" json:"instructor_name"`
	Status         CourseStatus `gorm:"type:varchar(20);not null;default:DRAFT;index" json:"status"`
	CreditCost     int          `gorm:"not null;default:0;check:credit_cost >= 0" json:"credit_cost"`
	StartDate      *time.Time   `json:"start_date,omitempty"`
	EndDate        *time.Time   `json:"end_date,omitempty"`
	expiry.Policy
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Modules []Module `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"modules,omitempty"`
}

type Module struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CourseID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_modules_course_order" json:"course_id"`
	Title      string    `gorm:"type:text;not null" json:"title"`
	OrderIndex int       `gorm:"not null;uniqueIndex:idx_modules_course_order" json:"order_index"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	Lessons []Lesson    `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
	Quiz    *ModuleQuiz `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE" json:"quiz,omitempty"`
}

type Lesson struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ModuleID   uuid.UUID `gorm:"type:uuid;not null;index" json:"module_id"`
	Title      string    `gorm:"type:text;not null" json:"title"`
	OrderIndex int       `gorm:"not null" json:"order_index"`
	Duration   int       `gorm:"not null;default:0" json:"duration"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type ModuleQuiz struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ModuleID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"module_id"`
	Title            string    `gorm:"type:text" json:"title"`
	IsRequired       bool      `gorm:"not null;default:false" json:"is_required"`
	PassingScore     int       `gorm:"not null;default:70;check:passing_score BETWEEN 0 AND 100" json:"passing_score"`
	MaxAttempts      int       `gorm:"not null;default:0;check:max_attempts >= 0" json:"max_attempts"`
	ShuffleQuestions bool      `gorm:"not null;default:false" json:"shuffle_questions"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`

	Questions []QuizQuestion `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

// QuizQuestion keeps its type specific payload as JSON; see quiz.ParseQuestion.
type QuizQuestion struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuizID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Type       QuestionType   `gorm:"type:varchar(20);not null" json:"type"`
	Text       string         `gorm:"type:text;not null" json:"text"`
	Points     int            `gorm:"not null;default:1;check:points >= 1" json:"points"`
	Payload    datatypes.JSON `gorm:"type:jsonb;not null" json:"payload"`
	OrderIndex int            `gorm:"not null" json:"order_index"`
}

type CourseAccessRule struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	access.Rule
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

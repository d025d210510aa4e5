package enrollment

import (
	"time"

	"github.com/google/uuid"
)

type Enrollment struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_user_course" json:"user_id"`
	CourseID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollments_user_course;index" json:"course_id"`
	EnrolledAt   time.Time  `gorm:"not null" json:"enrolled_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	LastAccessAt *time.Time `json:"last_access_at,omitempty"`
}

// UserCredit holds the spendable balance of a user. A missing row is a zero balance.
type UserCredit struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Balance   int       `gorm:"not null;default:0;check:balance >= 0" json:"balance"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type CreditHistory struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	CourseID  *uuid.UUID `gorm:"type:uuid" json:"course_id,omitempty"`
	Amount    int        `gorm:"not null" json:"amount"`
	Reason    string     `gorm:"type:varchar(40);not null" json:"reason"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (CreditHistory) TableName() string {
	return "credit_history"
}

const ReasonEnrollment = "COURSE_ENROLLMENT"

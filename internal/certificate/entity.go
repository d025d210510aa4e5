package certificate

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Certificate is immutable once stored. Course fields are copied at
// issuance so later course edits do not change it.
type Certificate struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID            uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_certificates_user_course,where:deleted_at IS NULL" json:"user_id"`
	CourseID          uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_certificates_user_course,where:deleted_at IS NULL" json:"course_id"`
	CourseTitle       string         `gorm:"type:text;not null" json:"course_title"`
	CourseDescription string         `gorm:"type:text" json:"course_description"`
	InstructorName    string         `gorm:"type:text" json:"instructor_name"`
	IssuedAt          time.Time      `gorm:"not null" json:"issued_at"`
	CompletedAt       time.Time      `gorm:"not null" json:"completed_at"`
	ExpiresAt         *time.Time     `json:"expires_at,omitempty"`
	Snapshot          datatypes.JSON `gorm:"type:jsonb" json:"-"`
	Document          []byte         `gorm:"type:bytea;not null" json:"-"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// DocumentData is what the renderer receives for a course certificate.
type DocumentData struct {
	CertificateID     uuid.UUID  `json:"certificateId"`
	UserID            uuid.UUID  `json:"userId"`
	SiteTitle         string     `json:"siteTitle"`
	CourseTitle       string     `json:"courseTitle"`
	CourseDescription string     `json:"courseDescription"`
	InstructorName    string     `json:"instructorName"`
	IssuedAt          time.Time  `json:"issuedAt"`
	CompletedAt       time.Time  `json:"completedAt"`
	ExpiresAt         *time.Time `json:"expiresAt,omitempty"`
}

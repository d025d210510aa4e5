package certlevel

import (
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/access"
	"github.com/saulo-duarte/learnpath/internal/expiry"
	"gorm.io/datatypes"
)

type CertificationLevel struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string     `gorm:"type:text;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	OrderIndex  int        `gorm:"not null;default:0;index" json:"order_index"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	expiry.Policy
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Courses      []LevelCourse            `gorm:"foreignKey:LevelID;constraint:OnDelete:CASCADE" json:"-"`
	AccessRules  []LevelAccessRule        `gorm:"foreignKey:LevelID;constraint:OnDelete:CASCADE" json:"-"`
	Achievements []UserCertificationLevel `gorm:"foreignKey:LevelID;constraint:OnDelete:CASCADE" json:"-"`
}

func (l CertificationLevel) CourseIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(l.Courses))
	for _, c := range l.Courses {
		ids = append(ids, c.CourseID)
	}
	return ids
}

func (l CertificationLevel) Rules() []access.Rule {
	rules := make([]access.Rule, 0, len(l.AccessRules))
	for _, r := range l.AccessRules {
		rules = append(rules, r.Rule)
	}
	return rules
}

// LevelCourse marks a course as required by a level.
type LevelCourse struct {
	LevelID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"level_id"`
	CourseID uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"course_id"`
}

func (LevelCourse) TableName() string {
	return "certification_level_courses"
}

type LevelAccessRule struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LevelID uuid.UUID `gorm:"type:uuid;not null;index" json:"level_id"`
	access.Rule
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// UserCertificationLevel is an unlocked level. Immutable once stored.
type UserCertificationLevel struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID            uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_user_levels_user_level" json:"user_id"`
	LevelID           uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_user_levels_user_level;index" json:"level_id"`
	AchievedAt        time.Time      `gorm:"not null" json:"achieved_at"`
	ExpiresAt         *time.Time     `json:"expires_at,omitempty"`
	IsValid           bool           `gorm:"not null;default:true" json:"is_valid"`
	CertificateNumber string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_user_levels_number" json:"certificate_number"`
	Snapshot          datatypes.JSON `gorm:"type:jsonb" json:"-"`
	Document          []byte         `gorm:"type:bytea;not null" json:"-"`
}

// DocumentData is what the renderer receives for a level certificate.
type DocumentData struct {
	AchievementID     uuid.UUID  `json:"achievementId"`
	UserID            uuid.UUID  `json:"userId"`
	SiteTitle         string     `json:"siteTitle"`
	LevelName         string     `json:"levelName"`
	LevelDescription  string     `json:"levelDescription"`
	CertificateNumber string     `json:"certificateNumber"`
	CourseTitles      []string   `json:"courseTitles"`
	AchievedAt        time.Time  `json:"achievedAt"`
	ExpiresAt         *time.Time `json:"expiresAt,omitempty"`
}

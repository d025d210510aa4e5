package certlevel

import (
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/access"
	"github.com/saulo-duarte/learnpath/internal/certificate"
	"github.com/saulo-duarte/learnpath/internal/course"
	"github.com/saulo-duarte/learnpath/internal/expiry"
)

type RequiredCourse struct {
	CourseID      uuid.UUID  `json:"course_id"`
	Title         string     `json:"title"`
	Completed     bool       `json:"completed"`
	CertificateID *uuid.UUID `json:"certificate_id,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

type LevelView struct {
	Level               CertificationLevel `json:"level"`
	Available           bool               `json:"available"`
	RequiredCourses     []RequiredCourse   `json:"required_courses"`
	AllCoursesCompleted bool               `json:"all_courses_completed"`
	CanUnlock           bool               `json:"can_unlock"`
	// EarliestExpiring is the required course certificate that expires
	// first, nil when none of them expire.
	EarliestExpiring *RequiredCourse         `json:"earliest_expiring,omitempty"`
	UserLevel        *UserCertificationLevel `json:"user_level"`
}

type Input struct {
	Level        CertificationLevel
	Courses      map[uuid.UUID]course.Course
	Certificates map[uuid.UUID]certificate.Certificate
	Achievement  *UserCertificationLevel
	Principal    access.Principal
	Now          time.Time
}

// Evaluate applies access rules, the availability window and required
// course certificates to one level. visible is false when the caller may
// not see the level at all.
func Evaluate(in Input) (view LevelView, visible bool) {
	if !in.Level.IsActive || !access.Allowed(in.Level.Rules(), in.Principal) {
		return LevelView{}, false
	}

	view = LevelView{
		Level:           in.Level,
		Available:       access.InWindow(in.Level.StartDate, in.Level.EndDate, in.Now),
		RequiredCourses: make([]RequiredCourse, 0, len(in.Level.Courses)),
	}

	all := len(in.Level.Courses) > 0
	for _, lc := range in.Level.Courses {
		rc := RequiredCourse{CourseID: lc.CourseID, Title: in.Courses[lc.CourseID].Title}
		if cert, ok := in.Certificates[lc.CourseID]; ok {
			id := cert.ID
			rc.CertificateID = &id
			rc.ExpiresAt = cert.ExpiresAt
			rc.Completed = expiry.Valid(cert.ExpiresAt, in.Now)
		}
		if !rc.Completed {
			all = false
		}
		view.RequiredCourses = append(view.RequiredCourses, rc)
	}

	for i := range view.RequiredCourses {
		rc := &view.RequiredCourses[i]
		if !rc.Completed || rc.ExpiresAt == nil {
			continue
		}
		if view.EarliestExpiring == nil || rc.ExpiresAt.Before(*view.EarliestExpiring.ExpiresAt) {
			view.EarliestExpiring = rc
		}
	}

	if in.Achievement != nil {
		ul := *in.Achievement
		ul.IsValid = ul.IsValid && expiry.Valid(ul.ExpiresAt, in.Now)
		view.UserLevel = &ul
	}

	view.AllCoursesCompleted = all
	view.CanUnlock = view.Available && all && in.Achievement == nil
	return view, true
}

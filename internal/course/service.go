package course

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/access"
	"github.com/saulo-duarte/learnpath/internal/config"
)

// Visible reports whether a course is listed and enrollable for p at now.
func Visible(c Course, rules []access.Rule, p access.Principal, now time.Time) bool {
	if c.Status != StatusApproved {
		return false
	}
	if !access.InWindow(c.StartDate, c.EndDate, now) {
		return false
	}
	return access.Allowed(rules, p)
}

type CourseService interface {
	ListVisible(ctx context.Context, p access.Principal) ([]Course, error)
	// CheckVisible returns the course or ErrCourseNotFound when p cannot see it.
	CheckVisible(ctx context.Context, courseID uuid.UUID, p access.Principal) (*Course, error)
}

type courseService struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) CourseService {
	return &courseService{repo: repo, now: time.Now}
}

func (s *courseService) ListVisible(ctx context.Context, p access.Principal) ([]Course, error) {
	log := config.WithContext(ctx)

	courses, err := s.repo.ListCoursesByStatus(ctx, StatusApproved)
	if err != nil {
		log.WithError(err).Error("Failed to list approved courses")
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	rules, err := s.repo.ListAccessRules(ctx, ids)
	if err != nil {
		log.WithError(err).Error("Failed to load course access rules")
		return nil, err
	}

	now := s.now()
	visible := make([]Course, 0, len(courses))
	for _, c := range courses {
		if Visible(c, rules[c.ID], p, now) {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

func (s *courseService) CheckVisible(ctx context.Context, courseID uuid.UUID, p access.Principal) (*Course, error) {
	c, err := s.repo.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	rules, err := s.repo.ListAccessRules(ctx, []uuid.UUID{courseID})
	if err != nil {
		return nil, err
	}
	if !Visible(*c, rules[courseID], p, s.now()) {
		config.WithContext(ctx).WithField("course_id", courseID).Warn("Course not visible to caller")
		return nil, ErrCourseNotFound
	}
	return c, nil
}

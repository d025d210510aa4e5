package enrollment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/access"
	"github.com/saulo-duarte/learnpath/internal/config"
	"github.com/saulo-duarte/learnpath/internal/course"
	"github.com/sirupsen/logrus"
)

// CourseGate resolves a course the caller is allowed to see.
type CourseGate interface {
	CheckVisible(ctx context.Context, courseID uuid.UUID, p access.Principal) (*course.Course, error)
}

type EnrollmentService interface {
	Enroll(ctx context.Context, p access.Principal, courseID uuid.UUID) (*Enrollment, error)
	// Require returns the caller's enrollment or ErrNotEnrolled.
	Require(ctx context.Context, userID, courseID uuid.UUID) (*Enrollment, error)
	MarkCompleted(ctx context.Context, userID, courseID uuid.UUID) error
	Touch(ctx context.Context, userID, courseID uuid.UUID) error
}

type enrollmentService struct {
	repo    Repository
	courses CourseGate
	now     func() time.Time
}

func NewService(repo Repository, courses CourseGate) EnrollmentService {
	return &enrollmentService{repo: repo, courses: courses, now: time.Now}
}

func (s *enrollmentService) Enroll(ctx context.Context, p access.Principal, courseID uuid.UUID) (*Enrollment, error) {
	log := config.WithContext(ctx).WithFields(logrus.Fields{
		"course_id": courseID,
	})

	c, err := s.courses.CheckVisible(ctx, courseID, p)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.Get(ctx, p.UserID, courseID); err == nil {
		return nil, ErrAlreadyEnrolled
	} else if !errors.Is(err, ErrNotEnrolled) {
		log.WithError(err).Error("Failed to look up enrollment")
		return nil, err
	}

	if c.CreditCost > 0 {
		balance, err := s.repo.Balance(ctx, p.UserID)
		if err != nil {
			log.WithError(err).Error("Failed to read credit balance")
			return nil, err
		}
		if balance < c.CreditCost {
			log.WithFields(logrus.Fields{"balance": balance, "cost": c.CreditCost}).Warn("Enrollment rejected for insufficient credits")
			return nil, ErrInsufficientCredits
		}
	}

	e := &Enrollment{
		ID:         uuid.New(),
		UserID:     p.UserID,
		CourseID:   courseID,
		EnrolledAt: s.now(),
	}
	if err := s.repo.EnrollWithDebit(ctx, e, c.CreditCost); err != nil {
		if errors.Is(err, ErrAlreadyEnrolled) || errors.Is(err, ErrInsufficientCredits) {
			log.WithError(err).Warn("Enrollment lost a concurrent race")
			return nil, err
		}
		log.WithError(err).Error("Failed to enroll")
		return nil, err
	}

	log.WithField("cost", c.CreditCost).Info("User enrolled")
	return e, nil
}

func (s *enrollmentService) Require(ctx context.Context, userID, courseID uuid.UUID) (*Enrollment, error) {
	return s.repo.Get(ctx, userID, courseID)
}

func (s *enrollmentService) MarkCompleted(ctx context.Context, userID, courseID uuid.UUID) error {
	set, err := s.repo.MarkCompleted(ctx, userID, courseID, s.now())
	if err != nil {
		return err
	}
	if set {
		config.WithContext(ctx).WithField("course_id", courseID).Info("Enrollment completed")
	}
	return nil
}

func (s *enrollmentService) Touch(ctx context.Context, userID, courseID uuid.UUID) error {
	return s.repo.Touch(ctx, userID, courseID, s.now())
}

package certificate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/apperr"
	"github.com/saulo-duarte/learnpath/internal/auth"
	"github.com/saulo-duarte/learnpath/internal/config"
	"github.com/saulo-duarte/learnpath/internal/course"
	"github.com/saulo-duarte/learnpath/internal/render"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

var (
	ErrCourseNotComplete = apperr.New(apperr.PreconditionFailed, "course is not complete")
	ErrNotOwner          = apperr.New(apperr.Forbidden, "certificate belongs to another user")
)

type CompletionChecker interface {
	IsCourseComplete(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
}

type Options struct {
	SiteTitle string
}

type CertificateService interface {
	// IssueIfAbsent returns the existing certificate or issues a new one
	// after re-checking completion. It is safe to call concurrently.
	IssueIfAbsent(ctx context.Context, userID, courseID uuid.UUID) (*Certificate, error)
	List(ctx context.Context, userID uuid.UUID) ([]Certificate, error)
	Download(ctx context.Context, certificateID uuid.UUID, requester auth.Identity) (*Certificate, error)
}

type certificateService struct {
	repo     Repository
	content  course.Repository
	checker  CompletionChecker
	renderer render.Renderer
	opts     Options
	now      func() time.Time
}

func NewService(repo Repository, content course.Repository, checker CompletionChecker, renderer render.Renderer, opts Options) CertificateService {
	return &certificateService{
		repo:     repo,
		content:  content,
		checker:  checker,
		renderer: renderer,
		opts:     opts,
		now:      time.Now,
	}
}

func (s *certificateService) IssueIfAbsent(ctx context.Context, userID, courseID uuid.UUID) (*Certificate, error) {
	log := config.WithContext(ctx).WithField("course_id", courseID)

	existing, err := s.repo.GetActive(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	complete, err := s.checker.IsCourseComplete(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !complete {
		log.Warn("Certificate requested for incomplete course")
		return nil, ErrCourseNotComplete
	}

	c, err := s.content.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	issuedAt := s.now()
	expiresAt, err := c.Policy.ExpiresAt(issuedAt)
	if err != nil {
		return nil, fmt.Errorf("course %s expiry policy: %w", courseID, err)
	}

	cert := &Certificate{
		ID:                uuid.New(),
		UserID:            userID,
		CourseID:          courseID,
		CourseTitle:       c.Title,
		CourseDescription: c.Description,
		InstructorName:    c.InstructorName,
		IssuedAt:          issuedAt,
		CompletedAt:       issuedAt,
		ExpiresAt:         expiresAt,
	}
	data := DocumentData{
		CertificateID:     cert.ID,
		UserID:            userID,
		SiteTitle:         s.opts.SiteTitle,
		CourseTitle:       cert.CourseTitle,
		CourseDescription: cert.CourseDescription,
		InstructorName:    cert.InstructorName,
		IssuedAt:          cert.IssuedAt,
		CompletedAt:       cert.CompletedAt,
		ExpiresAt:         cert.ExpiresAt,
	}

	doc, err := s.renderer.Render(ctx, render.CourseCertificate, data)
	if err != nil {
		if !apperr.Is(err, apperr.DependencyFailure) {
			err = apperr.Wrap(apperr.DependencyFailure, render.ErrUnavailable.Message, err)
		}
		return nil, err
	}
	snapshot, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	cert.Document = doc
	cert.Snapshot = datatypes.JSON(snapshot)

	stored, created, err := s.repo.CreateIfAbsent(ctx, cert)
	if err != nil {
		log.WithError(err).Error("Failed to store certificate")
		return nil, err
	}
	if created {
		log.WithFields(logrus.Fields{
			"certificate_id": stored.ID,
			"expires_at":     stored.ExpiresAt,
		}).Info("Certificate issued")
	}
	return stored, nil
}

func (s *certificateService) List(ctx context.Context, userID uuid.UUID) ([]Certificate, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *certificateService) Download(ctx context.Context, certificateID uuid.UUID, requester auth.Identity) (*Certificate, error) {
	cert, err := s.repo.GetWithDocument(ctx, certificateID)
	if err != nil {
		return nil, err
	}
	if cert.UserID != requester.UserID && !requester.IsElevated() {
		config.WithContext(ctx).WithField("certificate_id", certificateID).Warn("Certificate download refused")
		return nil, ErrNotOwner
	}
	return cert, nil
}

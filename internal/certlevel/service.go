package certlevel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/access"
	"github.com/saulo-duarte/learnpath/internal/apperr"
	"github.com/saulo-duarte/learnpath/internal/auth"
	"github.com/saulo-duarte/learnpath/internal/certificate"
	"github.com/saulo-duarte/learnpath/internal/config"
	"github.com/saulo-duarte/learnpath/internal/course"
	"github.com/saulo-duarte/learnpath/internal/render"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

var (
	ErrAccessDenied        = apperr.New(apperr.Forbidden, "certification level is not available to this user")
	ErrOutsideWindow       = apperr.New(apperr.PreconditionFailed, "certification level is outside its availability window")
	ErrCoursesIncomplete   = apperr.New(apperr.PreconditionFailed, "required courses are not completed")
	ErrNotAchievementOwner = apperr.New(apperr.Forbidden, "certificate belongs to another user")
	ErrInvalidRule         = apperr.New(apperr.ValidationFailed, "invalid access rule")
)

const maxNumberAttempts = 5

// CertificateLookup reads the course certificates a level depends on.
type CertificateLookup interface {
	ListByUserAndCourses(ctx context.Context, userID uuid.UUID, courseIDs []uuid.UUID) ([]certificate.Certificate, error)
}

type Options struct {
	Numbers   NumberSettings
	SiteTitle string
}

type LevelService interface {
	ListForUser(ctx context.Context, id auth.Identity) ([]LevelView, error)
	Unlock(ctx context.Context, id auth.Identity, levelID uuid.UUID) (*UserCertificationLevel, error)
	DownloadAchievement(ctx context.Context, achievementID uuid.UUID, requester auth.Identity) (*UserCertificationLevel, error)
	AddAccessRule(ctx context.Context, levelID uuid.UUID, rule access.Rule) (*LevelAccessRule, error)
	DeleteLevel(ctx context.Context, levelID uuid.UUID) error
}

type levelService struct {
	repo         Repository
	content      course.Repository
	certificates CertificateLookup
	renderer     render.Renderer
	opts         Options
	now          func() time.Time
}

func NewService(repo Repository, content course.Repository, certificates CertificateLookup, renderer render.Renderer, opts Options) LevelService {
	return &levelService{
		repo:         repo,
		content:      content,
		certificates: certificates,
		renderer:     renderer,
		opts:         opts,
		now:          time.Now,
	}
}

func (s *levelService) ListForUser(ctx context.Context, id auth.Identity) ([]LevelView, error) {
	levels, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	var courseIDs []uuid.UUID
	seen := make(map[uuid.UUID]bool)
	for _, l := range levels {
		for _, cid := range l.CourseIDs() {
			if !seen[cid] {
				seen[cid] = true
				courseIDs = append(courseIDs, cid)
			}
		}
	}

	courses, certs, err := s.loadCourses(ctx, id.UserID, courseIDs)
	if err != nil {
		return nil, err
	}

	achievements, err := s.repo.ListAchievements(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	byLevel := make(map[uuid.UUID]*UserCertificationLevel, len(achievements))
	for i := range achievements {
		byLevel[achievements[i].LevelID] = &achievements[i]
	}

	now := s.now()
	views := make([]LevelView, 0, len(levels))
	for _, l := range levels {
		view, visible := Evaluate(Input{
			Level:        l,
			Courses:      courses,
			Certificates: certs,
			Achievement:  byLevel[l.ID],
			Principal:    id.Principal(),
			Now:          now,
		})
		if visible {
			views = append(views, view)
		}
	}
	return views, nil
}

func (s *levelService) loadCourses(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]course.Course, map[uuid.UUID]certificate.Certificate, error) {
	courses := make(map[uuid.UUID]course.Course, len(ids))
	certs := make(map[uuid.UUID]certificate.Certificate, len(ids))
	if len(ids) == 0 {
		return courses, certs, nil
	}

	list, err := s.content.ListCourses(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	for _, c := range list {
		courses[c.ID] = c
	}

	issued, err := s.certificates.ListByUserAndCourses(ctx, userID, ids)
	if err != nil {
		return nil, nil, err
	}
	for _, c := range issued {
		certs[c.CourseID] = c
	}
	return courses, certs, nil
}

func (s *levelService) Unlock(ctx context.Context, id auth.Identity, levelID uuid.UUID) (*UserCertificationLevel, error) {
	log := config.WithContext(ctx).WithField("level_id", levelID)

	level, err := s.repo.Get(ctx, levelID)
	if err != nil {
		return nil, err
	}
	if !level.IsActive {
		return nil, ErrLevelNotFound
	}

	achievement, err := s.repo.GetAchievement(ctx, id.UserID, levelID)
	if err != nil {
		return nil, err
	}
	courses, certs, err := s.loadCourses(ctx, id.UserID, level.CourseIDs())
	if err != nil {
		return nil, err
	}

	now := s.now()
	view, visible := Evaluate(Input{
		Level:        *level,
		Courses:      courses,
		Certificates: certs,
		Achievement:  achievement,
		Principal:    id.Principal(),
		Now:          now,
	})
	switch {
	case !visible:
		log.Warn("Level unlock refused by access rules")
		return nil, ErrAccessDenied
	case !view.Available:
		log.Warn("Level unlock outside availability window")
		return nil, ErrOutsideWindow
	case achievement != nil:
		return nil, ErrAlreadyUnlocked
	case !view.AllCoursesCompleted:
		log.Warn("Level unlock with incomplete courses")
		return nil, ErrCoursesIncomplete
	}

	expiresAt, err := level.Policy.ExpiresAt(now)
	if err != nil {
		return nil, fmt.Errorf("level %s expiry policy: %w", levelID, err)
	}

	titles := make([]string, 0, len(view.RequiredCourses))
	for _, rc := range view.RequiredCourses {
		titles = append(titles, rc.Title)
	}

	stem := numberStem(s.opts.Numbers.Prefix, now.Year())
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		highest, err := s.repo.HighestNumber(ctx, stem)
		if err != nil {
			return nil, err
		}

		ul := &UserCertificationLevel{
			ID:                uuid.New(),
			UserID:            id.UserID,
			LevelID:           levelID,
			AchievedAt:        now,
			ExpiresAt:         expiresAt,
			IsValid:           true,
			CertificateNumber: NextNumber(s.opts.Numbers, now.Year(), highest),
		}
		if err := s.attachDocument(ctx, ul, level, titles); err != nil {
			return nil, err
		}

		err = s.repo.CreateAchievement(ctx, ul)
		if errors.Is(err, errNumberTaken) {
			log.WithField("attempt", attempt).Warn("Certificate number taken, retrying")
			continue
		}
		if err != nil {
			if !errors.Is(err, ErrAlreadyUnlocked) {
				log.WithError(err).Error("Failed to store level achievement")
			}
			return nil, err
		}

		log.WithFields(logrus.Fields{
			"achievement_id":     ul.ID,
			"certificate_number": ul.CertificateNumber,
			"expires_at":         ul.ExpiresAt,
		}).Info("Certification level unlocked")
		return ul, nil
	}

	log.Error("Could not allocate a certificate number")
	return nil, fmt.Errorf("allocating certificate number for %s: %w", stem, errNumberTaken)
}

func (s *levelService) attachDocument(ctx context.Context, ul *UserCertificationLevel, level *CertificationLevel, titles []string) error {
	data := DocumentData{
		AchievementID:     ul.ID,
		UserID:            ul.UserID,
		SiteTitle:         s.opts.SiteTitle,
		LevelName:         level.Name,
		LevelDescription:  level.Description,
		CertificateNumber: ul.CertificateNumber,
		CourseTitles:      titles,
		AchievedAt:        ul.AchievedAt,
		ExpiresAt:         ul.ExpiresAt,
	}

	doc, err := s.renderer.Render(ctx, render.LevelCertificate, data)
	if err != nil {
		if !apperr.Is(err, apperr.DependencyFailure) {
			err = apperr.Wrap(apperr.DependencyFailure, render.ErrUnavailable.Message, err)
		}
		return err
	}
	snapshot, err := json.Marshal(data)
	if err != nil {
		return err
	}
	ul.Document = doc
	ul.Snapshot = datatypes.JSON(snapshot)
	return nil
}

func (s *levelService) DownloadAchievement(ctx context.Context, achievementID uuid.UUID, requester auth.Identity) (*UserCertificationLevel, error) {
	ul, err := s.repo.GetAchievementWithDocument(ctx, achievementID)
	if err != nil {
		return nil, err
	}
	if ul.UserID != requester.UserID && !requester.IsElevated() {
		config.WithContext(ctx).WithField("achievement_id", achievementID).Warn("Level certificate download refused")
		return nil, ErrNotAchievementOwner
	}
	return ul, nil
}

func (s *levelService) AddAccessRule(ctx context.Context, levelID uuid.UUID, rule access.Rule) (*LevelAccessRule, error) {
	if err := rule.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.ValidationFailed, ErrInvalidRule.Message, err)
	}
	if _, err := s.repo.Get(ctx, levelID); err != nil {
		return nil, err
	}

	lr := &LevelAccessRule{ID: uuid.New(), LevelID: levelID, Rule: rule}
	if err := s.repo.AddAccessRule(ctx, lr); err != nil {
		return nil, err
	}

	config.WithContext(ctx).WithFields(logrus.Fields{
		"level_id":  levelID,
		"rule_type": rule.Type,
	}).Info("Level access rule added")
	return lr, nil
}

func (s *levelService) DeleteLevel(ctx context.Context, levelID uuid.UUID) error {
	log := config.WithContext(ctx).WithField("level_id", levelID)

	n, err := s.repo.CountAchievements(ctx, levelID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, levelID); err != nil {
		return err
	}

	if n > 0 {
		log.WithField("achievements", n).Warn("Deleted certification level with existing achievements")
	} else {
		log.Info("Certification level deleted")
	}
	return nil
}

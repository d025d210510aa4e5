package progress

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/apperr"
	"github.com/saulo-duarte/learnpath/internal/certificate"
	"github.com/saulo-duarte/learnpath/internal/config"
	"github.com/saulo-duarte/learnpath/internal/course"
	"github.com/saulo-duarte/learnpath/internal/enrollment"
	"github.com/sirupsen/logrus"
)

var ErrNegativeTimeSpent = apperr.New(apperr.ValidationFailed, "time spent delta must not be negative")

type EnrollmentGate interface {
	Require(ctx context.Context, userID, courseID uuid.UUID) (*enrollment.Enrollment, error)
	MarkCompleted(ctx context.Context, userID, courseID uuid.UUID) error
	Touch(ctx context.Context, userID, courseID uuid.UUID) error
}

type AttemptCounter interface {
	CountCompleted(ctx context.Context, userID, quizID uuid.UUID) (int, error)
}

type Issuer interface {
	IssueIfAbsent(ctx context.Context, userID, courseID uuid.UUID) (*certificate.Certificate, error)
}

type Options struct {
	FailOnExhaustedAttempts bool
}

type ProgressService interface {
	SubmitLessonProgress(ctx context.Context, userID, lessonID uuid.UUID, completed bool, timeSpentDelta int) (*LessonProgressResult, error)
	QuizCompleted(ctx context.Context, userID uuid.UUID, qz *course.ModuleQuiz, passed bool) (bool, error)
	Summary(ctx context.Context, userID, courseID uuid.UUID) (*CourseSummary, error)
	Reset(ctx context.Context, userID, courseID uuid.UUID) error
}

type progressService struct {
	repo        Repository
	content     course.Repository
	enrollments EnrollmentGate
	attempts    AttemptCounter
	checker     *CompletionChecker
	issuer      Issuer
	opts        Options
	now         func() time.Time
}

func NewService(
	repo Repository,
	content course.Repository,
	enrollments EnrollmentGate,
	attempts AttemptCounter,
	issuer Issuer,
	opts Options,
) ProgressService {
	return &progressService{
		repo:        repo,
		content:     content,
		enrollments: enrollments,
		attempts:    attempts,
		checker:     NewCompletionChecker(repo, content),
		issuer:      issuer,
		opts:        opts,
		now:         time.Now,
	}
}

func (s *progressService) SubmitLessonProgress(ctx context.Context, userID, lessonID uuid.UUID, completed bool, timeSpentDelta int) (*LessonProgressResult, error) {
	log := config.WithContext(ctx).WithField("lesson_id", lessonID)

	if timeSpentDelta < 0 {
		return nil, ErrNegativeTimeSpent
	}

	lesson, err := s.content.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	module, err := s.content.GetModule(ctx, lesson.ModuleID)
	if err != nil {
		return nil, err
	}
	if _, err := s.enrollments.Require(ctx, userID, module.CourseID); err != nil {
		log.WithError(err).Warn("Lesson progress refused")
		return nil, err
	}

	lp, err := s.repo.UpsertLesson(ctx, userID, lessonID, completed, timeSpentDelta, s.now())
	if err != nil {
		log.WithError(err).Error("Failed to store lesson progress")
		return nil, err
	}

	if err := s.enrollments.Touch(ctx, userID, module.CourseID); err != nil {
		log.WithError(err).Error("Failed to update last access")
	}

	mp, err := s.recomputeModule(ctx, userID, module, nil)
	if err != nil {
		log.WithError(err).Error("Failed to recompute module progress")
		return nil, err
	}

	return &LessonProgressResult{
		Progress:        lp,
		ModuleStatus:    mp.Status,
		CourseCompleted: s.completeCourse(ctx, userID, module.CourseID),
	}, nil
}

func (s *progressService) QuizCompleted(ctx context.Context, userID uuid.UUID, qz *course.ModuleQuiz, passed bool) (bool, error) {
	module, err := s.content.GetModule(ctx, qz.ModuleID)
	if err != nil {
		return false, err
	}
	if _, err := s.recomputeModule(ctx, userID, module, &passed); err != nil {
		return false, err
	}
	if !passed {
		return false, nil
	}
	return s.completeCourse(ctx, userID, module.CourseID), nil
}

// recomputeModule derives the module status from stored facts and saves it.
// quizOutcome is set when the call follows a graded attempt.
func (s *progressService) recomputeModule(ctx context.Context, userID uuid.UUID, module *course.Module, quizOutcome *bool) (*ModuleProgress, error) {
	lessons, err := s.content.ListLessonsByModule(ctx, module.ID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(lessons))
	for _, l := range lessons {
		ids = append(ids, l.ID)
	}

	rows, err := s.repo.ListLessonProgress(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	done := 0
	for _, row := range rows {
		if row.Completed {
			done++
		}
	}

	current, err := s.repo.GetModuleProgress(ctx, userID, module.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		current = &ModuleProgress{UserID: userID, ModuleID: module.ID, Status: StatusNotStarted}
	}

	quizPassed := current.QuizPassed
	if quizOutcome != nil {
		quizPassed = MergeQuizOutcome(quizPassed, *quizOutcome)
	}

	facts := ModuleFacts{
		LessonsTotal:     len(lessons),
		LessonsCompleted: done,
		HasActivity:      len(rows) > 0 || quizPassed != nil,
		QuizPassed:       quizPassed,
		FailOnExhausted:  s.opts.FailOnExhaustedAttempts,
	}

	qz, err := s.content.GetQuizByModule(ctx, module.ID)
	if err != nil {
		return nil, err
	}
	if qz != nil && qz.IsRequired {
		facts.RequiredQuiz = true
		if qz.MaxAttempts > 0 && (quizPassed == nil || !*quizPassed) {
			used, err := s.attempts.CountCompleted(ctx, userID, qz.ID)
			if err != nil {
				return nil, err
			}
			facts.AttemptsExhausted = used >= qz.MaxAttempts
		}
	}

	status := ResolveStatus(current.Status, facts)
	next := &ModuleProgress{
		UserID:      userID,
		ModuleID:    module.ID,
		Status:      status,
		QuizPassed:  quizPassed,
		CompletedAt: current.CompletedAt,
		UpdatedAt:   s.now(),
	}
	if status == StatusCompleted && next.CompletedAt == nil {
		at := s.now()
		next.CompletedAt = &at
	}

	saved, err := s.repo.SaveModuleProgress(ctx, next)
	if err != nil {
		return nil, err
	}

	if saved.Status != current.Status {
		config.WithContext(ctx).WithFields(logrus.Fields{
			"module_id": module.ID,
			"from":      current.Status,
			"to":        saved.Status,
		}).Info("Module status changed")
	}
	return saved, nil
}

// completeCourse issues the certificate and closes the enrollment once every
// lesson is done. Failures are logged and reported as not completed.
func (s *progressService) completeCourse(ctx context.Context, userID, courseID uuid.UUID) bool {
	log := config.WithContext(ctx).WithField("course_id", courseID)

	complete, err := s.checker.IsCourseComplete(ctx, userID, courseID)
	if err != nil {
		log.WithError(err).Error("Failed to check course completion")
		return false
	}
	if !complete {
		return false
	}

	if _, err := s.issuer.IssueIfAbsent(ctx, userID, courseID); err != nil {
		log.WithError(err).Error("Certificate issuance failed")
		return false
	}

	if err := s.enrollments.MarkCompleted(ctx, userID, courseID); err != nil {
		log.WithError(err).Error("Failed to mark enrollment completed")
	}
	return true
}

func (s *progressService) Summary(ctx context.Context, userID, courseID uuid.UUID) (*CourseSummary, error) {
	e, err := s.enrollments.Require(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	modules, err := s.content.ListModules(ctx, courseID)
	if err != nil {
		return nil, err
	}

	moduleIDs := make([]uuid.UUID, 0, len(modules))
	lessonsByModule := make(map[uuid.UUID][]uuid.UUID, len(modules))
	var lessonIDs []uuid.UUID
	for _, m := range modules {
		moduleIDs = append(moduleIDs, m.ID)
		lessons, err := s.content.ListLessonsByModule(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		for _, l := range lessons {
			lessonsByModule[m.ID] = append(lessonsByModule[m.ID], l.ID)
			lessonIDs = append(lessonIDs, l.ID)
		}
	}

	lessonRows, err := s.repo.ListLessonProgress(ctx, userID, lessonIDs)
	if err != nil {
		return nil, err
	}
	moduleRows, err := s.repo.ListModuleProgress(ctx, userID, moduleIDs)
	if err != nil {
		return nil, err
	}

	completed := make(map[uuid.UUID]bool, len(lessonRows))
	out := &CourseSummary{
		CourseID:     courseID,
		TotalLessons: len(lessonIDs),
		EnrolledAt:   e.EnrolledAt,
		CompletedAt:  e.CompletedAt,
		LastAccessAt: e.LastAccessAt,
		Modules:      make([]ModuleSummary, 0, len(modules)),
	}
	for _, row := range lessonRows {
		out.TimeSpent += row.TimeSpent
		if row.Completed {
			completed[row.LessonID] = true
			out.CompletedLessons++
		}
	}
	if out.TotalLessons > 0 {
		out.Percentage = out.CompletedLessons * 100 / out.TotalLessons
	}

	byModule := make(map[uuid.UUID]ModuleProgress, len(moduleRows))
	for _, row := range moduleRows {
		byModule[row.ModuleID] = row
	}
	for _, m := range modules {
		ms := ModuleSummary{
			ModuleID:     m.ID,
			Title:        m.Title,
			Status:       StatusNotStarted,
			TotalLessons: len(lessonsByModule[m.ID]),
		}
		if row, ok := byModule[m.ID]; ok {
			ms.Status = row.Status
			ms.QuizPassed = row.QuizPassed
			ms.CompletedAt = row.CompletedAt
		}
		for _, id := range lessonsByModule[m.ID] {
			if completed[id] {
				ms.CompletedLessons++
			}
		}
		out.Modules = append(out.Modules, ms)
	}
	return out, nil
}

func (s *progressService) Reset(ctx context.Context, userID, courseID uuid.UUID) error {
	log := config.WithContext(ctx).WithField("course_id", courseID)

	e, err := s.enrollments.Require(ctx, userID, courseID)
	if err != nil {
		return err
	}
	if e.CompletedAt != nil {
		log.Warn("Reset refused for completed course")
		return ErrCourseAlreadyCompleted
	}

	scope := CourseScope{CourseID: courseID}
	modules, err := s.content.ListModules(ctx, courseID)
	if err != nil {
		return err
	}
	for _, m := range modules {
		scope.ModuleIDs = append(scope.ModuleIDs, m.ID)

		lessons, err := s.content.ListLessonsByModule(ctx, m.ID)
		if err != nil {
			return err
		}
		for _, l := range lessons {
			scope.LessonIDs = append(scope.LessonIDs, l.ID)
		}

		qz, err := s.content.GetQuizByModule(ctx, m.ID)
		if err != nil {
			return err
		}
		if qz != nil {
			scope.QuizIDs = append(scope.QuizIDs, qz.ID)
		}
	}

	if err := s.repo.ResetCourse(ctx, userID, scope); err != nil {
		if apperr.Is(err, apperr.PreconditionFailed) {
			log.Warn("Reset raced with course completion")
		} else {
			log.WithError(err).Error("Failed to reset course progress")
		}
		return err
	}

	log.Info("Course progress reset")
	return nil
}

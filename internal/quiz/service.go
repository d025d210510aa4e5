package quiz

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/apperr"
	"github.com/saulo-duarte/learnpath/internal/config"
	"github.com/saulo-duarte/learnpath/internal/course"
	"github.com/saulo-duarte/learnpath/internal/enrollment"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

var (
	ErrAttemptCompleted  = apperr.New(apperr.PreconditionFailed, "quiz attempt is already completed")
	ErrAttemptsExhausted = apperr.New(apperr.PreconditionFailed, "no attempts left for this quiz")
	ErrNotAttemptOwner   = apperr.New(apperr.Forbidden, "quiz attempt belongs to another user")
)

// OutcomeListener is told about every graded attempt so module and
// course progress can follow it.
type OutcomeListener interface {
	QuizCompleted(ctx context.Context, userID uuid.UUID, quiz *course.ModuleQuiz, passed bool) (courseCompleted bool, err error)
}

type EnrollmentGate interface {
	Require(ctx context.Context, userID, courseID uuid.UUID) (*enrollment.Enrollment, error)
}

type QuizService interface {
	StartOrResume(ctx context.Context, userID, quizID uuid.UUID) (*AttemptView, error)
	Submit(ctx context.Context, userID, attemptID uuid.UUID, answers []SubmittedAnswer) (*SubmitView, error)
}

type quizService struct {
	repo        QuizRepository
	content     course.Repository
	enrollments EnrollmentGate
	listener    OutcomeListener
	now         func() time.Time
}

func NewService(repo QuizRepository, content course.Repository, enrollments EnrollmentGate, listener OutcomeListener) QuizService {
	return &quizService{
		repo:        repo,
		content:     content,
		enrollments: enrollments,
		listener:    listener,
		now:         time.Now,
	}
}

func (s *quizService) loadQuestions(ctx context.Context, quizID uuid.UUID) ([]Question, error) {
	stored, err := s.content.ListQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return ParseQuestions(stored)
}

func remaining(maxAttempts, completed int) *int {
	if maxAttempts == 0 {
		return nil
	}
	left := maxAttempts - completed
	if left < 0 {
		left = 0
	}
	return &left
}

func (s *quizService) StartOrResume(ctx context.Context, userID, quizID uuid.UUID) (*AttemptView, error) {
	log := config.WithContext(ctx).WithField("quiz_id", quizID)

	qz, err := s.content.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	module, err := s.content.GetModule(ctx, qz.ModuleID)
	if err != nil {
		return nil, err
	}
	if _, err := s.enrollments.Require(ctx, userID, module.CourseID); err != nil {
		log.WithError(err).Warn("Quiz attempt refused")
		return nil, err
	}

	questions, err := s.loadQuestions(ctx, quizID)
	if err != nil {
		log.WithError(err).Error("Failed to load quiz questions")
		return nil, err
	}

	// The open attempt is read before the completed count so a submit
	// landing in between is counted rather than missed.
	attempt, err := s.repo.GetInProgress(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}

	completed, err := s.repo.CountCompleted(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}

	created := false
	if attempt == nil {
		if qz.MaxAttempts > 0 && completed >= qz.MaxAttempts {
			log.WithField("completed", completed).Warn("Quiz attempts exhausted")
			return nil, ErrAttemptsExhausted
		}

		attempt, created, err = s.repo.CreateIfAbsent(ctx, &QuizAttempt{
			ID:        uuid.New(),
			UserID:    userID,
			QuizID:    quizID,
			StartedAt: s.now(),
		})
		if err != nil {
			log.WithError(err).Error("Failed to create quiz attempt")
			return nil, err
		}
	}

	if created {
		log.WithField("attempt_id", attempt.ID).Info("Quiz attempt started")
	}

	return &AttemptView{
		AttemptID:         attempt.ID,
		QuizID:            quizID,
		StartedAt:         attempt.StartedAt,
		Resumed:           !created,
		Questions:         Present(questions, attempt.ID, qz.ShuffleQuestions),
		RemainingAttempts: remaining(qz.MaxAttempts, completed),
	}, nil
}

func (s *quizService) Submit(ctx context.Context, userID, attemptID uuid.UUID, answers []SubmittedAnswer) (*SubmitView, error) {
	log := config.WithContext(ctx).WithField("attempt_id", attemptID)

	attempt, err := s.repo.GetAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		log.Warn("Submission by non-owner rejected")
		return nil, ErrNotAttemptOwner
	}
	if attempt.CompletedAt != nil {
		return nil, ErrAttemptCompleted
	}

	qz, err := s.content.GetQuiz(ctx, attempt.QuizID)
	if err != nil {
		return nil, err
	}
	questions, err := s.loadQuestions(ctx, qz.ID)
	if err != nil {
		log.WithError(err).Error("Failed to load quiz questions")
		return nil, err
	}

	result, err := Grade(questions, answers, qz.PassingScore)
	if err != nil {
		log.WithError(err).Warn("Rejected quiz submission")
		return nil, err
	}

	completedAt := s.now()
	attempt.CompletedAt = &completedAt
	attempt.Score = result.Score
	attempt.MaxScore = result.MaxScore
	attempt.Percentage = result.Percentage
	attempt.Passed = result.Passed

	rows := make([]QuizAnswer, 0, len(result.Breakdown))
	for _, g := range result.Breakdown {
		row := QuizAnswer{
			ID:            uuid.New(),
			AttemptID:     attempt.ID,
			QuestionID:    g.QuestionID,
			IsCorrect:     g.IsCorrect,
			PointsAwarded: g.PointsAwarded,
		}
		if g.Answered {
			row.Answer = datatypes.JSON(g.Answer)
		}
		rows = append(rows, row)
	}

	if err := s.repo.Complete(ctx, attempt, rows); err != nil {
		if apperr.Is(err, apperr.Conflict) {
			log.Warn("Concurrent submission of the same attempt")
		} else {
			log.WithError(err).Error("Failed to store graded attempt")
		}
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"score":      result.Score,
		"max_score":  result.MaxScore,
		"percentage": result.Percentage,
		"passed":     result.Passed,
	}).Info("Quiz attempt submitted")

	courseCompleted, err := s.listener.QuizCompleted(ctx, userID, qz, result.Passed)
	if err != nil {
		// the attempt is stored; progress catches up on the next lesson or quiz event
		log.WithError(err).Error("Failed to update progress after quiz")
	}

	return &SubmitView{AttemptID: attempt.ID, Result: *result, CourseCompleted: courseCompleted}, nil
}

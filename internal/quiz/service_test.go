package quiz_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/apperr"
	"github.com/saulo-duarte/learnpath/internal/course"
	"github.com/saulo-duarte/learnpath/internal/course/coursetest"
	"github.com/saulo-duarte/learnpath/internal/enrollment"
	"github.com/saulo-duarte/learnpath/internal/quiz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memAttempts struct {
	attempts map[uuid.UUID]*quiz.QuizAttempt
	answers  map[uuid.UUID][]quiz.QuizAnswer
}

func newMemAttempts() *memAttempts {
	return &memAttempts{attempts: map[uuid.UUID]*quiz.QuizAttempt{}, answers: map[uuid.UUID][]quiz.QuizAnswer{}}
}

func (m *memAttempts) GetAttempt(_ context.Context, id uuid.UUID) (*quiz.QuizAttempt, error) {
	a, ok := m.attempts[id]
	if !ok {
		return nil, quiz.ErrAttemptNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAttempts) GetInProgress(_ context.Context, userID, quizID uuid.UUID) (*quiz.QuizAttempt, error) {
	for _, a := range m.attempts {
		if a.UserID == userID && a.QuizID == quizID && a.CompletedAt == nil {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memAttempts) CreateIfAbsent(ctx context.Context, a *quiz.QuizAttempt) (*quiz.QuizAttempt, bool, error) {
	if open, _ := m.GetInProgress(ctx, a.UserID, a.QuizID); open != nil {
		return open, false, nil
	}
	cp := *a
	m.attempts[a.ID] = &cp
	return a, true, nil
}

func (m *memAttempts) CountCompleted(_ context.Context, userID, quizID uuid.UUID) (int, error) {
	n := 0
	for _, a := range m.attempts {
		if a.UserID == userID && a.QuizID == quizID && a.CompletedAt != nil {
			n++
		}
	}
	return n, nil
}

func (m *memAttempts) Complete(_ context.Context, a *quiz.QuizAttempt, answers []quiz.QuizAnswer) error {
	stored := m.attempts[a.ID]
	if stored.CompletedAt != nil {
		return quiz.ErrAttemptSubmitted
	}
	cp := *a
	m.attempts[a.ID] = &cp
	m.answers[a.ID] = answers
	return nil
}

// submitsOnLookup completes the open attempt on the first in-progress
// lookup, as a concurrent submit would.
type submitsOnLookup struct {
	*memAttempts
	fired bool
}

func (r *submitsOnLookup) GetInProgress(ctx context.Context, userID, quizID uuid.UUID) (*quiz.QuizAttempt, error) {
	if !r.fired {
		r.fired = true
		for _, a := range r.attempts {
			if a.UserID == userID && a.QuizID == quizID && a.CompletedAt == nil {
				now := time.Now()
				a.CompletedAt = &now
			}
		}
	}
	return r.memAttempts.GetInProgress(ctx, userID, quizID)
}

type enrolledIn map[uuid.UUID]bool

func (e enrolledIn) Require(_ context.Context, userID, courseID uuid.UUID) (*enrollment.Enrollment, error) {
	if !e[courseID] {
		return nil, enrollment.ErrNotEnrolled
	}
	return &enrollment.Enrollment{UserID: userID, CourseID: courseID}, nil
}

type recordingListener struct {
	outcomes []bool
}

func (l *recordingListener) QuizCompleted(_ context.Context, _ uuid.UUID, _ *course.ModuleQuiz, passed bool) (bool, error) {
	l.outcomes = append(l.outcomes, passed)
	return passed, nil
}

type fixture struct {
	store    *coursetest.Store
	attempts *memAttempts
	listener *recordingListener
	svc      quiz.QuizService
	quiz     *course.ModuleQuiz
	user     uuid.UUID
}

func newFixture(t *testing.T, maxAttempts int) *fixture {
	t.Helper()
	store := coursetest.New()
	c := store.AddCourse("Go")
	m, _ := store.AddModule(c.ID, 1)
	qz := store.AddQuiz(m.ID, true, maxAttempts)

	f := &fixture{
		store:    store,
		attempts: newMemAttempts(),
		listener: &recordingListener{},
		quiz:     qz,
		user:     uuid.New(),
	}
	f.svc = quiz.NewService(f.attempts, store, enrolledIn{c.ID: true}, f.listener)
	return f
}

func (f *fixture) submit(t *testing.T, attemptID uuid.UUID, value string) (*quiz.SubmitView, error) {
	t.Helper()
	q := f.store.Questions[f.quiz.ID][0]
	return f.svc.Submit(context.Background(), f.user, attemptID, []quiz.SubmittedAnswer{
		{QuestionID: q.ID, Answer: json.RawMessage(value)},
	})
}

func TestStartOrResume(t *testing.T) {
	ctx := context.Background()

	t.Run("ResumesOpenAttempt", func(t *testing.T) {
		f := newFixture(t, 0)
		first, err := f.svc.StartOrResume(ctx, f.user, f.quiz.ID)
		require.NoError(t, err)
		assert.False(t, first.Resumed)
		assert.Nil(t, first.RemainingAttempts)

		second, err := f.svc.StartOrResume(ctx, f.user, f.quiz.ID)
		require.NoError(t, err)
		assert.True(t, second.Resumed)
		assert.Equal(t, first.AttemptID, second.AttemptID)
		assert.Len(t, f.attempts.attempts, 1)
	})

	t.Run("UnlimitedAttempts", func(t *testing.T) {
		f := newFixture(t, 0)
		for i := 0; i < 5; i++ {
			view, err := f.svc.StartOrResume(ctx, f.user, f.quiz.ID)
			require.NoError(t, err)
			_, err = f.submit(t, view.AttemptID, `false`)
			require.NoError(t, err)
		}
		_, err := f.svc.StartOrResume(ctx, f.user, f.quiz.ID)
		assert.NoError(t, err)
	})

	t.Run("MaxAttemptsEnforced", func(t *testing.T) {
		f := newFixture(t, 2)
		for i := 0; i < 2; i++ {
			view, err := f.svc.StartOrResume(ctx, f.user, f.quiz.ID)
			require.NoError(t, err)
			require.NotNil(t, view.RemainingAttempts)
			assert.Equal(t, 2-i, *view.RemainingAttempts)
			_, err = f.submit(t, view.AttemptID, `false`)
			require.NoError(t, err)
		}

		_, err := f.svc.StartOrResume(ctx, f.user, f.quiz.ID)
		assert.ErrorIs(t, err, quiz.ErrAttemptsExhausted)
	})

	t.Run("SubmitDuringStartIsCounted", func(t *testing.T) {
		f := newFixture(t, 1)
		open, err := f.svc.StartOrResume(ctx, f.user, f.quiz.ID)
		require.NoError(t, err)

		racing := &submitsOnLookup{memAttempts: f.attempts}
		svc := quiz.NewService(racing, f.store, enrolledIn{f.store.Modules[f.quiz.ModuleID].CourseID: true}, f.listener)

		_, err = svc.StartOrResume(ctx, f.user, f.quiz.ID)
		assert.ErrorIs(t, err, quiz.ErrAttemptsExhausted)
		assert.Len(t, f.attempts.attempts, 1)
		assert.NotNil(t, f.attempts.attempts[open.AttemptID].CompletedAt)
	})

	t.Run("RequiresEnrollment", func(t *testing.T) {
		f := newFixture(t, 0)
		svc := quiz.NewService(f.attempts, f.store, enrolledIn{}, f.listener)
		_, err := svc.StartOrResume(ctx, f.user, f.quiz.ID)
		assert.True(t, apperr.Is(err, apperr.Forbidden))
	})

	t.Run("HidesCorrectness", func(t *testing.T) {
		f := newFixture(t, 0)
		view, err := f.svc.StartOrResume(ctx, f.user, f.quiz.ID)
		require.NoError(t, err)

		body, err := json.Marshal(view)
		require.NoError(t, err)
		assert.NotContains(t, string(body), "correctAnswer")
		assert.NotContains(t, string(body), "isCorrect")
	})
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("GradesAndNotifies", func(t *testing.T) {
		f := newFixture(t, 0)
		view, err := f.svc.StartOrResume(ctx, f.user, f.quiz.ID)
		require.NoError(t, err)

		res, err := f.submit(t, view.AttemptID, `true`)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Score)
		assert.Equal(t, 100, res.Percentage)
		assert.True(t, res.Passed)
		assert.True(t, res.CourseCompleted)
		assert.Equal(t, []bool{true}, f.listener.outcomes)
		assert.Len(t, f.attempts.answers[view.AttemptID], 1)
	})

	t.Run("SecondSubmitRejected", func(t *testing.T) {
		f := newFixture(t, 0)
		view, err := f.svc.StartOrResume(ctx, f.user, f.quiz.ID)
		require.NoError(t, err)

		_, err = f.submit(t, view.AttemptID, `true`)
		require.NoError(t, err)
		_, err = f.submit(t, view.AttemptID, `true`)
		assert.ErrorIs(t, err, quiz.ErrAttemptCompleted)
		assert.Len(t, f.listener.outcomes, 1)
	})

	t.Run("OnlyOwnerSubmits", func(t *testing.T) {
		f := newFixture(t, 0)
		view, err := f.svc.StartOrResume(ctx, f.user, f.quiz.ID)
		require.NoError(t, err)

		_, err = f.svc.Submit(ctx, uuid.New(), view.AttemptID, nil)
		assert.ErrorIs(t, err, quiz.ErrNotAttemptOwner)
	})

	t.Run("MalformedAnswerPersistsNothing", func(t *testing.T) {
		f := newFixture(t, 0)
		view, err := f.svc.StartOrResume(ctx, f.user, f.quiz.ID)
		require.NoError(t, err)

		_, err = f.submit(t, view.AttemptID, `"maybe"`)
		assert.True(t, apperr.Is(err, apperr.ValidationFailed))
		assert.Nil(t, f.attempts.attempts[view.AttemptID].CompletedAt)
		assert.Empty(t, f.listener.outcomes)
	})

	t.Run("UnknownAttempt", func(t *testing.T) {
		f := newFixture(t, 0)
		_, err := f.svc.Submit(ctx, f.user, uuid.New(), nil)
		assert.True(t, apperr.Is(err, apperr.NotFound))
	})
}

package progress_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/dbtest"
	"github.com/saulo-duarte/learnpath/internal/progress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryQueries(t *testing.T) {
	ctx := context.Background()
	db, rec := dbtest.DryRun(t)
	repo := progress.NewRepository(db)
	user := uuid.New()

	t.Run("LessonUpsertIsCumulativeAndMonotonic", func(t *testing.T) {
		rec.Reset()
		_, err := repo.UpsertLesson(ctx, user, uuid.New(), false, 30, time.Now())
		require.NoError(t, err)

		insert := rec.Statements()[0]
		assert.Contains(t, insert, `ON CONFLICT ("user_id","lesson_id") DO UPDATE SET`)
		assert.Contains(t, insert, `"time_spent"=lesson_progress.time_spent + EXCLUDED.time_spent`)
		assert.Contains(t, insert, `"completed"=lesson_progress.completed OR EXCLUDED.completed`)
		assert.Contains(t, insert, `"completed_at"=COALESCE(lesson_progress.completed_at, EXCLUDED.completed_at)`)
	})

	t.Run("ModuleUpsertKeepsCompleted", func(t *testing.T) {
		rec.Reset()
		passed := false
		_, err := repo.SaveModuleProgress(ctx, &progress.ModuleProgress{
			UserID:     user,
			ModuleID:   uuid.New(),
			Status:     progress.StatusInProgress,
			QuizPassed: &passed,
		})
		require.NoError(t, err)

		insert := rec.Statements()[0]
		assert.Contains(t, insert, `ON CONFLICT ("user_id","module_id") DO UPDATE SET`)
		assert.Contains(t, insert, `CASE WHEN module_progress.status = 'COMPLETED' THEN module_progress.status ELSE EXCLUDED.status END`)
		assert.Contains(t, insert, `CASE WHEN module_progress.quiz_passed IS TRUE THEN TRUE`)
		assert.Contains(t, insert, `COALESCE(module_progress.completed_at, EXCLUDED.completed_at)`)
	})

	t.Run("ResetLocksEnrollmentThenDeletes", func(t *testing.T) {
		rec.Reset()
		courseID := uuid.New()
		err := repo.ResetCourse(ctx, user, progress.CourseScope{
			CourseID:  courseID,
			LessonIDs: []uuid.UUID{uuid.New()},
			ModuleIDs: []uuid.UUID{uuid.New()},
			QuizIDs:   []uuid.UUID{uuid.New()},
		})
		require.NoError(t, err)

		stmts := rec.Statements()
		require.Len(t, stmts, 5)
		assert.Contains(t, stmts[0], `FROM "enrollments"`)
		assert.True(t, strings.HasSuffix(strings.TrimSpace(stmts[0]), "FOR UPDATE"), stmts[0])
		assert.Contains(t, stmts[1], `DELETE FROM "quiz_answers" WHERE attempt_id IN (SELECT`)
		assert.Contains(t, stmts[1], `FROM "quiz_attempts"`)
		assert.Contains(t, stmts[2], `DELETE FROM "quiz_attempts"`)
		assert.Contains(t, stmts[3], `DELETE FROM "module_progress"`)
		assert.Contains(t, stmts[4], `DELETE FROM "lesson_progress"`)
	})
}

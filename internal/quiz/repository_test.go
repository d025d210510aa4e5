package quiz_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/dbtest"
	"github.com/saulo-duarte/learnpath/internal/quiz"
	"github.com/stretchr/testify/assert"
)

func TestCreateIfAbsentQuery(t *testing.T) {
	db, rec := dbtest.DryRun(t)
	repo := quiz.NewRepository(db)

	// Nothing is inserted in dry-run mode, so the follow-up read finds no
	// open attempt; only the statements matter here.
	_, _, _ = repo.CreateIfAbsent(context.Background(), &quiz.QuizAttempt{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		QuizID:    uuid.New(),
		StartedAt: time.Now(),
	})

	stmts := rec.Statements()
	if assert.NotEmpty(t, stmts) {
		assert.Contains(t, stmts[0], `INSERT INTO "quiz_attempts"`)
		assert.Regexp(t, `ON CONFLICT \("user_id","quiz_id"\)\s+WHERE completed_at IS NULL\s+DO NOTHING`, stmts[0])
	}
}

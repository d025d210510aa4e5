package quiz

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrAttemptNotFound  = apperr.New(apperr.NotFound, "quiz attempt not found")
	ErrAttemptSubmitted = apperr.New(apperr.Conflict, "quiz attempt was already submitted")
)

type QuizRepository interface {
	GetAttempt(ctx context.Context, id uuid.UUID) (*QuizAttempt, error)
	// GetInProgress returns nil when the user has no open attempt.
	GetInProgress(ctx context.Context, userID, quizID uuid.UUID) (*QuizAttempt, error)
	// CreateIfAbsent inserts a when no open attempt exists for its user and
	// quiz, otherwise it returns the open one. created reports which.
	CreateIfAbsent(ctx context.Context, a *QuizAttempt) (attempt *QuizAttempt, created bool, err error)
	CountCompleted(ctx context.Context, userID, quizID uuid.UUID) (int, error)
	// Complete stores the graded totals and answers of an open attempt.
	Complete(ctx context.Context, a *QuizAttempt, answers []QuizAnswer) error
}

type quizRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) GetAttempt(ctx context.Context, id uuid.UUID) (*QuizAttempt, error) {
	var a QuizAttempt
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *quizRepository) GetInProgress(ctx context.Context, userID, quizID uuid.UUID) (*QuizAttempt, error) {
	var a QuizAttempt
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ? AND completed_at IS NULL", userID, quizID).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *quizRepository) CreateIfAbsent(ctx context.Context, a *QuizAttempt) (*QuizAttempt, bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:     []clause.Column{{Name: "user_id"}, {Name: "quiz_id"}},
			TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "completed_at IS NULL"}}},
			DoNothing:   true,
		}).
		Create(a)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return a, true, nil
	}

	existing, err := r.GetInProgress(ctx, a.UserID, a.QuizID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		// the open attempt was submitted between the insert and this read
		return nil, false, ErrAttemptSubmitted
	}
	return existing, false, nil
}

func (r *quizRepository) CountCompleted(ctx context.Context, userID, quizID uuid.UUID) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ? AND completed_at IS NOT NULL", userID, quizID).
		Count(&n).Error
	return int(n), err
}

func (r *quizRepository) Complete(ctx context.Context, a *QuizAttempt, answers []QuizAnswer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&QuizAttempt{}).
			Where("id = ? AND completed_at IS NULL", a.ID).
			Updates(map[string]interface{}{
				"completed_at": a.CompletedAt,
				"score":        a.Score,
				"max_score":    a.MaxScore,
				"percentage":   a.Percentage,
				"passed":       a.Passed,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAttemptSubmitted
		}

		if len(answers) == 0 {
			return nil
		}
		if err := tx.Create(&answers).Error; err != nil {
			if apperr.IsUniqueViolation(err, "idx_quiz_answers_attempt_question") {
				return ErrAttemptSubmitted
			}
			return err
		}
		return nil
	})
}

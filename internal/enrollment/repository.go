package enrollment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/apperr"
	"gorm.io/gorm"
)

var (
	ErrNotEnrolled         = apperr.New(apperr.Forbidden, "not enrolled in this course")
	ErrAlreadyEnrolled     = apperr.New(apperr.Conflict, "already enrolled in this course")
	ErrInsufficientCredits = apperr.New(apperr.PreconditionFailed, "insufficient credits")
)

const enrollmentUniqueIndex = "idx_enrollments_user_course"

type Repository interface {
	Get(ctx context.Context, userID, courseID uuid.UUID) (*Enrollment, error)
	Balance(ctx context.Context, userID uuid.UUID) (int, error)
	// EnrollWithDebit inserts the enrollment, debits cost and appends the
	// credit history entry in one transaction.
	EnrollWithDebit(ctx context.Context, e *Enrollment, cost int) error
	// MarkCompleted sets completed_at only when it is still empty and
	// reports whether this call set it.
	MarkCompleted(ctx context.Context, userID, courseID uuid.UUID, at time.Time) (bool, error)
	Touch(ctx context.Context, userID, courseID uuid.UUID, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, userID, courseID uuid.UUID) (*Enrollment, error) {
	var e Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotEnrolled
		}
		return nil, err
	}
	return &e, nil
}

func (r *repository) Balance(ctx context.Context, userID uuid.UUID) (int, error) {
	var credit UserCredit
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&credit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return credit.Balance, nil
}

func (r *repository) EnrollWithDebit(ctx context.Context, e *Enrollment, cost int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(e).Error; err != nil {
			if apperr.IsUniqueViolation(err, enrollmentUniqueIndex) {
				return ErrAlreadyEnrolled
			}
			return err
		}

		if cost == 0 {
			return nil
		}

		res := tx.Model(&UserCredit{}).
			Where("user_id = ? AND balance >= ?", e.UserID, cost).
			Update("balance", gorm.Expr("balance - ?", cost))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientCredits
		}

		courseID := e.CourseID
		return tx.Create(&CreditHistory{
			UserID:   e.UserID,
			CourseID: &courseID,
			Amount:   -cost,
			Reason:   ReasonEnrollment,
		}).Error
	})
}

func (r *repository) MarkCompleted(ctx context.Context, userID, courseID uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Enrollment{}).
		Where("user_id = ? AND course_id = ? AND completed_at IS NULL", userID, courseID).
		Update("completed_at", at)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) Touch(ctx context.Context, userID, courseID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Update("last_access_at", at).Error
}

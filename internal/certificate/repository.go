package certificate

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrCertificateNotFound = apperr.New(apperr.NotFound, "certificate not found")

type Repository interface {
	// GetActive returns nil when the user holds no certificate for the course.
	GetActive(ctx context.Context, userID, courseID uuid.UUID) (*Certificate, error)
	// GetWithDocument loads the certificate including its rendered blob.
	GetWithDocument(ctx context.Context, id uuid.UUID) (*Certificate, error)
	CreateIfAbsent(ctx context.Context, c *Certificate) (cert *Certificate, created bool, err error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Certificate, error)
	ListByUserAndCourses(ctx context.Context, userID uuid.UUID, courseIDs []uuid.UUID) ([]Certificate, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetActive(ctx context.Context, userID, courseID uuid.UUID) (*Certificate, error) {
	var c Certificate
	err := r.db.WithContext(ctx).
		Omit("document").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) GetWithDocument(ctx context.Context, id uuid.UUID) (*Certificate, error) {
	var c Certificate
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) CreateIfAbsent(ctx context.Context, c *Certificate) (*Certificate, bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:     []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			TargetWhere: clause.Where{Exprs: []clause.Expression{clause.Expr{SQL: "deleted_at IS NULL"}}},
			DoNothing:   true,
		}).
		Create(c)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return c, true, nil
	}

	existing, err := r.GetActive(ctx, c.UserID, c.CourseID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, ErrCertificateNotFound
	}
	return existing, false, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Certificate, error) {
	var out []Certificate
	err := r.db.WithContext(ctx).
		Omit("document").
		Where("user_id = ?", userID).
		Order("issued_at DESC").
		Find(&out).Error
	return out, err
}

func (r *repository) ListByUserAndCourses(ctx context.Context, userID uuid.UUID, courseIDs []uuid.UUID) ([]Certificate, error) {
	var out []Certificate
	if len(courseIDs) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).
		Omit("document").
		Where("user_id = ? AND course_id IN ?", userID, courseIDs).
		Find(&out).Error
	return out, err
}

package certlevel

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/apperr"
	"gorm.io/gorm"
)

var (
	ErrLevelNotFound       = apperr.New(apperr.NotFound, "certification level not found")
	ErrAchievementNotFound = apperr.New(apperr.NotFound, "certification level achievement not found")
	ErrAlreadyUnlocked     = apperr.New(apperr.Conflict, "certification level already unlocked")
	ErrDuplicateRule       = apperr.New(apperr.Conflict, "access rule already exists")

	errNumberTaken = errors.New("certificate number already taken")
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

const (
	userLevelIndex = "idx_user_levels_user_level"
	numberIndex    = "idx_user_levels_number"
)

type Repository interface {
	ListActive(ctx context.Context) ([]CertificationLevel, error)
	Get(ctx context.Context, id uuid.UUID) (*CertificationLevel, error)

	// GetAchievement returns nil when the user has not unlocked the level.
	GetAchievement(ctx context.Context, userID, levelID uuid.UUID) (*UserCertificationLevel, error)
	ListAchievements(ctx context.Context, userID uuid.UUID) ([]UserCertificationLevel, error)
	GetAchievementWithDocument(ctx context.Context, id uuid.UUID) (*UserCertificationLevel, error)
	CountAchievements(ctx context.Context, levelID uuid.UUID) (int64, error)
	// HighestNumber returns the greatest certificate number starting with
	// stem, or an empty string.
	HighestNumber(ctx context.Context, stem string) (string, error)
	CreateAchievement(ctx context.Context, ul *UserCertificationLevel) error

	AddAccessRule(ctx context.Context, rule *LevelAccessRule) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListActive(ctx context.Context) ([]CertificationLevel, error) {
	var levels []CertificationLevel
	err := r.db.WithContext(ctx).
		Preload("Courses").
		Preload("AccessRules").
		Where("is_active").
		Order("order_index ASC").
		Find(&levels).Error
	return levels, err
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*CertificationLevel, error) {
	var level CertificationLevel
	err := r.db.WithContext(ctx).
		Preload("Courses").
		Preload("AccessRules").
		First(&level, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLevelNotFound
		}
		return nil, err
	}
	return &level, nil
}

func (r *repository) GetAchievement(ctx context.Context, userID, levelID uuid.UUID) (*UserCertificationLevel, error) {
	var ul UserCertificationLevel
	err := r.db.WithContext(ctx).
		Omit("document").
		Where("user_id = ? AND level_id = ?", userID, levelID).
		First(&ul).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ul, nil
}

func (r *repository) ListAchievements(ctx context.Context, userID uuid.UUID) ([]UserCertificationLevel, error) {
	var out []UserCertificationLevel
	err := r.db.WithContext(ctx).
		Omit("document").
		Where("user_id = ?", userID).
		Find(&out).Error
	return out, err
}

func (r *repository) GetAchievementWithDocument(ctx context.Context, id uuid.UUID) (*UserCertificationLevel, error) {
	var ul UserCertificationLevel
	if err := r.db.WithContext(ctx).First(&ul, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAchievementNotFound
		}
		return nil, err
	}
	return &ul, nil
}

func (r *repository) CountAchievements(ctx context.Context, levelID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&UserCertificationLevel{}).
		Where("level_id = ?", levelID).
		Count(&n).Error
	return n, err
}

func (r *repository) HighestNumber(ctx context.Context, stem string) (string, error) {
	var numbers []string
	err := r.db.WithContext(ctx).Model(&UserCertificationLevel{}).
		Where(`certificate_number LIKE ? ESCAPE '\'`, likeEscaper.Replace(stem)+"%").
		Order("length(certificate_number) DESC, certificate_number DESC").
		Limit(1).
		Pluck("certificate_number", &numbers).Error
	if err != nil || len(numbers) == 0 {
		return "", err
	}
	return numbers[0], nil
}

func (r *repository) CreateAchievement(ctx context.Context, ul *UserCertificationLevel) error {
	err := r.db.WithContext(ctx).Create(ul).Error
	switch {
	case err == nil:
		return nil
	case apperr.IsUniqueViolation(err, userLevelIndex):
		return ErrAlreadyUnlocked
	case apperr.IsUniqueViolation(err, numberIndex):
		return errNumberTaken
	default:
		return err
	}
}

func (r *repository) AddAccessRule(ctx context.Context, rule *LevelAccessRule) error {
	err := r.db.WithContext(ctx).Create(rule).Error
	if apperr.IsUniqueViolation(err, "") {
		return ErrDuplicateRule
	}
	return err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&CertificationLevel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrLevelNotFound
	}
	return nil
}

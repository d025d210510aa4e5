package progress

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/apperr"
	"github.com/saulo-duarte/learnpath/internal/enrollment"
	"github.com/saulo-duarte/learnpath/internal/quiz"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrCourseAlreadyCompleted = apperr.New(apperr.PreconditionFailed, "course is already completed and cannot be reset")

// CourseScope lists the content ids a course reset clears.
type CourseScope struct {
	CourseID  uuid.UUID
	LessonIDs []uuid.UUID
	ModuleIDs []uuid.UUID
	QuizIDs   []uuid.UUID
}

type Repository interface {
	// UpsertLesson adds delta to the stored time and ORs completed into the
	// stored flag; completed_at keeps its first value.
	UpsertLesson(ctx context.Context, userID, lessonID uuid.UUID, completed bool, delta int, at time.Time) (*LessonProgress, error)
	ListLessonProgress(ctx context.Context, userID uuid.UUID, lessonIDs []uuid.UUID) ([]LessonProgress, error)
	CountCompletedLessons(ctx context.Context, userID uuid.UUID, lessonIDs []uuid.UUID) (int, error)

	GetModuleProgress(ctx context.Context, userID, moduleID uuid.UUID) (*ModuleProgress, error)
	ListModuleProgress(ctx context.Context, userID uuid.UUID, moduleIDs []uuid.UUID) ([]ModuleProgress, error)
	// SaveModuleProgress upserts mp without ever leaving COMPLETED, moving
	// completed_at or turning a passed quiz back to failed.
	SaveModuleProgress(ctx context.Context, mp *ModuleProgress) (*ModuleProgress, error)

	// ResetCourse deletes every progress row and quiz attempt of the user
	// in scope, unless the enrollment is completed.
	ResetCourse(ctx context.Context, userID uuid.UUID, scope CourseScope) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) UpsertLesson(ctx context.Context, userID, lessonID uuid.UUID, completed bool, delta int, at time.Time) (*LessonProgress, error) {
	row := LessonProgress{
		ID:        uuid.New(),
		UserID:    userID,
		LessonID:  lessonID,
		Completed: completed,
		TimeSpent: delta,
		UpdatedAt: at,
	}
	if completed {
		row.CompletedAt = &at
	}

	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Set{
			{Column: clause.Column{Name: "time_spent"}, Value: gorm.Expr("lesson_progress.time_spent + EXCLUDED.time_spent")},
			{Column: clause.Column{Name: "completed"}, Value: gorm.Expr("lesson_progress.completed OR EXCLUDED.completed")},
			{Column: clause.Column{Name: "completed_at"}, Value: gorm.Expr("COALESCE(lesson_progress.completed_at, EXCLUDED.completed_at)")},
			{Column: clause.Column{Name: "updated_at"}, Value: gorm.Expr("EXCLUDED.updated_at")},
		},
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}

	var stored LessonProgress
	if err := db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *repository) ListLessonProgress(ctx context.Context, userID uuid.UUID, lessonIDs []uuid.UUID) ([]LessonProgress, error) {
	var rows []LessonProgress
	if len(lessonIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountCompletedLessons(ctx context.Context, userID uuid.UUID, lessonIDs []uuid.UUID) (int, error) {
	if len(lessonIDs) == 0 {
		return 0, nil
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&LessonProgress{}).
		Where("user_id = ? AND lesson_id IN ? AND completed", userID, lessonIDs).
		Count(&n).Error
	return int(n), err
}

func (r *repository) GetModuleProgress(ctx context.Context, userID, moduleID uuid.UUID) (*ModuleProgress, error) {
	var mp ModuleProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND module_id = ?", userID, moduleID).
		First(&mp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &mp, nil
}

func (r *repository) ListModuleProgress(ctx context.Context, userID uuid.UUID, moduleIDs []uuid.UUID) ([]ModuleProgress, error) {
	var rows []ModuleProgress
	if len(moduleIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND module_id IN ?", userID, moduleIDs).
		Find(&rows).Error
	return rows, err
}

func (r *repository) SaveModuleProgress(ctx context.Context, mp *ModuleProgress) (*ModuleProgress, error) {
	row := *mp
	row.ID = uuid.New()

	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "module_id"}},
		DoUpdates: clause.Set{
			{Column: clause.Column{Name: "status"}, Value: gorm.Expr("CASE WHEN module_progress.status = ? THEN module_progress.status ELSE EXCLUDED.status END", StatusCompleted)},
			{Column: clause.Column{Name: "quiz_passed"}, Value: gorm.Expr("CASE WHEN module_progress.quiz_passed IS TRUE THEN TRUE ELSE COALESCE(EXCLUDED.quiz_passed, module_progress.quiz_passed) END")},
			{Column: clause.Column{Name: "completed_at"}, Value: gorm.Expr("COALESCE(module_progress.completed_at, EXCLUDED.completed_at)")},
			{Column: clause.Column{Name: "updated_at"}, Value: gorm.Expr("EXCLUDED.updated_at")},
		},
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}

	var stored ModuleProgress
	if err := db.Where("user_id = ? AND module_id = ?", mp.UserID, mp.ModuleID).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *repository) ResetCourse(ctx context.Context, userID uuid.UUID, scope CourseScope) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e enrollment.Enrollment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND course_id = ?", userID, scope.CourseID).
			First(&e).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return enrollment.ErrNotEnrolled
			}
			return err
		}
		if e.CompletedAt != nil {
			return ErrCourseAlreadyCompleted
		}

		if len(scope.QuizIDs) > 0 {
			attempts := tx.Model(&quiz.QuizAttempt{}).
				Select("id").
				Where("user_id = ? AND quiz_id IN ?", userID, scope.QuizIDs)
			if err := tx.Where("attempt_id IN (?)", attempts).Delete(&quiz.QuizAnswer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ? AND quiz_id IN ?", userID, scope.QuizIDs).Delete(&quiz.QuizAttempt{}).Error; err != nil {
				return err
			}
		}
		if len(scope.ModuleIDs) > 0 {
			if err := tx.Where("user_id = ? AND module_id IN ?", userID, scope.ModuleIDs).Delete(&ModuleProgress{}).Error; err != nil {
				return err
			}
		}
		if len(scope.LessonIDs) > 0 {
			if err := tx.Where("user_id = ? AND lesson_id IN ?", userID, scope.LessonIDs).Delete(&LessonProgress{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

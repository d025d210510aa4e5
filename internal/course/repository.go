package course

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/access"
	"github.com/saulo-duarte/learnpath/internal/apperr"
	"gorm.io/gorm"
)

var (
	ErrCourseNotFound = apperr.New(apperr.NotFound, "course not found")
	ErrModuleNotFound = apperr.New(apperr.NotFound, "module not found")
	ErrLessonNotFound = apperr.New(apperr.NotFound, "lesson not found")
	ErrQuizNotFound   = apperr.New(apperr.NotFound, "quiz not found")
)

// Repository is the read-only view of authored content.
type Repository interface {
	GetCourse(ctx context.Context, id uuid.UUID) (*Course, error)
	ListCourses(ctx context.Context, ids []uuid.UUID) ([]Course, error)
	ListCoursesByStatus(ctx context.Context, status CourseStatus) ([]Course, error)
	ListAccessRules(ctx context.Context, courseIDs []uuid.UUID) (map[uuid.UUID][]access.Rule, error)

	GetModule(ctx context.Context, id uuid.UUID) (*Module, error)
	ListModules(ctx context.Context, courseID uuid.UUID) ([]Module, error)

	GetLesson(ctx context.Context, id uuid.UUID) (*Lesson, error)
	ListLessonsByModule(ctx context.Context, moduleID uuid.UUID) ([]Lesson, error)
	ListLessonIDsByCourse(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error)

	GetQuiz(ctx context.Context, id uuid.UUID) (*ModuleQuiz, error)
	// GetQuizByModule returns nil when the module has no quiz.
	GetQuizByModule(ctx context.Context, moduleID uuid.UUID) (*ModuleQuiz, error)
	ListQuestions(ctx context.Context, quizID uuid.UUID) ([]QuizQuestion, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func first[T any](db *gorm.DB, notFound error, query string, args ...interface{}) (*T, error) {
	var out T
	if err := db.Where(query, args...).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, err
	}
	return &out, nil
}

func (r *repository) GetCourse(ctx context.Context, id uuid.UUID) (*Course, error) {
	return first[Course](r.db.WithContext(ctx), ErrCourseNotFound, "id = ?", id)
}

func (r *repository) ListCourses(ctx context.Context, ids []uuid.UUID) ([]Course, error) {
	var courses []Course
	if len(ids) == 0 {
		return courses, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *repository) ListCoursesByStatus(ctx context.Context, status CourseStatus) ([]Course, error) {
	var courses []Course
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("title ASC").
		Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *repository) ListAccessRules(ctx context.Context, courseIDs []uuid.UUID) (map[uuid.UUID][]access.Rule, error) {
	out := make(map[uuid.UUID][]access.Rule, len(courseIDs))
	if len(courseIDs) == 0 {
		return out, nil
	}

	var rows []CourseAccessRule
	if err := r.db.WithContext(ctx).
		Where("course_id IN ?", courseIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.CourseID] = append(out[row.CourseID], row.Rule)
	}
	return out, nil
}

func (r *repository) GetModule(ctx context.Context, id uuid.UUID) (*Module, error) {
	return first[Module](r.db.WithContext(ctx), ErrModuleNotFound, "id = ?", id)
}

func (r *repository) ListModules(ctx context.Context, courseID uuid.UUID) ([]Module, error) {
	var modules []Module
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("order_index ASC").
		Find(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *repository) GetLesson(ctx context.Context, id uuid.UUID) (*Lesson, error) {
	return first[Lesson](r.db.WithContext(ctx), ErrLessonNotFound, "id = ?", id)
}

func (r *repository) ListLessonsByModule(ctx context.Context, moduleID uuid.UUID) ([]Lesson, error) {
	var lessons []Lesson
	if err := r.db.WithContext(ctx).
		Where("module_id = ?", moduleID).
		Order("order_index ASC").
		Find(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *repository) ListLessonIDsByCourse(ctx context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&Lesson{}).
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id = ?", courseID).
		Pluck("lessons.id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) GetQuiz(ctx context.Context, id uuid.UUID) (*ModuleQuiz, error) {
	return first[ModuleQuiz](r.db.WithContext(ctx), ErrQuizNotFound, "id = ?", id)
}

func (r *repository) GetQuizByModule(ctx context.Context, moduleID uuid.UUID) (*ModuleQuiz, error) {
	quiz, err := first[ModuleQuiz](r.db.WithContext(ctx), ErrQuizNotFound, "module_id = ?", moduleID)
	if errors.Is(err, ErrQuizNotFound) {
		return nil, nil
	}
	return quiz, err
}

func (r *repository) ListQuestions(ctx context.Context, quizID uuid.UUID) ([]QuizQuestion, error) {
	var questions []QuizQuestion
	if err := r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("order_index ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

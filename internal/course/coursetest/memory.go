// Package coursetest provides an in-memory course.Repository for tests.
package coursetest

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/access"
	"github.com/saulo-duarte/learnpath/internal/course"
	"gorm.io/datatypes"
)

type Store struct {
	Courses   map[uuid.UUID]*course.Course
	Modules   map[uuid.UUID]*course.Module
	Lessons   map[uuid.UUID]*course.Lesson
	Quizzes   map[uuid.UUID]*course.ModuleQuiz
	Questions map[uuid.UUID][]course.QuizQuestion
	Rules     map[uuid.UUID][]access.Rule
}

func New() *Store {
	return &Store{
		Courses:   map[uuid.UUID]*course.Course{},
		Modules:   map[uuid.UUID]*course.Module{},
		Lessons:   map[uuid.UUID]*course.Lesson{},
		Quizzes:   map[uuid.UUID]*course.ModuleQuiz{},
		Questions: map[uuid.UUID][]course.QuizQuestion{},
		Rules:     map[uuid.UUID][]access.Rule{},
	}
}

func (s *Store) AddCourse(title string) *course.Course {
	c := &course.Course{ID: uuid.New(), Title: title, Status: course.StatusApproved}
	s.Courses[c.ID] = c
	s.Rules[c.ID] = []access.Rule{{Type: access.RuleAll}}
	return c
}

func (s *Store) AddModule(courseID uuid.UUID, lessons int) (*course.Module, []*course.Lesson) {
	order := 0
	for _, m := range s.Modules {
		if m.CourseID == courseID {
			order++
		}
	}
	m := &course.Module{ID: uuid.New(), CourseID: courseID, OrderIndex: order}
	s.Modules[m.ID] = m

	out := make([]*course.Lesson, 0, lessons)
	for i := 0; i < lessons; i++ {
		l := &course.Lesson{ID: uuid.New(), ModuleID: m.ID, OrderIndex: i, Duration: 10}
		s.Lessons[l.ID] = l
		out = append(out, l)
	}
	return m, out
}

// AddQuiz attaches a quiz with one yes/no question whose correct answer is true.
func (s *Store) AddQuiz(moduleID uuid.UUID, required bool, maxAttempts int) *course.ModuleQuiz {
	q := &course.ModuleQuiz{
		ID:           uuid.New(),
		ModuleID:     moduleID,
		IsRequired:   required,
		PassingScore: 70,
		MaxAttempts:  maxAttempts,
	}
	s.Quizzes[q.ID] = q
	s.Questions[q.ID] = []course.QuizQuestion{{
		ID:      uuid.New(),
		QuizID:  q.ID,
		Type:    course.QuestionYesNo,
		Text:    "Is Go statically typed?",
		Points:  1,
		Payload: datatypes.JSON(`{"correctAnswer":true}`),
	}}
	return q
}

func (s *Store) GetCourse(_ context.Context, id uuid.UUID) (*course.Course, error) {
	c, ok := s.Courses[id]
	if !ok {
		return nil, course.ErrCourseNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) ListCourses(_ context.Context, ids []uuid.UUID) ([]course.Course, error) {
	var out []course.Course
	for _, id := range ids {
		if c, ok := s.Courses[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *Store) ListCoursesByStatus(_ context.Context, status course.CourseStatus) ([]course.Course, error) {
	var out []course.Course
	for _, c := range s.Courses {
		if c.Status == status {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (s *Store) ListAccessRules(_ context.Context, ids []uuid.UUID) (map[uuid.UUID][]access.Rule, error) {
	out := map[uuid.UUID][]access.Rule{}
	for _, id := range ids {
		out[id] = s.Rules[id]
	}
	return out, nil
}

func (s *Store) GetModule(_ context.Context, id uuid.UUID) (*course.Module, error) {
	m, ok := s.Modules[id]
	if !ok {
		return nil, course.ErrModuleNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *Store) ListModules(_ context.Context, courseID uuid.UUID) ([]course.Module, error) {
	var out []course.Module
	for _, m := range s.Modules {
		if m.CourseID == courseID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (s *Store) GetLesson(_ context.Context, id uuid.UUID) (*course.Lesson, error) {
	l, ok := s.Lessons[id]
	if !ok {
		return nil, course.ErrLessonNotFound
	}
	cp := *l
	return &cp, nil
}

func (s *Store) ListLessonsByModule(_ context.Context, moduleID uuid.UUID) ([]course.Lesson, error) {
	var out []course.Lesson
	for _, l := range s.Lessons {
		if l.ModuleID == moduleID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (s *Store) ListLessonIDsByCourse(_ context.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, l := range s.Lessons {
		if m, ok := s.Modules[l.ModuleID]; ok && m.CourseID == courseID {
			ids = append(ids, l.ID)
		}
	}
	return ids, nil
}

func (s *Store) GetQuiz(_ context.Context, id uuid.UUID) (*course.ModuleQuiz, error) {
	q, ok := s.Quizzes[id]
	if !ok {
		return nil, course.ErrQuizNotFound
	}
	cp := *q
	return &cp, nil
}

func (s *Store) GetQuizByModule(_ context.Context, moduleID uuid.UUID) (*course.ModuleQuiz, error) {
	for _, q := range s.Quizzes {
		if q.ModuleID == moduleID {
			cp := *q
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) ListQuestions(_ context.Context, quizID uuid.UUID) ([]course.QuizQuestion, error) {
	return s.Questions[quizID], nil
}

var _ course.Repository = (*Store)(nil)

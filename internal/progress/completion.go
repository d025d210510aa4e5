package progress

import (
	"context"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/course"
)

// CompletionChecker decides course completion from lesson progress alone.
type CompletionChecker struct {
	progress Repository
	content  course.Repository
}

func NewCompletionChecker(progress Repository, content course.Repository) *CompletionChecker {
	return &CompletionChecker{progress: progress, content: content}
}

// IsCourseComplete reports whether every lesson of the course is completed
// by the user. A course without lessons is never complete.
func (c *CompletionChecker) IsCourseComplete(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	ids, err := c.content.ListLessonIDsByCourse(ctx, courseID)
	if err != nil {
		return false, err
	}
	if len(ids) == 0 {
		return false, nil
	}
	done, err := c.progress.CountCompletedLessons(ctx, userID, ids)
	if err != nil {
		return false, err
	}
	return done >= len(ids), nil
}

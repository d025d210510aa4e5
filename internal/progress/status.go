package progress

// ModuleFacts is everything the module status depends on.
type ModuleFacts struct {
	LessonsTotal     int
	LessonsCompleted int
	HasActivity      bool

	RequiredQuiz      bool
	QuizPassed        *bool
	AttemptsExhausted bool

	// FailOnExhausted turns an exhausted required quiz into FAILED instead
	// of leaving the module IN_PROGRESS.
	FailOnExhausted bool
}

func (f ModuleFacts) lessonsDone() bool {
	return f.LessonsTotal > 0 && f.LessonsCompleted >= f.LessonsTotal
}

// ResolveStatus is the single transition function for module progress,
// used after lesson writes and quiz outcomes alike. COMPLETED is final.
func ResolveStatus(current ModuleStatus, f ModuleFacts) ModuleStatus {
	if current == StatusCompleted {
		return StatusCompleted
	}

	passed := f.QuizPassed != nil && *f.QuizPassed
	switch {
	case passed:
		return StatusCompleted
	case f.lessonsDone() && !f.RequiredQuiz:
		return StatusCompleted
	case f.RequiredQuiz && f.AttemptsExhausted && f.FailOnExhausted:
		return StatusFailed
	case f.HasActivity || f.LessonsCompleted > 0:
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}

// MergeQuizOutcome folds a graded attempt into the stored flag. A pass is
// permanent and a failure only records over an empty flag.
func MergeQuizOutcome(current *bool, passed bool) *bool {
	if current != nil && *current {
		return current
	}
	if passed || current == nil {
		v := passed
		return &v
	}
	return current
}

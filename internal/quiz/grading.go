package quiz

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/apperr"
)

var (
	ErrUnknownQuestion = apperr.New(apperr.ValidationFailed, "answer references a question outside this quiz")
	ErrDuplicateAnswer = apperr.New(apperr.ValidationFailed, "question answered more than once")
)

type SubmittedAnswer struct {
	QuestionID uuid.UUID       `json:"question_id" validate:"required"`
	Answer     json.RawMessage `json:"answer"`
}

type GradedAnswer struct {
	QuestionID    uuid.UUID       `json:"question_id"`
	Answer        json.RawMessage `json:"answer,omitempty"`
	Answered      bool            `json:"answered"`
	IsCorrect     bool            `json:"is_correct"`
	Points        int             `json:"points"`
	PointsAwarded int             `json:"points_awarded"`
}

type Result struct {
	Score      int            `json:"score"`
	MaxScore   int            `json:"max_score"`
	Percentage int            `json:"percentage"`
	Passed     bool           `json:"passed"`
	Breakdown  []GradedAnswer `json:"breakdown"`
}

// Percentage rounds 100*score/maxScore half up in integer arithmetic,
// so 2/3 is 67. An empty quiz scores 0.
func Percentage(score, maxScore int) int {
	if maxScore <= 0 {
		return 0
	}
	return (200*score + maxScore) / (2 * maxScore)
}

func isMissing(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Grade scores answers against questions. The result lists questions in
// the given order; unanswered questions score zero.
func Grade(questions []Question, answers []SubmittedAnswer, passingScore int) (*Result, error) {
	byID := make(map[uuid.UUID]json.RawMessage, len(answers))
	known := make(map[uuid.UUID]struct{}, len(questions))
	for _, q := range questions {
		known[q.ID] = struct{}{}
	}
	for _, a := range answers {
		if _, ok := known[a.QuestionID]; !ok {
			return nil, ErrUnknownQuestion
		}
		if _, dup := byID[a.QuestionID]; dup {
			return nil, ErrDuplicateAnswer
		}
		byID[a.QuestionID] = a.Answer
	}

	res := &Result{Breakdown: make([]GradedAnswer, 0, len(questions))}
	for _, q := range questions {
		g := GradedAnswer{QuestionID: q.ID, Points: q.Points}
		res.MaxScore += q.Points

		raw, ok := byID[q.ID]
		if ok && !isMissing(raw) {
			correct, err := q.IsCorrect(raw)
			if err != nil {
				return nil, err
			}
			g.Answer = raw
			g.Answered = true
			g.IsCorrect = correct
			if correct {
				g.PointsAwarded = q.Points
			}
		}

		res.Score += g.PointsAwarded
		res.Breakdown = append(res.Breakdown, g)
	}

	res.Percentage = Percentage(res.Score, res.MaxScore)
	res.Passed = res.Percentage >= passingScore
	return res, nil
}

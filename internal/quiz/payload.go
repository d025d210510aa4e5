package quiz

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/apperr"
	"github.com/saulo-duarte/learnpath/internal/course"
)

var (
	ErrInvalidQuestion = apperr.New(apperr.ValidationFailed, "question is missing required fields")
	ErrMalformedAnswer = apperr.New(apperr.ValidationFailed, "answer does not match the question type")
)

type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

type Pair struct {
	ID    string `json:"id"`
	Left  string `json:"left"`
	Right string `json:"right"`
}

type YesNoPayload struct {
	CorrectAnswer bool `json:"correctAnswer"`
}

type ChoicePayload struct {
	Options []Option `json:"options"`
}

type MatchingPayload struct {
	Pairs []Pair `json:"pairs"`
}

// Question is a stored question whose payload has been decoded for its type.
// Exactly one of YesNo, Choice or Matching is set.
type Question struct {
	ID     uuid.UUID
	Type   course.QuestionType
	Text   string
	Points int

	YesNo    *YesNoPayload
	Choice   *ChoicePayload
	Matching *MatchingPayload
}

func ParseQuestion(q course.QuizQuestion) (Question, error) {
	out := Question{ID: q.ID, Type: q.Type, Text: q.Text, Points: q.Points}
	if q.Points < 1 {
		return out, ErrInvalidQuestion
	}

	switch q.Type {
	case course.QuestionYesNo:
		var p struct {
			CorrectAnswer *bool `json:"correctAnswer"`
		}
		if err := json.Unmarshal(q.Payload, &p); err != nil || p.CorrectAnswer == nil {
			return out, ErrInvalidQuestion
		}
		out.YesNo = &YesNoPayload{CorrectAnswer: *p.CorrectAnswer}

	case course.QuestionSingleChoice, course.QuestionMultipleChoice:
		var p ChoicePayload
		if err := json.Unmarshal(q.Payload, &p); err != nil || len(p.Options) == 0 {
			return out, ErrInvalidQuestion
		}
		for _, o := range p.Options {
			if o.ID == "" {
				return out, ErrInvalidQuestion
			}
		}
		out.Choice = &p

	case course.QuestionMatching:
		var p MatchingPayload
		if err := json.Unmarshal(q.Payload, &p); err != nil || len(p.Pairs) == 0 {
			return out, ErrInvalidQuestion
		}
		for _, pair := range p.Pairs {
			if pair.ID == "" {
				return out, ErrInvalidQuestion
			}
		}
		out.Matching = &p

	default:
		return out, ErrInvalidQuestion
	}
	return out, nil
}

func ParseQuestions(qs []course.QuizQuestion) ([]Question, error) {
	out := make([]Question, 0, len(qs))
	for _, q := range qs {
		parsed, err := ParseQuestion(q)
		if err != nil {
			return nil, err
		}
		out = append(out, parsed)
	}
	return out, nil
}

// IsCorrect decodes a raw answer in the shape of the question type and
// reports whether it earns the question's points. A wrong answer is not
// an error; an answer of the wrong shape is ErrMalformedAnswer.
func (q Question) IsCorrect(raw json.RawMessage) (bool, error) {
	switch {
	case q.YesNo != nil:
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return false, ErrMalformedAnswer
		}
		return v == q.YesNo.CorrectAnswer, nil

	case q.Choice != nil && q.Type == course.QuestionSingleChoice:
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return false, ErrMalformedAnswer
		}
		for _, o := range q.Choice.Options {
			if o.IsCorrect {
				return o.ID == v, nil
			}
		}
		return false, nil

	case q.Choice != nil:
		var v []string
		if err := json.Unmarshal(raw, &v); err != nil {
			return false, ErrMalformedAnswer
		}
		submitted := make(map[string]struct{}, len(v))
		for _, id := range v {
			submitted[id] = struct{}{}
		}
		correct := 0
		for _, o := range q.Choice.Options {
			if !o.IsCorrect {
				continue
			}
			if _, ok := submitted[o.ID]; !ok {
				return false, nil
			}
			correct++
		}
		return correct == len(submitted), nil

	case q.Matching != nil:
		var v map[string]string
		if err := json.Unmarshal(raw, &v); err != nil {
			return false, ErrMalformedAnswer
		}
		if len(v) != len(q.Matching.Pairs) {
			return false, nil
		}
		for _, p := range q.Matching.Pairs {
			if v[p.ID] != p.ID {
				return false, nil
			}
		}
		return true, nil
	}
	return false, ErrInvalidQuestion
}

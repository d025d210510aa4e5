package quiz_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/apperr"
	"github.com/saulo-duarte/learnpath/internal/course"
	"github.com/saulo-duarte/learnpath/internal/quiz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func question(t *testing.T, typ course.QuestionType, points int, payload string) quiz.Question {
	t.Helper()
	q, err := quiz.ParseQuestion(course.QuizQuestion{
		ID:      uuid.New(),
		Type:    typ,
		Points:  points,
		Payload: datatypes.JSON(payload),
	})
	require.NoError(t, err)
	return q
}

func answer(q quiz.Question, raw string) quiz.SubmittedAnswer {
	return quiz.SubmittedAnswer{QuestionID: q.ID, Answer: json.RawMessage(raw)}
}

const choices = `{"options":[
	{"id":"a","text":"A","isCorrect":true},
	{"id":"b","text":"B","isCorrect":false},
	{"id":"c","text":"C","isCorrect":true}]}`

const pairs = `{"pairs":[
	{"id":"p1","left":"Go","right":"gopher"},
	{"id":"p2","left":"Rust","right":"crab"},
	{"id":"p3","left":"Python","right":"snake"}]}`

func TestIsCorrect(t *testing.T) {
	t.Run("YesNo", func(t *testing.T) {
		q := question(t, course.QuestionYesNo, 1, `{"correctAnswer":true}`)
		ok, err := q.IsCorrect(json.RawMessage(`true`))
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = q.IsCorrect(json.RawMessage(`false`))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("SingleChoice", func(t *testing.T) {
		q := question(t, course.QuestionSingleChoice, 1, `{"options":[{"id":"x","isCorrect":false},{"id":"y","isCorrect":true}]}`)
		ok, _ := q.IsCorrect(json.RawMessage(`"y"`))
		assert.True(t, ok)
		ok, _ = q.IsCorrect(json.RawMessage(`"x"`))
		assert.False(t, ok)
	})

	t.Run("MultipleChoiceOrderIndependent", func(t *testing.T) {
		q := question(t, course.QuestionMultipleChoice, 2, choices)
		for _, raw := range []string{`["a","c"]`, `["c","a"]`} {
			ok, err := q.IsCorrect(json.RawMessage(raw))
			require.NoError(t, err)
			assert.True(t, ok, raw)
		}
	})

	t.Run("MultipleChoiceNoPartialCredit", func(t *testing.T) {
		q := question(t, course.QuestionMultipleChoice, 2, choices)
		for _, raw := range []string{`["a"]`, `["a","b","c"]`, `["b"]`, `[]`} {
			ok, err := q.IsCorrect(json.RawMessage(raw))
			require.NoError(t, err)
			assert.False(t, ok, raw)
		}
	})

	t.Run("MatchingIdentityOnly", func(t *testing.T) {
		q := question(t, course.QuestionMatching, 3, pairs)
		ok, err := q.IsCorrect(json.RawMessage(`{"p1":"p1","p2":"p2","p3":"p3"}`))
		require.NoError(t, err)
		assert.True(t, ok)

		swapped := []string{
			`{"p1":"p2","p2":"p1","p3":"p3"}`,
			`{"p1":"p1","p2":"p3","p3":"p2"}`,
			`{"p1":"p1","p2":"p2"}`,
		}
		for _, raw := range swapped {
			ok, err := q.IsCorrect(json.RawMessage(raw))
			require.NoError(t, err)
			assert.False(t, ok, raw)
		}
	})

	t.Run("WrongShape", func(t *testing.T) {
		cases := []struct {
			q   quiz.Question
			raw string
		}{
			{question(t, course.QuestionYesNo, 1, `{"correctAnswer":false}`), `"yes"`},
			{question(t, course.QuestionSingleChoice, 1, choices), `["a"]`},
			{question(t, course.QuestionMultipleChoice, 1, choices), `"a"`},
			{question(t, course.QuestionMatching, 1, pairs), `["p1"]`},
		}
		for _, c := range cases {
			_, err := c.q.IsCorrect(json.RawMessage(c.raw))
			assert.ErrorIs(t, err, quiz.ErrMalformedAnswer, c.raw)
		}
	})
}

func TestParseQuestion(t *testing.T) {
	invalid := []course.QuizQuestion{
		{Type: course.QuestionYesNo, Points: 1, Payload: datatypes.JSON(`{}`)},
		{Type: course.QuestionSingleChoice, Points: 1, Payload: datatypes.JSON(`{"options":[]}`)},
		{Type: course.QuestionMatching, Points: 1, Payload: datatypes.JSON(`{"pairs":[{"left":"a"}]}`)},
		{Type: course.QuestionYesNo, Points: 0, Payload: datatypes.JSON(`{"correctAnswer":true}`)},
		{Type: "ESSAY", Points: 1, Payload: datatypes.JSON(`{}`)},
	}
	for _, q := range invalid {
		_, err := quiz.ParseQuestion(q)
		assert.True(t, apperr.Is(err, apperr.ValidationFailed), string(q.Type))
	}
}

func TestPercentage(t *testing.T) {
	cases := []struct{ score, max, want int }{
		{2, 3, 67},
		{1, 3, 33},
		{3, 5, 60},
		{5, 5, 100},
		{0, 5, 0},
		{1, 8, 13},
		{1, 200, 1},
		{0, 0, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, quiz.Percentage(c.score, c.max), "%d/%d", c.score, c.max)
	}
}

func TestGrade(t *testing.T) {
	yes := question(t, course.QuestionYesNo, 1, `{"correctAnswer":true}`)
	single := question(t, course.QuestionSingleChoice, 1, `{"options":[{"id":"x","isCorrect":true},{"id":"y"}]}`)
	multi := question(t, course.QuestionMultipleChoice, 2, choices)
	match := question(t, course.QuestionMatching, 1, pairs)
	questions := []quiz.Question{yes, single, multi, match}

	allCorrect := func() []quiz.SubmittedAnswer {
		return []quiz.SubmittedAnswer{
			answer(yes, `true`),
			answer(single, `"x"`),
			answer(multi, `["c","a"]`),
			answer(match, `{"p1":"p1","p2":"p2","p3":"p3"}`),
		}
	}

	t.Run("AllCorrectPasses", func(t *testing.T) {
		res, err := quiz.Grade(questions, allCorrect(), 70)
		require.NoError(t, err)
		assert.Equal(t, 5, res.Score)
		assert.Equal(t, 5, res.MaxScore)
		assert.Equal(t, 100, res.Percentage)
		assert.True(t, res.Passed)
	})

	t.Run("MissingTwoPointQuestionFails", func(t *testing.T) {
		answers := allCorrect()
		answers[2] = answer(multi, `["a"]`)

		res, err := quiz.Grade(questions, answers, 70)
		require.NoError(t, err)
		assert.Equal(t, 3, res.Score)
		assert.Equal(t, 60, res.Percentage)
		assert.False(t, res.Passed)
		assert.False(t, res.Breakdown[2].IsCorrect)
		assert.Equal(t, 0, res.Breakdown[2].PointsAwarded)
	})

	t.Run("UnansweredScoresZero", func(t *testing.T) {
		res, err := quiz.Grade(questions, []quiz.SubmittedAnswer{answer(yes, `true`), answer(single, `null`)}, 20)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Score)
		assert.Equal(t, 20, res.Percentage)
		assert.True(t, res.Passed)
		assert.False(t, res.Breakdown[1].Answered)
		assert.False(t, res.Breakdown[3].Answered)
	})

	t.Run("PassingScoreBoundary", func(t *testing.T) {
		res, err := quiz.Grade(questions, allCorrect()[:2], 40)
		require.NoError(t, err)
		assert.Equal(t, 40, res.Percentage)
		assert.True(t, res.Passed)
	})

	t.Run("UnknownQuestion", func(t *testing.T) {
		stray := quiz.SubmittedAnswer{QuestionID: uuid.New(), Answer: json.RawMessage(`true`)}
		_, err := quiz.Grade(questions, append(allCorrect(), stray), 70)
		assert.ErrorIs(t, err, quiz.ErrUnknownQuestion)
	})

	t.Run("DuplicateAnswer", func(t *testing.T) {
		_, err := quiz.Grade(questions, append(allCorrect(), answer(yes, `false`)), 70)
		assert.ErrorIs(t, err, quiz.ErrDuplicateAnswer)
	})

	t.Run("MalformedAnswer", func(t *testing.T) {
		answers := allCorrect()
		answers[0] = answer(yes, `"true"`)
		_, err := quiz.Grade(questions, answers, 70)
		assert.True(t, apperr.Is(err, apperr.ValidationFailed))
	})

	t.Run("Deterministic", func(t *testing.T) {
		a, err := quiz.Grade(questions, allCorrect(), 70)
		require.NoError(t, err)
		b, err := quiz.Grade(questions, allCorrect(), 70)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}

package quiz

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/saulo-duarte/learnpath/internal/course"
)

// Item is a choice option or one side of a matching pair as shown to a
// learner. It never carries correctness.
type Item struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type PresentedQuestion struct {
	ID      uuid.UUID           `json:"id"`
	Type    course.QuestionType `json:"type"`
	Text    string              `json:"text"`
	Points  int                 `json:"points"`
	Options []Item              `json:"options,omitempty"`
	Left    []Item              `json:"left,omitempty"`
	Right   []Item              `json:"right,omitempty"`
}

func attemptRand(attemptID uuid.UUID) *rand.Rand {
	return rand.New(rand.NewPCG(
		binary.BigEndian.Uint64(attemptID[:8]),
		binary.BigEndian.Uint64(attemptID[8:]),
	))
}

// Present orders questions for an attempt. The order is derived from the
// attempt id so a resumed attempt shows the same layout. Matching right
// hand items are always shuffled; everything else only when shuffle is set.
func Present(questions []Question, attemptID uuid.UUID, shuffle bool) []PresentedQuestion {
	rng := attemptRand(attemptID)

	out := make([]PresentedQuestion, 0, len(questions))
	for _, q := range questions {
		p := PresentedQuestion{ID: q.ID, Type: q.Type, Text: q.Text, Points: q.Points}

		switch {
		case q.Choice != nil:
			p.Options = make([]Item, 0, len(q.Choice.Options))
			for _, o := range q.Choice.Options {
				p.Options = append(p.Options, Item{ID: o.ID, Text: o.Text})
			}
			if shuffle {
				rng.Shuffle(len(p.Options), func(i, j int) { p.Options[i], p.Options[j] = p.Options[j], p.Options[i] })
			}

		case q.Matching != nil:
			p.Left = make([]Item, 0, len(q.Matching.Pairs))
			p.Right = make([]Item, 0, len(q.Matching.Pairs))
			for _, pair := range q.Matching.Pairs {
				p.Left = append(p.Left, Item{ID: pair.ID, Text: pair.Left})
				p.Right = append(p.Right, Item{ID: pair.ID, Text: pair.Right})
			}
			rng.Shuffle(len(p.Right), func(i, j int) { p.Right[i], p.Right[j] = p.Right[j], p.Right[i] })
		}

		out = append(out, p)
	}

	if shuffle {
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	return out
}

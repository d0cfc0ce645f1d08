package study

// Score is the result of a checked quiz attempt.
type Score struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Percentage returns Correct/Total as a whole percentage, 0 when Total is 0.
func (s Score) Percentage() int {
	if s.Total == 0 {
		return 0
	}
	return s.Correct * 100 / s.Total
}

// attempt is the answer-tracking state shared by the quiz engines.
type attempt[V comparable] struct {
	answers map[string]V
	checked bool
	score   Score
}

func newAttempt[V comparable]() attempt[V] {
	return attempt[V]{answers: make(map[string]V)}
}

func (a *attempt[V]) reset() {
	clear(a.answers)
	a.checked = false
	a.score = Score{}
}

func (a *attempt[V]) answer(cardID string) (V, bool) {
	v, ok := a.answers[cardID]
	return v, ok
}

func (a *attempt[V]) snapshot() map[string]V {
	out := make(map[string]V, len(a.answers))
	for k, v := range a.answers {
		out[k] = v
	}
	return out
}

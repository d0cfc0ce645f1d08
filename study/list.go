package study

import (
	"strconv"
	"strings"
)

// List presents cards in order and quizzes the user on each card's position.
type List struct {
	cards  []Card
	sorted []Card
	quiz   bool
	att    attempt[string]
}

// NewList builds a List over cards. The sorted view is computed once.
func NewList(cards []Card) *List {
	return &List{
		cards:  cards,
		sorted: SortByOrder(cards),
		att:    newAttempt[string](),
	}
}

// Sorted returns the cards ascending by order number.
func (l *List) Sorted() []Card { return l.sorted }

// QuizMode reports whether the quiz overlay is on.
func (l *List) QuizMode() bool { return l.quiz }

// ToggleQuiz switches the quiz overlay and starts a fresh attempt.
func (l *List) ToggleQuiz() {
	l.quiz = !l.quiz
	l.att.reset()
}

// SubmitAnswer records the user's order guess for a card, replacing any
// earlier guess. The value is kept as entered and parsed on Check. Input after
// Check is ignored until Reset.
func (l *List) SubmitAnswer(cardID, value string) {
	if l.att.checked {
		return
	}
	l.att.answers[cardID] = value
}

// Check scores every card. A guess counts when it parses to the card's order
// number (0 for cards without one); missing or non-numeric guesses never do.
// Checking twice returns the first score.
func (l *List) Check() Score {
	if l.att.checked {
		return l.att.score
	}
	correct := 0
	for _, card := range l.cards {
		raw, ok := l.att.answer(card.ID)
		if !ok {
			continue
		}
		guess, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		if guess == card.OrderOrZero() {
			correct++
		}
	}
	l.att.score = Score{Correct: correct, Total: len(l.cards)}
	l.att.checked = true
	return l.att.score
}

// Reset clears the attempt.
func (l *List) Reset() { l.att.reset() }

func (l *List) restart() {
	l.quiz = false
	l.att.reset()
}

// ListState is a snapshot of a List.
type ListState struct {
	Cards    []Card            `json:"cards"`
	QuizMode bool              `json:"quiz_mode"`
	Answers  map[string]string `json:"answers"`
	Checked  bool              `json:"checked"`
	Score    Score             `json:"score"`
}

func (l *List) State() ListState {
	return ListState{
		Cards:    l.sorted,
		QuizMode: l.quiz,
		Answers:  l.att.snapshot(),
		Checked:  l.att.checked,
		Score:    l.att.score,
	}
}

package study

// Category groups cards by category and quizzes the user on each card's
// category. The quiz is paint-style: select one category, then assign it to
// as many cards as wanted.
type Category struct {
	cards    []Card
	groups   []Group
	quiz     bool
	selected *string
	att      attempt[string]
}

func NewCategory(cards []Card) *Category {
	return &Category{
		cards:  cards,
		groups: GroupByCategory(cards),
		att:    newAttempt[string](),
	}
}

// Groups returns the cards partitioned by category.
func (c *Category) Groups() []Group { return c.groups }

// Categories lists the distinct categories in first-seen order.
func (c *Category) Categories() []string {
	out := make([]string, len(c.groups))
	for i, g := range c.groups {
		out[i] = g.Category
	}
	return out
}

func (c *Category) QuizMode() bool { return c.quiz }

// ToggleQuiz switches the quiz overlay and starts a fresh attempt.
func (c *Category) ToggleQuiz() {
	c.quiz = !c.quiz
	c.Reset()
}

// Select makes cat the category that Assign paints with.
func (c *Category) Select(cat string) {
	c.selected = &cat
}

// Selected returns the current category selection.
func (c *Category) Selected() (string, bool) {
	if c.selected == nil {
		return "", false
	}
	return *c.selected, true
}

// Assign records the selected category as the answer for cardID. Without a
// selection, or once the attempt is checked, it does nothing. The selection
// stays in place.
func (c *Category) Assign(cardID string) {
	if c.selected == nil || c.att.checked {
		return
	}
	c.att.answers[cardID] = *c.selected
}

// Check scores every card by exact category match; unanswered cards are wrong.
func (c *Category) Check() Score {
	if c.att.checked {
		return c.att.score
	}
	correct := 0
	for _, card := range c.cards {
		if got, ok := c.att.answer(card.ID); ok && got == card.CategoryOrDefault() {
			correct++
		}
	}
	c.att.score = Score{Correct: correct, Total: len(c.cards)}
	c.att.checked = true
	return c.att.score
}

// Reset clears the attempt and the category selection.
func (c *Category) Reset() {
	c.att.reset()
	c.selected = nil
}

func (c *Category) restart() {
	c.quiz = false
	c.Reset()
}

// CategoryState is a snapshot of a Category.
type CategoryState struct {
	Groups   []Group           `json:"groups"`
	QuizMode bool              `json:"quiz_mode"`
	Selected *string           `json:"selected_category"`
	Answers  map[string]string `json:"answers"`
	Checked  bool              `json:"checked"`
	Score    Score             `json:"score"`
}

func (c *Category) State() CategoryState {
	st := CategoryState{
		Groups:   c.groups,
		QuizMode: c.quiz,
		Answers:  c.att.snapshot(),
		Checked:  c.att.checked,
		Score:    c.att.score,
	}
	if c.selected != nil {
		sel := *c.selected
		st.Selected = &sel
	}
	return st
}

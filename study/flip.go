package study

// Flip shows one card at a time and turns it over on demand.
//
// Callers must not use a Flip built from an empty card slice: Current has
// nothing to return and reports ok=false.
type Flip struct {
	cards   []Card
	index   int
	flipped bool
}

// NewFlip returns a Flip positioned on the first card, front side up.
func NewFlip(cards []Card) *Flip {
	return &Flip{cards: cards}
}

// Flip turns the current card over.
func (f *Flip) Flip() { f.flipped = !f.flipped }

// Next moves to the following card front side up. It does nothing on the
// last card.
func (f *Flip) Next() {
	if f.index >= len(f.cards)-1 {
		return
	}
	f.index++
	f.flipped = false
}

// Prev moves to the preceding card front side up. It does nothing on the
// first card.
func (f *Flip) Prev() {
	if f.index == 0 {
		return
	}
	f.index--
	f.flipped = false
}

// Current returns the card on display.
func (f *Flip) Current() (Card, bool) {
	if len(f.cards) == 0 {
		return Card{}, false
	}
	return f.cards[f.index], true
}

func (f *Flip) Index() int    { return f.index }
func (f *Flip) Flipped() bool { return f.flipped }
func (f *Flip) Len() int      { return len(f.cards) }

func (f *Flip) restart() { f.index, f.flipped = 0, false }

// FlipState is a snapshot of a Flip.
type FlipState struct {
	Index   int   `json:"index"`
	Total   int   `json:"total"`
	Flipped bool  `json:"flipped"`
	Card    *Card `json:"card,omitempty"`
}

func (f *Flip) State() FlipState {
	st := FlipState{Index: f.index, Total: len(f.cards), Flipped: f.flipped}
	if c, ok := f.Current(); ok {
		st.Card = &c
	}
	return st
}

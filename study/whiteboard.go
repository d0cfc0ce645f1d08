package study

import (
	"context"
	"fmt"
	"sync"
)

// Grid used to place cards that have no stored position.
const (
	gridColumns = 4
	gridOriginX = 100
	gridOriginY = 100
	gridStepX   = 250
	gridStepY   = 200
)

// Edge is a directed connection between two cards.
type Edge struct {
	From string `json:"from_card_id"`
	To   string `json:"to_card_id"`
}

// Link is an edge persisted by the Card Store. ID is empty until the store
// has confirmed a link created in this session.
type Link struct {
	ID   string `json:"link_id"`
	From string `json:"from_card_id"`
	To   string `json:"to_card_id"`
}

func (l Link) Edge() Edge { return Edge{From: l.From, To: l.To} }

// Point is a card position on the board.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoardMode selects what link clicks write to.
type BoardMode int

const (
	BoardEdit BoardMode = iota
	BoardQuiz
)

func (m BoardMode) String() string {
	if m == BoardQuiz {
		return "quiz"
	}
	return "edit"
}

func (m BoardMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// GridPosition is where the card at index i goes when it has no stored
// position.
func GridPosition(i int) Point {
	return Point{
		X: gridOriginX + float64(i%gridColumns)*gridStepX,
		Y: gridOriginY + float64(i/gridColumns)*gridStepY,
	}
}

// CorrectChain returns the edges joining consecutive cards in order-number
// order. It is empty for fewer than two cards.
func CorrectChain(cards []Card) []Edge {
	sorted := SortByOrder(cards)
	if len(sorted) < 2 {
		return nil
	}
	chain := make([]Edge, 0, len(sorted)-1)
	for i := 0; i < len(sorted)-1; i++ {
		chain = append(chain, Edge{From: sorted[i].ID, To: sorted[i+1].ID})
	}
	return chain
}

// ScoreLinks credits each correct edge that appears at least once in user.
// Extra edges cost nothing.
func ScoreLinks(correct, user []Edge) Score {
	drawn := make(map[Edge]struct{}, len(user))
	for _, e := range user {
		drawn[e] = struct{}{}
	}
	score := Score{Total: len(correct)}
	for _, e := range correct {
		if _, ok := drawn[e]; ok {
			score.Correct++
		}
	}
	return score
}

// Whiteboard lays cards out on a plane and lets the user connect them. In
// edit mode connections are persisted links; in quiz mode they are the user's
// answer to "link the cards in order" and are scored against CorrectChain.
//
// A Whiteboard is safe for concurrent use; store confirmations arrive on
// persister goroutines.
type Whiteboard struct {
	store   CardStore
	persist Persister

	mu        sync.Mutex
	cards     []Card
	index     map[string]int
	positions map[string]Point
	mode      BoardMode
	cursor    Selection
	dragging  string
	links     []Link
	userLinks []Edge
	correct   []Edge
	checked   bool
	score     Score
}

// NewWhiteboard builds a board in edit mode from cards and their persisted
// links. Links that reference cards outside the set are dropped.
func NewWhiteboard(cards []Card, links []Link, store CardStore, persist Persister) *Whiteboard {
	own := make([]Card, len(cards))
	copy(own, cards)

	w := &Whiteboard{
		store:     store,
		persist:   persist,
		cards:     own,
		index:     indexCards(own),
		positions: make(map[string]Point, len(own)),
		correct:   CorrectChain(own),
	}
	for i, c := range own {
		if c.PositionX != nil && c.PositionY != nil {
			w.positions[c.ID] = Point{X: *c.PositionX, Y: *c.PositionY}
		} else {
			w.positions[c.ID] = GridPosition(i)
		}
	}
	for _, l := range links {
		if w.known(l.From) && w.known(l.To) {
			w.links = append(w.links, l)
		}
	}
	return w
}

func (w *Whiteboard) known(cardID string) bool {
	_, ok := w.index[cardID]
	return ok
}

func (w *Whiteboard) Mode() BoardMode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mode
}

// ToggleMode switches between edit and quiz. The selection and any drag are
// dropped either way. Entering edit also discards the quiz attempt; entering
// quiz keeps whatever attempt was there.
func (w *Whiteboard) ToggleMode() BoardMode {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.cursor = Idle
	w.dragging = ""
	if w.mode == BoardQuiz {
		w.mode = BoardEdit
		w.resetAttempt()
	} else {
		w.mode = BoardQuiz
	}
	return w.mode
}

// BeginDrag starts moving cardID. Only cards on the board can be dragged, and
// only in edit mode.
func (w *Whiteboard) BeginDrag(cardID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.mode != BoardEdit || !w.known(cardID) {
		return false
	}
	w.dragging = cardID
	return true
}

// UpdateDrag moves the dragged card to (x, y), clamped to the positive
// quadrant.
func (w *Whiteboard) UpdateDrag(cardID string, x, y float64) (Point, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dragging == "" || w.dragging != cardID {
		return Point{}, false
	}
	p := Point{X: max(x, 0), Y: max(y, 0)}
	w.positions[cardID] = p
	return p, true
}

// EndDrag finishes the drag and sends the final position to the store.
func (w *Whiteboard) EndDrag(ctx context.Context, cardID string) bool {
	w.mu.Lock()
	if w.dragging == "" || w.dragging != cardID {
		w.mu.Unlock()
		return false
	}
	w.dragging = ""
	p := w.positions[cardID]
	w.mu.Unlock()

	w.persist.Persist(ctx, "update card position", func(ctx context.Context) error {
		card, err := w.store.UpdateCardPosition(ctx, cardID, p.X, p.Y)
		if err != nil {
			return fmt.Errorf("card %s: %w", cardID, err)
		}
		w.mu.Lock()
		if i, ok := w.index[cardID]; ok {
			w.cards[i].PositionX, w.cards[i].PositionY = card.PositionX, card.PositionY
		}
		w.mu.Unlock()
		return nil
	})
	return true
}

// ClickCard feeds a click into the link protocol. The first click picks the
// source; a click on a different card creates source -> card as a persisted
// link in edit mode or as a user link in quiz mode. It returns the edge when
// one was created.
func (w *Whiteboard) ClickCard(ctx context.Context, cardID string) (Edge, bool) {
	w.mu.Lock()
	if !w.known(cardID) || (w.mode == BoardQuiz && w.checked) {
		w.mu.Unlock()
		return Edge{}, false
	}
	next, edge, ok := w.cursor.Click(cardID)
	w.cursor = next
	if !ok {
		w.mu.Unlock()
		return Edge{}, false
	}
	if w.mode == BoardQuiz {
		w.userLinks = append(w.userLinks, edge)
		w.mu.Unlock()
		return edge, true
	}
	if w.hasLink(edge) {
		w.mu.Unlock()
		return edge, false
	}
	w.links = append(w.links, Link{From: edge.From, To: edge.To})
	w.mu.Unlock()

	w.persist.Persist(ctx, "create link", func(ctx context.Context) error {
		link, err := w.store.CreateLink(ctx, edge.From, edge.To)
		if err != nil {
			return fmt.Errorf("link %s -> %s: %w", edge.From, edge.To, err)
		}
		w.confirmLink(link)
		return nil
	})
	return edge, true
}

func (w *Whiteboard) hasLink(e Edge) bool {
	for _, l := range w.links {
		if l.Edge() == e {
			return true
		}
	}
	return false
}

// confirmLink gives the store's ID to the first unconfirmed local copy of
// the link.
func (w *Whiteboard) confirmLink(link Link) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.links {
		if w.links[i].ID == "" && w.links[i].Edge() == link.Edge() {
			w.links[i].ID = link.ID
			return
		}
	}
}

// RemoveLink deletes a persisted link. Edit mode only.
func (w *Whiteboard) RemoveLink(ctx context.Context, linkID string) bool {
	w.mu.Lock()
	if w.mode != BoardEdit || linkID == "" {
		w.mu.Unlock()
		return false
	}
	found := -1
	for i, l := range w.links {
		if l.ID == linkID {
			found = i
			break
		}
	}
	if found < 0 {
		w.mu.Unlock()
		return false
	}
	w.links = append(w.links[:found], w.links[found+1:]...)
	w.mu.Unlock()

	w.persist.Persist(ctx, "delete link", func(ctx context.Context) error {
		if err := w.store.DeleteLink(ctx, linkID); err != nil {
			return fmt.Errorf("link %s: %w", linkID, err)
		}
		return nil
	})
	return true
}

// Check scores the user links against the correct chain. It only applies in
// quiz mode; a checked attempt keeps its score until Reset.
func (w *Whiteboard) Check() (Score, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.mode != BoardQuiz {
		return w.score, false
	}
	if !w.checked {
		w.score = ScoreLinks(w.correct, w.userLinks)
		w.checked = true
	}
	return w.score, true
}

// Reset discards the quiz attempt and the selection.
func (w *Whiteboard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetAttempt()
	w.cursor = Idle
}

func (w *Whiteboard) resetAttempt() {
	w.userLinks = nil
	w.checked = false
	w.score = Score{}
}

func (w *Whiteboard) restart() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mode = BoardEdit
	w.cursor = Idle
	w.dragging = ""
	w.resetAttempt()
}

// Position returns where cardID sits on the board.
func (w *Whiteboard) Position(cardID string) (Point, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	p, ok := w.positions[cardID]
	return p, ok
}

func (w *Whiteboard) Selection() Selection {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cursor
}

func (w *Whiteboard) Links() []Link {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Link(nil), w.links...)
}

func (w *Whiteboard) UserLinks() []Edge {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Edge(nil), w.userLinks...)
}

func (w *Whiteboard) CorrectLinks() []Edge {
	return append([]Edge(nil), w.correct...)
}

// WhiteboardState is a snapshot of a Whiteboard. CorrectLinks is only filled
// in once the attempt is checked.
type WhiteboardState struct {
	Mode          BoardMode        `json:"mode"`
	Cards         []Card           `json:"cards"`
	Positions     map[string]Point `json:"positions"`
	Links         []Link           `json:"links"`
	UserLinks     []Edge           `json:"user_links"`
	PendingSource *string          `json:"pending_source"`
	Dragging      *string          `json:"dragging"`
	Checked       bool             `json:"checked"`
	Score         Score            `json:"score"`
	CorrectLinks  []Edge           `json:"correct_links,omitempty"`
}

func (w *Whiteboard) State() WhiteboardState {
	w.mu.Lock()
	defer w.mu.Unlock()

	st := WhiteboardState{
		Mode:      w.mode,
		Cards:     append([]Card(nil), w.cards...),
		Positions: make(map[string]Point, len(w.positions)),
		Links:     append([]Link(nil), w.links...),
		UserLinks: append([]Edge(nil), w.userLinks...),
		Checked:   w.checked,
		Score:     w.score,
	}
	for id, p := range w.positions {
		st.Positions[id] = p
	}
	if src, ok := w.cursor.Source(); ok {
		st.PendingSource = &src
	}
	if w.dragging != "" {
		d := w.dragging
		st.Dragging = &d
	}
	if w.checked {
		st.CorrectLinks = append([]Edge(nil), w.correct...)
	}
	return st
}

package study

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

func ptr[T any](v T) *T { return &v }

// numbered returns n cards c1..cn with order numbers 1..n.
func numbered(n int) []Card {
	cards := make([]Card, n)
	for i := range cards {
		cards[i] = Card{
			ID:    fmt.Sprintf("c%d", i+1),
			Front: fmt.Sprintf("front %d", i+1),
			Back:  fmt.Sprintf("back %d", i+1),
			Order: ptr(i + 1),
		}
	}
	return cards
}

var errStoreDown = errors.New("store down")

// fakeStore is an in-memory CardStore.
type fakeStore struct {
	mu      sync.Mutex
	cards   map[string][]Card
	links   []Link
	nextID  int
	fail    bool
	updates []Point
	deleted []string
}

func newFakeStore(setID string, cards []Card, links ...Link) *fakeStore {
	return &fakeStore{
		cards: map[string][]Card{setID: cards},
		links: links,
	}
}

func (s *fakeStore) ListCardsForSet(_ context.Context, setID string) ([]Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errStoreDown
	}
	return append([]Card(nil), s.cards[setID]...), nil
}

func (s *fakeStore) UpdateCardPosition(_ context.Context, cardID string, x, y float64) (Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return Card{}, errStoreDown
	}
	s.updates = append(s.updates, Point{X: x, Y: y})
	for _, cards := range s.cards {
		for i := range cards {
			if cards[i].ID == cardID {
				cards[i].PositionX, cards[i].PositionY = ptr(x), ptr(y)
				return cards[i], nil
			}
		}
	}
	return Card{}, fmt.Errorf("card %s not found", cardID)
}

func (s *fakeStore) ListLinksForCard(_ context.Context, cardID string) ([]Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errStoreDown
	}
	var out []Link
	for _, l := range s.links {
		if l.From == cardID || l.To == cardID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *fakeStore) CreateLink(_ context.Context, from, to string) (Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return Link{}, errStoreDown
	}
	s.nextID++
	l := Link{ID: fmt.Sprintf("l%d", s.nextID), From: from, To: to}
	s.links = append(s.links, l)
	return l, nil
}

func (s *fakeStore) DeleteLink(_ context.Context, linkID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errStoreDown
	}
	s.deleted = append(s.deleted, linkID)
	for i, l := range s.links {
		if l.ID == linkID {
			s.links = append(s.links[:i], s.links[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *fakeStore) storedLinks() []Link {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Link(nil), s.links...)
}

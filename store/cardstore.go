package store

import (
	"context"
	"fmt"

	"github.com/andrewpaige1/memora/models"
	"github.com/andrewpaige1/memora/study"
)

var _ study.CardStore = (*Store)(nil)

// StudyCard converts a stored card to the engine's view of it.
func StudyCard(c models.Flashcard) study.Card {
	return study.Card{
		ID:        c.PublicID,
		Front:     c.FrontText,
		Back:      c.BackText,
		Category:  c.Category,
		Order:     c.OrderNumber,
		PositionX: c.PositionX,
		PositionY: c.PositionY,
	}
}

// StudyLink converts a stored link whose cards are loaded.
func StudyLink(l models.FlashcardLink) study.Link {
	return study.Link{ID: l.PublicID, From: l.FromCard.PublicID, To: l.ToCard.PublicID}
}

func (s *Store) ListCardsForSet(ctx context.Context, setID string) ([]study.Card, error) {
	set, err := s.GetSet(ctx, setID)
	if err != nil {
		return nil, err
	}
	cards, err := s.ListCards(ctx, set.ID)
	if err != nil {
		return nil, err
	}
	out := make([]study.Card, len(cards))
	for i, c := range cards {
		out[i] = StudyCard(c)
	}
	return out, nil
}

func (s *Store) UpdateCardPosition(ctx context.Context, cardID string, x, y float64) (study.Card, error) {
	card, err := s.GetCard(ctx, cardID)
	if err != nil {
		return study.Card{}, err
	}
	err = s.db.WithContext(ctx).Model(card).Updates(map[string]any{
		"position_x": x,
		"position_y": y,
	}).Error
	if err != nil {
		return study.Card{}, wrap("update card position", err)
	}
	card.PositionX, card.PositionY = &x, &y
	return StudyCard(*card), nil
}

func (s *Store) ListLinksForCard(ctx context.Context, cardID string) ([]study.Link, error) {
	card, err := s.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	links, err := s.ListLinks(ctx, card.ID)
	if err != nil {
		return nil, err
	}
	out := make([]study.Link, len(links))
	for i, l := range links {
		out[i] = StudyLink(l)
	}
	return out, nil
}

func (s *Store) CreateLink(ctx context.Context, fromCardID, toCardID string) (study.Link, error) {
	from, err := s.GetCard(ctx, fromCardID)
	if err != nil {
		return study.Link{}, fmt.Errorf("source: %w", err)
	}
	to, err := s.GetCard(ctx, toCardID)
	if err != nil {
		return study.Link{}, fmt.Errorf("target: %w", err)
	}
	link, err := s.LinkCards(ctx, from, to, "")
	if err != nil {
		return study.Link{}, err
	}
	return StudyLink(*link), nil
}

func (s *Store) DeleteLink(ctx context.Context, linkID string) error {
	link, err := s.GetLink(ctx, linkID)
	if err != nil {
		return err
	}
	return s.RemoveLink(ctx, link)
}

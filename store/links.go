package store

import (
	"context"

	"github.com/andrewpaige1/memora/models"
)

// ListLinks returns the links where the card is the source or the target.
func (s *Store) ListLinks(ctx context.Context, cardID uint) ([]models.FlashcardLink, error) {
	var links []models.FlashcardLink
	err := s.db.WithContext(ctx).
		Preload("FromCard").
		Preload("ToCard").
		Where("from_card_id = ? OR to_card_id = ?", cardID, cardID).
		Order("id asc").
		Find(&links).Error
	if err != nil {
		return nil, wrap("list links", err)
	}
	return links, nil
}

// LinkCards creates a link from -> to. Both cards must be distinct and in the
// same set.
func (s *Store) LinkCards(ctx context.Context, from, to *models.Flashcard, linkType string) (*models.FlashcardLink, error) {
	if from.ID == to.ID {
		return nil, ErrSelfLink
	}
	if from.SetID != to.SetID {
		return nil, ErrCrossSetLink
	}

	publicID, err := newPublicID()
	if err != nil {
		return nil, wrap("link cards", err)
	}
	link := models.FlashcardLink{
		PublicID:   publicID,
		SetID:      from.SetID,
		FromCardID: from.ID,
		ToCardID:   to.ID,
		LinkType:   linkType,
	}
	if err := s.db.WithContext(ctx).Omit("FromCard", "ToCard").Create(&link).Error; err != nil {
		return nil, wrap("link cards", err)
	}
	link.FromCard, link.ToCard = *from, *to
	return &link, nil
}

// GetLink loads a link by public ID with both cards and the owning set.
func (s *Store) GetLink(ctx context.Context, publicID string) (*models.FlashcardLink, error) {
	var link models.FlashcardLink
	err := s.db.WithContext(ctx).
		Preload("FromCard.FlashcardSet.User").
		Preload("ToCard").
		Where("public_id = ?", publicID).
		First(&link).Error
	if err != nil {
		return nil, wrap("get link", err)
	}
	return &link, nil
}

func (s *Store) RemoveLink(ctx context.Context, link *models.FlashcardLink) error {
	res := s.db.WithContext(ctx).Delete(&models.FlashcardLink{}, link.ID)
	if res.Error != nil {
		return wrap("remove link", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("remove link", ErrNotFound)
	}
	return nil
}

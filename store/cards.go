package store

import (
	"context"

	"github.com/andrewpaige1/memora/models"
	"gorm.io/gorm"
)

// ListCards returns the cards of a set in creation order.
func (s *Store) ListCards(ctx context.Context, setID uint) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	if err := s.db.WithContext(ctx).Where("set_id = ?", setID).Order("id asc").Find(&cards).Error; err != nil {
		return nil, wrap("list cards", err)
	}
	return cards, nil
}

// CreateCard inserts card into its set. A missing order number becomes the
// set's card count plus one.
func (s *Store) CreateCard(ctx context.Context, card *models.Flashcard) error {
	publicID, err := newPublicID()
	if err != nil {
		return wrap("create card", err)
	}
	card.PublicID = publicID

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if card.OrderNumber == nil {
			var n int64
			if err := tx.Model(&models.Flashcard{}).Where("set_id = ?", card.SetID).Count(&n).Error; err != nil {
				return err
			}
			order := int(n) + 1
			card.OrderNumber = &order
		}
		return tx.Omit("FlashcardSet").Create(card).Error
	})
	if err != nil {
		return wrap("create card", err)
	}
	return nil
}

// GetCard loads a card by public ID with its set and the set's owner.
func (s *Store) GetCard(ctx context.Context, publicID string) (*models.Flashcard, error) {
	var card models.Flashcard
	err := s.db.WithContext(ctx).
		Preload("FlashcardSet.User").
		Where("public_id = ?", publicID).
		First(&card).Error
	if err != nil {
		return nil, wrap("get card", err)
	}
	return &card, nil
}

func (s *Store) SaveCard(ctx context.Context, card *models.Flashcard) error {
	if err := s.db.WithContext(ctx).Omit("FlashcardSet").Save(card).Error; err != nil {
		return wrap("save card", err)
	}
	return nil
}

// DeleteCard removes a card and the links touching it.
func (s *Store) DeleteCard(ctx context.Context, card *models.Flashcard) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("from_card_id = ? OR to_card_id = ?", card.ID, card.ID).Delete(&models.FlashcardLink{}).Error; err != nil {
			return err
		}
		return tx.Delete(card).Error
	})
	if err != nil {
		return wrap("delete card", err)
	}
	return nil
}

// RecordReview counts one more review of card and sets its mastered flag.
func (s *Store) RecordReview(ctx context.Context, card *models.Flashcard, mastered bool) error {
	now := s.now()
	err := s.db.WithContext(ctx).Model(card).Updates(map[string]any{
		"times_reviewed": gorm.Expr("times_reviewed + 1"),
		"mastered":       mastered,
		"last_reviewed":  now,
	}).Error
	if err != nil {
		return wrap("record review", err)
	}
	card.TimesReviewed++
	card.Mastered = mastered
	card.LastReviewed = &now
	return nil
}

// Progress is the mastery summary of a set.
type Progress struct {
	Mastered   int64 `json:"mastered"`
	Total      int64 `json:"total"`
	Percentage int64 `json:"percentage"`
}

func (s *Store) Progress(ctx context.Context, setID uint) (Progress, error) {
	var p Progress
	db := s.db.WithContext(ctx).Model(&models.Flashcard{}).Where("set_id = ?", setID)
	if err := db.Count(&p.Total).Error; err != nil {
		return Progress{}, wrap("progress", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.Flashcard{}).Where("set_id = ? AND mastered = ?", setID, true).Count(&p.Mastered).Error; err != nil {
		return Progress{}, wrap("progress", err)
	}
	if p.Total > 0 {
		p.Percentage = p.Mastered * 100 / p.Total
	}
	return p, nil
}

package store

import (
	"context"

	"github.com/andrewpaige1/memora/models"
	"gorm.io/gorm"
)

// SetSummary is a set with its card count.
type SetSummary struct {
	models.FlashcardSet
	CardCount int64
}

// ListSets returns the user's sets, newest first.
func (s *Store) ListSets(ctx context.Context, userID uint) ([]SetSummary, error) {
	var sets []models.FlashcardSet
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc, id desc").Find(&sets).Error; err != nil {
		return nil, wrap("list sets", err)
	}

	out := make([]SetSummary, 0, len(sets))
	for _, set := range sets {
		n, err := s.CountCards(ctx, set.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, SetSummary{FlashcardSet: set, CardCount: n})
	}
	return out, nil
}

func (s *Store) CreateSet(ctx context.Context, userID uint, title, description string) (*models.FlashcardSet, error) {
	publicID, err := newPublicID()
	if err != nil {
		return nil, wrap("create set", err)
	}
	set := models.FlashcardSet{
		Title:       title,
		Description: description,
		UserID:      userID,
		PublicID:    publicID,
	}
	if err := s.db.WithContext(ctx).Create(&set).Error; err != nil {
		return nil, wrap("create set", err)
	}
	return &set, nil
}

// GetSet loads a set by public ID together with its owner.
func (s *Store) GetSet(ctx context.Context, publicID string) (*models.FlashcardSet, error) {
	var set models.FlashcardSet
	if err := s.db.WithContext(ctx).Preload("User").Where("public_id = ?", publicID).First(&set).Error; err != nil {
		return nil, wrap("get set", err)
	}
	return &set, nil
}

func (s *Store) SaveSet(ctx context.Context, set *models.FlashcardSet) error {
	if err := s.db.WithContext(ctx).Omit("User").Save(set).Error; err != nil {
		return wrap("save set", err)
	}
	return nil
}

// DeleteSet removes a set with its cards and every link between them.
func (s *Store) DeleteSet(ctx context.Context, set *models.FlashcardSet) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("set_id = ?", set.ID).Delete(&models.FlashcardLink{}).Error; err != nil {
			return err
		}
		if err := tx.Where("set_id = ?", set.ID).Delete(&models.Flashcard{}).Error; err != nil {
			return err
		}
		return tx.Delete(set).Error
	})
	if err != nil {
		return wrap("delete set", err)
	}
	return nil
}

// MarkStudied stamps the set's last studied time.
func (s *Store) MarkStudied(ctx context.Context, set *models.FlashcardSet) error {
	now := s.now()
	if err := s.db.WithContext(ctx).Model(set).Update("last_studied", now).Error; err != nil {
		return wrap("mark studied", err)
	}
	set.LastStudied = &now
	return nil
}

func (s *Store) CountCards(ctx context.Context, setID uint) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Flashcard{}).Where("set_id = ?", setID).Count(&n).Error; err != nil {
		return 0, wrap("count cards", err)
	}
	return n, nil
}

package store

import (
	"context"
	"fmt"

	"github.com/andrewpaige1/memora/models"
	"gorm.io/gorm"
)

// Position places one card on the whiteboard.
type Position struct {
	CardID string  `json:"card_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// SaveLayout stores several card positions of one set atomically. Every card
// must belong to the set.
func (s *Store) SaveLayout(ctx context.Context, setID uint, positions []Position) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range positions {
			res := tx.Model(&models.Flashcard{}).
				Where("public_id = ? AND set_id = ?", p.CardID, setID).
				Updates(map[string]any{"position_x": p.X, "position_y": p.Y})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("card %s: %w", p.CardID, ErrNotFound)
			}
		}
		return nil
	})
	if err != nil {
		return wrap("save layout", err)
	}
	return nil
}

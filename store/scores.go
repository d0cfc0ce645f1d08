package store

import (
	"context"

	"github.com/andrewpaige1/memora/models"
)

func (s *Store) CreateScore(ctx context.Context, score *models.QuizScore) error {
	if err := s.db.WithContext(ctx).Omit("User", "FlashcardSet").Create(score).Error; err != nil {
		return wrap("create score", err)
	}
	return nil
}

// ListScores returns a set's scores best first: highest share of correct
// answers, then most answers, then earliest.
func (s *Store) ListScores(ctx context.Context, setID uint) ([]models.QuizScore, error) {
	var scores []models.QuizScore
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("flashcard_set_id = ?", setID).
		Order("CASE WHEN total = 0 THEN 0 ELSE CAST(correct AS REAL) / total END DESC").
		Order("total desc").
		Order("played_at asc").
		Find(&scores).Error
	if err != nil {
		return nil, wrap("list scores", err)
	}
	return scores, nil
}

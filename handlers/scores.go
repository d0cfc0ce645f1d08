package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/andrewpaige1/memora/models"
	"github.com/andrewpaige1/memora/study"
	"github.com/andrewpaige1/memora/utils"
)

type scoreResponse struct {
	Mode       string    `json:"mode"`
	Correct    int       `json:"correct"`
	Total      int       `json:"total"`
	Percentage int       `json:"percentage"`
	PlayedBy   string    `json:"played_by"`
	PlayedAt   time.Time `json:"played_at"`
}

func validQuizMode(mode string) bool {
	switch mode {
	case models.QuizModeList, models.QuizModeCategory, models.QuizModeWhiteboard:
		return true
	}
	return false
}

// GET /api/sets/{setID}/scores
func (db *DBHandler) GetScores(w http.ResponseWriter, r *http.Request) {
	set, ok := db.ownedSet(w, r, "GetScores")
	if !ok {
		return
	}

	scores, err := db.ListScores(r.Context(), set.ID)
	if err != nil {
		storeError(w, r, "GetScores", err, "Set not found")
		return
	}

	out := make([]scoreResponse, 0, len(scores))
	for _, s := range scores {
		out = append(out, scoreResponse{
			Mode:       s.Mode,
			Correct:    s.Correct,
			Total:      s.Total,
			Percentage: study.Score{Correct: s.Correct, Total: s.Total}.Percentage(),
			PlayedBy:   s.User.DisplayName(),
			PlayedAt:   s.PlayedAt,
		})
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

// POST /api/sets/{setID}/scores
func (db *DBHandler) CreateScore(w http.ResponseWriter, r *http.Request) {
	set, ok := db.ownedSet(w, r, "CreateScore")
	if !ok {
		return
	}

	var req struct {
		Mode    string `json:"mode"`
		Correct int    `json:"correct"`
		Total   int    `json:"total"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validQuizMode(req.Mode) {
		utils.WriteError(w, http.StatusBadRequest, "mode must be list, category or whiteboard")
		return
	}
	if req.Correct < 0 || req.Total < 0 || req.Correct > req.Total {
		utils.WriteError(w, http.StatusBadRequest, "correct must be between 0 and total")
		return
	}

	score, err := db.recordScore(r.Context(), currentUser(r), set, req.Mode, study.Score{Correct: req.Correct, Total: req.Total})
	if err != nil {
		storeError(w, r, "CreateScore", err, "Set not found")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, scoreResponse{
		Mode:       score.Mode,
		Correct:    score.Correct,
		Total:      score.Total,
		Percentage: study.Score{Correct: score.Correct, Total: score.Total}.Percentage(),
		PlayedBy:   currentUser(r).DisplayName(),
		PlayedAt:   score.PlayedAt,
	})
}

func (db *DBHandler) recordScore(ctx context.Context, user *models.User, set *models.FlashcardSet, mode string, s study.Score) (*models.QuizScore, error) {
	score := models.QuizScore{
		UserID:         user.ID,
		FlashcardSetID: set.ID,
		Mode:           mode,
		Correct:        s.Correct,
		Total:          s.Total,
	}
	if err := db.Store.CreateScore(ctx, &score); err != nil {
		return nil, err
	}
	if err := db.MarkStudied(ctx, set); err != nil {
		slog.WarnContext(ctx, "recordScore: could not mark set studied", "set_id", set.PublicID, "error", err)
	}
	return &score, nil
}

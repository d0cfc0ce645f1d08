package handlers

import (
	"net/http"

	"github.com/andrewpaige1/memora/utils"
)

// GET /api/progress/{setID}
func (db *DBHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	set, ok := db.ownedSet(w, r, "GetProgress")
	if !ok {
		return
	}
	p, err := db.Progress(r.Context(), set.ID)
	if err != nil {
		storeError(w, r, "GetProgress", err, "Set not found")
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

// POST /api/progress/card/{cardID}
func (db *DBHandler) UpdateCardProgress(w http.ResponseWriter, r *http.Request) {
	card, ok := db.ownedCard(w, r, "UpdateCardProgress")
	if !ok {
		return
	}

	var req struct {
		IsMastered bool `json:"is_mastered"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := db.RecordReview(r.Context(), card, req.IsMastered); err != nil {
		storeError(w, r, "UpdateCardProgress", err, "Card not found")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"times_reviewed": card.TimesReviewed,
		"mastered":       card.Mastered,
	})
}

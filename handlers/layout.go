package handlers

import (
	"net/http"

	"github.com/andrewpaige1/memora/store"
	"github.com/andrewpaige1/memora/utils"
)

// PUT /api/sets/{setID}/layout
//
// Saves the whiteboard positions of many cards at once. Negative
// coordinates are clamped to 0 as during a drag.
func (db *DBHandler) UpdateLayout(w http.ResponseWriter, r *http.Request) {
	set, ok := db.ownedSet(w, r, "UpdateLayout")
	if !ok {
		return
	}

	var req struct {
		Positions []store.Position `json:"positions"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	for i := range req.Positions {
		req.Positions[i].X = max(req.Positions[i].X, 0)
		req.Positions[i].Y = max(req.Positions[i].Y, 0)
	}

	if err := db.SaveLayout(r.Context(), set.ID, req.Positions); err != nil {
		storeError(w, r, "UpdateLayout", err, "Card not found in set")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

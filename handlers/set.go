package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/andrewpaige1/memora/models"
	"github.com/andrewpaige1/memora/utils"
)

type setResponse struct {
	SetID       string     `json:"set_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CardCount   int64      `json:"card_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastStudied *time.Time `json:"last_studied"`
}

func toSetResponse(set *models.FlashcardSet, cardCount int64) setResponse {
	return setResponse{
		SetID:       set.PublicID,
		Title:       set.Title,
		Description: set.Description,
		CardCount:   cardCount,
		CreatedAt:   set.CreatedAt,
		UpdatedAt:   set.UpdatedAt,
		LastStudied: set.LastStudied,
	}
}

// GET /api/sets
func (db *DBHandler) GetSets(w http.ResponseWriter, r *http.Request) {
	sets, err := db.ListSets(r.Context(), currentUser(r).ID)
	if err != nil {
		storeError(w, r, "GetSets", err, "Sets not found")
		return
	}

	out := make([]setResponse, 0, len(sets))
	for i := range sets {
		out = append(out, toSetResponse(&sets[i].FlashcardSet, sets[i].CardCount))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

// POST /api/sets
func (db *DBHandler) CreateFlashCardSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		utils.WriteError(w, http.StatusBadRequest, "Title is required")
		return
	}

	set, err := db.CreateSet(r.Context(), currentUser(r).ID, req.Title, req.Description)
	if err != nil {
		storeError(w, r, "CreateFlashCardSet", err, "Set not found")
		return
	}
	slog.InfoContext(r.Context(), "CreateFlashCardSet: created set", "set_id", set.PublicID)

	utils.WriteJSON(w, http.StatusCreated, toSetResponse(set, 0))
}

// GET /api/sets/{setID}
func (db *DBHandler) GetSetByID(w http.ResponseWriter, r *http.Request) {
	set, ok := db.ownedSet(w, r, "GetSetByID")
	if !ok {
		return
	}
	n, err := db.CountCards(r.Context(), set.ID)
	if err != nil {
		storeError(w, r, "GetSetByID", err, "Set not found")
		return
	}
	utils.WriteJSON(w, http.StatusOK, toSetResponse(set, n))
}

// PUT /api/sets/{setID}
func (db *DBHandler) UpdateSetByID(w http.ResponseWriter, r *http.Request) {
	set, ok := db.ownedSet(w, r, "UpdateSetByID")
	if !ok {
		return
	}

	var req struct {
		Title       *string `json:"title,omitempty"`
		Description *string `json:"description,omitempty"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			utils.WriteError(w, http.StatusBadRequest, "Title cannot be empty")
			return
		}
		set.Title = title
	}
	if req.Description != nil {
		set.Description = *req.Description
	}

	if err := db.SaveSet(r.Context(), set); err != nil {
		storeError(w, r, "UpdateSetByID", err, "Set not found")
		return
	}
	n, err := db.CountCards(r.Context(), set.ID)
	if err != nil {
		storeError(w, r, "UpdateSetByID", err, "Set not found")
		return
	}
	utils.WriteJSON(w, http.StatusOK, toSetResponse(set, n))
}

// DELETE /api/sets/{setID}
func (db *DBHandler) DeleteSetByID(w http.ResponseWriter, r *http.Request) {
	set, ok := db.ownedSet(w, r, "DeleteSetByID")
	if !ok {
		return
	}
	if err := db.DeleteSet(r.Context(), set); err != nil {
		storeError(w, r, "DeleteSetByID", err, "Set not found")
		return
	}
	slog.InfoContext(r.Context(), "DeleteSetByID: deleted set", "set_id", set.PublicID)
	w.WriteHeader(http.StatusNoContent)
}

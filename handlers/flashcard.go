package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/andrewpaige1/memora/models"
	"github.com/andrewpaige1/memora/utils"
)

type cardResponse struct {
	CardID        string     `json:"card_id"`
	SetID         string     `json:"set_id"`
	FrontText     string     `json:"front_text"`
	BackText      string     `json:"back_text"`
	Category      *string    `json:"category"`
	OrderNumber   *int       `json:"order_number"`
	PositionX     *float64   `json:"position_x"`
	PositionY     *float64   `json:"position_y"`
	TimesReviewed int        `json:"times_reviewed"`
	Mastered      bool       `json:"mastered"`
	LastReviewed  *time.Time `json:"last_reviewed"`
	CreatedAt     time.Time  `json:"created_at"`
}

func toCardResponse(c *models.Flashcard, setID string) cardResponse {
	return cardResponse{
		CardID:        c.PublicID,
		SetID:         setID,
		FrontText:     c.FrontText,
		BackText:      c.BackText,
		Category:      c.Category,
		OrderNumber:   c.OrderNumber,
		PositionX:     c.PositionX,
		PositionY:     c.PositionY,
		TimesReviewed: c.TimesReviewed,
		Mastered:      c.Mastered,
		LastReviewed:  c.LastReviewed,
		CreatedAt:     c.CreatedAt,
	}
}

// GET /api/sets/{setID}/cards
func (db *DBHandler) GetFlashcardsForSet(w http.ResponseWriter, r *http.Request) {
	set, ok := db.ownedSet(w, r, "GetFlashcardsForSet")
	if !ok {
		return
	}

	cards, err := db.ListCards(r.Context(), set.ID)
	if err != nil {
		storeError(w, r, "GetFlashcardsForSet", err, "Set not found")
		return
	}

	out := make([]cardResponse, 0, len(cards))
	for i := range cards {
		out = append(out, toCardResponse(&cards[i], set.PublicID))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

// POST /api/sets/{setID}/cards
func (db *DBHandler) CreateFlashCard(w http.ResponseWriter, r *http.Request) {
	set, ok := db.ownedSet(w, r, "CreateFlashCard")
	if !ok {
		return
	}

	var req struct {
		FrontText   string   `json:"front_text"`
		BackText    string   `json:"back_text"`
		Category    *string  `json:"category"`
		OrderNumber *int     `json:"order_number"`
		PositionX   *float64 `json:"position_x"`
		PositionY   *float64 `json:"position_y"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.FrontText) == "" || strings.TrimSpace(req.BackText) == "" {
		utils.WriteError(w, http.StatusBadRequest, "Front and back text are required")
		return
	}

	card := models.Flashcard{
		SetID:       set.ID,
		FrontText:   req.FrontText,
		BackText:    req.BackText,
		Category:    req.Category,
		OrderNumber: req.OrderNumber,
		PositionX:   req.PositionX,
		PositionY:   req.PositionY,
	}
	if err := db.CreateCard(r.Context(), &card); err != nil {
		storeError(w, r, "CreateFlashCard", err, "Set not found")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, toCardResponse(&card, set.PublicID))
}

// PUT /api/cards/{cardID}
//
// Partial update. Sending only position_x/position_y is how the whiteboard
// commits a drag.
func (db *DBHandler) UpdateFlashCardByID(w http.ResponseWriter, r *http.Request) {
	card, ok := db.ownedCard(w, r, "UpdateFlashCardByID")
	if !ok {
		return
	}

	var req struct {
		FrontText   *string  `json:"front_text,omitempty"`
		BackText    *string  `json:"back_text,omitempty"`
		Category    *string  `json:"category,omitempty"`
		OrderNumber *int     `json:"order_number,omitempty"`
		PositionX   *float64 `json:"position_x,omitempty"`
		PositionY   *float64 `json:"position_y,omitempty"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.FrontText != nil {
		card.FrontText = *req.FrontText
	}
	if req.BackText != nil {
		card.BackText = *req.BackText
	}
	if req.Category != nil {
		card.Category = req.Category
	}
	if req.OrderNumber != nil {
		card.OrderNumber = req.OrderNumber
	}
	if req.PositionX != nil {
		card.PositionX = req.PositionX
	}
	if req.PositionY != nil {
		card.PositionY = req.PositionY
	}

	if err := db.SaveCard(r.Context(), card); err != nil {
		storeError(w, r, "UpdateFlashCardByID", err, "Card not found")
		return
	}

	utils.WriteJSON(w, http.StatusOK, toCardResponse(card, card.FlashcardSet.PublicID))
}

// DELETE /api/cards/{cardID}
func (db *DBHandler) DeleteFlashCardByID(w http.ResponseWriter, r *http.Request) {
	card, ok := db.ownedCard(w, r, "DeleteFlashCardByID")
	if !ok {
		return
	}
	if err := db.DeleteCard(r.Context(), card); err != nil {
		storeError(w, r, "DeleteFlashCardByID", err, "Card not found")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

package handlers

import (
	"net/http"

	"github.com/andrewpaige1/memora/models"
	"github.com/andrewpaige1/memora/utils"
)

type linkResponse struct {
	LinkID     string `json:"link_id"`
	FromCardID string `json:"from_card_id"`
	ToCardID   string `json:"to_card_id"`
	LinkType   string `json:"link_type"`
}

func toLinkResponse(l *models.FlashcardLink) linkResponse {
	return linkResponse{
		LinkID:     l.PublicID,
		FromCardID: l.FromCard.PublicID,
		ToCardID:   l.ToCard.PublicID,
		LinkType:   l.LinkType,
	}
}

// GET /api/cards/{cardID}/links
func (db *DBHandler) GetLinksForCard(w http.ResponseWriter, r *http.Request) {
	card, ok := db.ownedCard(w, r, "GetLinksForCard")
	if !ok {
		return
	}

	links, err := db.ListLinks(r.Context(), card.ID)
	if err != nil {
		storeError(w, r, "GetLinksForCard", err, "Card not found")
		return
	}

	out := make([]linkResponse, 0, len(links))
	for i := range links {
		out = append(out, toLinkResponse(&links[i]))
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

// POST /api/cards/{cardID}/links
func (db *DBHandler) CreateCardLink(w http.ResponseWriter, r *http.Request) {
	from, ok := db.ownedCard(w, r, "CreateCardLink")
	if !ok {
		return
	}

	var req struct {
		ToCardID string `json:"to_card_id"`
		LinkType string `json:"link_type"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ToCardID == "" {
		utils.WriteError(w, http.StatusBadRequest, "to_card_id is required")
		return
	}

	to, err := db.GetCard(r.Context(), req.ToCardID)
	if err != nil {
		storeError(w, r, "CreateCardLink", err, "Target card not found")
		return
	}

	link, err := db.LinkCards(r.Context(), from, to, req.LinkType)
	if err != nil {
		storeError(w, r, "CreateCardLink", err, "Card not found")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, toLinkResponse(link))
}

// DELETE /api/links/{linkID}
func (db *DBHandler) DeleteCardLink(w http.ResponseWriter, r *http.Request) {
	link, err := db.GetLink(r.Context(), r.PathValue("linkID"))
	if err != nil {
		storeError(w, r, "DeleteCardLink", err, "Link not found")
		return
	}
	if link.FromCard.FlashcardSet.UserID != currentUser(r).ID {
		utils.WriteError(w, http.StatusForbidden, "Not authorized")
		return
	}

	if err := db.RemoveLink(r.Context(), link); err != nil {
		storeError(w, r, "DeleteCardLink", err, "Link not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

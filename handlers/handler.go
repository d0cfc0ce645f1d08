package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/andrewpaige1/memora/auth"
	"github.com/andrewpaige1/memora/middleware"
	"github.com/andrewpaige1/memora/models"
	"github.com/andrewpaige1/memora/store"
	"github.com/andrewpaige1/memora/utils"
)

type DBHandler struct {
	*store.Store
	Tokens     *auth.TokenIssuer
	BcryptCost int
}

// currentUser returns the authenticated user. Routes that call it are
// wrapped in middleware.RequireUser.
func currentUser(r *http.Request) *models.User {
	user, _ := middleware.UserFromContext(r.Context())
	return user
}

// ownedSet loads the set named by the setID path value and checks that user
// owns it. On failure it has already written the response.
func (db *DBHandler) ownedSet(w http.ResponseWriter, r *http.Request, op string) (*models.FlashcardSet, bool) {
	setID := r.PathValue("setID")
	if setID == "" {
		utils.WriteError(w, http.StatusBadRequest, "Set ID is required")
		return nil, false
	}

	set, err := db.GetSet(r.Context(), setID)
	if err != nil {
		storeError(w, r, op, err, "Set not found")
		return nil, false
	}
	if set.UserID != currentUser(r).ID {
		slog.WarnContext(r.Context(), op+": forbidden", "set_id", setID, "user_id", currentUser(r).PublicID)
		utils.WriteError(w, http.StatusForbidden, "Forbidden: you do not own this set")
		return nil, false
	}
	return set, true
}

// ownedCard loads the card named by the cardID path value and checks that
// user owns its set.
func (db *DBHandler) ownedCard(w http.ResponseWriter, r *http.Request, op string) (*models.Flashcard, bool) {
	cardID := r.PathValue("cardID")
	if cardID == "" {
		utils.WriteError(w, http.StatusBadRequest, "Card ID is required")
		return nil, false
	}

	card, err := db.GetCard(r.Context(), cardID)
	if err != nil {
		storeError(w, r, op, err, "Card not found")
		return nil, false
	}
	if card.FlashcardSet.UserID != currentUser(r).ID {
		slog.WarnContext(r.Context(), op+": forbidden", "card_id", cardID, "user_id", currentUser(r).PublicID)
		utils.WriteError(w, http.StatusForbidden, "Not authorized")
		return nil, false
	}
	return card, true
}

// storeError maps a store error to a response. notFound is the detail used
// for store.ErrNotFound.
func storeError(w http.ResponseWriter, r *http.Request, op string, err error, notFound string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, notFound)
	case errors.Is(err, store.ErrSelfLink):
		utils.WriteError(w, http.StatusBadRequest, "A card cannot link to itself")
	case errors.Is(err, store.ErrCrossSetLink):
		utils.WriteError(w, http.StatusBadRequest, "Linked cards must belong to the same set")
	case errors.Is(err, store.ErrEmailTaken):
		utils.WriteError(w, http.StatusConflict, "Email already registered")
	default:
		slog.ErrorContext(r.Context(), op+": store failure", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Internal error")
	}
}

package handlers

import (
	"net/http"

	"github.com/andrewpaige1/memora/middleware"
	"github.com/andrewpaige1/memora/utils"
)

// Routes registers the API on mux. Authentication middleware is applied by
// the caller around the whole mux; routes that need a user are wrapped in
// middleware.RequireUser here.
func Routes(mux *http.ServeMux, db *DBHandler, sessions *StudySessions) {
	auth := middleware.RequireUser

	mux.HandleFunc("GET /health", db.Health)

	// Auth
	mux.HandleFunc("POST /api/auth/register", db.Register)
	mux.HandleFunc("POST /api/auth/login", db.Login)
	mux.HandleFunc("GET /api/auth/me", auth(db.Me))

	// Set
	mux.HandleFunc("GET /api/sets", auth(db.GetSets))
	mux.HandleFunc("POST /api/sets", auth(db.CreateFlashCardSet))
	mux.HandleFunc("GET /api/sets/{setID}", auth(db.GetSetByID))
	mux.HandleFunc("PUT /api/sets/{setID}", auth(db.UpdateSetByID))
	mux.HandleFunc("DELETE /api/sets/{setID}", auth(db.DeleteSetByID))

	// Flashcard
	mux.HandleFunc("GET /api/sets/{setID}/cards", auth(db.GetFlashcardsForSet))
	mux.HandleFunc("POST /api/sets/{setID}/cards", auth(db.CreateFlashCard))
	mux.HandleFunc("PUT /api/cards/{cardID}", auth(db.UpdateFlashCardByID))
	mux.HandleFunc("DELETE /api/cards/{cardID}", auth(db.DeleteFlashCardByID))

	// Links
	mux.HandleFunc("GET /api/cards/{cardID}/links", auth(db.GetLinksForCard))
	mux.HandleFunc("POST /api/cards/{cardID}/links", auth(db.CreateCardLink))
	mux.HandleFunc("DELETE /api/links/{linkID}", auth(db.DeleteCardLink))
	mux.HandleFunc("PUT /api/sets/{setID}/layout", auth(db.UpdateLayout))

	// Progress
	mux.HandleFunc("GET /api/progress/{setID}", auth(db.GetProgress))
	mux.HandleFunc("POST /api/progress/card/{cardID}", auth(db.UpdateCardProgress))

	// Scores
	mux.HandleFunc("GET /api/sets/{setID}/scores", auth(db.GetScores))
	mux.HandleFunc("POST /api/sets/{setID}/scores", auth(db.CreateScore))

	// Metrics
	mux.HandleFunc("POST /api/metrics", db.StoreMetric)
	mux.HandleFunc("GET /api/metrics/dashboard", db.GetMetricsDashboard)

	// Study sessions
	mux.HandleFunc("POST /api/sets/{setID}/study", auth(sessions.Start))
	mux.HandleFunc("GET /api/study/{sessionID}", auth(sessions.Get))
	mux.HandleFunc("DELETE /api/study/{sessionID}", auth(sessions.End))
	mux.HandleFunc("POST /api/study/{sessionID}/mode", auth(sessions.SetMode))
	mux.HandleFunc("POST /api/study/{sessionID}/exit", auth(sessions.Exit))
	mux.HandleFunc("POST /api/study/{sessionID}/actions", auth(sessions.Act))
}

// GET /health
func (db *DBHandler) Health(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := db.DB().DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		utils.WriteError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

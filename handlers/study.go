package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/andrewpaige1/memora/models"
	"github.com/andrewpaige1/memora/study"
	"github.com/andrewpaige1/memora/utils"
)

// StudySessions hosts study.Session values for clients that do not run the
// engines themselves. Each session is owned by the user who started it and
// is dropped after ttl without use.
type StudySessions struct {
	h       *DBHandler
	persist study.Persister
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*hostedSession
}

type hostedSession struct {
	mu       sync.Mutex
	id       string
	ownerID  uint
	set      *models.FlashcardSet
	session  *study.Session
	lastUsed time.Time
}

func NewStudySessions(h *DBHandler, persist study.Persister, ttl time.Duration) *StudySessions {
	return &StudySessions{
		h:        h,
		persist:  persist,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*hostedSession),
	}
}

type sessionResponse struct {
	SessionID string             `json:"session_id"`
	State     study.SessionState `json:"state"`
}

// POST /api/sets/{setID}/study
func (s *StudySessions) Start(w http.ResponseWriter, r *http.Request) {
	set, ok := s.h.ownedSet(w, r, "StartStudy")
	if !ok {
		return
	}

	mode := study.ModeNone
	if raw := r.URL.Query().Get("mode"); raw != "" {
		m, err := study.ParseMode(raw)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		mode = m
	}

	board, err := study.LoadBoard(r.Context(), s.h.Store, set.PublicID)
	if err != nil {
		storeError(w, r, "StartStudy", err, "Set not found")
		return
	}

	id, err := gonanoid.New()
	if err != nil {
		slog.ErrorContext(r.Context(), "StartStudy: generate session id", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to generate ID")
		return
	}

	hs := &hostedSession{
		id:       id,
		ownerID:  currentUser(r).ID,
		set:      set,
		session:  study.NewSession(board, s.h.Store, s.persist),
		lastUsed: s.now(),
	}
	hs.session.EnterMode(mode)

	s.mu.Lock()
	s.sessions[id] = hs
	s.mu.Unlock()

	slog.InfoContext(r.Context(), "StartStudy: session started", "session_id", id, "set_id", set.PublicID, "cards", len(board.Cards))
	utils.WriteJSON(w, http.StatusCreated, sessionResponse{SessionID: id, State: hs.session.State()})
}

// lookup returns the caller's session named by the sessionID path value,
// locked. The caller must unlock it.
func (s *StudySessions) lookup(w http.ResponseWriter, r *http.Request) (*hostedSession, bool) {
	id := r.PathValue("sessionID")

	s.mu.Lock()
	hs, ok := s.sessions[id]
	s.mu.Unlock()

	if !ok || hs.ownerID != currentUser(r).ID {
		utils.WriteError(w, http.StatusNotFound, "Study session not found")
		return nil, false
	}

	hs.mu.Lock()
	hs.lastUsed = s.now()
	return hs, true
}

// GET /api/study/{sessionID}
func (s *StudySessions) Get(w http.ResponseWriter, r *http.Request) {
	hs, ok := s.lookup(w, r)
	if !ok {
		return
	}
	defer hs.mu.Unlock()
	utils.WriteJSON(w, http.StatusOK, sessionResponse{SessionID: hs.id, State: hs.session.State()})
}

// DELETE /api/study/{sessionID}
func (s *StudySessions) End(w http.ResponseWriter, r *http.Request) {
	hs, ok := s.lookup(w, r)
	if !ok {
		return
	}
	hs.session.Exit()
	hs.mu.Unlock()

	s.mu.Lock()
	delete(s.sessions, hs.id)
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

// POST /api/study/{sessionID}/mode
func (s *StudySessions) SetMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	mode, err := study.ParseMode(req.Mode)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	hs, ok := s.lookup(w, r)
	if !ok {
		return
	}
	defer hs.mu.Unlock()

	hs.session.EnterMode(mode)
	utils.WriteJSON(w, http.StatusOK, sessionResponse{SessionID: hs.id, State: hs.session.State()})
}

// POST /api/study/{sessionID}/exit
func (s *StudySessions) Exit(w http.ResponseWriter, r *http.Request) {
	hs, ok := s.lookup(w, r)
	if !ok {
		return
	}
	defer hs.mu.Unlock()

	hs.session.Exit()
	utils.WriteJSON(w, http.StatusOK, sessionResponse{SessionID: hs.id, State: hs.session.State()})
}

type actionRequest struct {
	Action   string          `json:"action"`
	CardID   string          `json:"card_id"`
	Value    json.RawMessage `json:"value"`
	Category string          `json:"category"`
	X        *float64        `json:"x"`
	Y        *float64        `json:"y"`
	LinkID   string          `json:"link_id"`
}

// answerValue accepts a JSON string or number and returns its text.
func (a actionRequest) answerValue() string {
	var s string
	if err := json.Unmarshal(a.Value, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(a.Value))
}

// actionModes lists the session modes each action is valid in.
var actionModes = map[string][]study.Mode{
	"flip":            {study.ModeFlip},
	"next":            {study.ModeFlip},
	"prev":            {study.ModeFlip},
	"toggle_quiz":     {study.ModeList, study.ModeCategory, study.ModeWhiteboard},
	"check":           {study.ModeList, study.ModeCategory, study.ModeWhiteboard},
	"reset":           {study.ModeList, study.ModeCategory, study.ModeWhiteboard},
	"answer":          {study.ModeList},
	"select_category": {study.ModeCategory},
	"assign":          {study.ModeCategory},
	"click":           {study.ModeWhiteboard},
	"begin_drag":      {study.ModeWhiteboard},
	"drag":            {study.ModeWhiteboard},
	"end_drag":        {study.ModeWhiteboard},
	"remove_link":     {study.ModeWhiteboard},
}

var cardActions = map[string]bool{
	"answer": true, "assign": true, "click": true,
	"begin_drag": true, "drag": true, "end_drag": true,
}

// POST /api/study/{sessionID}/actions
func (s *StudySessions) Act(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	modes, known := actionModes[req.Action]
	if !known {
		utils.WriteError(w, http.StatusBadRequest, "Unknown action "+req.Action)
		return
	}
	if cardActions[req.Action] && req.CardID == "" {
		utils.WriteError(w, http.StatusBadRequest, "card_id is required")
		return
	}

	hs, ok := s.lookup(w, r)
	if !ok {
		return
	}
	defer hs.mu.Unlock()

	sess := hs.session
	active := sess.Mode()
	if !modeIn(active, modes) {
		utils.WriteError(w, http.StatusConflict, req.Action+" is not available in "+active.String()+" mode")
		return
	}

	switch req.Action {
	case "flip":
		sess.Flip.Flip()
	case "next":
		sess.Flip.Next()
	case "prev":
		sess.Flip.Prev()
	case "toggle_quiz":
		switch active {
		case study.ModeList:
			sess.List.ToggleQuiz()
		case study.ModeCategory:
			sess.Category.ToggleQuiz()
		case study.ModeWhiteboard:
			sess.Whiteboard.ToggleMode()
		}
	case "answer":
		sess.List.SubmitAnswer(req.CardID, req.answerValue())
	case "select_category":
		if req.Category == "" {
			utils.WriteError(w, http.StatusBadRequest, "category is required")
			return
		}
		sess.Category.Select(req.Category)
	case "assign":
		sess.Category.Assign(req.CardID)
	case "click":
		sess.Whiteboard.ClickCard(r.Context(), req.CardID)
	case "begin_drag":
		sess.Whiteboard.BeginDrag(req.CardID)
	case "drag":
		if req.X == nil || req.Y == nil {
			utils.WriteError(w, http.StatusBadRequest, "x and y are required")
			return
		}
		sess.Whiteboard.UpdateDrag(req.CardID, *req.X, *req.Y)
	case "end_drag":
		sess.Whiteboard.EndDrag(r.Context(), req.CardID)
	case "remove_link":
		if req.LinkID == "" {
			utils.WriteError(w, http.StatusBadRequest, "link_id is required")
			return
		}
		sess.Whiteboard.RemoveLink(r.Context(), req.LinkID)
	case "reset":
		switch active {
		case study.ModeList:
			sess.List.Reset()
		case study.ModeCategory:
			sess.Category.Reset()
		case study.ModeWhiteboard:
			sess.Whiteboard.Reset()
		}
	case "check":
		if !s.check(w, r, hs) {
			return
		}
	}

	utils.WriteJSON(w, http.StatusOK, sessionResponse{SessionID: hs.id, State: sess.State()})
}

// check scores the active quiz and records a first-time result. It writes
// the error response and returns false when the active engine is not in
// quiz mode.
func (s *StudySessions) check(w http.ResponseWriter, r *http.Request, hs *hostedSession) bool {
	sess := hs.session

	var (
		score      study.Score
		mode       string
		wasChecked bool
	)
	switch sess.Mode() {
	case study.ModeList:
		if !sess.List.QuizMode() {
			utils.WriteError(w, http.StatusConflict, "list quiz is not active")
			return false
		}
		wasChecked = sess.List.State().Checked
		score, mode = sess.List.Check(), models.QuizModeList
	case study.ModeCategory:
		if !sess.Category.QuizMode() {
			utils.WriteError(w, http.StatusConflict, "category quiz is not active")
			return false
		}
		wasChecked = sess.Category.State().Checked
		score, mode = sess.Category.Check(), models.QuizModeCategory
	case study.ModeWhiteboard:
		wasChecked = sess.Whiteboard.State().Checked
		var ok bool
		score, ok = sess.Whiteboard.Check()
		if !ok {
			utils.WriteError(w, http.StatusConflict, "whiteboard is not in quiz mode")
			return false
		}
		mode = models.QuizModeWhiteboard
	}

	if !wasChecked {
		if _, err := s.h.recordScore(r.Context(), currentUser(r), hs.set, mode, score); err != nil {
			slog.ErrorContext(r.Context(), "CheckStudy: could not record score", "session_id", hs.id, "error", err)
		}
	}
	return true
}

func modeIn(m study.Mode, modes []study.Mode) bool {
	for _, candidate := range modes {
		if candidate == m {
			return true
		}
	}
	return false
}

// Sweep drops sessions idle for longer than the ttl and returns how many it
// dropped.
func (s *StudySessions) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, hs := range s.sessions {
		hs.mu.Lock()
		idle := hs.lastUsed.Before(cutoff)
		hs.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps idle sessions until ctx is done.
func (s *StudySessions) Run(ctx context.Context) {
	interval := max(s.ttl/4, time.Minute)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				slog.InfoContext(ctx, "StudySessions: evicted idle sessions", "count", n)
			}
		}
	}
}

// Len reports the number of live sessions.
func (s *StudySessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andrewpaige1/memora/auth"
	"github.com/andrewpaige1/memora/config"
	"github.com/andrewpaige1/memora/middleware"
	"github.com/andrewpaige1/memora/store"
	"github.com/andrewpaige1/memora/study"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	t        *testing.T
	handler  http.Handler
	sessions *StudySessions
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db, err := config.Connect(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		URL:    filepath.Join(t.TempDir(), "memora.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	s := store.New(db)
	issuer := auth.NewTokenIssuer("handlers-test-secret", "memora", "memora-api", time.Hour)
	h := &DBHandler{Store: s, Tokens: issuer, BcryptCost: 4}
	sessions := NewStudySessions(h, study.InlinePersister{Log: slog.New(slog.DiscardHandler)}, time.Hour)

	mux := http.NewServeMux()
	Routes(mux, h, sessions)

	jwtMW, err := middleware.EnsureValidToken(issuer)
	require.NoError(t, err)

	return &testAPI{
		t:        t,
		handler:  jwtMW(middleware.CurrentUser(s)(mux)),
		sessions: sessions,
	}
}

// do sends body as JSON and decodes the response into out when out is not nil.
func (a *testAPI) do(method, path, token string, body, out any) int {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

var emailSeq atomic.Int64

// register creates a fresh user and returns its token.
func (a *testAPI) register() string {
	a.t.Helper()
	var res authResponse
	code := a.do(http.MethodPost, "/api/auth/register", "", credentials{
		Email:    fmt.Sprintf("student%d@example.com", emailSeq.Add(1)),
		Password: "correct horse",
	}, &res)
	require.Equal(a.t, http.StatusCreated, code)
	require.NotEmpty(a.t, res.Token)
	return res.Token
}

func (a *testAPI) createSet(token, title string) setResponse {
	a.t.Helper()
	var set setResponse
	code := a.do(http.MethodPost, "/api/sets", token, map[string]string{"title": title}, &set)
	require.Equal(a.t, http.StatusCreated, code)
	return set
}

func (a *testAPI) createCard(token, setID, front string) cardResponse {
	a.t.Helper()
	var card cardResponse
	code := a.do(http.MethodPost, "/api/sets/"+setID+"/cards", token, map[string]string{
		"front_text": front,
		"back_text":  front + " back",
	}, &card)
	require.Equal(a.t, http.StatusCreated, code)
	return card
}

type errorBody struct {
	Detail string `json:"detail"`
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	var res authResponse
	code := api.do(http.MethodPost, "/api/auth/register", "", credentials{Email: "Ada@Example.com", Password: "lovelace1"}, &res)
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, res.Success)
	assert.Equal(t, "ada@example.com", res.User.Email)

	var e errorBody
	code = api.do(http.MethodPost, "/api/auth/register", "", credentials{Email: "ada@example.com", Password: "lovelace1"}, &e)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Email already registered", e.Detail)

	code = api.do(http.MethodPost, "/api/auth/login", "", credentials{Email: "ada@example.com", Password: "wrong-password"}, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code = api.do(http.MethodPost, "/api/auth/login", "", credentials{Email: "nobody@example.com", Password: "lovelace1"}, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	var login authResponse
	code = api.do(http.MethodPost, "/api/auth/login", "", credentials{Email: "ada@example.com", Password: "lovelace1"}, &login)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, res.User.ID, login.User.ID)

	var me userResponse
	code = api.do(http.MethodGet, "/api/auth/me", login.Token, nil, &me)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ada", me.Name)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	tests := []struct {
		name string
		body any
	}{
		{name: "bad email", body: credentials{Email: "not-an-email", Password: "long enough"}},
		{name: "short password", body: credentials{Email: "a@b.io", Password: "short"}},
		{name: "unknown field", body: map[string]string{"email": "a@b.io", "password": "long enough", "role": "admin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/auth/register", "", tt.body, nil))
		})
	}
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/sets", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/sets", "garbage", nil, nil))
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/health", "", nil, nil))
}

func TestSetLifecycle(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	token := api.register()

	set := api.createSet(token, "  Biology ")
	assert.Equal(t, "Biology", set.Title)
	api.createCard(token, set.SetID, "Cell")
	api.createCard(token, set.SetID, "Tissue")

	var sets []setResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/sets", token, nil, &sets))
	require.Len(t, sets, 1)
	assert.EqualValues(t, 2, sets[0].CardCount)

	var updated setResponse
	code := api.do(http.MethodPut, "/api/sets/"+set.SetID, token, map[string]string{"description": "Intro"}, &updated)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Biology", updated.Title)
	assert.Equal(t, "Intro", updated.Description)

	code = api.do(http.MethodPut, "/api/sets/"+set.SetID, token, map[string]string{"title": "  "}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/sets/"+set.SetID, token, nil, nil))
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/sets/"+set.SetID, token, nil, nil))
}

func TestSetOwnership(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	owner := api.register()
	other := api.register()

	set := api.createSet(owner, "Private")
	card := api.createCard(owner, set.SetID, "Secret")

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, "/api/sets/"+set.SetID, other, nil, nil))
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodDelete, "/api/sets/"+set.SetID, other, nil, nil))
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPut, "/api/cards/"+card.CardID, other, map[string]string{"front_text": "x"}, nil))
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/sets/missing", other, nil, nil))
}

func TestCardCRUD(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	token := api.register()
	set := api.createSet(token, "Chem")

	first := api.createCard(token, set.SetID, "H")
	second := api.createCard(token, set.SetID, "He")
	require.NotNil(t, first.OrderNumber)
	require.NotNil(t, second.OrderNumber)
	assert.Equal(t, 1, *first.OrderNumber)
	assert.Equal(t, 2, *second.OrderNumber)

	code := api.do(http.MethodPost, "/api/sets/"+set.SetID+"/cards", token, map[string]string{"front_text": "Li"}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	var moved cardResponse
	code = api.do(http.MethodPut, "/api/cards/"+first.CardID, token, map[string]float64{"position_x": 40, "position_y": 60}, &moved)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, moved.PositionX)
	assert.Equal(t, 40.0, *moved.PositionX)
	assert.Equal(t, "H", moved.FrontText)

	assert.Equal(t, http.StatusOK, api.do(http.MethodDelete, "/api/cards/"+first.CardID, token, nil, nil))

	var cards []cardResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/sets/"+set.SetID+"/cards", token, nil, &cards))
	require.Len(t, cards, 1)
	assert.Equal(t, second.CardID, cards[0].CardID)
}

func TestCardLinks(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	token := api.register()
	set := api.createSet(token, "Chain")
	a := api.createCard(token, set.SetID, "A")
	b := api.createCard(token, set.SetID, "B")
	foreign := api.createCard(token, api.createSet(token, "Other").SetID, "Z")

	var link linkResponse
	code := api.do(http.MethodPost, "/api/cards/"+a.CardID+"/links", token, map[string]string{"to_card_id": b.CardID}, &link)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, a.CardID, link.FromCardID)
	assert.Equal(t, b.CardID, link.ToCardID)

	var e errorBody
	code = api.do(http.MethodPost, "/api/cards/"+a.CardID+"/links", token, map[string]string{"to_card_id": a.CardID}, &e)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "A card cannot link to itself", e.Detail)

	code = api.do(http.MethodPost, "/api/cards/"+a.CardID+"/links", token, map[string]string{"to_card_id": foreign.CardID}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	var links []linkResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/cards/"+b.CardID+"/links", token, nil, &links))
	assert.Len(t, links, 1)

	other := api.register()
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodDelete, "/api/links/"+link.LinkID, other, nil, nil))
	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/links/"+link.LinkID, token, nil, nil))
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodDelete, "/api/links/"+link.LinkID, token, nil, nil))
}

func TestUpdateLayout(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	token := api.register()
	set := api.createSet(token, "Board")
	a := api.createCard(token, set.SetID, "A")
	b := api.createCard(token, set.SetID, "B")

	body := map[string]any{"positions": []store.Position{
		{CardID: a.CardID, X: 10, Y: 20},
		{CardID: b.CardID, X: -5, Y: 300},
	}}
	require.Equal(t, http.StatusNoContent, api.do(http.MethodPut, "/api/sets/"+set.SetID+"/layout", token, body, nil))

	var cards []cardResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/sets/"+set.SetID+"/cards", token, nil, &cards))
	require.Len(t, cards, 2)
	assert.Equal(t, 10.0, *cards[0].PositionX)
	assert.Equal(t, 0.0, *cards[1].PositionX)
	assert.Equal(t, 300.0, *cards[1].PositionY)

	missing := map[string]any{"positions": []store.Position{{CardID: a.CardID, X: 1, Y: 1}, {CardID: "nope", X: 1, Y: 1}}}
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodPut, "/api/sets/"+set.SetID+"/layout", token, missing, nil))

	// The failed batch left the first card untouched.
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/sets/"+set.SetID+"/cards", token, nil, &cards))
	assert.Equal(t, 10.0, *cards[0].PositionX)
}

func TestProgressAndScores(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	token := api.register()
	set := api.createSet(token, "Quiz")
	a := api.createCard(token, set.SetID, "A")
	api.createCard(token, set.SetID, "B")

	var review map[string]any
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/progress/card/"+a.CardID, token, map[string]bool{"is_mastered": true}, &review))
	assert.Equal(t, true, review["mastered"])
	assert.EqualValues(t, 1, review["times_reviewed"])

	var progress store.Progress
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/progress/"+set.SetID, token, nil, &progress))
	assert.Equal(t, store.Progress{Mastered: 1, Total: 2, Percentage: 50}, progress)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/sets/"+set.SetID+"/scores", token, map[string]any{"mode": "flip", "correct": 1, "total": 2}, nil))
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/sets/"+set.SetID+"/scores", token, map[string]any{"mode": "list", "correct": 3, "total": 2}, nil))

	var created scoreResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/sets/"+set.SetID+"/scores", token, map[string]any{"mode": "list", "correct": 1, "total": 2}, &created))
	assert.Equal(t, 50, created.Percentage)

	var scores []scoreResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/sets/"+set.SetID+"/scores", token, nil, &scores))
	require.Len(t, scores, 1)
	assert.Equal(t, "list", scores[0].Mode)

	var got setResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/sets/"+set.SetID, token, nil, &got))
	assert.NotNil(t, got.LastStudied)
}

func TestMetrics(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	token := api.register()

	code := api.do(http.MethodPost, "/api/metrics", "", map[string]any{"type": "page_load", "data": map[string]int{"duration": 120}}, nil)
	assert.Equal(t, http.StatusCreated, code)
	code = api.do(http.MethodPost, "/api/metrics", token, map[string]any{"type": "user_activity"}, nil)
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/metrics", "", map[string]any{"type": " "}, nil))

	var dash map[string]any
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/metrics/dashboard", "", nil, &dash))
	assert.Contains(t, dash, "weekly_active_users")
}

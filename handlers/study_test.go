package handlers

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sessionBody mirrors the study session response with the fields the tests
// read.
type sessionBody struct {
	SessionID string `json:"session_id"`
	State     struct {
		Mode string `json:"mode"`
		Flip *struct {
			Index   int  `json:"index"`
			Flipped bool `json:"flipped"`
		} `json:"flip"`
		List *struct {
			QuizMode bool `json:"quiz_mode"`
			Checked  bool `json:"checked"`
			Score    struct {
				Correct int `json:"correct"`
				Total   int `json:"total"`
			} `json:"score"`
		} `json:"list"`
		Whiteboard *struct {
			Mode      string `json:"mode"`
			Checked   bool   `json:"checked"`
			UserLinks []any  `json:"user_links"`
			Links     []struct {
				ID string `json:"link_id"`
			} `json:"links"`
			Score struct {
				Correct int `json:"correct"`
				Total   int `json:"total"`
			} `json:"score"`
		} `json:"whiteboard"`
	} `json:"state"`
}

func (a *testAPI) act(token, sessionID string, body map[string]any) (int, sessionBody) {
	a.t.Helper()
	var out sessionBody
	code := a.do(http.MethodPost, "/api/study/"+sessionID+"/actions", token, body, &out)
	return code, out
}

func TestStudyListQuiz(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	token := api.register()
	set := api.createSet(token, "Steps")
	cards := []cardResponse{
		api.createCard(token, set.SetID, "first"),
		api.createCard(token, set.SetID, "second"),
		api.createCard(token, set.SetID, "third"),
	}

	var started sessionBody
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/sets/"+set.SetID+"/study?mode=list", token, nil, &started))
	require.NotEmpty(t, started.SessionID)
	assert.Equal(t, "list", started.State.Mode)
	require.NotNil(t, started.State.List)
	assert.Nil(t, started.State.Flip)
	id := started.SessionID

	code, _ := api.act(token, id, map[string]any{"action": "flip"})
	assert.Equal(t, http.StatusConflict, code)
	code, _ = api.act(token, id, map[string]any{"action": "check"})
	assert.Equal(t, http.StatusConflict, code, "check outside quiz mode")

	code, st := api.act(token, id, map[string]any{"action": "toggle_quiz"})
	require.Equal(t, http.StatusOK, code)
	assert.True(t, st.State.List.QuizMode)

	for i, c := range cards {
		var value any = strconv.Itoa(i + 1)
		if i == 2 {
			value = 3
		}
		code, _ = api.act(token, id, map[string]any{"action": "answer", "card_id": c.CardID, "value": value})
		require.Equal(t, http.StatusOK, code)
	}

	code, st = api.act(token, id, map[string]any{"action": "check"})
	require.Equal(t, http.StatusOK, code)
	assert.True(t, st.State.List.Checked)
	assert.Equal(t, 3, st.State.List.Score.Correct)
	assert.Equal(t, 3, st.State.List.Score.Total)

	// A repeated check is not recorded twice.
	code, _ = api.act(token, id, map[string]any{"action": "check"})
	require.Equal(t, http.StatusOK, code)

	var scores []scoreResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/sets/"+set.SetID+"/scores", token, nil, &scores))
	require.Len(t, scores, 1)
	assert.Equal(t, 100, scores[0].Percentage)
}

func TestStudyActionValidation(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	token := api.register()
	set := api.createSet(token, "Empty")

	var started sessionBody
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/sets/"+set.SetID+"/study", token, nil, &started))
	assert.Equal(t, "none", started.State.Mode)
	id := started.SessionID

	code, _ := api.act(token, id, map[string]any{"action": "dance"})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = api.act(token, id, map[string]any{"action": "answer"})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = api.act(token, id, map[string]any{"action": "next"})
	assert.Equal(t, http.StatusConflict, code)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/study/"+id+"/mode", token, map[string]string{"mode": "karaoke"}, nil))
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/sets/"+set.SetID+"/study?mode=karaoke", token, nil, nil))
}

func TestStudyModeSwitching(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	token := api.register()
	set := api.createSet(token, "Flip")
	api.createCard(token, set.SetID, "one")
	api.createCard(token, set.SetID, "two")

	var st sessionBody
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/sets/"+set.SetID+"/study?mode=flip", token, nil, &st))
	id := st.SessionID

	api.act(token, id, map[string]any{"action": "next"})
	_, st = api.act(token, id, map[string]any{"action": "flip"})
	require.NotNil(t, st.State.Flip)
	assert.Equal(t, 1, st.State.Flip.Index)
	assert.True(t, st.State.Flip.Flipped)

	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/study/"+id+"/mode", token, map[string]string{"mode": "categorical"}, &st))
	assert.Equal(t, "category", st.State.Mode)

	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/study/"+id+"/mode", token, map[string]string{"mode": "flip"}, &st))
	require.NotNil(t, st.State.Flip)
	assert.Equal(t, 0, st.State.Flip.Index, "leaving flip mode restarts it")
	assert.False(t, st.State.Flip.Flipped)

	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/study/"+id+"/exit", token, nil, &st))
	assert.Equal(t, "none", st.State.Mode)
}

func TestStudyWhiteboard(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	token := api.register()
	set := api.createSet(token, "Chain")
	a := api.createCard(token, set.SetID, "a")
	b := api.createCard(token, set.SetID, "b")
	c := api.createCard(token, set.SetID, "c")

	var st sessionBody
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/sets/"+set.SetID+"/study?mode=whiteboard", token, nil, &st))
	id := st.SessionID
	require.NotNil(t, st.State.Whiteboard)
	assert.Equal(t, "edit", st.State.Whiteboard.Mode)

	// Edit mode links are written through to the store.
	api.act(token, id, map[string]any{"action": "click", "card_id": a.CardID})
	_, st = api.act(token, id, map[string]any{"action": "click", "card_id": b.CardID})
	require.Len(t, st.State.Whiteboard.Links, 1)
	assert.NotEmpty(t, st.State.Whiteboard.Links[0].ID)

	var links []linkResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/cards/"+a.CardID+"/links", token, nil, &links))
	assert.Len(t, links, 1)

	code, _ := api.act(token, id, map[string]any{"action": "drag", "card_id": a.CardID})
	assert.Equal(t, http.StatusBadRequest, code)
	api.act(token, id, map[string]any{"action": "begin_drag", "card_id": c.CardID})
	api.act(token, id, map[string]any{"action": "drag", "card_id": c.CardID, "x": 500.0, "y": 20.0})
	api.act(token, id, map[string]any{"action": "end_drag", "card_id": c.CardID})

	var cards []cardResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/sets/"+set.SetID+"/cards", token, nil, &cards))
	require.NotNil(t, cards[2].PositionX)
	assert.Equal(t, 500.0, *cards[2].PositionX)

	_, st = api.act(token, id, map[string]any{"action": "toggle_quiz"})
	assert.Equal(t, "quiz", st.State.Whiteboard.Mode)
	for _, pair := range [][2]string{{a.CardID, b.CardID}, {b.CardID, c.CardID}} {
		api.act(token, id, map[string]any{"action": "click", "card_id": pair[0]})
		api.act(token, id, map[string]any{"action": "click", "card_id": pair[1]})
	}
	code, st = api.act(token, id, map[string]any{"action": "check"})
	require.Equal(t, http.StatusOK, code)
	assert.True(t, st.State.Whiteboard.Checked)
	assert.Equal(t, 2, st.State.Whiteboard.Score.Correct)
	assert.Equal(t, 2, st.State.Whiteboard.Score.Total)

	var scores []scoreResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/sets/"+set.SetID+"/scores", token, nil, &scores))
	require.Len(t, scores, 1)
	assert.Equal(t, "whiteboard", scores[0].Mode)
}

func TestStudySessionOwnershipAndSweep(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	owner := api.register()
	other := api.register()
	set := api.createSet(owner, "Mine")

	var st sessionBody
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/sets/"+set.SetID+"/study", owner, nil, &st))
	id := st.SessionID

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/study/"+id, other, nil, nil))
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/study/"+id, owner, nil, nil))
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, "/api/sets/"+set.SetID+"/study", other, nil, nil))

	assert.Equal(t, 0, api.sessions.Sweep())
	api.sessions.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	assert.Equal(t, 1, api.sessions.Sweep())
	assert.Equal(t, 0, api.sessions.Len())
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/study/"+id, owner, nil, nil))

	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/sets/"+set.SetID+"/study", owner, nil, &st))
	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/study/"+st.SessionID, owner, nil, nil))
	assert.Equal(t, 0, api.sessions.Len())
}

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/memora/study"
)

// memStore is a CardStore that accepts every write.
type memStore struct {
	created int
}

func (m *memStore) ListCardsForSet(ctx context.Context, setID string) ([]study.Card, error) {
	return nil, nil
}

func (m *memStore) UpdateCardPosition(ctx context.Context, cardID string, x, y float64) (study.Card, error) {
	return study.Card{ID: cardID, PositionX: &x, PositionY: &y}, nil
}

func (m *memStore) ListLinksForCard(ctx context.Context, cardID string) ([]study.Link, error) {
	return nil, nil
}

func (m *memStore) CreateLink(ctx context.Context, from, to string) (study.Link, error) {
	m.created++
	return study.Link{ID: "link-" + from + "-" + to, From: from, To: to}, nil
}

func (m *memStore) DeleteLink(ctx context.Context, linkID string) error { return nil }

func testSession() (*study.Session, *memStore) {
	order := func(n int) *int { return &n }
	bio := "bio"
	board := study.Board{
		SetID: "set-1",
		Cards: []study.Card{
			{ID: "c1", Front: "one", Order: order(1), Category: &bio},
			{ID: "c2", Front: "two", Order: order(2)},
			{ID: "c3", Front: "three", Order: order(3), Category: &bio},
		},
	}
	store := &memStore{}
	return study.NewSession(board, store, study.InlinePersister{}), store
}

// lastState decodes the last JSON state printed by the REPL.
func lastState(t *testing.T, out string) map[string]any {
	t.Helper()
	i := strings.LastIndex(out, "{\n  \"set_id\"")
	require.GreaterOrEqual(t, i, 0, out)
	j := strings.LastIndex(out, "\n}")
	require.Greater(t, j, i)

	var state map[string]any
	require.NoError(t, json.Unmarshal([]byte(out[i:j+2]), &state))
	return state
}

func TestREPLListQuiz(t *testing.T) {
	sess, _ := testSession()
	sess.EnterMode(study.ModeList)

	in := strings.NewReader("quiz\nanswer c1 1\nanswer c2 3\nanswer c3 3\ncheck\nquit\nshow\n")
	var out bytes.Buffer
	require.NoError(t, runREPL(context.Background(), sess, in, &out))

	state := lastState(t, out.String())
	list := state["list"].(map[string]any)
	assert.Equal(t, true, list["checked"])
	assert.Equal(t, map[string]any{"correct": 2.0, "total": 3.0}, list["score"])
}

func TestREPLWhiteboard(t *testing.T) {
	sess, store := testSession()
	sess.EnterMode(study.ModeWhiteboard)

	in := strings.NewReader("click c1\nclick c2\nmove c3 -10 40\nquiz\nclick c1\nclick c2\nclick c2\nclick c3\ncheck\n")
	var out bytes.Buffer
	require.NoError(t, runREPL(context.Background(), sess, in, &out))

	assert.Equal(t, 1, store.created, "quiz links are not stored")
	p, ok := sess.Whiteboard.Position("c3")
	require.True(t, ok)
	assert.Equal(t, study.Point{X: 0, Y: 40}, p)

	score, ok := sess.Whiteboard.Check()
	require.True(t, ok)
	assert.Equal(t, study.Score{Correct: 2, Total: 2}, score)
}

func TestREPLErrors(t *testing.T) {
	sess, _ := testSession()
	sess.EnterMode(study.ModeFlip)

	tests := []struct {
		line string
		want string
	}{
		{line: "answer c1 1", want: "answer is not available in flip mode"},
		{line: "check", want: "check is not available in flip mode"},
		{line: "mode karaoke", want: "unknown study mode"},
		{line: "dance", want: `unknown command "dance"`},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			var out bytes.Buffer
			err := execStudyCommand(context.Background(), sess, strings.Fields(tt.line), &out)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	var out bytes.Buffer
	require.NoError(t, execStudyCommand(context.Background(), sess, []string{"next"}, &out))
	assert.Equal(t, 1, sess.Flip.Index())
}

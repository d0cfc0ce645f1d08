package study

import (
	"errors"
	"fmt"
	"strings"
)

// Mode is the active study mode of a Session.
type Mode int

const (
	ModeNone Mode = iota
	ModeFlip
	ModeList
	ModeCategory
	ModeWhiteboard
)

var modeNames = [...]string{
	ModeNone:       "none",
	ModeFlip:       "flip",
	ModeList:       "list",
	ModeCategory:   "category",
	ModeWhiteboard: "whiteboard",
}

var ErrUnknownMode = errors.New("unknown study mode")

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// ParseMode accepts the lower-case mode names. "categorical" is an alias for
// "category".
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "categorical" {
		return ModeCategory, nil
	}
	for m, n := range modeNames {
		if n == name {
			return Mode(m), nil
		}
	}
	return ModeNone, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Board is everything a Session needs from the Card Store.
type Board struct {
	SetID string `json:"set_id"`
	Cards []Card `json:"cards"`
	Links []Link `json:"links"`
}

// Session holds one engine per mode over the same cards and tracks which of
// them is active. Engines live as long as the session and are reset in place.
//
// A Session is not safe for concurrent use. The Whiteboard guards its own
// state because persistence confirmations arrive asynchronously.
type Session struct {
	setID string
	mode  Mode

	Flip       *Flip
	List       *List
	Category   *Category
	Whiteboard *Whiteboard
}

// NewSession builds the engines for board. Whiteboard writes go to store
// through persist.
func NewSession(board Board, store CardStore, persist Persister) *Session {
	cards := make([]Card, len(board.Cards))
	copy(cards, board.Cards)
	return &Session{
		setID:      board.SetID,
		Flip:       NewFlip(cards),
		List:       NewList(cards),
		Category:   NewCategory(cards),
		Whiteboard: NewWhiteboard(cards, board.Links, store, persist),
	}
}

func (s *Session) SetID() string { return s.setID }
func (s *Session) Mode() Mode    { return s.mode }

// EnterMode makes m the active mode. Leaving a mode restarts its engine, so
// coming back to it starts clean. Entering the active mode again does
// nothing.
func (s *Session) EnterMode(m Mode) {
	if m == s.mode {
		return
	}
	s.restart(s.mode)
	s.mode = m
}

// Exit leaves study mode and clears the transient state of every engine.
// It performs no Card Store calls.
func (s *Session) Exit() {
	for _, m := range []Mode{ModeFlip, ModeList, ModeCategory, ModeWhiteboard} {
		s.restart(m)
	}
	s.mode = ModeNone
}

func (s *Session) restart(m Mode) {
	switch m {
	case ModeFlip:
		s.Flip.restart()
	case ModeList:
		s.List.restart()
	case ModeCategory:
		s.Category.restart()
	case ModeWhiteboard:
		s.Whiteboard.restart()
	}
}

// SessionState carries the snapshot of the active engine only.
type SessionState struct {
	SetID      string           `json:"set_id"`
	Mode       Mode             `json:"mode"`
	Flip       *FlipState       `json:"flip,omitempty"`
	List       *ListState       `json:"list,omitempty"`
	Category   *CategoryState   `json:"category,omitempty"`
	Whiteboard *WhiteboardState `json:"whiteboard,omitempty"`
}

func (s *Session) State() SessionState {
	st := SessionState{SetID: s.setID, Mode: s.mode}
	switch s.mode {
	case ModeFlip:
		fs := s.Flip.State()
		st.Flip = &fs
	case ModeList:
		ls := s.List.State()
		st.List = &ls
	case ModeCategory:
		cs := s.Category.State()
		st.Category = &cs
	case ModeWhiteboard:
		ws := s.Whiteboard.State()
		st.Whiteboard = &ws
	}
	return st
}

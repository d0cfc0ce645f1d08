// Package store is the gorm-backed persistence layer. Besides the queries
// the HTTP handlers need, Store implements study.CardStore over public IDs.
package store

import (
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("store: not found")
	ErrEmailTaken   = errors.New("store: email already registered")
	ErrSelfLink     = errors.New("store: a card cannot link to itself")
	ErrCrossSetLink = errors.New("store: linked cards must belong to the same set")
)

type Store struct {
	db  *gorm.DB
	now func() time.Time
}

func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *gorm.DB { return s.db }

func newPublicID() (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate public id: %w", err)
	}
	return id, nil
}

// wrap maps gorm's not-found error to ErrNotFound and prefixes the rest.
func wrap(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("store: %s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("store: %s: %w", op, err)
}

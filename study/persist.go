package study

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// CardStore is the persistence collaborator of the study engines.
type CardStore interface {
	ListCardsForSet(ctx context.Context, setID string) ([]Card, error)
	UpdateCardPosition(ctx context.Context, cardID string, x, y float64) (Card, error)
	ListLinksForCard(ctx context.Context, cardID string) ([]Link, error)
	CreateLink(ctx context.Context, fromCardID, toCardID string) (Link, error)
	DeleteLink(ctx context.Context, linkID string) error
}

// Persister decides how engine writes reach the CardStore. The engine has
// already applied the change locally when it calls Persist and does not learn
// the outcome, so a Persister must not block on behalf of the caller's state.
type Persister interface {
	Persist(ctx context.Context, op string, write func(context.Context) error)
}

// OptimisticPersister runs each write on its own goroutine and logs failures.
// Local state is never rolled back.
type OptimisticPersister struct {
	log     *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewOptimisticPersister returns a persister whose writes are bounded by
// timeout. A zero timeout leaves writes unbounded.
func NewOptimisticPersister(log *slog.Logger, timeout time.Duration) *OptimisticPersister {
	if log == nil {
		log = slog.Default()
	}
	return &OptimisticPersister{log: log.With("component", "study.persist"), timeout: timeout}
}

func (p *OptimisticPersister) Persist(ctx context.Context, op string, write func(context.Context) error) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		// the request that triggered the write may finish first
		ctx := context.WithoutCancel(ctx)
		if p.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, p.timeout)
			defer cancel()
		}
		if err := write(ctx); err != nil {
			p.log.WarnContext(ctx, "write failed, keeping local state", "op", op, "error", err)
		}
	}()
}

// Wait blocks until every write started so far has finished.
func (p *OptimisticPersister) Wait() { p.wg.Wait() }

// InlinePersister runs writes on the calling goroutine with the same
// log-and-continue policy as OptimisticPersister.
type InlinePersister struct {
	Log *slog.Logger
}

func (p InlinePersister) Persist(ctx context.Context, op string, write func(context.Context) error) {
	if err := write(ctx); err != nil {
		log := p.Log
		if log == nil {
			log = slog.Default()
		}
		log.WarnContext(ctx, "write failed, keeping local state", "op", op, "error", err)
	}
}

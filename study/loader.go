package study

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// maxLinkFetches bounds concurrent listLinksForCard calls.
const maxLinkFetches = 8

// LoadBoard fetches the cards of setID and the links touching them. Links are
// listed per card concurrently, deduplicated by ID, and kept only when both
// ends belong to the set.
func LoadBoard(ctx context.Context, store CardStore, setID string) (Board, error) {
	cards, err := store.ListCardsForSet(ctx, setID)
	if err != nil {
		return Board{}, fmt.Errorf("list cards for set %s: %w", setID, err)
	}

	perCard := make([][]Link, len(cards))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxLinkFetches)
	for i, c := range cards {
		g.Go(func() error {
			links, err := store.ListLinksForCard(gctx, c.ID)
			if err != nil {
				return fmt.Errorf("list links for card %s: %w", c.ID, err)
			}
			perCard[i] = links
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Board{}, err
	}

	inSet := indexCards(cards)
	seen := make(map[string]struct{})
	var links []Link
	for _, ls := range perCard {
		for _, l := range ls {
			if _, dup := seen[l.ID]; dup {
				continue
			}
			seen[l.ID] = struct{}{}
			_, okFrom := inSet[l.From]
			_, okTo := inSet[l.To]
			if okFrom && okTo {
				links = append(links, l)
			}
		}
	}
	return Board{SetID: setID, Cards: cards, Links: links}, nil
}

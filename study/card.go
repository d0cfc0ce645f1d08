// Package study implements the study modes for a flashcard set: flip, ordered
// list, categorical grouping and the whiteboard, each with its quiz overlay.
//
// Engines work on an in-memory card slice that is owned by the caller and
// treated as read-only. Only the whiteboard talks to the Card Store, and it
// does so through a Persister so that local state never waits on the network.
package study

import "sort"

// Uncategorized is the category of a card that has none.
const Uncategorized = "Uncategorized"

// Card is the study view of a flashcard.
type Card struct {
	ID        string   `json:"card_id"`
	Front     string   `json:"front_text"`
	Back      string   `json:"back_text"`
	Category  *string  `json:"category"`
	Order     *int     `json:"order_number"`
	PositionX *float64 `json:"position_x"`
	PositionY *float64 `json:"position_y"`
}

// OrderOrZero returns the card's order number, or 0 when it has none.
func (c Card) OrderOrZero() int {
	if c.Order == nil {
		return 0
	}
	return *c.Order
}

// CategoryOrDefault returns the card's category, or Uncategorized when it is
// missing or empty.
func (c Card) CategoryOrDefault() string {
	if c.Category == nil || *c.Category == "" {
		return Uncategorized
	}
	return *c.Category
}

// SortByOrder returns a copy of cards sorted ascending by order number.
// Cards with equal order keep their relative position.
func SortByOrder(cards []Card) []Card {
	sorted := make([]Card, len(cards))
	copy(sorted, cards)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OrderOrZero() < sorted[j].OrderOrZero()
	})
	return sorted
}

// Group is one category bucket of cards.
type Group struct {
	Category string `json:"category"`
	Cards    []Card `json:"cards"`
}

// GroupByCategory partitions cards by category. Groups appear in order of
// first occurrence and cards keep their input order within a group.
func GroupByCategory(cards []Card) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, card := range cards {
		cat := card.CategoryOrDefault()
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, Group{Category: cat})
		}
		groups[i].Cards = append(groups[i].Cards, card)
	}
	return groups
}

func indexCards(cards []Card) map[string]int {
	idx := make(map[string]int, len(cards))
	for i, c := range cards {
		idx[c.ID] = i
	}
	return idx
}

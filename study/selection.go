package study

// Selection is the cursor of the two-click link protocol: either idle or
// waiting on a source card.
type Selection struct {
	source  string
	pending bool
}

// Idle is the empty selection.
var Idle = Selection{}

// PendingSource returns a selection waiting for a target after cardID.
func PendingSource(cardID string) Selection {
	return Selection{source: cardID, pending: true}
}

// Source returns the pending source card, if any.
func (s Selection) Source() (string, bool) {
	return s.source, s.pending
}

// IsIdle reports whether no source card is pending.
func (s Selection) IsIdle() bool { return !s.pending }

// Click advances the protocol with a click on cardID. It returns the next
// selection and, when a source was pending on another card, the edge the two
// clicks describe. Clicking the pending source again changes nothing.
func (s Selection) Click(cardID string) (Selection, Edge, bool) {
	if !s.pending {
		return PendingSource(cardID), Edge{}, false
	}
	if s.source == cardID {
		return s, Edge{}, false
	}
	return Idle, Edge{From: s.source, To: cardID}, true
}

package game

import "slices"

// claimQueue is the dealer's FIFO of player ids awaiting adjudication. It is not
// safe for concurrent use; the dealer's table lock guards it.
type claimQueue struct {
	ids []int
}

func (q *claimQueue) Push(id int) {
	q.ids = append(q.ids, id)
}

// Pop removes and returns the oldest claim.
func (q *claimQueue) Pop() (int, bool) {
	if len(q.ids) == 0 {
		return 0, false
	}
	id := q.ids[0]
	q.ids = q.ids[1:]
	return id, true
}

// Filter drops every claim for which keep returns false, preserving order, and
// returns the dropped ids.
func (q *claimQueue) Filter(keep func(id int) bool) []int {
	var dropped []int
	kept := q.ids[:0]
	for _, id := range q.ids {
		if keep(id) {
			kept = append(kept, id)
		} else {
			dropped = append(dropped, id)
		}
	}
	q.ids = kept
	return dropped
}

func (q *claimQueue) Len() int {
	return len(q.ids)
}

func (q *claimQueue) Clear() {
	q.ids = nil
}

func (q *claimQueue) Snapshot() []int {
	return slices.Clone(q.ids)
}

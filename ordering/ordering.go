// Package ordering turns drag-and-drop gestures into persisted display
// positions. An event list and one event's subevent list are reordered by
// independent calls over independent slices; neither ever touches the other's
// order values.
package ordering

import (
	"sort"

	"github.com/testgcahm/gis/models"
)

// Move relocates the element at src to dst and returns the new sequence.
// Out-of-range indices and src == dst are no-ops; the second return value
// reports whether anything moved. The input slice is not modified.
func Move[T any](items []T, src, dst int) ([]T, bool) {
	if src < 0 || src >= len(items) || dst < 0 || dst >= len(items) || src == dst {
		return items, false
	}
	out := make([]T, 0, len(items))
	out = append(out, items[:src]...)
	out = append(out, items[src+1:]...)
	var zero T
	out = append(out, zero)
	copy(out[dst+1:], out[dst:])
	out[dst] = items[src]
	return out, true
}

// RenumberEvents rewrites each event's order field to its zero-based index.
func RenumberEvents(events []models.Event) {
	for i := range events {
		events[i].Order = i
	}
}

// RenumberSubevents rewrites each subevent's order field to its zero-based
// index.
func RenumberSubevents(subs []models.Subevent) {
	for i := range subs {
		subs[i].Order = i
	}
}

// Pairs serializes the full set of {id, order} pairs for a batched write.
// Every event in the sequence is included so the persisted order is total.
func Pairs(events []models.Event) []models.OrderPair {
	pairs := make([]models.OrderPair, len(events))
	for i, ev := range events {
		pairs[i] = models.OrderPair{ID: ev.ID.Hex(), Order: i}
	}
	return pairs
}

// SortEvents sorts events by ascending order, ties broken by id so the
// result is stable across refetches.
func SortEvents(events []models.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Order != events[j].Order {
			return events[i].Order < events[j].Order
		}
		return events[i].ID.Hex() < events[j].ID.Hex()
	})
}

// SortSubevents sorts one event's segments by ascending order.
func SortSubevents(subs []models.Subevent) {
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].Order < subs[j].Order
	})
}

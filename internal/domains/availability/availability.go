// Package availability decides which resources of a pool are free for an interval.
//
// Intervals are half-open: a stay ending at noon does not overlap one starting at noon.
package availability

import (
	"slices"
	"time"

	"sporti/internal/domains/booking/model"
)

// Bookable is implemented by rooms and facility services.
type Bookable interface {
	ResourceKey() string
	Blocked() bool
}

// Occupancy is the part of a booking that matters for overlap checks.
type Occupancy struct {
	BookingID  string       `db:"id"`
	ResourceID string       `db:"resource_id"`
	CheckIn    time.Time    `db:"check_in"`
	CheckOut   time.Time    `db:"check_out"`
	Status     model.Status `db:"status"`
}

func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && aOut.After(bIn)
}

// Blocks reports whether o prevents its resource from being used in [checkIn, checkOut).
// Unbound and terminated bookings never block.
func (o Occupancy) Blocks(checkIn, checkOut time.Time) bool {
	if o.ResourceID == "" || !o.Status.Occupies() {
		return false
	}

	return Overlaps(o.CheckIn, o.CheckOut, checkIn, checkOut)
}

// Conflicts returns the occupancies of resourceID that overlap the interval, ignoring
// the booking excludeID.
func Conflicts(resourceID string, occupancies []Occupancy, checkIn, checkOut time.Time, excludeID string) []Occupancy {
	var res []Occupancy

	for _, o := range occupancies {
		if o.ResourceID != resourceID || (excludeID != "" && o.BookingID == excludeID) {
			continue
		}

		if o.Blocks(checkIn, checkOut) {
			res = append(res, o)
		}
	}

	return res
}

// Filter keeps the pool entries that are not blocked and have no overlapping occupancy.
// Pool order is preserved.
func Filter[T Bookable](pool []T, occupancies []Occupancy, checkIn, checkOut time.Time) []T {
	taken := make(map[string]struct{}, len(occupancies))

	for _, o := range occupancies {
		if o.Blocks(checkIn, checkOut) {
			taken[o.ResourceID] = struct{}{}
		}
	}

	res := make([]T, 0, len(pool))

	for _, item := range pool {
		if item.Blocked() {
			continue
		}

		if _, ok := taken[item.ResourceKey()]; ok {
			continue
		}

		res = append(res, item)
	}

	return res
}

type Group[T any] struct {
	Key   string
	Items []T
}

// GroupBy buckets items by key in order of first appearance.
func GroupBy[T any](items []T, key func(T) string) []Group[T] {
	var groups []Group[T]

	for _, item := range items {
		k := key(item)

		idx := slices.IndexFunc(groups, func(g Group[T]) bool {
			return g.Key == k
		})

		if idx == -1 {
			groups = append(groups, Group[T]{Key: k})
			idx = len(groups) - 1
		}

		groups[idx].Items = append(groups[idx].Items, item)
	}

	return groups
}

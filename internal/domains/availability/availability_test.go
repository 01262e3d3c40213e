package availability_test

import (
	"testing"
	"time"

	"sporti/internal/domains/availability"
	"sporti/internal/domains/booking/model"

	"github.com/stretchr/testify/assert"
)

type resource struct {
	id      string
	floor   string
	blocked bool
}

func (r resource) ResourceKey() string { return r.id }
func (r resource) Blocked() bool       { return r.blocked }

func day(d int) time.Time {
	return time.Date(2026, 5, d, 12, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name       string
		aIn, aOut  time.Time
		bIn, bOut  time.Time
		overlapped bool
	}{
		{"disjoint", day(1), day(2), day(3), day(4), false},
		{"back to back", day(1), day(3), day(3), day(5), false},
		{"partial", day(1), day(4), day(3), day(5), true},
		{"contained", day(1), day(10), day(3), day(5), true},
		{"identical", day(3), day(5), day(3), day(5), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlapped, availability.Overlaps(tt.aIn, tt.aOut, tt.bIn, tt.bOut))
			assert.Equal(t, tt.overlapped, availability.Overlaps(tt.bIn, tt.bOut, tt.aIn, tt.aOut))
		})
	}
}

func TestFilter(t *testing.T) {
	pool := []resource{
		{id: "R1", floor: "1"},
		{id: "R2", floor: "1"},
		{id: "R3", floor: "2", blocked: true},
		{id: "R4", floor: "2"},
	}

	tests := []struct {
		name        string
		pool        []resource
		occupancies []availability.Occupancy
		want        []string
	}{
		{
			name: "blocked resources are never offered",
			pool: pool,
			want: []string{"R1", "R2", "R4"},
		},
		{
			name: "pending bound booking blocks",
			pool: pool,
			occupancies: []availability.Occupancy{
				{BookingID: "B1", ResourceID: "R2", CheckIn: day(9), CheckOut: day(11), Status: model.StatusPending},
			},
			want: []string{"R1", "R4"},
		},
		{
			name: "completed booking still blocks",
			pool: pool,
			occupancies: []availability.Occupancy{
				{BookingID: "B1", ResourceID: "R1", CheckIn: day(9), CheckOut: day(11), Status: model.StatusCompleted},
			},
			want: []string{"R2", "R4"},
		},
		{
			name: "cancelled and rejected bookings free the resource",
			pool: pool,
			occupancies: []availability.Occupancy{
				{BookingID: "B1", ResourceID: "R1", CheckIn: day(9), CheckOut: day(11), Status: model.StatusCancelled},
				{BookingID: "B2", ResourceID: "R2", CheckIn: day(9), CheckOut: day(11), Status: model.StatusRejected},
			},
			want: []string{"R1", "R2", "R4"},
		},
		{
			name: "unbound booking never blocks",
			pool: pool,
			occupancies: []availability.Occupancy{
				{BookingID: "B1", CheckIn: day(9), CheckOut: day(11), Status: model.StatusPending},
			},
			want: []string{"R1", "R2", "R4"},
		},
		{
			name: "adjacent stay does not block",
			pool: pool,
			occupancies: []availability.Occupancy{
				{BookingID: "B1", ResourceID: "R1", CheckIn: day(8), CheckOut: day(10), Status: model.StatusConfirmed},
			},
			want: []string{"R1", "R2", "R4"},
		},
		{
			name: "empty pool",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := availability.Filter(tt.pool, tt.occupancies, day(10), day(12))

			ids := make([]string, 0, len(got))
			for _, r := range got {
				ids = append(ids, r.id)
			}

			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestConflicts(t *testing.T) {
	occupancies := []availability.Occupancy{
		{BookingID: "B1", ResourceID: "R2", CheckIn: day(10), CheckOut: day(12), Status: model.StatusConfirmed},
		{BookingID: "B2", ResourceID: "R2", CheckIn: day(11), CheckOut: day(13), Status: model.StatusPending},
		{BookingID: "B3", ResourceID: "R1", CheckIn: day(10), CheckOut: day(12), Status: model.StatusConfirmed},
	}

	got := availability.Conflicts("R2", occupancies, day(10), day(12), "")
	assert.Len(t, got, 2)

	got = availability.Conflicts("R2", occupancies, day(10), day(12), "B2")
	assert.Len(t, got, 1)
	assert.Equal(t, "B1", got[0].BookingID)

	assert.Empty(t, availability.Conflicts("R9", occupancies, day(10), day(12), ""))
}

func TestGroupBy(t *testing.T) {
	items := []resource{{id: "R1", floor: "1"}, {id: "R4", floor: "2"}, {id: "R2", floor: "1"}}

	groups := availability.GroupBy(items, func(r resource) string { return r.floor })

	assert.Len(t, groups, 2)
	assert.Equal(t, "1", groups[0].Key)
	assert.Equal(t, []resource{{id: "R1", floor: "1"}, {id: "R2", floor: "1"}}, groups[0].Items)
	assert.Equal(t, "2", groups[1].Key)
	assert.Len(t, groups[1].Items, 1)

	assert.Empty(t, availability.GroupBy([]resource{}, func(r resource) string { return r.floor }))
}

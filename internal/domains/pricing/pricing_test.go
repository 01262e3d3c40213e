package pricing_test

import (
	"testing"
	"time"

	"sporti/internal/domains/booking/model"
	"sporti/internal/domains/pricing"

	"github.com/stretchr/testify/assert"
)

func TestNights(t *testing.T) {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		checkOut time.Time
		want     int
	}{
		{name: "exactly three days", checkOut: base.Add(72 * time.Hour), want: 3},
		{name: "partial day rounds up", checkOut: base.Add(25 * time.Hour), want: 2},
		{name: "a few hours is one night", checkOut: base.Add(3 * time.Hour), want: 1},
		{name: "empty interval floors at one", checkOut: base, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pricing.Nights(base, tt.checkOut))
		})
	}
}

func TestPayerClassFor(t *testing.T) {
	tests := []struct {
		bookingFor model.For
		relation   model.Relation
		want       pricing.PayerClass
	}{
		{model.ForSelf, model.RelationSelf, pricing.PayerMember},
		{model.ForSelf, model.RelationParents, pricing.PayerMember},
		{model.ForGuest, model.RelationBatchmate, pricing.PayerMember},
		{model.ForGuest, model.RelationFriend, pricing.PayerGuest},
		{model.ForGuest, model.RelationSpouse, pricing.PayerGuest},
	}

	for _, tt := range tests {
		t.Run(string(tt.bookingFor)+"/"+string(tt.relation), func(t *testing.T) {
			assert.Equal(t, tt.want, pricing.PayerClassFor(tt.bookingFor, tt.relation))
		})
	}
}

func TestCalculate(t *testing.T) {
	checkIn := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	card := pricing.RateCard{Member: 1000, Guest: 1500}

	tests := []struct {
		name       string
		checkOut   time.Time
		bookingFor model.For
		relation   model.Relation
		want       int64
	}{
		{
			name:       "three nights for self at member rate",
			checkOut:   checkIn.AddDate(0, 0, 3),
			bookingFor: model.ForSelf,
			relation:   model.RelationSelf,
			want:       3000,
		},
		{
			name:       "batchmate pays member rate",
			checkOut:   checkIn.AddDate(0, 0, 2),
			bookingFor: model.ForGuest,
			relation:   model.RelationBatchmate,
			want:       2000,
		},
		{
			name:       "friend pays guest rate",
			checkOut:   checkIn.AddDate(0, 0, 2),
			bookingFor: model.ForGuest,
			relation:   model.RelationFriend,
			want:       3000,
		},
		{
			name:       "partial day is charged as a full night",
			checkOut:   checkIn.Add(30 * time.Hour),
			bookingFor: model.ForSelf,
			relation:   model.RelationSelf,
			want:       2000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.Calculate(card, checkIn, tt.checkOut, tt.bookingFor, tt.relation)
			assert.Equal(t, tt.want, got)

			again := pricing.Calculate(card, checkIn, tt.checkOut, tt.bookingFor, tt.relation)
			assert.Equal(t, got, again)
		})
	}
}

// Package pricing turns a rate card, a stay interval and the person the booking is for
// into the amount owed. Amounts are whole currency units.
package pricing

import (
	"time"

	"sporti/internal/domains/booking/model"
)

const day = 24 * time.Hour

type PayerClass string

const (
	PayerMember PayerClass = "member"
	PayerGuest  PayerClass = "guest"
)

type RateCard struct {
	Member int64 `json:"member_rate"`
	Guest  int64 `json:"guest_rate"`
}

func (r RateCard) Rate(class PayerClass) int64 {
	if class == PayerMember {
		return r.Member
	}

	return r.Guest
}

// PayerClassFor returns the member class for the member themselves and for batchmates,
// the guest class for everyone else.
func PayerClassFor(bookingFor model.For, relation model.Relation) PayerClass {
	if bookingFor == model.ForSelf {
		return PayerMember
	}

	if bookingFor == model.ForGuest && relation == model.RelationBatchmate {
		return PayerMember
	}

	return PayerGuest
}

// Nights counts started 24h periods between checkIn and checkOut, never less than one.
func Nights(checkIn, checkOut time.Time) int {
	stay := checkOut.Sub(checkIn)
	if stay <= 0 {
		return 1
	}

	nights := int(stay / day)
	if stay%day != 0 {
		nights++
	}

	return max(nights, 1)
}

func Calculate(card RateCard, checkIn, checkOut time.Time, bookingFor model.For, relation model.Relation) int64 {
	return CalculateFor(card, checkIn, checkOut, PayerClassFor(bookingFor, relation))
}

func CalculateFor(card RateCard, checkIn, checkOut time.Time, class PayerClass) int64 {
	return int64(Nights(checkIn, checkOut)) * card.Rate(class)
}

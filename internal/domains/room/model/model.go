package model

import (
	"sporti/internal/domains/pricing"
	"sporti/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID          = "id"
	FieldLocation    = "location"
	FieldCategory    = "category"
	FieldFloor       = "floor"
	FieldRoomNumber  = "room_number"
	FieldMemberRate  = "member_rate"
	FieldGuestRate   = "guest_rate"
	FieldFacilities  = "facilities"
	FieldDescription = "description"
	FieldImage       = "image"
	FieldIsBlocked   = "is_blocked"
)

type Room struct {
	ID          string         `db:"id"`
	Location    string         `db:"location"`
	Category    string         `db:"category"`
	Floor       int            `db:"floor"`
	RoomNumber  string         `db:"room_number"`
	MemberRate  int64          `db:"member_rate"`
	GuestRate   int64          `db:"guest_rate"`
	Facilities  pq.StringArray `db:"facilities"`
	Description string         `db:"description"`
	Image       string         `db:"image"`
	IsBlocked   bool           `db:"is_blocked"`
	model.Metadata
}

func (r Room) ResourceKey() string {
	return r.ID
}

func (r Room) Blocked() bool {
	return r.IsBlocked
}

func (r Room) RateCard() pricing.RateCard {
	return pricing.RateCard{Member: r.MemberRate, Guest: r.GuestRate}
}

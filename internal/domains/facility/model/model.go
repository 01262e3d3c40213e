package model

import (
	"sporti/internal/domains/pricing"
	"sporti/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "facility_services"
	EntityName = "facility_service"

	FieldID          = "id"
	FieldName        = "name"
	FieldLocation    = "location"
	FieldType        = "type"
	FieldCapacity    = "capacity"
	FieldMemberRate  = "member_rate"
	FieldGuestRate   = "guest_rate"
	FieldFacilities  = "facilities"
	FieldDescription = "description"
	FieldIsBlocked   = "is_blocked"
)

// Service is a bookable venue such as a conference hall or a lawn, priced per day.
type Service struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Location    string         `db:"location"`
	Type        string         `db:"type"`
	Capacity    int            `db:"capacity"`
	MemberRate  int64          `db:"member_rate"`
	GuestRate   int64          `db:"guest_rate"`
	Facilities  pq.StringArray `db:"facilities"`
	Description string         `db:"description"`
	IsBlocked   bool           `db:"is_blocked"`
	model.Metadata
}

func (s Service) ResourceKey() string {
	return s.ID
}

func (s Service) Blocked() bool {
	return s.IsBlocked
}

func (s Service) RateCard() pricing.RateCard {
	return pricing.RateCard{Member: s.MemberRate, Guest: s.GuestRate}
}

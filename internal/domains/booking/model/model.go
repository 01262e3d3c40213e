package model

import (
	"time"

	"sporti/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID                = "id"
	FieldApplicationNumber = "application_number"
	FieldBookingType       = "booking_type"
	FieldChannel           = "channel"
	FieldBookingFor        = "booking_for"
	FieldRelation          = "relation"
	FieldCheckIn           = "check_in"
	FieldCheckOut          = "check_out"
	FieldLocation          = "location"
	FieldCategory          = "category"
	FieldGuestCount        = "guest_count"
	FieldResourceID        = "resource_id"
	FieldTotalCost         = "total_cost"
	FieldStatus            = "status"
	FieldPaymentStatus     = "payment_status"
	FieldRemarks           = "remarks"
	FieldMemberID          = "member_id"
	FieldCheckedInAt       = "checked_in_at"
	FieldCheckedOutAt      = "checked_out_at"
)

type Type string

const (
	TypeRoom    Type = "room"
	TypeService Type = "service"
)

type Channel string

const (
	ChannelMember    Channel = "member"
	ChannelNonMember Channel = "nonmember"
)

type For string

const (
	ForSelf  For = "Self"
	ForGuest For = "Guest"
)

type Relation string

const (
	RelationSelf         Relation = "Self"
	RelationSpouse       Relation = "Spouse"
	RelationChildren     Relation = "Children"
	RelationParents      Relation = "Parents"
	RelationBatchmate    Relation = "Batchmate"
	RelationFriend       Relation = "Friend"
	RelationRelative     Relation = "Relative"
	RelationAcquaintance Relation = "Acquaintance"
)

var relations = map[For][]Relation{
	ForSelf:  {RelationSelf, RelationSpouse, RelationChildren, RelationParents},
	ForGuest: {RelationBatchmate, RelationFriend, RelationRelative, RelationAcquaintance, RelationSpouse},
}

// Relations returns the relation vocabulary for a booking made for f.
func Relations(f For) []Relation {
	return relations[f]
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Occupies reports whether a booking in this status still holds its resource.
func (s Status) Occupies() bool {
	return s != StatusRejected && s != StatusCancelled
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type Occupant struct {
	Name         string `db:"occupant_name"`
	Phone        string `db:"occupant_phone"`
	Gender       string `db:"occupant_gender"`
	Email        string `db:"occupant_email"`
	HomeLocation string `db:"occupant_home_location"`
}

// Officer is the serving officer vouching for a non-member applicant.
type Officer struct {
	Name        string `db:"officer_name"`
	Designation string `db:"officer_designation"`
	Phone       string `db:"officer_phone"`
	Email       string `db:"officer_email"`
	Gender      string `db:"officer_gender"`
}

type Booking struct {
	ID                string        `db:"id"`
	ApplicationNumber string        `db:"application_number"`
	BookingType       Type          `db:"booking_type"`
	Channel           Channel       `db:"channel"`
	BookingFor        For           `db:"booking_for"`
	Relation          Relation      `db:"relation"`
	CheckIn           time.Time     `db:"check_in"`
	CheckOut          time.Time     `db:"check_out"`
	Location          string        `db:"location"`
	Category          string        `db:"category"`
	GuestCount        int           `db:"guest_count"`
	ResourceID        *string       `db:"resource_id"`
	TotalCost         int64         `db:"total_cost"`
	Status            Status        `db:"status"`
	PaymentStatus     PaymentStatus `db:"payment_status"`
	Remarks           string        `db:"remarks"`
	MemberID          *string       `db:"member_id"`
	CheckedInAt       *time.Time    `db:"checked_in_at"`
	CheckedOutAt      *time.Time    `db:"checked_out_at"`
	Occupant
	Officer
	model.Metadata
}

// Bound reports whether a resource has been allocated to the booking.
func (b Booking) Bound() bool {
	return b.ResourceID != nil && *b.ResourceID != ""
}

func (b Booking) BoundResourceID() string {
	if b.ResourceID == nil {
		return ""
	}

	return *b.ResourceID
}

// Resource is a locked snapshot of the room or facility service a booking is bound to.
type Resource struct {
	ID         string `db:"id"`
	Location   string `db:"location"`
	Category   string `db:"category"`
	Capacity   int    `db:"capacity"`
	MemberRate int64  `db:"member_rate"`
	GuestRate  int64  `db:"guest_rate"`
	IsBlocked  bool   `db:"is_blocked"`
}

// OccupancyQuery narrows the bookings that may overlap an interval.
type OccupancyQuery struct {
	BookingType      Type
	ResourceIDs      []string
	CheckIn          time.Time
	CheckOut         time.Time
	ExcludeBookingID string
}

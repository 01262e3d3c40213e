package dto

import (
	"fmt"
	"net/http"
	"time"

	"sporti/internal/domains/booking/model"
	"sporti/shared"
	"sporti/shared/constant"
	gDto "sporti/shared/dto"
	"sporti/shared/failure"
	"sporti/shared/timezone"
)

type OccupantRequest struct {
	Name         string `json:"name"          validate:"max=100"`
	Phone        string `json:"phone"         validate:"max=20"`
	Gender       string `json:"gender"        validate:"omitempty,oneof=male female other"`
	Email        string `json:"email"         validate:"max=100"`
	HomeLocation string `json:"home_location" validate:"max=100"`
}

type OfficerRequest struct {
	Name        string `json:"name"        validate:"max=100"`
	Designation string `json:"designation" validate:"max=50"`
	Phone       string `json:"phone"       validate:"max=20"`
	Email       string `json:"email"       validate:"max=100"`
	Gender      string `json:"gender"      validate:"omitempty,oneof=male female other"`
}

type CreateBookingRequest struct {
	BookingType string          `json:"booking_type" validate:"required,oneof=room service"`
	Channel     string          `json:"channel"      validate:"omitempty,oneof=member nonmember"`
	BookingFor  string          `json:"booking_for"  validate:"required,oneof=Self Guest"`
	Relation    string          `json:"relation"     validate:"required,max=20"`
	CheckIn     string          `json:"check_in"     validate:"required"`
	CheckOut    string          `json:"check_out"    validate:"required"`
	Location    string          `json:"location"     validate:"required,max=50"`
	Category    string          `json:"category"     validate:"required,max=50"`
	GuestCount  int             `json:"guest_count"  validate:"gte=0"`
	ResourceID  string          `json:"resource_id"  validate:"omitempty,uuid"`
	AutoConfirm bool            `json:"auto_confirm"`
	Remarks     string          `json:"remarks"      validate:"max=500"`
	Occupant    OccupantRequest `json:"occupant"`
	Officer     OfficerRequest  `json:"officer"`
}

// ToDraft converts the request into a draft for the given channel. Only administrators
// may override the channel implied by the route.
func (c *CreateBookingRequest) ToDraft(channel model.Channel, actor model.Actor) (model.Draft, error) {
	checkIn, err := shared.ParseDateTime(c.CheckIn)
	if err != nil {
		return model.Draft{}, failure.BadRequestFromString(fmt.Sprintf("check_in is not a valid date: %s", c.CheckIn))
	}

	checkOut, err := shared.ParseDateTime(c.CheckOut)
	if err != nil {
		return model.Draft{}, failure.BadRequestFromString(fmt.Sprintf("check_out is not a valid date: %s", c.CheckOut))
	}

	if actor.IsAdmin() && c.Channel != constant.Empty {
		channel = model.Channel(c.Channel)
	}

	return model.Draft{
		BookingType: model.Type(c.BookingType),
		Channel:     channel,
		BookingFor:  model.For(c.BookingFor),
		Relation:    model.Relation(c.Relation),
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Location:    c.Location,
		Category:    c.Category,
		GuestCount:  c.GuestCount,
		ResourceID:  c.ResourceID,
		Remarks:     c.Remarks,
		AutoConfirm: c.AutoConfirm,
		Occupant: model.Occupant{
			Name:         c.Occupant.Name,
			Phone:        c.Occupant.Phone,
			Gender:       c.Occupant.Gender,
			Email:        c.Occupant.Email,
			HomeLocation: c.Occupant.HomeLocation,
		},
		Officer: model.Officer{
			Name:        c.Officer.Name,
			Designation: c.Officer.Designation,
			Phone:       c.Officer.Phone,
			Email:       c.Officer.Email,
			Gender:      c.Officer.Gender,
		},
	}, nil
}

type UpdateStatusRequest struct {
	Status     string `json:"status"      validate:"required,oneof=confirmed rejected completed cancelled"`
	Remarks    string `json:"remarks"     validate:"max=500"`
	ResourceID string `json:"resource_id" validate:"omitempty,uuid"`
}

type UpdatePaymentRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=pending paid failed"`
}

type CancelBookingRequest struct {
	Remarks string `json:"remarks" validate:"max=500"`
}

// ListFilter holds the booking list query parameters.
type ListFilter struct {
	Status        string
	PaymentStatus string
	Location      string
	BookingType   string
	Channel       string
	MemberID      string
	StartDate     *time.Time
	EndDate       *time.Time
}

// FromRequest reads the list filter from the query string. Dates accept RFC3339 or
// YYYY-MM-DD.
func (f *ListFilter) FromRequest(r *http.Request) error {
	query := r.URL.Query()

	f.Status = query.Get(model.FieldStatus)
	f.PaymentStatus = query.Get(model.FieldPaymentStatus)
	f.Location = query.Get(model.FieldLocation)
	f.BookingType = query.Get(model.FieldBookingType)
	f.Channel = query.Get(model.FieldChannel)

	for param, target := range map[string]**time.Time{
		"start_date": &f.StartDate,
		"end_date":   &f.EndDate,
	} {
		value := query.Get(param)
		if value == constant.Empty {
			continue
		}

		t, err := shared.ParseDateTime(value)
		if err != nil {
			return failure.BadRequestFromString(fmt.Sprintf("%s is not a valid date: %s", param, value))
		}

		*target = &t
	}

	return nil
}

func (f ListFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	eq := map[string]string{
		model.FieldStatus:        f.Status,
		model.FieldPaymentStatus: f.PaymentStatus,
		model.FieldLocation:      f.Location,
		model.FieldBookingType:   f.BookingType,
		model.FieldChannel:       f.Channel,
		model.FieldMemberID:      f.MemberID,
	}

	for _, field := range []string{
		model.FieldStatus, model.FieldPaymentStatus, model.FieldLocation,
		model.FieldBookingType, model.FieldChannel, model.FieldMemberID,
	} {
		if eq[field] == constant.Empty {
			continue
		}

		group.Filters = append(group.Filters, gDto.Filter{
			Field:    field,
			Operator: gDto.FilterOperatorEq,
			Value:    eq[field],
			Table:    model.TableName,
		})
	}

	if f.StartDate != nil {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldCheckOut,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    *f.StartDate,
			Table:    model.TableName,
		})
	}

	if f.EndDate != nil {
		group.Filters = append(group.Filters, gDto.Filter{
			Field:    model.FieldCheckIn,
			Operator: gDto.FilterOperatorLessEq,
			Value:    *f.EndDate,
			Table:    model.TableName,
		})
	}

	return group
}

type OccupantResponse struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Gender       string `json:"gender"`
	Email        string `json:"email"`
	HomeLocation string `json:"home_location"`
}

type OfficerResponse struct {
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Gender      string `json:"gender"`
}

type BookingResponse struct {
	ID                string           `json:"id"`
	ApplicationNumber string           `json:"application_number"`
	BookingType       string           `json:"booking_type"`
	Channel           string           `json:"channel"`
	BookingFor        string           `json:"booking_for"`
	Relation          string           `json:"relation"`
	CheckIn           string           `json:"check_in"`
	CheckOut          string           `json:"check_out"`
	Location          string           `json:"location"`
	Category          string           `json:"category"`
	GuestCount        int              `json:"guest_count"`
	ResourceID        *string          `json:"resource_id"`
	TotalCost         int64            `json:"total_cost"`
	Status            string           `json:"status"`
	PaymentStatus     string           `json:"payment_status"`
	Remarks           string           `json:"remarks"`
	MemberID          *string          `json:"member_id,omitempty"`
	CheckedInAt       *string          `json:"checked_in_at,omitempty"`
	CheckedOutAt      *string          `json:"checked_out_at,omitempty"`
	Occupant          OccupantResponse `json:"occupant"`
	Officer           *OfficerResponse `json:"officer,omitempty"`
	gDto.Metadata
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}

	s := timezone.Format(*t, constant.DateFormat)

	return &s
}

func (r *BookingResponse) FromModel(m model.Booking) {
	r.ID = m.ID
	r.ApplicationNumber = m.ApplicationNumber
	r.BookingType = string(m.BookingType)
	r.Channel = string(m.Channel)
	r.BookingFor = string(m.BookingFor)
	r.Relation = string(m.Relation)
	r.CheckIn = timezone.Format(m.CheckIn, constant.DateFormat)
	r.CheckOut = timezone.Format(m.CheckOut, constant.DateFormat)
	r.Location = m.Location
	r.Category = m.Category
	r.GuestCount = m.GuestCount
	r.ResourceID = m.ResourceID
	r.TotalCost = m.TotalCost
	r.Status = string(m.Status)
	r.PaymentStatus = string(m.PaymentStatus)
	r.Remarks = m.Remarks
	r.MemberID = m.MemberID
	r.CheckedInAt = formatOptional(m.CheckedInAt)
	r.CheckedOutAt = formatOptional(m.CheckedOutAt)
	r.Occupant = OccupantResponse{
		Name:         m.Occupant.Name,
		Phone:        m.Occupant.Phone,
		Gender:       m.Occupant.Gender,
		Email:        m.Occupant.Email,
		HomeLocation: m.Occupant.HomeLocation,
	}

	if m.Channel == model.ChannelNonMember {
		r.Officer = &OfficerResponse{
			Name:        m.Officer.Name,
			Designation: m.Officer.Designation,
			Phone:       m.Officer.Phone,
			Email:       m.Officer.Email,
			Gender:      m.Officer.Gender,
		}
	}

	r.Metadata.FromModel(m.Metadata)
}

// GuestStatusResponse is what an anonymous applicant sees when looking up an application.
type GuestStatusResponse struct {
	ApplicationNumber string `json:"application_number"`
	BookingType       string `json:"booking_type"`
	Location          string `json:"location"`
	Category          string `json:"category"`
	CheckIn           string `json:"check_in"`
	CheckOut          string `json:"check_out"`
	Status            string `json:"status"`
	PaymentStatus     string `json:"payment_status"`
	TotalCost         int64  `json:"total_cost"`
	Remarks           string `json:"remarks"`
}

func (r *GuestStatusResponse) FromModel(m model.Booking) {
	r.ApplicationNumber = m.ApplicationNumber
	r.BookingType = string(m.BookingType)
	r.Location = m.Location
	r.Category = m.Category
	r.CheckIn = timezone.Format(m.CheckIn, constant.DateFormat)
	r.CheckOut = timezone.Format(m.CheckOut, constant.DateFormat)
	r.Status = string(m.Status)
	r.PaymentStatus = string(m.PaymentStatus)
	r.TotalCost = m.TotalCost
	r.Remarks = m.Remarks
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

const (
	EventCreated        = "booking.created"
	EventStatusChanged  = "booking.status_changed"
	EventPaymentChanged = "booking.payment_changed"
)

// Event is published to the booking topic after every committed change.
type Event struct {
	Type              string  `json:"type"`
	BookingID         string  `json:"booking_id"`
	ApplicationNumber string  `json:"application_number"`
	BookingType       string  `json:"booking_type"`
	Channel           string  `json:"channel"`
	Location          string  `json:"location"`
	ResourceID        *string `json:"resource_id"`
	PreviousStatus    string  `json:"previous_status,omitempty"`
	Status            string  `json:"status"`
	PaymentStatus     string  `json:"payment_status"`
	TotalCost         int64   `json:"total_cost"`
	OccurredAt        string  `json:"occurred_at"`
}

func NewEvent(eventType string, m model.Booking, previous model.Status) Event {
	return Event{
		Type:              eventType,
		BookingID:         m.ID,
		ApplicationNumber: m.ApplicationNumber,
		BookingType:       string(m.BookingType),
		Channel:           string(m.Channel),
		Location:          m.Location,
		ResourceID:        m.ResourceID,
		PreviousStatus:    string(previous),
		Status:            string(m.Status),
		PaymentStatus:     string(m.PaymentStatus),
		TotalCost:         m.TotalCost,
		OccurredAt:        timezone.Format(timezone.Now(), constant.DateFormat),
	}
}

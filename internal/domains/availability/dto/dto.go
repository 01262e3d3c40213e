package dto

import (
	"net/http"
	"strconv"
	"time"

	"sporti/internal/domains/availability"
	bookingModel "sporti/internal/domains/booking/model"
	facilityModel "sporti/internal/domains/facility/model"
	"sporti/internal/domains/pricing"
	roomModel "sporti/internal/domains/room/model"
	"sporti/shared"
	"sporti/shared/constant"
	"sporti/shared/timezone"
)

// RoomQuery is read from the query string of GET /rooms/available. BookingFor and
// Relation are optional; when given each room carries the price the applicant would pay.
// Callers without a session are always quoted the guest rate.
type RoomQuery struct {
	Actor      bookingModel.Actor `validate:"-"`
	Location   string             `validate:"required"`
	Category   string             `validate:"required"`
	CheckIn    string             `validate:"required"`
	CheckOut   string             `validate:"required"`
	BookingFor string             `validate:"omitempty,oneof=Self Guest"`
	Relation   string             `validate:"required_with=BookingFor"`
}

type ServiceQuery struct {
	Actor      bookingModel.Actor `validate:"-"`
	Location   string             `validate:"required"`
	Type       string             `validate:"required"`
	CheckIn    string             `validate:"required"`
	CheckOut   string             `validate:"required"`
	GuestCount int                `validate:"gte=0"`
	BookingFor string             `validate:"omitempty,oneof=Self Guest"`
	Relation   string             `validate:"required_with=BookingFor"`
}

func (q *RoomQuery) FromRequest(r *http.Request) {
	query := r.URL.Query()

	q.Actor = bookingModel.ActorFromContext(r.Context())
	q.Location = query.Get("location")
	q.Category = query.Get("category")
	q.CheckIn = query.Get("check_in")
	q.CheckOut = query.Get("check_out")
	q.BookingFor = query.Get("booking_for")
	q.Relation = query.Get("relation")
}

func (q *ServiceQuery) FromRequest(r *http.Request) {
	query := r.URL.Query()

	q.Actor = bookingModel.ActorFromContext(r.Context())
	q.Location = query.Get("location")
	q.Type = query.Get("type")
	q.CheckIn = query.Get("check_in")
	q.CheckOut = query.Get("check_out")
	q.BookingFor = query.Get("booking_for")
	q.Relation = query.Get("relation")

	if guests, err := shared.ConvertStringToInt(query.Get("guest_count")); err == nil {
		q.GuestCount = guests
	}
}

// Quote prices a resource for a fixed interval. An empty Class means no estimate.
type Quote struct {
	Interval Interval
	Class    pricing.PayerClass
}

func (q Quote) estimate(card pricing.RateCard) *int64 {
	if q.Class == constant.Empty {
		return nil
	}

	cost := pricing.CalculateFor(card, q.Interval.CheckIn, q.Interval.CheckOut, q.Class)

	return &cost
}

type AvailableRoom struct {
	ID            string   `json:"id"`
	RoomNumber    string   `json:"room_number"`
	Floor         int      `json:"floor"`
	Category      string   `json:"category"`
	MemberRate    int64    `json:"member_rate"`
	GuestRate     int64    `json:"guest_rate"`
	Facilities    []string `json:"facilities"`
	Description   string   `json:"description"`
	Image         string   `json:"image"`
	EstimatedCost *int64   `json:"estimated_cost,omitempty"`
}

func (r *AvailableRoom) FromModel(m roomModel.Room, quote Quote) {
	r.ID = m.ID
	r.RoomNumber = m.RoomNumber
	r.Floor = m.Floor
	r.Category = m.Category
	r.MemberRate = m.MemberRate
	r.GuestRate = m.GuestRate
	r.Facilities = m.Facilities
	r.Description = m.Description
	r.Image = m.Image
	r.EstimatedCost = quote.estimate(m.RateCard())
}

type FloorGroup struct {
	Floor int             `json:"floor"`
	Rooms []AvailableRoom `json:"rooms"`
}

type Interval struct {
	CheckIn  time.Time
	CheckOut time.Time
}

type AvailableRoomsResponse struct {
	Location string          `json:"location"`
	Category string          `json:"category"`
	CheckIn  string          `json:"check_in"`
	CheckOut string          `json:"check_out"`
	Nights   int             `json:"nights"`
	Rooms    []AvailableRoom `json:"rooms"`
	Floors   []FloorGroup    `json:"floors"`
}

func (r *AvailableRoomsResponse) FromModels(location, category string, rooms []roomModel.Room, quote Quote) {
	r.Location = location
	r.Category = category
	r.CheckIn = timezone.Format(quote.Interval.CheckIn, constant.DateFormat)
	r.CheckOut = timezone.Format(quote.Interval.CheckOut, constant.DateFormat)
	r.Nights = pricing.Nights(quote.Interval.CheckIn, quote.Interval.CheckOut)

	r.Rooms = make([]AvailableRoom, len(rooms))
	for i, m := range rooms {
		r.Rooms[i].FromModel(m, quote)
	}

	groups := availability.GroupBy(r.Rooms, func(room AvailableRoom) string {
		return strconv.Itoa(room.Floor)
	})

	r.Floors = make([]FloorGroup, len(groups))
	for i, g := range groups {
		r.Floors[i] = FloorGroup{Floor: g.Items[0].Floor, Rooms: g.Items}
	}
}

type AvailableService struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Capacity      int      `json:"capacity"`
	MemberRate    int64    `json:"member_rate"`
	GuestRate     int64    `json:"guest_rate"`
	Facilities    []string `json:"facilities"`
	Description   string   `json:"description"`
	EstimatedCost *int64   `json:"estimated_cost,omitempty"`
}

func (r *AvailableService) FromModel(m facilityModel.Service, quote Quote) {
	r.ID = m.ID
	r.Name = m.Name
	r.Type = m.Type
	r.Capacity = m.Capacity
	r.MemberRate = m.MemberRate
	r.GuestRate = m.GuestRate
	r.Facilities = m.Facilities
	r.Description = m.Description
	r.EstimatedCost = quote.estimate(m.RateCard())
}

type AvailableServicesResponse struct {
	Location   string             `json:"location"`
	Type       string             `json:"type"`
	GuestCount int                `json:"guest_count"`
	CheckIn    string             `json:"check_in"`
	CheckOut   string             `json:"check_out"`
	Days       int                `json:"days"`
	Services   []AvailableService `json:"services"`
}

func (r *AvailableServicesResponse) FromModels(location, serviceType string, guestCount int, services []facilityModel.Service, quote Quote) {
	r.Location = location
	r.Type = serviceType
	r.GuestCount = guestCount
	r.CheckIn = timezone.Format(quote.Interval.CheckIn, constant.DateFormat)
	r.CheckOut = timezone.Format(quote.Interval.CheckOut, constant.DateFormat)
	r.Days = pricing.Nights(quote.Interval.CheckIn, quote.Interval.CheckOut)

	r.Services = make([]AvailableService, len(services))
	for i, m := range services {
		r.Services[i].FromModel(m, quote)
	}
}

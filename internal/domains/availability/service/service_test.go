package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"sporti/config"
	"sporti/infras/otel/mocks"
	"sporti/internal/domains/availability"
	"sporti/internal/domains/availability/dto"
	"sporti/internal/domains/availability/service"
	bookingMocks "sporti/internal/domains/booking/mocks"
	bookingModel "sporti/internal/domains/booking/model"
	facilityMocks "sporti/internal/domains/facility/mocks"
	facilityModel "sporti/internal/domains/facility/model"
	roomMocks "sporti/internal/domains/room/mocks"
	roomModel "sporti/internal/domains/room/model"
	"sporti/internal/domains/site"
	"sporti/shared/constant"
	"sporti/shared/failure"
	"sporti/shared/timezone"
)

var member = bookingModel.Actor{ID: "member-1", Role: constant.RoleMember, Designation: "SP"}

type fixture struct {
	rooms    *roomMocks.MockRoom
	services *facilityMocks.MockFacility
	bookings *bookingMocks.MockBooking
	svc      service.Availability
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		rooms:    roomMocks.NewMockRoom(ctrl),
		services: facilityMocks.NewMockFacility(ctrl),
		bookings: bookingMocks.NewMockBooking(ctrl),
	}

	f.svc = service.New(f.rooms, f.services, f.bookings, site.New(&config.Config{}), mocks.NewOtel())

	return f
}

func interval() (time.Time, time.Time) {
	in := timezone.Now().AddDate(0, 0, 5).Truncate(time.Hour)

	return in, in.Add(48 * time.Hour)
}

func TestAvailability_Rooms(t *testing.T) {
	in, out := interval()

	pool := []roomModel.Room{
		{ID: "r1", Floor: 1, RoomNumber: "101", Category: "Standard", MemberRate: 800, GuestRate: 1500},
		{ID: "r2", Floor: 1, RoomNumber: "102", Category: "Standard", MemberRate: 800, GuestRate: 1500},
		{ID: "r3", Floor: 2, RoomNumber: "201", Category: "Standard", MemberRate: 900, GuestRate: 1600},
	}

	query := dto.RoomQuery{
		Actor:    member,
		Location: "SPORTI-1",
		Category: "Standard",
		CheckIn:  timezone.Format(in, constant.DateFormat),
		CheckOut: timezone.Format(out, constant.DateFormat),
	}

	t.Run("overlapping rooms are left out and the rest grouped by floor", func(t *testing.T) {
		f := newFixture(t)

		f.rooms.EXPECT().Pool(gomock.Any(), "SPORTI-1", "Standard").Return(pool, nil)
		f.bookings.EXPECT().
			Occupancies(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, q bookingModel.OccupancyQuery) ([]availability.Occupancy, error) {
				assert.Equal(t, bookingModel.TypeRoom, q.BookingType)
				assert.Equal(t, []string{"r1", "r2", "r3"}, q.ResourceIDs)

				return []availability.Occupancy{
					{BookingID: "b1", ResourceID: "r2", CheckIn: in.Add(24 * time.Hour), CheckOut: out.Add(24 * time.Hour), Status: bookingModel.StatusPending},
					{BookingID: "b2", ResourceID: "r3", CheckIn: in, CheckOut: out, Status: bookingModel.StatusCancelled},
				}, nil
			})

		res, err := f.svc.Rooms(context.Background(), query)

		assert.NoError(t, err)
		assert.Equal(t, 2, res.Nights)
		assert.Len(t, res.Rooms, 2)
		assert.Equal(t, "r1", res.Rooms[0].ID)
		assert.Equal(t, "r3", res.Rooms[1].ID)
		assert.Len(t, res.Floors, 2)
		assert.Equal(t, 1, res.Floors[0].Floor)
		assert.Equal(t, 2, res.Floors[1].Floor)
		assert.Nil(t, res.Rooms[0].EstimatedCost)
	})

	t.Run("estimate for a known payer", func(t *testing.T) {
		f := newFixture(t)

		f.rooms.EXPECT().Pool(gomock.Any(), "SPORTI-1", "Standard").Return(pool[:1], nil)
		f.bookings.EXPECT().Occupancies(gomock.Any(), gomock.Any()).Return(nil, nil)

		q := query
		q.BookingFor, q.Relation = "Guest", "Friend"

		res, err := f.svc.Rooms(context.Background(), q)

		assert.NoError(t, err)
		assert.Equal(t, int64(3000), *res.Rooms[0].EstimatedCost)
	})

	t.Run("anonymous callers are quoted the guest rate", func(t *testing.T) {
		f := newFixture(t)

		f.rooms.EXPECT().Pool(gomock.Any(), "SPORTI-1", "Standard").Return(pool[:1], nil)
		f.bookings.EXPECT().Occupancies(gomock.Any(), gomock.Any()).Return(nil, nil)

		q := query
		q.Actor = bookingModel.Actor{}
		q.BookingFor, q.Relation = "Self", "Self"

		res, err := f.svc.Rooms(context.Background(), q)

		assert.NoError(t, err)
		assert.Equal(t, int64(3000), *res.Rooms[0].EstimatedCost)
	})

	t.Run("members asking for themselves get the member rate", func(t *testing.T) {
		f := newFixture(t)

		f.rooms.EXPECT().Pool(gomock.Any(), "SPORTI-1", "Standard").Return(pool[:1], nil)
		f.bookings.EXPECT().Occupancies(gomock.Any(), gomock.Any()).Return(nil, nil)

		q := query
		q.BookingFor, q.Relation = "Self", "Self"

		res, err := f.svc.Rooms(context.Background(), q)

		assert.NoError(t, err)
		assert.Equal(t, int64(1600), *res.Rooms[0].EstimatedCost)
	})

	t.Run("category is matched in catalogue spelling", func(t *testing.T) {
		f := newFixture(t)

		f.rooms.EXPECT().Pool(gomock.Any(), "SPORTI-1", "Standard").Return(pool[:1], nil)
		f.bookings.EXPECT().Occupancies(gomock.Any(), gomock.Any()).Return(nil, nil)

		q := query
		q.Category = "standard"

		res, err := f.svc.Rooms(context.Background(), q)

		assert.NoError(t, err)
		assert.Equal(t, "Standard", res.Category)
		assert.Len(t, res.Rooms, 1)
	})

	t.Run("empty pool", func(t *testing.T) {
		f := newFixture(t)

		f.rooms.EXPECT().Pool(gomock.Any(), "SPORTI-1", "Standard").Return(nil, nil)

		res, err := f.svc.Rooms(context.Background(), query)

		assert.NoError(t, err)
		assert.NotNil(t, res.Rooms)
		assert.Empty(t, res.Rooms)
	})

	t.Run("category not offered", func(t *testing.T) {
		f := newFixture(t)

		q := query
		q.Category = "Family"
		q.Location = "SPORTI-2"

		_, err := f.svc.Rooms(context.Background(), q)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("inverted interval", func(t *testing.T) {
		f := newFixture(t)

		q := query
		q.CheckIn, q.CheckOut = query.CheckOut, query.CheckIn

		_, err := f.svc.Rooms(context.Background(), q)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("pool error", func(t *testing.T) {
		f := newFixture(t)

		f.rooms.EXPECT().Pool(gomock.Any(), "SPORTI-1", "Standard").Return(nil, errors.New("database error"))

		_, err := f.svc.Rooms(context.Background(), query)

		assert.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestAvailability_Services(t *testing.T) {
	in, out := interval()

	query := dto.ServiceQuery{
		Location: "SPORTI-1",
		Type:     "Conference Hall",
		CheckIn:  timezone.Format(in, constant.DateFormat),
		CheckOut: timezone.Format(out, constant.DateFormat),
	}

	t.Run("guest count defaults to one", func(t *testing.T) {
		f := newFixture(t)

		f.services.EXPECT().Pool(gomock.Any(), "SPORTI-1", "Conference Hall", 1).Return([]facilityModel.Service{
			{ID: "s1", Name: "Hall A", Type: "Conference Hall", Capacity: 80},
			{ID: "s2", Name: "Hall B", Type: "Conference Hall", Capacity: 40},
		}, nil)
		f.bookings.EXPECT().Occupancies(gomock.Any(), gomock.Any()).Return([]availability.Occupancy{
			{BookingID: "b1", ResourceID: "s1", CheckIn: in, CheckOut: out, Status: bookingModel.StatusConfirmed},
		}, nil)

		res, err := f.svc.Services(context.Background(), query)

		assert.NoError(t, err)
		assert.Equal(t, 1, res.GuestCount)
		assert.Len(t, res.Services, 1)
		assert.Equal(t, "s2", res.Services[0].ID)
	})

	t.Run("service type is matched in catalogue spelling", func(t *testing.T) {
		f := newFixture(t)

		f.services.EXPECT().Pool(gomock.Any(), "SPORTI-1", "Conference Hall", 1).Return(nil, nil)

		q := query
		q.Type = "conference hall"

		res, err := f.svc.Services(context.Background(), q)

		assert.NoError(t, err)
		assert.Equal(t, "Conference Hall", res.Type)
	})

	t.Run("service type not offered", func(t *testing.T) {
		f := newFixture(t)

		q := query
		q.Type = "Lawn"
		q.Location = "SPORTI-2"

		_, err := f.svc.Services(context.Background(), q)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

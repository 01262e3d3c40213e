package service

import (
	"context"
	"fmt"

	"sporti/infras/otel"
	"sporti/internal/domains/availability"
	"sporti/internal/domains/availability/dto"
	"sporti/internal/domains/pricing"
	bookingModel "sporti/internal/domains/booking/model"
	bookingRepo "sporti/internal/domains/booking/repository"
	facilityRepo "sporti/internal/domains/facility/repository"
	roomRepo "sporti/internal/domains/room/repository"
	"sporti/internal/domains/site"
	"sporti/shared"
	"sporti/shared/constant"
	"sporti/shared/failure"

	"github.com/rs/zerolog/log"
)

// Availability answers which rooms or facility services are free for an interval. Results
// are never cached: they must reflect bookings committed a moment ago.
type Availability interface {
	Rooms(ctx context.Context, query dto.RoomQuery) (dto.AvailableRoomsResponse, error)
	Services(ctx context.Context, query dto.ServiceQuery) (dto.AvailableServicesResponse, error)
}

type serviceImpl struct {
	rooms    roomRepo.Room
	services facilityRepo.Facility
	bookings bookingRepo.Booking
	catalog  *site.Catalog
	otel     otel.Otel
}

func New(rooms roomRepo.Room, services facilityRepo.Facility, bookings bookingRepo.Booking, catalog *site.Catalog, otel otel.Otel) Availability {
	return &serviceImpl{
		rooms:    rooms,
		services: services,
		bookings: bookings,
		catalog:  catalog,
		otel:     otel,
	}
}

func (s *serviceImpl) Rooms(ctx context.Context, query dto.RoomQuery) (res dto.AvailableRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.Rooms")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	interval, err := parseInterval(query.CheckIn, query.CheckOut)
	if err != nil {
		return res, err
	}

	category, ok := s.catalog.Category(query.Location, query.Category)
	if !ok {
		return res, failure.BadRequestFromString(fmt.Sprintf("%s rooms are not available at %s", query.Category, query.Location))
	}

	pool, err := s.rooms.Pool(ctx, query.Location, category.Name)
	if err != nil {
		log.Error().Err(err).Msg("failed to load room pool")

		return res, fmt.Errorf("failed to load room pool: %w", err)
	}

	free, err := filter(ctx, s.bookings, bookingModel.TypeRoom, pool, interval)
	if err != nil {
		return res, err
	}

	res.FromModels(query.Location, category.Name, free, quote(interval, query.Actor, query.BookingFor, query.Relation))

	return res, nil
}

func (s *serviceImpl) Services(ctx context.Context, query dto.ServiceQuery) (res dto.AvailableServicesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.Services")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	interval, err := parseInterval(query.CheckIn, query.CheckOut)
	if err != nil {
		return res, err
	}

	serviceType, ok := s.catalog.ServiceType(query.Location, query.Type)
	if !ok {
		return res, failure.BadRequestFromString(fmt.Sprintf("%s is not available at %s", query.Type, query.Location))
	}

	guests := max(query.GuestCount, 1)

	pool, err := s.services.Pool(ctx, query.Location, serviceType, guests)
	if err != nil {
		log.Error().Err(err).Msg("failed to load facility service pool")

		return res, fmt.Errorf("failed to load facility service pool: %w", err)
	}

	free, err := filter(ctx, s.bookings, bookingModel.TypeService, pool, interval)
	if err != nil {
		return res, err
	}

	res.FromModels(query.Location, serviceType, guests, free, quote(interval, query.Actor, query.BookingFor, query.Relation))

	return res, nil
}

// filter drops pool entries that are blocked or overlap a live booking. An empty pool
// short-circuits without querying bookings.
func filter[T availability.Bookable](
	ctx context.Context,
	bookings bookingRepo.Booking,
	bookingType bookingModel.Type,
	pool []T,
	interval dto.Interval,
) ([]T, error) {
	if len(pool) == 0 {
		return []T{}, nil
	}

	ids := make([]string, len(pool))
	for i, item := range pool {
		ids[i] = item.ResourceKey()
	}

	occupancies, err := bookings.Occupancies(ctx, bookingModel.OccupancyQuery{
		BookingType: bookingType,
		ResourceIDs: ids,
		CheckIn:     interval.CheckIn,
		CheckOut:    interval.CheckOut,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to load occupancies")

		return nil, fmt.Errorf("failed to load occupancies: %w", err)
	}

	return availability.Filter(pool, occupancies, interval.CheckIn, interval.CheckOut), nil
}

func parseInterval(checkIn, checkOut string) (dto.Interval, error) {
	in, err := shared.ParseDateTime(checkIn)
	if err != nil {
		return dto.Interval{}, failure.BadRequestFromString(fmt.Sprintf("check_in is not a valid date: %s", checkIn))
	}

	out, err := shared.ParseDateTime(checkOut)
	if err != nil {
		return dto.Interval{}, failure.BadRequestFromString(fmt.Sprintf("check_out is not a valid date: %s", checkOut))
	}

	if !in.Before(out) {
		return dto.Interval{}, failure.BadRequestFromString("Check-out date must be after check-in date")
	}

	return dto.Interval{CheckIn: in, CheckOut: out}, nil
}

// quote prices for the payer a signed-in caller names. Anonymous callers see guest rates.
func quote(interval dto.Interval, actor bookingModel.Actor, bookingFor, relation string) dto.Quote {
	q := dto.Quote{Interval: interval}

	switch {
	case actor.ID == constant.Empty:
		q.Class = pricing.PayerGuest
	case bookingFor != constant.Empty:
		q.Class = pricing.PayerClassFor(bookingModel.For(bookingFor), bookingModel.Relation(relation))
	}

	return q
}

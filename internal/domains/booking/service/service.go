package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"sporti/config"
	"sporti/infras/kafka"
	"sporti/infras/metrics"
	"sporti/infras/otel"
	"sporti/infras/postgres"
	"sporti/internal/domains/availability"
	"sporti/internal/domains/booking/lifecycle"
	"sporti/internal/domains/booking/model"
	"sporti/internal/domains/booking/model/dto"
	"sporti/internal/domains/booking/repository"
	"sporti/internal/domains/booking/validator"
	"sporti/internal/domains/pricing"
	"sporti/shared"
	"sporti/shared/cache"
	"sporti/shared/constant"
	gDto "sporti/shared/dto"
	"sporti/shared/failure"
	"sporti/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking         = "booking:get"
	cacheGetBookingByNumber = "booking:number"
	cacheGetAllBooking      = "booking:gets"
	cacheCountBooking       = "booking:count"
)

const (
	pathDirect   = "direct"
	pathDeferred = "deferred"

	maxApplicationNumberAttempts = 3
)

type Booking interface {
	Create(ctx context.Context, actor model.Actor, draft model.Draft) (dto.BookingResponse, error)
	Get(ctx context.Context, actor model.Actor, id string) (dto.BookingResponse, error)
	GetByApplicationNumber(ctx context.Context, number string) (dto.GuestStatusResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter dto.ListFilter) (dto.GetBookingsResponse, error)
	Mine(ctx context.Context, actor model.Actor, req gDto.QueryParams) (dto.GetBookingsResponse, error)
	SetStatus(ctx context.Context, actor model.Actor, id string, req dto.UpdateStatusRequest) (dto.BookingResponse, error)
	SetPaymentStatus(ctx context.Context, actor model.Actor, id string, req dto.UpdatePaymentRequest) (dto.BookingResponse, error)
	CheckIn(ctx context.Context, actor model.Actor, id string) (dto.BookingResponse, error)
	CheckOut(ctx context.Context, actor model.Actor, id string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, actor model.Actor, id string, req dto.CancelBookingRequest) (dto.BookingResponse, error)
}

type serviceImpl struct {
	repo      repository.Booking
	validator *validator.Validator
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	kafka     kafka.Client
	metrics   *metrics.Metrics
}

func New(
	repo repository.Booking,
	validator *validator.Validator,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	kafka kafka.Client,
	metrics *metrics.Metrics,
) Booking {
	return &serviceImpl{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		kafka:     kafka,
		metrics:   metrics,
	}
}

// DirectEligible reports whether a draft may pick its own resource. Administrators always
// may; otherwise only member self stays and batchmate guests do.
func DirectEligible(draft model.Draft, actor model.Actor) bool {
	if actor.IsAdmin() {
		return true
	}

	if draft.Channel != model.ChannelMember || actor.Anonymous() {
		return false
	}

	return draft.BookingFor == model.ForSelf ||
		(draft.BookingFor == model.ForGuest && draft.Relation == model.RelationBatchmate)
}

func (s *serviceImpl) Create(ctx context.Context, actor model.Actor, draft model.Draft) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = s.validator.Validate(draft, actor); err != nil {
		return res, err
	}

	draft = s.validator.Canonical(draft)

	direct := DirectEligible(draft, actor) && draft.ResourceID != constant.Empty
	if DirectEligible(draft, actor) && !actor.IsAdmin() && draft.ResourceID == constant.Empty {
		return res, failure.BadRequestFromString("Please select a room before submitting the booking")
	}

	var booking model.Booking

	for attempt := 1; ; attempt++ {
		booking = s.newBooking(actor, draft)

		err = s.repo.RunInTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
			if direct {
				if err := s.allocate(ctx, tx, &booking, draft.ResourceID, constant.Empty); err != nil {
					return err
				}

				if actor.IsAdmin() && draft.AutoConfirm {
					if err := lifecycle.Confirm(booking, booking.BoundResourceID(), booking.TotalCost); err != nil {
						return err
					}

					booking.Status = model.StatusConfirmed
				}
			}

			return s.repo.InsertTx(ctx, tx, booking)
		})

		if err == nil {
			break
		}

		if postgres.IsErrorCode(err, constant.PqErrorCodeUniqueViolation) && attempt < maxApplicationNumberAttempts {
			log.Warn().Err(err).Int("attempt", attempt).Msg("application number collision, retrying")

			continue
		}

		return res, s.mapWriteError(err, "create")
	}

	path := pathDeferred
	if booking.Bound() {
		path = pathDirect
	}

	s.metrics.BookingCreated(string(booking.BookingType), string(booking.Channel), path)

	log.Info().
		Str("booking_id", booking.ID).
		Str("application_number", booking.ApplicationNumber).
		Str("path", path).
		Msg("booking created")

	s.afterCommit(ctx, booking, dto.EventCreated, constant.Empty)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) newBooking(actor model.Actor, draft model.Draft) model.Booking {
	now := timezone.Now()

	booking := model.Booking{
		ID:                uuid.NewString(),
		ApplicationNumber: s.applicationNumber(),
		BookingType:       draft.BookingType,
		Channel:           draft.Channel,
		BookingFor:        draft.BookingFor,
		Relation:          draft.Relation,
		CheckIn:           draft.CheckIn,
		CheckOut:          draft.CheckOut,
		Location:          draft.Location,
		Category:          draft.Category,
		GuestCount:        draft.GuestCount,
		Status:            model.StatusPending,
		PaymentStatus:     model.PaymentPending,
		Remarks:           draft.Remarks,
		Occupant:          draft.Occupant,
		Officer:           draft.Officer,
	}

	if !actor.Anonymous() {
		memberID := actor.ID
		booking.MemberID = &memberID
	}

	booking.CreatedAt = now
	booking.ModifiedAt = now
	booking.CreatedBy = actor.Name()
	booking.ModifiedBy = actor.Name()

	return booking
}

// applicationNumber derives an uppercase alphanumeric code from a random uuid.
func (s *serviceImpl) applicationNumber() string {
	length := s.cfg.Booking.ApplicationNumberLength
	if length <= 0 || length > 32 {
		length = 10
	}

	raw := strings.ReplaceAll(uuid.NewString(), "-", constant.Empty)

	return strings.ToUpper(raw[:length])
}

// allocate locks resourceID, checks it suits the booking and is free for its interval,
// and binds it with a freshly computed price.
func (s *serviceImpl) allocate(ctx context.Context, tx *sqlx.Tx, booking *model.Booking, resourceID, excludeID string) error {
	resource, err := s.repo.LockResourceTx(ctx, tx, booking.BookingType, resourceID)
	if errors.Is(err, repository.ErrResourceNotFound) {
		return failure.NotFound(fmt.Sprintf("%s %s not found", booking.BookingType, resourceID))
	}

	if err != nil {
		return err
	}

	held := booking.BoundResourceID() == resource.ID

	if err = suits(resource, *booking, held); err != nil {
		return err
	}

	occupancies, err := s.repo.OccupanciesTx(ctx, tx, model.OccupancyQuery{
		BookingType:      booking.BookingType,
		ResourceIDs:      []string{resource.ID},
		CheckIn:          booking.CheckIn,
		CheckOut:         booking.CheckOut,
		ExcludeBookingID: excludeID,
	})
	if err != nil {
		return err
	}

	if conflicts := availability.Conflicts(resource.ID, occupancies, booking.CheckIn, booking.CheckOut, excludeID); len(conflicts) > 0 {
		log.Info().
			Str("resource_id", resource.ID).
			Str("conflicting_booking", conflicts[0].BookingID).
			Msg("resource already taken for the requested dates")

		return failure.Conflict(fmt.Sprintf("The selected %s is no longer available for these dates", booking.BookingType))
	}

	card := pricing.RateCard{Member: resource.MemberRate, Guest: resource.GuestRate}
	id := resource.ID

	booking.ResourceID = &id
	booking.TotalCost = pricing.Calculate(card, booking.CheckIn, booking.CheckOut, booking.BookingFor, booking.Relation)

	return nil
}

// suits rejects a resource that does not match the booking's site, category and
// party size. Blocking only hides a resource from new allocations, so a resource the
// booking already holds passes the blocked check.
func suits(resource model.Resource, booking model.Booking, held bool) error {
	if resource.IsBlocked && !held {
		return failure.BadRequestFromString(fmt.Sprintf("The selected %s is currently blocked", booking.BookingType))
	}

	if resource.Location != booking.Location {
		return failure.BadRequestFromString(fmt.Sprintf("The selected %s is not at %s", booking.BookingType, booking.Location))
	}

	if !strings.EqualFold(resource.Category, booking.Category) {
		return failure.BadRequestFromString(fmt.Sprintf("The selected %s is not of type %s", booking.BookingType, booking.Category))
	}

	if booking.BookingType == model.TypeService && resource.Capacity < booking.GuestCount {
		return failure.BadRequestFromString(fmt.Sprintf("The selected service holds at most %d guests", resource.Capacity))
	}

	return nil
}

func (s *serviceImpl) mapWriteError(err error, stage string) error {
	var f *failure.Failure
	if errors.As(err, &f) {
		if f.Code == http.StatusConflict {
			s.metrics.Conflict(stage)
		}

		return err
	}

	if postgres.IsErrorCode(err, constant.PqErrorCodeExclusionViolation) {
		s.metrics.Conflict(stage)

		return failure.Conflict("The selected resource is no longer available for these dates")
	}

	log.Error().Err(err).Str("stage", stage).Msg("failed to write booking")

	return fmt.Errorf("failed to %s booking: %w", stage, err)
}

func (s *serviceImpl) Get(ctx context.Context, actor model.Actor, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err != nil {
		booking, err := s.find(ctx, model.FieldID, id)
		if err != nil {
			return res, err
		}

		res.FromModel(booking)

		go s.save(context.WithoutCancel(ctx), cacheKey, res)
	}

	if !actor.IsAdmin() && (res.MemberID == nil || *res.MemberID != actor.ID) {
		return dto.BookingResponse{}, failure.NotFound("booking not found")
	}

	return res, nil
}

func (s *serviceImpl) GetByApplicationNumber(ctx context.Context, number string) (res dto.GuestStatusResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetByApplicationNumber")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	number = strings.ToUpper(strings.TrimSpace(number))
	cacheKey := shared.BuildCacheKey(cacheGetBookingByNumber, number)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	booking, err := s.find(ctx, model.FieldApplicationNumber, number)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go s.save(context.WithoutCancel(ctx), cacheKey, res)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter dto.ListFilter) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	group := filter.ToFilterGroup()
	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, group)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	countKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, group)

	var total int
	if err = s.cache.Get(ctx, countKey, &total); err != nil {
		if total, err = s.repo.Count(ctx, group); err != nil {
			log.Error().Err(err).Msg("failed to count bookings")

			return res, fmt.Errorf("failed to count bookings: %w", err)
		}

		go s.save(context.WithoutCancel(ctx), countKey, total)
	}

	models, err := s.repo.GetAll(ctx, req, group)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go s.save(context.WithoutCancel(ctx), cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Mine(ctx context.Context, actor model.Actor, req gDto.QueryParams) (dto.GetBookingsResponse, error) {
	if actor.Anonymous() {
		return dto.GetBookingsResponse{}, failure.Unauthorized("login required")
	}

	return s.GetAll(ctx, req, dto.ListFilter{MemberID: actor.ID})
}

func (s *serviceImpl) find(ctx context.Context, field, value string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(value, field, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found")
	}

	return booking, nil
}

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	if err := s.cache.Save(ctx, key, value, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Str("cacheKey", key).Msg("failed to save booking cache")
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, booking model.Booking) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetBooking, booking.ID)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking cache")
	}

	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetBookingByNumber, booking.ApplicationNumber)); err != nil {
		log.Error().Err(err).Msg("failed to delete booking cache")
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllBooking)
	shared.InvalidateCaches(ctx, s.cache, cacheCountBooking)
}

// afterCommit drops stale cache entries and publishes the change. Both run detached from
// the request.
func (s *serviceImpl) afterCommit(ctx context.Context, booking model.Booking, eventType string, previous model.Status) {
	detached := context.WithoutCancel(ctx)

	go s.invalidate(detached, booking)

	if !s.cfg.Kafka.Enable {
		return
	}

	event := dto.NewEvent(eventType, booking, previous)

	go func() {
		msg := kafka.Message{Key: booking.ID, Value: event}
		if err := s.kafka.SendMessages(detached, s.cfg.Kafka.BookingTopic, msg); err != nil {
			log.Error().Err(err).Str("event", eventType).Str("booking_id", booking.ID).Msg("failed to publish booking event")
		}
	}()
}

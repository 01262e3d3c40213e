package repository

//go:generate go tool mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"sporti/infras/otel"
	"sporti/infras/postgres"
	"sporti/internal/domains/availability"
	"sporti/internal/domains/booking/model"
	facilityModel "sporti/internal/domains/facility/model"
	roomModel "sporti/internal/domains/room/model"
	"sporti/shared/constant"
	gDto "sporti/shared/dto"
	"sporti/shared/logger"
	gRepo "sporti/shared/repository"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrBookingNotFound  = errors.New("booking not found")
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, id string) (model.Booking, error)
	LockResourceTx(ctx context.Context, sqltx *sqlx.Tx, bookingType model.Type, resourceID string) (model.Resource, error)
	Occupancies(ctx context.Context, query model.OccupancyQuery) ([]availability.Occupancy, error)
	OccupanciesTx(ctx context.Context, sqltx *sqlx.Tx, query model.OccupancyQuery) ([]availability.Occupancy, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetForUpdateTx reads a booking and holds its row lock until the transaction ends.
func (r *repositoryImpl) GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, id string) (model.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GetForUpdateTx")
	defer scope.End()

	var booking model.Booking

	query, args, err := postgres.Builder.
		Select(r.Columns()...).
		From(model.TableName).
		Where(squirrel.Eq{model.FieldID: id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return booking, fmt.Errorf("failed to build booking lock query: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = sqltx.GetContext(ctx, &booking, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return booking, ErrBookingNotFound
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return booking, fmt.Errorf("failed to lock booking: %w", err)
	}

	return booking, nil
}

// LockResourceTx locks the room or facility service row so that concurrent allocations
// of the same resource run one after the other.
func (r *repositoryImpl) LockResourceTx(ctx context.Context, sqltx *sqlx.Tx, bookingType model.Type, resourceID string) (model.Resource, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.LockResourceTx")
	defer scope.End()

	var (
		resource model.Resource
		builder  squirrel.SelectBuilder
	)

	switch bookingType {
	case model.TypeService:
		builder = postgres.Builder.
			Select("id", "location", "type AS category", "capacity", "member_rate", "guest_rate", "is_blocked").
			From(facilityModel.TableName).
			Where(squirrel.Eq{facilityModel.FieldID: resourceID})
	default:
		builder = postgres.Builder.
			Select("id", "location", "category", "0 AS capacity", "member_rate", "guest_rate", "is_blocked").
			From(roomModel.TableName).
			Where(squirrel.Eq{roomModel.FieldID: resourceID})
	}

	query, args, err := builder.Suffix("FOR UPDATE").ToSql()
	if err != nil {
		return resource, fmt.Errorf("failed to build resource lock query: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = sqltx.GetContext(ctx, &resource, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return resource, ErrResourceNotFound
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return resource, fmt.Errorf("failed to lock resource: %w", err)
	}

	return resource, nil
}

func (r *repositoryImpl) Occupancies(ctx context.Context, query model.OccupancyQuery) ([]availability.Occupancy, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Occupancies")
	defer scope.End()

	return r.occupancies(ctx, r.db.Read, query)
}

func (r *repositoryImpl) OccupanciesTx(ctx context.Context, sqltx *sqlx.Tx, query model.OccupancyQuery) ([]availability.Occupancy, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.OccupanciesTx")
	defer scope.End()

	return r.occupancies(ctx, sqltx, query)
}

// occupancies loads the bound, live bookings overlapping [CheckIn, CheckOut).
func (r *repositoryImpl) occupancies(ctx context.Context, q sqlx.QueryerContext, query model.OccupancyQuery) ([]availability.Occupancy, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.occupancies")
	defer scope.End()

	builder := postgres.Builder.
		Select(model.FieldID, model.FieldResourceID, model.FieldCheckIn, model.FieldCheckOut, model.FieldStatus).
		From(model.TableName).
		Where(squirrel.NotEq{model.FieldResourceID: nil}).
		Where(squirrel.NotEq{model.FieldStatus: []string{string(model.StatusRejected), string(model.StatusCancelled)}}).
		Where(squirrel.Lt{model.FieldCheckIn: query.CheckOut}).
		Where(squirrel.Gt{model.FieldCheckOut: query.CheckIn})

	if query.BookingType != "" {
		builder = builder.Where(squirrel.Eq{model.FieldBookingType: query.BookingType})
	}

	if len(query.ResourceIDs) > 0 {
		builder = builder.Where(squirrel.Eq{model.FieldResourceID: query.ResourceIDs})
	}

	if query.ExcludeBookingID != "" {
		builder = builder.Where(squirrel.NotEq{model.FieldID: query.ExcludeBookingID})
	}

	sqlQuery, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build occupancy query: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, sqlQuery)

	var res []availability.Occupancy
	if err := sqlx.SelectContext(ctx, q, &res, sqlQuery, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get occupancies: %w", err)
	}

	return res, nil
}

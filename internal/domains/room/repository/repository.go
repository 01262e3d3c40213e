package repository

//go:generate go tool mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"sporti/infras/otel"
	"sporti/infras/postgres"
	"sporti/internal/domains/room/model"
	"sporti/shared/constant"
	gDto "sporti/shared/dto"
	"sporti/shared/logger"
	gRepo "sporti/shared/repository"

	"github.com/Masterminds/squirrel"
)

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	Pool(ctx context.Context, location, category string) ([]model.Room, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Pool returns the unblocked rooms of a category at a location ordered by floor and room number.
func (r *repositoryImpl) Pool(ctx context.Context, location, category string) ([]model.Room, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.Pool")
	defer scope.End()

	query, args, err := postgres.Builder.
		Select(r.Columns()...).
		From(model.TableName).
		Where(squirrel.Eq{
			model.FieldLocation:  location,
			model.FieldCategory:  category,
			model.FieldIsBlocked: false,
		}).
		OrderBy(model.FieldFloor, model.FieldRoomNumber).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build room pool query: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var rooms []model.Room
	if err := r.db.Read.SelectContext(ctx, &rooms, query, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get room pool: %w", err)
	}

	return rooms, nil
}

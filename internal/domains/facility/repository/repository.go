package repository

//go:generate go tool mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"sporti/infras/otel"
	"sporti/infras/postgres"
	"sporti/internal/domains/facility/model"
	"sporti/shared/constant"
	gDto "sporti/shared/dto"
	"sporti/shared/logger"
	gRepo "sporti/shared/repository"

	"github.com/Masterminds/squirrel"
)

type Facility interface {
	Insert(ctx context.Context, model model.Service) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Service, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Service, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	Pool(ctx context.Context, location, serviceType string, minCapacity int) ([]model.Service, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Service]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Facility {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Service](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Pool returns the unblocked services of a type at a location that seat at least
// minCapacity guests, ordered by name.
func (r *repositoryImpl) Pool(ctx context.Context, location, serviceType string, minCapacity int) ([]model.Service, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".facility.Pool")
	defer scope.End()

	query, args, err := postgres.Builder.
		Select(r.Columns()...).
		From(model.TableName).
		Where(squirrel.Eq{
			model.FieldLocation:  location,
			model.FieldType:      serviceType,
			model.FieldIsBlocked: false,
		}).
		Where(squirrel.GtOrEq{model.FieldCapacity: minCapacity}).
		OrderBy(model.FieldName).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build service pool query: %w", err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var services []model.Service
	if err := r.db.Read.SelectContext(ctx, &services, query, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get service pool: %w", err)
	}

	return services, nil
}

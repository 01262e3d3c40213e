package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"sporti/infras/otel"
	"sporti/infras/postgres"
	"sporti/shared/constant"
	"sporti/shared/dto"
	"sporti/shared/logger"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"
)

var (
	errRequiredFilter = errors.New("required filter")
	errNoChanges      = errors.New("no columns to update")
)

var mapper = reflectx.NewMapperFunc("db", sqlx.NameMapper)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Repository is the table gateway shared by every entity: one struct type T
// mapped onto one table through its db tags.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entity        string
	primaryColumn string
	columns       []string
}

func NewRepository[T any](entityName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entity:        entityName,
		primaryColumn: primaryColumn,
		columns:       getColumns(reflect.TypeOf(zero)),
	}
}

func (repo *Repository[T]) scope(ctx context.Context, operation string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, operation))
}

func (repo *Repository[T]) fail(scope otel.Scope, err error, action string) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", action, repo.entity, err)
}

func (repo *Repository[T]) where(builder squirrel.SelectBuilder, filter dto.FilterGroup) squirrel.SelectBuilder {
	if pred := filter.Sqlizer(); pred != nil {
		return builder.Where(pred)
	}

	return builder
}

func (repo *Repository[T]) insert(ctx context.Context, exec execer, model T) error {
	ctx, scope := repo.scope(ctx, "insert")
	defer scope.End()

	fields := mapper.FieldMap(reflect.ValueOf(model))
	values := make(map[string]any, len(repo.columns))

	for _, col := range repo.columns {
		values[col] = fields[col].Interface()
	}

	query, args, err := postgres.Builder.Insert(repo.table).SetMap(values).ToSql()
	if err != nil {
		return repo.fail(scope, err, "build insert")
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		return repo.fail(scope, err, "insert data")
	}

	return nil
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	return repo.insert(ctx, repo.db.Write, model)
}

func (repo *Repository[T]) InsertTx(ctx context.Context, sqltx *sqlx.Tx, model T) error {
	return repo.insert(ctx, sqltx, model)
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.scope(ctx, "Exist")
	defer scope.End()

	pred := filter.Sqlizer()
	if pred == nil {
		return false, errRequiredFilter
	}

	query, args, err := postgres.Builder.
		Select("1").
		From(repo.table).
		Where(pred).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, repo.fail(scope, err, "build exist query")
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	exist := false
	if err := repo.db.Read.GetContext(ctx, &exist, query, args...); err != nil {
		return false, repo.fail(scope, err, "check exist data")
	}

	return exist, nil
}

// Get returns the zero T when nothing matches; callers test the primary key.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.scope(ctx, "Get")
	defer scope.End()

	var model T

	query, args, err := repo.where(postgres.Builder.Select(repo.selectColumns(columns...)...).From(repo.table), filter).
		Limit(1).
		ToSql()
	if err != nil {
		return model, repo.fail(scope, err, "build get query")
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = repo.db.Read.GetContext(ctx, &model, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	if err != nil {
		return model, repo.fail(scope, err, "get data")
	}

	return model, nil
}

// GetAll pages through the table. Sorting is accepted only on mapped columns so
// sort_by never reaches the SQL text unchecked.
func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.scope(ctx, "GetAll")
	defer scope.End()

	builder := repo.where(postgres.Builder.Select(repo.selectColumns(columns...)...).From(repo.table), filter)

	if params.SortBy != "" && slices.Contains(repo.columns, params.SortBy) {
		direction := dto.SortDirAsc
		if strings.EqualFold(params.SortDir, dto.SortDirDesc) {
			direction = dto.SortDirDesc
		}

		builder = builder.OrderBy(fmt.Sprintf("%s.%s %s", repo.table, params.SortBy, direction))
	}

	if params.Limit > 0 {
		builder = builder.Limit(uint64(params.Limit))

		if params.Page > 0 {
			builder = builder.Offset(uint64((params.Page - 1) * params.Limit))
		}
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, repo.fail(scope, err, "build list query")
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	models := []T{}
	if err := repo.db.Read.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, repo.fail(scope, err, "get all data")
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.scope(ctx, "Count")
	defer scope.End()

	query, args, err := repo.where(postgres.Builder.Select(fmt.Sprintf("COUNT(%s.%s)", repo.table, repo.primaryColumn)).From(repo.table), filter).ToSql()
	if err != nil {
		return 0, repo.fail(scope, err, "build count query")
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var count int
	if err := repo.db.Read.GetContext(ctx, &count, query, args...); err != nil {
		return 0, repo.fail(scope, err, "count data")
	}

	return count, nil
}

func (repo *Repository[T]) delete(ctx context.Context, exec execer, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "delete")
	defer scope.End()

	pred := filter.Sqlizer()
	if pred == nil {
		return errRequiredFilter
	}

	query, args, err := postgres.Builder.Delete(repo.table).Where(pred).ToSql()
	if err != nil {
		return repo.fail(scope, err, "build delete")
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		return repo.fail(scope, err, "delete data")
	}

	return nil
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	return repo.delete(ctx, repo.db.Write, filter)
}

func (repo *Repository[T]) DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup) error {
	return repo.delete(ctx, sqltx, filter)
}

func (repo *Repository[T]) update(ctx context.Context, exec execer, mod map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "update")
	defer scope.End()

	if len(mod) == 0 {
		return errNoChanges
	}

	pred := filter.Sqlizer()
	if pred == nil {
		return errRequiredFilter
	}

	query, args, err := postgres.Builder.Update(repo.table).SetMap(mod).Where(pred).ToSql()
	if err != nil {
		return repo.fail(scope, err, "build update")
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		return repo.fail(scope, err, "update data")
	}

	return nil
}

func (repo *Repository[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, repo.db.Write, mod, filter)
}

func (repo *Repository[T]) UpdateTx(ctx context.Context, sqltx *sqlx.Tx, mod map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, sqltx, mod, filter)
}

// RunInTx runs fn inside a write transaction, committing when fn returns nil and
// rolling back otherwise.
func (repo *Repository[T]) RunInTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) (err error) {
	ctx, scope := repo.scope(ctx, "RunInTx")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction (%s): %w", repo.entity, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()

			panic(p)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.ErrorWithStack(rbErr)
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit transaction (%s): %w", repo.entity, err)
	}

	return nil
}

// Columns lists the mapped columns of T, qualified with the table name.
func (repo *Repository[T]) Columns() []string {
	return repo.selectColumns()
}

func (repo *Repository[T]) selectColumns(only ...string) []string {
	res := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(only) > 0 && !slices.Contains(only, col) {
			continue
		}

		res = append(res, repo.table+"."+col)
	}

	return res
}

// getColumns flattens the db tags of t, descending into embedded structs such
// as the shared audit metadata.
func getColumns(t reflect.Type) []string {
	columns := []string{}

	for i := range t.NumField() {
		field := t.Field(i)
		tag := field.Tag.Get("db")

		if field.Anonymous && field.Type.Kind() == reflect.Struct && tag == "" {
			columns = append(columns, getColumns(field.Type)...)

			continue
		}

		if tag == "" || tag == "-" {
			continue
		}

		columns = append(columns, tag)
	}

	return columns
}

package dto

import (
	"fmt"

	"github.com/Masterminds/squirrel"
)

const (
	FilterOperatorEq        = "eq"
	FilterOperatorLike      = "like"
	FilterOperatorIn        = "in"
	FilterOperatorNotEq     = "not_eq"
	FilterOperatorLessEq    = "less_eq"
	FilterOperatorGreaterEq = "greater_eq"
	FilterPlainQuery        = "plain"
	FilterIsNotNull         = "is_not_null"
	FilterIsNull            = "is_null"
)

const (
	FilterGroupOperatorAnd = "AND"
	FilterGroupOperatorOr  = "OR"
)

// Filter is a single column predicate. Table qualifies the column when the query joins.
type Filter struct {
	Field    string
	Value    any
	Operator string `validate:"required,oneof=eq like in not_eq less_eq greater_eq plain is_not_null is_null"`
	Table    string
}

func (f Filter) column() string {
	if f.Table == "" {
		return f.Field
	}

	return f.Table + "." + f.Field
}

// Sqlizer renders the predicate for squirrel. Unknown operators yield nil and are skipped.
// A plain query is trusted SQL and must never carry user input.
func (f Filter) Sqlizer() squirrel.Sqlizer {
	column := f.column()

	switch f.Operator {
	case FilterOperatorEq:
		return squirrel.Eq{column: f.Value}
	case FilterOperatorIn:
		// squirrel.Eq expands slices into IN (...)
		return squirrel.Eq{column: f.Value}
	case FilterOperatorNotEq:
		return squirrel.NotEq{column: f.Value}
	case FilterOperatorLike:
		return squirrel.ILike{column: fmt.Sprintf("%%%v%%", f.Value)}
	case FilterOperatorLessEq:
		return squirrel.LtOrEq{column: f.Value}
	case FilterOperatorGreaterEq:
		return squirrel.GtOrEq{column: f.Value}
	case FilterPlainQuery:
		query, _ := f.Value.(string)

		return squirrel.Expr("(" + query + ")")
	case FilterIsNotNull:
		return squirrel.NotEq{column: nil}
	case FilterIsNull:
		return squirrel.Eq{column: nil}
	default:
		return nil
	}
}

// FilterGroup joins Filters and nested FilterGroups with Operator.
type FilterGroup struct {
	Filters  []any
	Operator string
}

// Sqlizer returns nil for an empty group so callers can omit WHERE entirely.
func (f FilterGroup) Sqlizer() squirrel.Sqlizer {
	parts := []squirrel.Sqlizer{}

	for _, filter := range f.Filters {
		var part squirrel.Sqlizer

		switch fill := filter.(type) {
		case Filter:
			part = fill.Sqlizer()
		case FilterGroup:
			part = fill.Sqlizer()
		}

		if part != nil {
			parts = append(parts, part)
		}
	}

	if len(parts) == 0 {
		return nil
	}

	if f.Operator == FilterGroupOperatorOr {
		return squirrel.Or(parts)
	}

	return squirrel.And(parts)
}

// ToSql renders the group with ? placeholders; empty groups give an empty clause.
func (f FilterGroup) ToSql() (string, []any, error) { //nolint:revive
	sqlizer := f.Sqlizer()
	if sqlizer == nil {
		return "", nil, nil
	}

	return sqlizer.ToSql() //nolint:wrapcheck
}

package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sporti/shared/constant"
	"sporti/shared/dto"
	"sporti/shared/model"
	"sporti/shared/timezone"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	metadata := dto.Metadata{}
	metadata.FromModel(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: createdAt.Add(time.Hour),
		CreatedBy:  "admin-1",
		ModifiedBy: "admin-2",
	})

	assert.Equal(t, timezone.Format(createdAt, constant.DateFormat), metadata.CreatedAt)
	assert.Equal(t, timezone.Format(createdAt.Add(time.Hour), constant.DateFormat), metadata.ModifiedAt)
	assert.Equal(t, "admin-1", metadata.CreatedBy)
	assert.Equal(t, "admin-2", metadata.ModifiedBy)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		withDefaults bool
		expected     dto.QueryParams
	}{
		{
			name:     "explicit values",
			target:   "/v1/bookings?page=2&limit=20&sort_by=check_in&sort_dir=asc",
			expected: dto.QueryParams{Page: 2, Limit: 20, SortBy: "check_in", SortDir: dto.SortDirAsc},
		},
		{
			name:         "defaults to newest first",
			target:       "/v1/bookings",
			withDefaults: true,
			expected: dto.QueryParams{
				Page:    constant.DefaultValuePage,
				Limit:   constant.DefaultValueLimit,
				SortBy:  constant.DefaultValueSortBy,
				SortDir: constant.DefaultValueSortDir,
			},
		},
		{
			name:     "limit is capped",
			target:   "/v1/rooms?limit=5000",
			expected: dto.QueryParams{Limit: constant.MaxValueLimit},
		},
		{
			name:         "garbage falls back to defaults",
			target:       "/v1/rooms?page=-1&limit=abc&sort_dir=sideways",
			withDefaults: true,
			expected: dto.QueryParams{
				Page:    constant.DefaultValuePage,
				Limit:   constant.DefaultValueLimit,
				SortBy:  constant.DefaultValueSortBy,
				SortDir: constant.DefaultValueSortDir,
			},
		},
		{
			name:     "without defaults nothing is filled in",
			target:   "/v1/rooms",
			expected: dto.QueryParams{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := dto.QueryParams{}
			q.FromRequest(httptest.NewRequest("GET", tt.target, nil), tt.withDefaults)

			assert.Equal(t, tt.expected, q)
		})
	}
}

func TestFilterGroup_ToSql(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		group     dto.FilterGroup
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "empty group",
			group:     dto.FilterGroup{},
			wantQuery: "",
		},
		{
			name: "equality and range on a qualified column",
			group: dto.FilterGroup{
				Operator: dto.FilterGroupOperatorAnd,
				Filters: []any{
					dto.Filter{Field: "status", Operator: dto.FilterOperatorEq, Value: "pending", Table: "bookings"},
					dto.Filter{Field: "check_out", Operator: dto.FilterOperatorGreaterEq, Value: from, Table: "bookings"},
				},
			},
			wantQuery: "(bookings.status = ? AND bookings.check_out >= ?)",
			wantArgs:  []any{"pending", from},
		},
		{
			name: "nested or group with like and in",
			group: dto.FilterGroup{
				Operator: dto.FilterGroupOperatorAnd,
				Filters: []any{
					dto.Filter{Field: "location", Operator: dto.FilterOperatorIn, Value: []string{"SPORTI-1", "SPORTI-2"}},
					dto.FilterGroup{
						Operator: dto.FilterGroupOperatorOr,
						Filters: []any{
							dto.Filter{Field: "full_name", Operator: dto.FilterOperatorLike, Value: "rao"},
							dto.Filter{Field: "email", Operator: dto.FilterOperatorLike, Value: "rao"},
						},
					},
				},
			},
			wantQuery: "(location IN (?,?) AND (full_name ILIKE ? OR email ILIKE ?))",
			wantArgs:  []any{"SPORTI-1", "SPORTI-2", "%rao%", "%rao%"},
		},
		{
			name: "null checks and unknown operators",
			group: dto.FilterGroup{
				Filters: []any{
					dto.Filter{Field: "resource_id", Operator: dto.FilterIsNull},
					dto.Filter{Field: "checked_in_at", Operator: dto.FilterIsNotNull},
					dto.Filter{Field: "floor", Operator: "between", Value: 3},
				},
			},
			wantQuery: "(resource_id IS NULL AND checked_in_at IS NOT NULL)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := tt.group.ToSql()
			require.NoError(t, err)

			assert.Equal(t, tt.wantQuery, query)
			assert.ElementsMatch(t, tt.wantArgs, args)
		})
	}
}

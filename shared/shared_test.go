package shared_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"sporti/shared"
	cacheMocks "sporti/shared/cache/mocks"
	"sporti/shared/constant"
	"sporti/shared/dto"
	"sporti/shared/timezone"
)

func TestConvertStringToBool(t *testing.T) {
	yes, no := true, false

	tests := []struct {
		input    string
		expected *bool
	}{
		{input: "", expected: nil},
		{input: "true", expected: &yes},
		{input: "1", expected: &yes},
		{input: "F", expected: &no},
		{input: "blocked", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.ConvertStringToBool(tt.input))
		})
	}
}

func TestConvertStringToInt(t *testing.T) {
	guests, err := shared.ConvertStringToInt(" 40 ")
	require.NoError(t, err)
	assert.Equal(t, 40, guests)

	_, err = shared.ConvertStringToInt("forty")
	assert.Error(t, err)
}

func TestParseDateTime(t *testing.T) {
	t.Run("plain date is midnight in the app timezone", func(t *testing.T) {
		got, err := shared.ParseDateTime("2026-03-01")
		require.NoError(t, err)

		assert.Equal(t, timezone.GetLocation(), got.Location())
		assert.Equal(t, 2026, got.Year())
		assert.Equal(t, time.March, got.Month())
		assert.Equal(t, 1, got.Day())
		assert.Equal(t, 0, got.Hour())
	})

	t.Run("rfc3339 keeps the instant", func(t *testing.T) {
		got, err := shared.ParseDateTime("2026-03-01T14:00:00Z")
		require.NoError(t, err)

		assert.True(t, got.Equal(time.Date(2026, time.March, 1, 14, 0, 0, 0, time.UTC)))
	})

	for _, value := range []string{"", "01/03/2026", "tomorrow"} {
		t.Run("rejects "+value, func(t *testing.T) {
			_, err := shared.ParseDateTime(value)
			assert.Error(t, err)
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	assert.Equal(t, 1, shared.CalculateTotalPage(0, 10))
	assert.Equal(t, 1, shared.CalculateTotalPage(10, 0))
	assert.Equal(t, 1, shared.CalculateTotalPage(10, 10))
	assert.Equal(t, 2, shared.CalculateTotalPage(11, 10))
}

func TestTransformFields(t *testing.T) {
	type patch struct {
		Category   string  `db:"category"`
		MemberRate *int64  `db:"member_rate"`
		GuestRate  *int64  `db:"guest_rate"`
		Floor      int     `db:"floor"`
		Note       string  `db:"-"`
		Untagged   string
		Remarks    *string `db:"remarks"`
	}

	rate := int64(2500)

	fields := shared.TransformFields(patch{
		Category:   "Family Room",
		MemberRate: &rate,
		Note:       "ignored",
		Untagged:   "ignored",
	}, "admin-1")

	assert.Equal(t, "Family Room", fields["category"])
	assert.Equal(t, int64(2500), fields["member_rate"])
	assert.Equal(t, "admin-1", fields[constant.FieldModifiedBy])
	assert.Contains(t, fields, constant.FieldModifiedAt)

	for _, absent := range []string{"guest_rate", "floor", "-", "remarks", "Untagged"} {
		assert.NotContains(t, fields, absent)
	}
}

func TestFilterByID(t *testing.T) {
	group := shared.FilterByID("b-1", "id", "bookings")

	query, args, err := group.ToSql()
	require.NoError(t, err)

	assert.Equal(t, "(bookings.id = ?)", query)
	assert.Equal(t, []any{"b-1"}, args)
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 2, Limit: 10, SortBy: "check_in", SortDir: dto.SortDirDesc}

	byStatus := func(status string) dto.FilterGroup {
		return dto.FilterGroup{
			Operator: dto.FilterGroupOperatorAnd,
			Filters: []any{
				dto.Filter{Field: "status", Operator: dto.FilterOperatorEq, Value: status},
			},
		}
	}

	pending := shared.BuildCacheKeyWithQuery("booking", params, byStatus("pending"))

	assert.Equal(t, pending, shared.BuildCacheKeyWithQuery("booking", params, byStatus("pending")))
	assert.NotEqual(t, pending, shared.BuildCacheKeyWithQuery("booking", params, byStatus("confirmed")))
	assert.Regexp(t, `^booking:2:10:check_in:DESC:[0-9a-f]{32}$`, pending)
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Clear(gomock.Any(), "room:list*").Return(nil)

	shared.InvalidateCaches(context.Background(), mockCache, "room:list")
}

package lifecycle_test

import (
	"net/http"
	"testing"
	"time"

	"sporti/internal/domains/booking/lifecycle"
	"sporti/internal/domains/booking/model"
	"sporti/shared/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var statuses = []model.Status{
	model.StatusPending,
	model.StatusConfirmed,
	model.StatusRejected,
	model.StatusCompleted,
	model.StatusCancelled,
}

func TestTransition(t *testing.T) {
	legal := map[[2]model.Status]bool{
		{model.StatusPending, model.StatusConfirmed}:   true,
		{model.StatusPending, model.StatusRejected}:    true,
		{model.StatusPending, model.StatusCancelled}:   true,
		{model.StatusConfirmed, model.StatusCompleted}: true,
		{model.StatusConfirmed, model.StatusCancelled}: true,
		{model.StatusCompleted, model.StatusCancelled}: true,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			err := lifecycle.Transition(from, to)

			if legal[[2]model.Status{from, to}] {
				assert.NoError(t, err, "%s -> %s", from, to)

				continue
			}

			assert.Error(t, err, "%s -> %s", from, to)
			assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
		}
	}
}

func TestTerminal(t *testing.T) {
	assert.True(t, lifecycle.Terminal(model.StatusRejected))
	assert.True(t, lifecycle.Terminal(model.StatusCancelled))
	assert.False(t, lifecycle.Terminal(model.StatusPending))
	assert.False(t, lifecycle.Terminal(model.StatusCompleted))
}

func TestConfirm(t *testing.T) {
	pending := model.Booking{Status: model.StatusPending}

	assert.NoError(t, lifecycle.Confirm(pending, "R1", 1600))
	assert.EqualError(t, lifecycle.Confirm(pending, "", 1600), "a resource must be allocated before the booking is confirmed")
	assert.EqualError(t, lifecycle.Confirm(pending, "R1", 0), "total cost must be greater than zero to confirm the booking")
	assert.EqualError(t, lifecycle.Confirm(model.Booking{Status: model.StatusRejected}, "R1", 1600), "booking cannot move from rejected to confirmed")
}

func TestCheckIn(t *testing.T) {
	at := time.Date(2026, 5, 10, 14, 0, 0, 0, time.UTC)

	res, err := lifecycle.CheckIn(model.Booking{Status: model.StatusConfirmed}, at)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, model.StatusCompleted, res.Status)
	assert.Equal(t, at, *res.CheckedInAt)

	again, err := lifecycle.CheckIn(model.Booking{Status: model.StatusCompleted, CheckedInAt: res.CheckedInAt}, at.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, again.Changed)
	assert.Equal(t, at, *again.CheckedInAt)

	for _, status := range []model.Status{model.StatusPending, model.StatusRejected, model.StatusCancelled} {
		_, err := lifecycle.CheckIn(model.Booking{Status: status}, at)
		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err), status)
	}
}

func TestCheckOut(t *testing.T) {
	at := time.Date(2026, 5, 12, 10, 0, 0, 0, time.UTC)
	checkedIn := at.Add(-48 * time.Hour)

	t.Run("confirmed booking is checked in first", func(t *testing.T) {
		res, err := lifecycle.CheckOut(model.Booking{Status: model.StatusConfirmed}, at)
		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.Equal(t, model.StatusCompleted, res.Status)
		assert.Equal(t, at, *res.CheckedInAt)
		assert.Equal(t, at, *res.CheckedOutAt)
	})

	t.Run("completed booking records departure", func(t *testing.T) {
		res, err := lifecycle.CheckOut(model.Booking{Status: model.StatusCompleted, CheckedInAt: &checkedIn}, at)
		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.Equal(t, checkedIn, *res.CheckedInAt)
		assert.Equal(t, at, *res.CheckedOutAt)
	})

	t.Run("repeated check-out is a no-op", func(t *testing.T) {
		b := model.Booking{Status: model.StatusCompleted, CheckedInAt: &checkedIn, CheckedOutAt: &at}

		res, err := lifecycle.CheckOut(b, at.Add(time.Hour))
		require.NoError(t, err)
		assert.False(t, res.Changed)
		assert.Equal(t, at, *res.CheckedOutAt)
	})

	t.Run("cancelled booking cannot check out", func(t *testing.T) {
		_, err := lifecycle.CheckOut(model.Booking{Status: model.StatusCancelled}, at)
		assert.Error(t, err)
	})
}

func TestPayment(t *testing.T) {
	tests := []struct {
		from, to model.PaymentStatus
		changed  bool
		wantErr  bool
	}{
		{model.PaymentPending, model.PaymentPaid, true, false},
		{model.PaymentPending, model.PaymentFailed, true, false},
		{model.PaymentFailed, model.PaymentPaid, true, false},
		{model.PaymentPaid, model.PaymentPaid, false, false},
		{model.PaymentPaid, model.PaymentFailed, false, true},
		{model.PaymentPaid, model.PaymentPending, false, true},
		{model.PaymentFailed, model.PaymentPending, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			changed, err := lifecycle.Payment(tt.from, tt.to)

			assert.Equal(t, tt.changed, changed)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

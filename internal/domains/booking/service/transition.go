package service

import (
	"context"
	"errors"
	"maps"

	"sporti/internal/domains/booking/lifecycle"
	"sporti/internal/domains/booking/model"
	"sporti/internal/domains/booking/model/dto"
	"sporti/internal/domains/booking/repository"
	"sporti/shared"
	"sporti/shared/constant"
	"sporti/shared/failure"
	"sporti/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// change mutates the locked booking and returns the columns to write. An empty result
// means the request repeated what is already recorded.
type change func(ctx context.Context, tx *sqlx.Tx, booking *model.Booking) (map[string]any, error)

type outcome struct {
	booking  model.Booking
	previous model.Status
	changed  bool
}

// mutate applies fn to booking id under a row lock and persists the result in the same
// transaction.
func (s *serviceImpl) mutate(ctx context.Context, actor model.Actor, id, stage string, fn change) (out outcome, err error) {
	err = s.repo.RunInTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		current, err := s.repo.GetForUpdateTx(ctx, tx, id)
		if errors.Is(err, repository.ErrBookingNotFound) {
			return failure.NotFound("booking not found")
		}

		if err != nil {
			return err
		}

		out.previous = current.Status

		fields, err := fn(ctx, tx, &current)
		if err != nil {
			return err
		}

		out.booking = current

		if len(fields) == 0 {
			return nil
		}

		now := timezone.Now()
		fields[constant.FieldModifiedAt] = now
		fields[constant.FieldModifiedBy] = actor.Name()
		out.booking.ModifiedAt = now
		out.booking.ModifiedBy = actor.Name()
		out.changed = true

		return s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(id, model.FieldID, model.TableName))
	})
	if err != nil {
		return outcome{}, s.mapWriteError(err, stage)
	}

	return out, nil
}

func (s *serviceImpl) finish(ctx context.Context, out outcome, eventType string) (res dto.BookingResponse) {
	if out.changed {
		if out.previous != out.booking.Status {
			s.metrics.StatusChanged(string(out.previous), string(out.booking.Status))
		}

		log.Info().
			Str("booking_id", out.booking.ID).
			Str("from", string(out.previous)).
			Str("to", string(out.booking.Status)).
			Str("payment_status", string(out.booking.PaymentStatus)).
			Msg("booking updated")

		s.afterCommit(ctx, out.booking, eventType, out.previous)
	}

	res.FromModel(out.booking)

	return res
}

// SetStatus moves a booking to req.Status. Confirming binds req.ResourceID (or keeps
// the resource already bound), re-checks it is free and re-prices, all in one transaction.
// Completing records the check-in time like CheckIn does.
func (s *serviceImpl) SetStatus(ctx context.Context, actor model.Actor, id string, req dto.UpdateStatusRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.SetStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	to := model.Status(req.Status)

	out, err := s.mutate(ctx, actor, id, "bind", func(ctx context.Context, tx *sqlx.Tx, b *model.Booking) (map[string]any, error) {
		if err := lifecycle.Transition(b.Status, to); err != nil {
			return nil, err
		}

		fields := map[string]any{}

		if to == model.StatusConfirmed {
			resourceID := b.BoundResourceID()
			if req.ResourceID != constant.Empty {
				resourceID = req.ResourceID
			}

			if resourceID != constant.Empty {
				if err := s.allocate(ctx, tx, b, resourceID, b.ID); err != nil {
					return nil, err
				}
			}

			if err := lifecycle.Confirm(*b, b.BoundResourceID(), b.TotalCost); err != nil {
				return nil, err
			}

			fields[model.FieldResourceID] = b.BoundResourceID()
			fields[model.FieldTotalCost] = b.TotalCost
		}

		// completing a booking is its check-in
		if to == model.StatusCompleted {
			occ, err := lifecycle.CheckIn(*b, timezone.Now())
			if err != nil {
				return nil, err
			}

			maps.Copy(fields, occupancyFields(b, occ))
		}

		b.Status = to
		fields[model.FieldStatus] = string(to)

		if req.Remarks != constant.Empty {
			b.Remarks = req.Remarks
			fields[model.FieldRemarks] = req.Remarks
		}

		return fields, nil
	})
	if err != nil {
		return res, err
	}

	return s.finish(ctx, out, dto.EventStatusChanged), nil
}

func (s *serviceImpl) SetPaymentStatus(ctx context.Context, actor model.Actor, id string, req dto.UpdatePaymentRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.SetPaymentStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	to := model.PaymentStatus(req.PaymentStatus)

	out, err := s.mutate(ctx, actor, id, "payment", func(_ context.Context, _ *sqlx.Tx, b *model.Booking) (map[string]any, error) {
		changed, err := lifecycle.Payment(b.PaymentStatus, to)
		if err != nil || !changed {
			return nil, err
		}

		b.PaymentStatus = to

		return map[string]any{model.FieldPaymentStatus: string(to)}, nil
	})
	if err != nil {
		return res, err
	}

	return s.finish(ctx, out, dto.EventPaymentChanged), nil
}

func occupancyFields(b *model.Booking, occ lifecycle.Occupancy) map[string]any {
	if !occ.Changed {
		return nil
	}

	b.Status = occ.Status
	b.CheckedInAt = occ.CheckedInAt
	b.CheckedOutAt = occ.CheckedOutAt

	fields := map[string]any{model.FieldStatus: string(occ.Status)}

	if occ.CheckedInAt != nil {
		fields[model.FieldCheckedInAt] = *occ.CheckedInAt
	}

	if occ.CheckedOutAt != nil {
		fields[model.FieldCheckedOutAt] = *occ.CheckedOutAt
	}

	return fields
}

// CheckIn marks a confirmed booking as occupied. Repeating it is a no-op.
func (s *serviceImpl) CheckIn(ctx context.Context, actor model.Actor, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CheckIn")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	out, err := s.mutate(ctx, actor, id, "checkin", func(_ context.Context, _ *sqlx.Tx, b *model.Booking) (map[string]any, error) {
		occ, err := lifecycle.CheckIn(*b, timezone.Now())
		if err != nil {
			return nil, err
		}

		return occupancyFields(b, occ), nil
	})
	if err != nil {
		return res, err
	}

	return s.finish(ctx, out, dto.EventStatusChanged), nil
}

func (s *serviceImpl) CheckOut(ctx context.Context, actor model.Actor, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.CheckOut")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	out, err := s.mutate(ctx, actor, id, "checkout", func(_ context.Context, _ *sqlx.Tx, b *model.Booking) (map[string]any, error) {
		occ, err := lifecycle.CheckOut(*b, timezone.Now())
		if err != nil {
			return nil, err
		}

		return occupancyFields(b, occ), nil
	})
	if err != nil {
		return res, err
	}

	return s.finish(ctx, out, dto.EventStatusChanged), nil
}

// Cancel withdraws a booking. Members may only cancel their own pending or confirmed
// bookings; administrators may cancel anything the lifecycle allows.
func (s *serviceImpl) Cancel(ctx context.Context, actor model.Actor, id string, req dto.CancelBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	out, err := s.mutate(ctx, actor, id, "cancel", func(_ context.Context, _ *sqlx.Tx, b *model.Booking) (map[string]any, error) {
		if !actor.IsAdmin() {
			if b.MemberID == nil || *b.MemberID != actor.ID {
				return nil, failure.NotFound("booking not found")
			}

			if b.Status != model.StatusPending && b.Status != model.StatusConfirmed {
				return nil, failure.Transition(string(b.Status), string(model.StatusCancelled))
			}
		}

		if err := lifecycle.Transition(b.Status, model.StatusCancelled); err != nil {
			return nil, err
		}

		b.Status = model.StatusCancelled
		fields := map[string]any{model.FieldStatus: string(model.StatusCancelled)}

		if req.Remarks != constant.Empty {
			b.Remarks = req.Remarks
			fields[model.FieldRemarks] = req.Remarks
		}

		return fields, nil
	})
	if err != nil {
		return res, err
	}

	return s.finish(ctx, out, dto.EventStatusChanged), nil
}

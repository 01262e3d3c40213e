package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"sporti/config"
	"sporti/infras/kafka"
	kafkaMocks "sporti/infras/kafka/mocks"
	"sporti/infras/metrics"
	"sporti/infras/otel/mocks"
	"sporti/internal/domains/availability"
	bookingMocks "sporti/internal/domains/booking/mocks"
	"sporti/internal/domains/booking/model"
	"sporti/internal/domains/booking/model/dto"
	"sporti/internal/domains/booking/repository"
	"sporti/internal/domains/booking/service"
	"sporti/internal/domains/booking/validator"
	"sporti/internal/domains/site"
	cacheMocks "sporti/shared/cache/mocks"
	"sporti/shared/constant"
	gDto "sporti/shared/dto"
	"sporti/shared/failure"
	"sporti/shared/timezone"
)

var (
	member = model.Actor{ID: "member-1", Role: constant.RoleMember, Designation: "SP"}
	other  = model.Actor{ID: "member-2", Role: constant.RoleMember, Designation: "SP"}
	admin  = model.Actor{ID: "admin-1", Role: constant.RoleAdmin}
)

type fixture struct {
	repo  *bookingMocks.MockBooking
	cache *cacheMocks.MockRedisCache
	kafka *kafkaMocks.MockClient
	cfg   *config.Config
	svc   service.Booking

	// detached cache writes report here so tests can wait for them
	saved   chan string
	cleared chan string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:  bookingMocks.NewMockBooking(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
		kafka: kafkaMocks.NewMockClient(ctrl),
		cfg:   &config.Config{},

		saved:   make(chan string, 16),
		cleared: make(chan string, 16),
	}

	f.cfg.Cache.TTL = 3600
	f.cfg.Booking.ApplicationNumberLength = 10
	f.cfg.Kafka.BookingTopic = "booking.events"

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(assert.AnError).AnyTimes()
	f.cache.EXPECT().
		Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string, _ any, _ int) error {
			f.saved <- key

			return nil
		}).
		AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, pattern string) error {
			f.cleared <- pattern

			return nil
		}).
		AnyTimes()

	f.svc = service.New(
		f.repo,
		validator.New(f.cfg, site.New(f.cfg)),
		f.cfg,
		f.cache,
		mocks.NewOtel(),
		f.kafka,
		metrics.New(f.cfg),
	)

	return f
}

func await(t *testing.T, ch <-chan string, n int, what string) {
	t.Helper()

	timeout := time.After(time.Second)

	for range n {
		select {
		case <-ch:
		case <-timeout:
			t.Fatalf("timed out waiting for %s", what)
		}
	}
}

// invalidated waits until a committed change has dropped the list and count caches.
func (f *fixture) invalidated(t *testing.T) {
	t.Helper()
	await(t, f.cleared, 2, "cache invalidation")
}

// cached waits for a read to fill the cache.
func (f *fixture) cached(t *testing.T) {
	t.Helper()
	await(t, f.saved, 1, "cache fill")
}

// inTx runs the transaction body with a nil tx, as the mocked repository never touches it.
func (f *fixture) inTx() *gomock.Call {
	return f.repo.EXPECT().
		RunInTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, *sqlx.Tx) error) error {
			return fn(ctx, nil)
		})
}

func draft() model.Draft {
	checkIn := timezone.Now().AddDate(0, 0, 7)

	return model.Draft{
		BookingType: model.TypeRoom,
		Channel:     model.ChannelMember,
		BookingFor:  model.ForSelf,
		Relation:    model.RelationSelf,
		CheckIn:     checkIn,
		CheckOut:    checkIn.Add(48 * time.Hour),
		Location:    "SPORTI-1",
		Category:    "Standard",
		ResourceID:  "room-1",
		Occupant: model.Occupant{
			Name:         "Ravi Kumar",
			Phone:        "9876543210",
			Gender:       "male",
			HomeLocation: "Mysuru",
		},
	}
}

func room(id string) model.Resource {
	return model.Resource{
		ID:         id,
		Location:   "SPORTI-1",
		Category:   "Standard",
		MemberRate: 800,
		GuestRate:  1500,
	}
}

func TestDirectEligible(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *model.Draft)
		actor  model.Actor
		want   bool
	}{
		{name: "member self", mutate: func(*model.Draft) {}, actor: member, want: true},
		{
			name: "member batchmate guest",
			mutate: func(d *model.Draft) {
				d.BookingFor, d.Relation = model.ForGuest, model.RelationBatchmate
			},
			actor: member,
			want:  true,
		},
		{
			name: "member friend guest",
			mutate: func(d *model.Draft) {
				d.BookingFor, d.Relation = model.ForGuest, model.RelationFriend
			},
			actor: member,
			want:  false,
		},
		{
			name:   "non-member channel",
			mutate: func(d *model.Draft) { d.Channel = model.ChannelNonMember },
			actor:  model.Actor{},
			want:   false,
		},
		{
			name: "admin for anyone",
			mutate: func(d *model.Draft) {
				d.Channel, d.BookingFor, d.Relation = model.ChannelNonMember, model.ForGuest, model.RelationFriend
			},
			actor: admin,
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := draft()
			tt.mutate(&d)

			assert.Equal(t, tt.want, service.DirectEligible(d, tt.actor))
		})
	}
}

func TestBookingService_Create(t *testing.T) {
	t.Run("direct self booking is bound and priced", func(t *testing.T) {
		f := newFixture(t)

		var stored model.Booking

		f.inTx()
		f.repo.EXPECT().LockResourceTx(gomock.Any(), gomock.Any(), model.TypeRoom, "room-1").Return(room("room-1"), nil)
		f.repo.EXPECT().
			OccupanciesTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, q model.OccupancyQuery) ([]availability.Occupancy, error) {
				assert.Equal(t, []string{"room-1"}, q.ResourceIDs)

				return nil, nil
			})
		f.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, b model.Booking) error {
				stored = b

				return nil
			})

		res, err := f.svc.Create(context.Background(), member, draft())
		f.invalidated(t)

		assert.NoError(t, err)
		assert.Equal(t, int64(1600), res.TotalCost)
		assert.Equal(t, string(model.StatusPending), res.Status)
		assert.Equal(t, "room-1", *res.ResourceID)
		assert.Equal(t, "member-1", *stored.MemberID)
		assert.Len(t, stored.ApplicationNumber, 10)
		assert.Regexp(t, "^[0-9A-F]{10}$", stored.ApplicationNumber)
		assert.Equal(t, model.PaymentPending, stored.PaymentStatus)
	})

	t.Run("category is stored in catalogue spelling", func(t *testing.T) {
		f := newFixture(t)

		d := draft()
		d.Category = "standard"

		f.inTx()
		f.repo.EXPECT().LockResourceTx(gomock.Any(), gomock.Any(), model.TypeRoom, "room-1").Return(room("room-1"), nil)
		f.repo.EXPECT().OccupanciesTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		f.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, b model.Booking) error {
				assert.Equal(t, "Standard", b.Category)

				return nil
			})

		res, err := f.svc.Create(context.Background(), member, d)
		f.invalidated(t)

		assert.NoError(t, err)
		assert.Equal(t, "Standard", res.Category)
	})

	t.Run("guest friend goes to the admin path", func(t *testing.T) {
		f := newFixture(t)

		d := draft()
		d.BookingFor, d.Relation = model.ForGuest, model.RelationFriend

		f.inTx()
		f.repo.EXPECT().
			InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, b model.Booking) error {
				assert.False(t, b.Bound())
				assert.Zero(t, b.TotalCost)

				return nil
			})

		res, err := f.svc.Create(context.Background(), member, d)
		f.invalidated(t)

		assert.NoError(t, err)
		assert.Nil(t, res.ResourceID)
		assert.Zero(t, res.TotalCost)
		assert.Equal(t, string(model.StatusPending), res.Status)
	})

	t.Run("taken resource is a conflict", func(t *testing.T) {
		f := newFixture(t)

		d := draft()

		f.inTx()
		f.repo.EXPECT().LockResourceTx(gomock.Any(), gomock.Any(), model.TypeRoom, "room-1").Return(room("room-1"), nil)
		f.repo.EXPECT().OccupanciesTx(gomock.Any(), gomock.Any(), gomock.Any()).Return([]availability.Occupancy{{
			BookingID:  "booking-9",
			ResourceID: "room-1",
			CheckIn:    d.CheckIn.Add(24 * time.Hour),
			CheckOut:   d.CheckOut.Add(24 * time.Hour),
			Status:     model.StatusConfirmed,
		}}, nil)

		_, err := f.svc.Create(context.Background(), member, d)

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("blocked resource is rejected", func(t *testing.T) {
		f := newFixture(t)

		blocked := room("room-1")
		blocked.IsBlocked = true

		f.inTx()
		f.repo.EXPECT().LockResourceTx(gomock.Any(), gomock.Any(), model.TypeRoom, "room-1").Return(blocked, nil)

		_, err := f.svc.Create(context.Background(), member, draft())

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("resource of another category is rejected", func(t *testing.T) {
		f := newFixture(t)

		vip := room("room-1")
		vip.Category = "VIP"

		f.inTx()
		f.repo.EXPECT().LockResourceTx(gomock.Any(), gomock.Any(), model.TypeRoom, "room-1").Return(vip, nil)

		_, err := f.svc.Create(context.Background(), member, draft())

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("unknown resource", func(t *testing.T) {
		f := newFixture(t)

		f.inTx()
		f.repo.EXPECT().
			LockResourceTx(gomock.Any(), gomock.Any(), model.TypeRoom, "room-1").
			Return(model.Resource{}, repository.ErrResourceNotFound)

		_, err := f.svc.Create(context.Background(), member, draft())

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("eligible member must pick a room", func(t *testing.T) {
		f := newFixture(t)

		d := draft()
		d.ResourceID = constant.Empty

		_, err := f.svc.Create(context.Background(), member, d)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("validation runs before any storage access", func(t *testing.T) {
		f := newFixture(t)

		d := draft()
		d.CheckIn = timezone.Now().AddDate(0, 0, -2)
		d.Occupant.Phone = "123"

		_, err := f.svc.Create(context.Background(), member, d)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		assert.Equal(t, "Check-in date cannot be in the past", err.Error())
	})

	t.Run("admin auto confirm", func(t *testing.T) {
		f := newFixture(t)

		f.inTx()
		f.repo.EXPECT().LockResourceTx(gomock.Any(), gomock.Any(), model.TypeRoom, "room-1").Return(room("room-1"), nil)
		f.repo.EXPECT().OccupanciesTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		d := draft()
		d.AutoConfirm = true

		res, err := f.svc.Create(context.Background(), admin, d)
		f.invalidated(t)

		assert.NoError(t, err)
		assert.Equal(t, string(model.StatusConfirmed), res.Status)
	})

	t.Run("auto confirm is ignored for members", func(t *testing.T) {
		f := newFixture(t)

		f.inTx()
		f.repo.EXPECT().LockResourceTx(gomock.Any(), gomock.Any(), model.TypeRoom, "room-1").Return(room("room-1"), nil)
		f.repo.EXPECT().OccupanciesTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		d := draft()
		d.AutoConfirm = true

		res, err := f.svc.Create(context.Background(), member, d)
		f.invalidated(t)

		assert.NoError(t, err)
		assert.Equal(t, string(model.StatusPending), res.Status)
	})

	t.Run("exclusion violation maps to conflict", func(t *testing.T) {
		f := newFixture(t)

		f.inTx()
		f.repo.EXPECT().LockResourceTx(gomock.Any(), gomock.Any(), model.TypeRoom, "room-1").Return(room("room-1"), nil)
		f.repo.EXPECT().OccupanciesTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeExclusionViolation})

		_, err := f.svc.Create(context.Background(), member, draft())

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("application number collision is retried", func(t *testing.T) {
		f := newFixture(t)

		d := draft()
		d.BookingFor, d.Relation = model.ForGuest, model.RelationFriend

		f.inTx().Times(2)
		gomock.InOrder(
			f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation}),
			f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
		)

		_, err := f.svc.Create(context.Background(), member, d)
		f.invalidated(t)

		assert.NoError(t, err)
	})

	t.Run("event published when kafka is enabled", func(t *testing.T) {
		f := newFixture(t)
		f.cfg.Kafka.Enable = true

		d := draft()
		d.BookingFor, d.Relation = model.ForGuest, model.RelationFriend

		published := make(chan string, 1)

		f.inTx()
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.kafka.EXPECT().
			SendMessages(gomock.Any(), "booking.events", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, msgs ...kafka.Message) error {
				event, ok := msgs[0].Value.(dto.Event)
				assert.True(t, ok)
				assert.Equal(t, dto.EventCreated, event.Type)

				published <- msgs[0].Key

				return nil
			})

		_, err := f.svc.Create(context.Background(), member, d)

		assert.NoError(t, err)
		f.invalidated(t)
		await(t, published, 1, "booking event")
	})
}

func pending(resourceID *string) model.Booking {
	checkIn := timezone.Now().AddDate(0, 0, 3)
	memberID := member.ID

	return model.Booking{
		ID:                "booking-1",
		ApplicationNumber: "ABCDEF1234",
		BookingType:       model.TypeRoom,
		Channel:           model.ChannelMember,
		BookingFor:        model.ForGuest,
		Relation:          model.RelationFriend,
		CheckIn:           checkIn,
		CheckOut:          checkIn.Add(48 * time.Hour),
		Location:          "SPORTI-1",
		Category:          "Standard",
		ResourceID:        resourceID,
		Status:            model.StatusPending,
		PaymentStatus:     model.PaymentPending,
		MemberID:          &memberID,
	}
}

func with(b model.Booking, status model.Status) model.Booking {
	b.Status = status

	return b
}

func ptr(s string) *string {
	return &s
}

func TestBookingService_SetStatus(t *testing.T) {
	t.Run("bind and confirm re-prices", func(t *testing.T) {
		f := newFixture(t)

		f.inTx()
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(pending(nil), nil)
		f.repo.EXPECT().LockResourceTx(gomock.Any(), gomock.Any(), model.TypeRoom, "room-2").Return(room("room-2"), nil)
		f.repo.EXPECT().
			OccupanciesTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, q model.OccupancyQuery) ([]availability.Occupancy, error) {
				assert.Equal(t, "booking-1", q.ExcludeBookingID)

				return nil, nil
			})
		f.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
				assert.Equal(t, "room-2", fields[model.FieldResourceID])
				assert.Equal(t, int64(3000), fields[model.FieldTotalCost])
				assert.Equal(t, string(model.StatusConfirmed), fields[model.FieldStatus])
				assert.Equal(t, "Allotted", fields[model.FieldRemarks])
				assert.Equal(t, admin.ID, fields[constant.FieldModifiedBy])

				return nil
			})

		res, err := f.svc.SetStatus(context.Background(), admin, "booking-1", dto.UpdateStatusRequest{
			Status:     string(model.StatusConfirmed),
			Remarks:    "Allotted",
			ResourceID: "room-2",
		})
		f.invalidated(t)

		assert.NoError(t, err)
		assert.Equal(t, int64(3000), res.TotalCost)
		assert.Equal(t, string(model.StatusConfirmed), res.Status)
	})

	t.Run("blocking the held room does not stop its confirmation", func(t *testing.T) {
		f := newFixture(t)

		b := pending(ptr("room-1"))
		b.BookingFor, b.Relation = model.ForSelf, model.RelationSelf
		b.TotalCost = 1600

		blocked := room("room-1")
		blocked.IsBlocked = true

		f.inTx()
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(b, nil)
		f.repo.EXPECT().LockResourceTx(gomock.Any(), gomock.Any(), model.TypeRoom, "room-1").Return(blocked, nil)
		f.repo.EXPECT().
			OccupanciesTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, q model.OccupancyQuery) ([]availability.Occupancy, error) {
				assert.Equal(t, []string{"room-1"}, q.ResourceIDs)
				assert.Equal(t, "booking-1", q.ExcludeBookingID)

				return nil, nil
			})
		f.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
				assert.Equal(t, "room-1", fields[model.FieldResourceID])
				assert.Equal(t, int64(1600), fields[model.FieldTotalCost])

				return nil
			})

		res, err := f.svc.SetStatus(context.Background(), admin, "booking-1", dto.UpdateStatusRequest{
			Status: string(model.StatusConfirmed),
		})
		f.invalidated(t)

		assert.NoError(t, err)
		assert.Equal(t, string(model.StatusConfirmed), res.Status)
		assert.Equal(t, int64(1600), res.TotalCost)
	})

	t.Run("moving to a blocked room is rejected", func(t *testing.T) {
		f := newFixture(t)

		blocked := room("room-2")
		blocked.IsBlocked = true

		f.inTx()
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(pending(ptr("room-1")), nil)
		f.repo.EXPECT().LockResourceTx(gomock.Any(), gomock.Any(), model.TypeRoom, "room-2").Return(blocked, nil)

		_, err := f.svc.SetStatus(context.Background(), admin, "booking-1", dto.UpdateStatusRequest{
			Status:     string(model.StatusConfirmed),
			ResourceID: "room-2",
		})

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("completing a confirmed booking records the check-in", func(t *testing.T) {
		f := newFixture(t)

		f.inTx()
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(with(pending(ptr("room-1")), model.StatusConfirmed), nil)
		f.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
				assert.Equal(t, string(model.StatusCompleted), fields[model.FieldStatus])
				assert.Contains(t, fields, model.FieldCheckedInAt)

				return nil
			})

		res, err := f.svc.SetStatus(context.Background(), admin, "booking-1", dto.UpdateStatusRequest{
			Status: string(model.StatusCompleted),
		})
		f.invalidated(t)

		assert.NoError(t, err)
		assert.Equal(t, string(model.StatusCompleted), res.Status)
		assert.NotNil(t, res.CheckedInAt)
	})

	t.Run("second bind of the same room conflicts", func(t *testing.T) {
		f := newFixture(t)

		b := pending(nil)

		f.inTx()
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(b, nil)
		f.repo.EXPECT().LockResourceTx(gomock.Any(), gomock.Any(), model.TypeRoom, "room-2").Return(room("room-2"), nil)
		f.repo.EXPECT().OccupanciesTx(gomock.Any(), gomock.Any(), gomock.Any()).Return([]availability.Occupancy{{
			BookingID:  "booking-first",
			ResourceID: "room-2",
			CheckIn:    b.CheckIn,
			CheckOut:   b.CheckOut,
			Status:     model.StatusConfirmed,
		}}, nil)

		_, err := f.svc.SetStatus(context.Background(), admin, "booking-1", dto.UpdateStatusRequest{
			Status:     string(model.StatusConfirmed),
			ResourceID: "room-2",
		})

		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})

	t.Run("confirm without a resource", func(t *testing.T) {
		f := newFixture(t)

		f.inTx()
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(pending(nil), nil)

		_, err := f.svc.SetStatus(context.Background(), admin, "booking-1", dto.UpdateStatusRequest{
			Status: string(model.StatusConfirmed),
		})

		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})

	t.Run("rejected is absorbing", func(t *testing.T) {
		for _, to := range []model.Status{model.StatusConfirmed, model.StatusCompleted, model.StatusCancelled} {
			f := newFixture(t)

			f.inTx()
			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(with(pending(nil), model.StatusRejected), nil)

			_, err := f.svc.SetStatus(context.Background(), admin, "booking-1", dto.UpdateStatusRequest{Status: string(to)})

			assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err), to)
		}
	})

	t.Run("cancelled is absorbing", func(t *testing.T) {
		f := newFixture(t)

		f.inTx()
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(with(pending(ptr("room-1")), model.StatusCancelled), nil)

		_, err := f.svc.SetStatus(context.Background(), admin, "booking-1", dto.UpdateStatusRequest{
			Status:     string(model.StatusConfirmed),
			ResourceID: "room-1",
		})

		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})

	t.Run("reject a pending booking", func(t *testing.T) {
		f := newFixture(t)

		f.inTx()
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(pending(nil), nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.SetStatus(context.Background(), admin, "booking-1", dto.UpdateStatusRequest{
			Status:  string(model.StatusRejected),
			Remarks: "No rooms",
		})
		f.invalidated(t)

		assert.NoError(t, err)
		assert.Equal(t, string(model.StatusRejected), res.Status)
		assert.Equal(t, "No rooms", res.Remarks)
	})

	t.Run("missing booking", func(t *testing.T) {
		f := newFixture(t)

		f.inTx()
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-x").Return(model.Booking{}, repository.ErrBookingNotFound)

		_, err := f.svc.SetStatus(context.Background(), admin, "booking-x", dto.UpdateStatusRequest{Status: string(model.StatusRejected)})

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestBookingService_CheckInOut(t *testing.T) {
	t.Run("check-in completes a confirmed booking", func(t *testing.T) {
		f := newFixture(t)

		f.inTx()
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(with(pending(ptr("room-1")), model.StatusConfirmed), nil)
		f.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
				assert.Equal(t, string(model.StatusCompleted), fields[model.FieldStatus])
				assert.Contains(t, fields, model.FieldCheckedInAt)

				return nil
			})

		res, err := f.svc.CheckIn(context.Background(), admin, "booking-1")
		f.invalidated(t)

		assert.NoError(t, err)
		assert.Equal(t, string(model.StatusCompleted), res.Status)
		assert.NotNil(t, res.CheckedInAt)
	})

	t.Run("repeated check-in writes nothing", func(t *testing.T) {
		f := newFixture(t)

		f.inTx()
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(with(pending(ptr("room-1")), model.StatusCompleted), nil)

		res, err := f.svc.CheckIn(context.Background(), admin, "booking-1")

		assert.NoError(t, err)
		assert.Equal(t, string(model.StatusCompleted), res.Status)
	})

	t.Run("check-in of a pending booking", func(t *testing.T) {
		f := newFixture(t)

		f.inTx()
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(pending(nil), nil)

		_, err := f.svc.CheckIn(context.Background(), admin, "booking-1")

		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})

	t.Run("check-out keeps completed", func(t *testing.T) {
		f := newFixture(t)

		f.inTx()
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(with(pending(ptr("room-1")), model.StatusCompleted), nil)
		f.repo.EXPECT().
			UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ any) error {
				assert.Equal(t, string(model.StatusCompleted), fields[model.FieldStatus])
				assert.Contains(t, fields, model.FieldCheckedOutAt)

				return nil
			})

		res, err := f.svc.CheckOut(context.Background(), admin, "booking-1")
		f.invalidated(t)

		assert.NoError(t, err)
		assert.Equal(t, string(model.StatusCompleted), res.Status)
		assert.NotNil(t, res.CheckedOutAt)
	})

	t.Run("repeated check-out writes nothing", func(t *testing.T) {
		f := newFixture(t)

		left := timezone.Now()
		b := with(pending(ptr("room-1")), model.StatusCompleted)
		b.CheckedInAt = &left
		b.CheckedOutAt = &left

		f.inTx()
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(b, nil)

		_, err := f.svc.CheckOut(context.Background(), admin, "booking-1")

		assert.NoError(t, err)
	})
}

func TestBookingService_SetPaymentStatus(t *testing.T) {
	tests := []struct {
		name     string
		from     model.PaymentStatus
		to       model.PaymentStatus
		writes   bool
		wantCode int
	}{
		{name: "pending to paid", from: model.PaymentPending, to: model.PaymentPaid, writes: true},
		{name: "failed to paid", from: model.PaymentFailed, to: model.PaymentPaid, writes: true},
		{name: "paid again", from: model.PaymentPaid, to: model.PaymentPaid},
		{name: "paid to failed", from: model.PaymentPaid, to: model.PaymentFailed, wantCode: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			b := pending(nil)
			b.PaymentStatus = tt.from

			f.inTx()
			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(b, nil)

			if tt.writes {
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			}

			res, err := f.svc.SetPaymentStatus(context.Background(), admin, "booking-1", dto.UpdatePaymentRequest{PaymentStatus: string(tt.to)})
			if tt.writes {
				f.invalidated(t)
			}

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, string(tt.to), res.PaymentStatus)
			assert.Equal(t, string(model.StatusPending), res.Status)
		})
	}
}

func TestBookingService_Cancel(t *testing.T) {
	tests := []struct {
		name     string
		actor    model.Actor
		status   model.Status
		wantCode int
	}{
		{name: "owner cancels pending", actor: member, status: model.StatusPending},
		{name: "owner cancels confirmed", actor: member, status: model.StatusConfirmed},
		{name: "owner cannot cancel completed", actor: member, status: model.StatusCompleted, wantCode: http.StatusUnprocessableEntity},
		{name: "someone else's booking", actor: other, status: model.StatusPending, wantCode: http.StatusNotFound},
		{name: "admin cancels completed", actor: admin, status: model.StatusCompleted},
		{name: "admin cannot revive rejected", actor: admin, status: model.StatusRejected, wantCode: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.inTx()
			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), "booking-1").Return(with(pending(ptr("room-1")), tt.status), nil)

			if tt.wantCode == 0 {
				f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			}

			res, err := f.svc.Cancel(context.Background(), tt.actor, "booking-1", dto.CancelBookingRequest{Remarks: "Plans changed"})
			if tt.wantCode == 0 {
				f.invalidated(t)
			}

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, string(model.StatusCancelled), res.Status)
		})
	}
}

func TestBookingService_Get(t *testing.T) {
	t.Run("owner sees the booking", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending(nil), nil)

		res, err := f.svc.Get(context.Background(), member, "booking-1")
		f.cached(t)

		assert.NoError(t, err)
		assert.Equal(t, "booking-1", res.ID)
	})

	t.Run("other members do not", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pending(nil), nil)

		_, err := f.svc.Get(context.Background(), other, "booking-1")
		f.cached(t)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("unknown application number", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := f.svc.GetByApplicationNumber(context.Background(), "nope")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("mine requires a member", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Mine(context.Background(), model.Actor{}, gDto.QueryParams{Page: 1, Limit: 10})

		assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
	})
}

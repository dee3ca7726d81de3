package service

import (
	"context"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-booking/internal/model"
	"github.com/iliyamo/event-booking/internal/queue"
	"github.com/iliyamo/event-booking/internal/repository"
)

type mockUsers struct {
	listFn   func(ctx context.Context) ([]model.User, error)
	getFn    func(ctx context.Context, id uint64) (model.User, error)
	toggleFn func(ctx context.Context, userID uint64) (bool, error)
}

func (m *mockUsers) List(ctx context.Context) ([]model.User, error) { return m.listFn(ctx) }
func (m *mockUsers) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return m.getFn(ctx, id)
}
func (m *mockUsers) ToggleActive(ctx context.Context, userID uint64) (bool, error) {
	return m.toggleFn(ctx, userID)
}

type mockStats struct {
	dashboardFn func(ctx context.Context, now time.Time) (model.DashboardStats, error)
}

func (m *mockStats) Dashboard(ctx context.Context, now time.Time) (model.DashboardStats, error) {
	return m.dashboardFn(ctx, now)
}

func seededBookings(t *testing.T) *memBookings {
	t.Helper()
	store := newMemBookings()
	for _, b := range []model.Booking{
		{UserID: 1, EventID: 9, EventFee: dec("100")},
		{UserID: 2, EventID: 9, EventFee: dec("100")},
		{UserID: 1, EventID: 11, EventFee: dec("40")},
	} {
		b := b
		require.NoError(t, store.Create(context.Background(), &b))
	}
	return store
}

func newAdmin(bookings *memBookings, users UserAdminStore, pub AuditPublisher) *AdminService {
	return NewAdminService(bookings, users, &mockStats{}, pub, testclock.NewClock(t0), nil)
}

func TestAdminService_SetStatus(t *testing.T) {
	store := seededBookings(t)
	pub := &recordingPublisher{}
	svc := newAdmin(store, nil, pub)
	ctx := context.Background()

	b, changed, err := svc.SetStatus(ctx, 99, 1, "confirmed")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, model.StatusConfirmed, b.Status)
	assert.Equal(t, []string{queue.KindStatusChanged}, pub.kinds())
	assert.EqualValues(t, 99, pub.events[0].ActorID)

	b, changed, err = svc.SetStatus(ctx, 99, 1, "archived")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, model.StatusConfirmed, b.Status)
	stored, _ := store.GetByID(ctx, 1)
	assert.Equal(t, model.StatusConfirmed, stored.Status)
	assert.Len(t, pub.kinds(), 1)

	_, _, err = svc.SetStatus(ctx, 99, 404, "confirmed")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdminService_MarkAttendanceIsIdempotent(t *testing.T) {
	store := seededBookings(t)
	pub := &recordingPublisher{}
	svc := newAdmin(store, nil, pub)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		b, err := svc.MarkAttendance(ctx, 99, 2)
		require.NoError(t, err)
		assert.True(t, b.AttendanceMarked)
	}
	assert.Equal(t, []string{queue.KindAttendanceMarked}, pub.kinds())

	_, err := svc.MarkAttendance(ctx, 99, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdminService_ListBookingsValidatesFilters(t *testing.T) {
	svc := newAdmin(seededBookings(t), nil, nil)
	ctx := context.Background()

	page, err := svc.ListBookings(ctx, BookingQuery{EventID: 9})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, BookingsPageSize, page.PageSize)
	assert.Equal(t, 1, page.TotalPages)

	var verr ValidationError
	_, err = svc.ListBookings(ctx, BookingQuery{Status: "archived"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "status")

	_, err = svc.ExportBookings(ctx, BookingQuery{Date: "01/03/2026"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "date")
}

func TestBookingQuery_Filter(t *testing.T) {
	f, err := BookingQuery{Status: " pending ", Date: "2026-03-01", Page: -3}.filter()
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, f.Status)
	assert.Equal(t, 1, f.Page)
	require.NotNil(t, f.Date)
	assert.Equal(t, "2026-03-01", f.Date.Format("2006-01-02"))
}

func TestAdminService_GetBookingIncludesServices(t *testing.T) {
	store := seededBookings(t)
	ctx := context.Background()
	pkg := uint64(3)
	require.NoError(t, store.ReplaceServices(ctx, 1, []model.BookingService{
		{ServiceType: model.ServicePhotography, PhotographyPackageID: &pkg, ServicePrice: dec("60")},
	}, dec("160")))
	svc := newAdmin(store, nil, nil)

	b, err := svc.GetBooking(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, b.Services, 1)
	assert.Equal(t, "160.00", b.TotalAmount.StringFixed(2))
}

func TestAdminService_ToggleAndUserBookings(t *testing.T) {
	store := seededBookings(t)
	users := &mockUsers{
		getFn: func(_ context.Context, id uint64) (model.User, error) {
			if id != 1 {
				return model.User{}, repository.ErrNotFound
			}
			return model.User{ID: 1, Username: "alice"}, nil
		},
		toggleFn: func(_ context.Context, id uint64) (bool, error) { return false, nil },
	}
	svc := newAdmin(store, users, nil)
	ctx := context.Background()

	active, err := svc.ToggleUserActive(ctx, 99, 1)
	require.NoError(t, err)
	assert.False(t, active)

	u, list, err := svc.UserBookings(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Len(t, list, 2)

	_, _, err = svc.UserBookings(ctx, 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdminService_DashboardUsesClock(t *testing.T) {
	var got time.Time
	stats := &mockStats{dashboardFn: func(_ context.Context, now time.Time) (model.DashboardStats, error) {
		got = now
		return model.DashboardStats{TotalEvents: 4}, nil
	}}
	svc := NewAdminService(newMemBookings(), nil, stats, nil, testclock.NewClock(t0), nil)

	st, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 4, st.TotalEvents)
	assert.True(t, got.Equal(t0))
}

package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/juju/clock"

	"github.com/iliyamo/event-booking/internal/metrics"
	"github.com/iliyamo/event-booking/internal/model"
	"github.com/iliyamo/event-booking/internal/queue"
	"github.com/iliyamo/event-booking/internal/repository"
)

// AdminBookingStore is the booking persistence used by staff.
type AdminBookingStore interface {
	GetByID(ctx context.Context, id uint64) (model.Booking, error)
	ListServices(ctx context.Context, bookingID uint64) ([]model.BookingService, error)
	List(ctx context.Context, f repository.BookingFilter) ([]model.Booking, int64, error)
	ListAll(ctx context.Context, f repository.BookingFilter) ([]model.Booking, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	UpdateStatus(ctx context.Context, id uint64, status model.BookingStatus) error
	MarkAttendance(ctx context.Context, id uint64) error
}

type UserAdminStore interface {
	List(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	ToggleActive(ctx context.Context, userID uint64) (bool, error)
}

type StatsReader interface {
	Dashboard(ctx context.Context, now time.Time) (model.DashboardStats, error)
}

// BookingQuery filters the back-office booking list.  Status and Date are
// raw query values: an unknown status or a malformed date is rejected.
type BookingQuery struct {
	EventID uint64
	Status  string
	Date    string // YYYY-MM-DD
	Page    int
}

// AdminService implements the staff back-office over bookings and users.
type AdminService struct {
	bookings  AdminBookingStore
	users     UserAdminStore
	stats     StatsReader
	publisher AuditPublisher
	clock     clock.Clock
	logger    *slog.Logger
}

func NewAdminService(bookings AdminBookingStore, users UserAdminStore, stats StatsReader,
	publisher AuditPublisher, clk clock.Clock, logger *slog.Logger) *AdminService {
	if clk == nil {
		clk = clock.WallClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminService{bookings: bookings, users: users, stats: stats,
		publisher: publisher, clock: clk, logger: logger}
}

func (q BookingQuery) filter() (repository.BookingFilter, error) {
	f := repository.BookingFilter{EventID: q.EventID, Page: q.Page, PageSize: BookingsPageSize}
	if f.Page < 1 {
		f.Page = 1
	}
	if s := strings.TrimSpace(q.Status); s != "" {
		st, ok := model.ParseBookingStatus(s)
		if !ok {
			return f, invalid("status", "unknown status")
		}
		f.Status = st
	}
	if d := strings.TrimSpace(q.Date); d != "" {
		day, err := time.Parse("2006-01-02", d)
		if err != nil {
			return f, invalid("date", "must be YYYY-MM-DD")
		}
		f.Date = &day
	}
	return f, nil
}

// ListBookings returns one page of bookings, newest first.
func (s *AdminService) ListBookings(ctx context.Context, q BookingQuery) (Page[model.Booking], error) {
	f, err := q.filter()
	if err != nil {
		return Page[model.Booking]{}, err
	}
	items, total, err := s.bookings.List(ctx, f)
	if err != nil {
		return Page[model.Booking]{}, err
	}
	return newPage(items, total, f.Page, f.PageSize), nil
}

// ExportBookings returns every booking matching q, ignoring paging.
func (s *AdminService) ExportBookings(ctx context.Context, q BookingQuery) ([]model.Booking, error) {
	f, err := q.filter()
	if err != nil {
		return nil, err
	}
	return s.bookings.ListAll(ctx, f)
}

// GetBooking returns any booking with its services.
func (s *AdminService) GetBooking(ctx context.Context, id uint64) (model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	if b.Services, err = s.bookings.ListServices(ctx, id); err != nil {
		return model.Booking{}, err
	}
	return b, nil
}

// SetStatus moves a booking to status.  A value outside the four known
// statuses leaves the booking untouched and reports changed=false.
func (s *AdminService) SetStatus(ctx context.Context, actorID, bookingID uint64, status string) (b model.Booking, changed bool, err error) {
	b, err = s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return model.Booking{}, false, err
	}
	st, ok := model.ParseBookingStatus(strings.TrimSpace(status))
	if !ok {
		s.logger.Info("ignoring unknown booking status", "booking_id", bookingID, "status", status)
		return b, false, nil
	}
	if err := s.bookings.UpdateStatus(ctx, bookingID, st); err != nil {
		return model.Booking{}, false, err
	}
	b.Status = st
	metrics.StatusChanged(string(st))
	s.logger.Info("booking status changed", "booking_id", bookingID, "status", st, "actor_id", actorID)
	s.audit(ctx, queue.KindStatusChanged, actorID, b)
	return b, true, nil
}

// MarkAttendance flags the booking as attended.  Repeating it is harmless.
func (s *AdminService) MarkAttendance(ctx context.Context, actorID, bookingID uint64) (model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return model.Booking{}, err
	}
	if err := s.bookings.MarkAttendance(ctx, bookingID); err != nil {
		return model.Booking{}, err
	}
	already := b.AttendanceMarked
	b.AttendanceMarked = true
	if !already {
		s.audit(ctx, queue.KindAttendanceMarked, actorID, b)
	}
	return b, nil
}

func (s *AdminService) audit(ctx context.Context, kind string, actorID uint64, b model.Booking) {
	publishAudit(ctx, s.publisher, s.logger, queue.BookingAuditEvent{
		Kind:        kind,
		BookingID:   b.ID,
		UserID:      b.UserID,
		EventID:     b.EventID,
		EventTitle:  b.EventTitle,
		Status:      string(b.Status),
		TotalAmount: b.TotalAmount.StringFixed(2),
		ActorID:     actorID,
		OccurredAt:  s.clock.Now().UTC().Format(time.RFC3339),
	})
}

func (s *AdminService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

// ToggleUserActive flips the account's active flag and returns the new
// value.
func (s *AdminService) ToggleUserActive(ctx context.Context, actorID, userID uint64) (bool, error) {
	active, err := s.users.ToggleActive(ctx, userID)
	if err != nil {
		return false, err
	}
	s.logger.Info("user activation toggled", "user_id", userID, "active", active, "actor_id", actorID)
	return active, nil
}

// UserBookings lists one user's bookings, newest first.
func (s *AdminService) UserBookings(ctx context.Context, userID uint64) (model.User, []model.Booking, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, nil, err
	}
	list, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return model.User{}, nil, err
	}
	return u, list, nil
}

// Dashboard returns the landing page figures as of now.
func (s *AdminService) Dashboard(ctx context.Context) (model.DashboardStats, error) {
	return s.stats.Dashboard(ctx, s.clock.Now())
}

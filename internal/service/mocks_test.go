package service

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/event-booking/internal/model"
	"github.com/iliyamo/event-booking/internal/queue"
	"github.com/iliyamo/event-booking/internal/repository"
)

// --- credential store backed by a map ---

type memCredentials struct {
	mu    sync.Mutex
	users map[string]*model.User
	saves int
}

func newMemCredentials(users ...model.User) *memCredentials {
	m := &memCredentials{users: map[string]*model.User{}}
	for i := range users {
		u := users[i]
		m.users[u.Username] = &u
	}
	return m
}

func (m *memCredentials) GetByUsername(_ context.Context, username string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[username]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return *u, nil
}

func (m *memCredentials) UpdateLoginState(_ context.Context, userID uint64, mutate func(p *model.UserProfile)) (model.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == userID {
			mutate(&u.Profile)
			m.saves++
			return u.Profile, nil
		}
	}
	return model.UserProfile{}, repository.ErrNotFound
}

func (m *memCredentials) profile(username string) model.UserProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[username].Profile
}

// plainVerifier treats the stored hash as the password.
type plainVerifier struct{}

func (plainVerifier) Verify(hash, plain string) bool { return hash == plain }

// --- workflow and admin stores ---

type mockEvents struct {
	getByIDFn func(ctx context.Context, id uint64) (model.Event, error)
}

func (m *mockEvents) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	return m.getByIDFn(ctx, id)
}

type mockPackages struct {
	photography map[uint64]model.PhotographyPackage
	catering    map[uint64]model.CateringPackage
}

func (m *mockPackages) GetActivePhotography(_ context.Context, id uint64) (model.PhotographyPackage, error) {
	p, ok := m.photography[id]
	if !ok || !p.IsActive {
		return model.PhotographyPackage{}, repository.ErrNotFound
	}
	return p, nil
}

func (m *mockPackages) GetActiveCatering(_ context.Context, id uint64) (model.CateringPackage, error) {
	p, ok := m.catering[id]
	if !ok || !p.IsActive {
		return model.CateringPackage{}, repository.ErrNotFound
	}
	return p, nil
}

// memBookings keeps bookings and their services in memory and enforces
// owner scoping the way the SQL repository does.
type memBookings struct {
	mu       sync.Mutex
	nextID   uint64
	bookings map[uint64]*model.Booking
	services map[uint64][]model.BookingService
}

func newMemBookings() *memBookings {
	return &memBookings{bookings: map[uint64]*model.Booking{}, services: map[uint64][]model.BookingService{}}
}

func (m *memBookings) Create(_ context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	b.ID = m.nextID
	b.Status = model.StatusPending
	b.TotalAmount = b.EventFee
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

func (m *memBookings) GetForUser(_ context.Context, id, userID uint64) (model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || b.UserID != userID {
		return model.Booking{}, repository.ErrNotFound
	}
	return *b, nil
}

func (m *memBookings) GetByID(_ context.Context, id uint64) (model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return model.Booking{}, repository.ErrNotFound
	}
	return *b, nil
}

func (m *memBookings) ListServices(_ context.Context, bookingID uint64) ([]model.BookingService, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.BookingService{}, m.services[bookingID]...), nil
}

func (m *memBookings) ReplaceServices(_ context.Context, bookingID uint64, services []model.BookingService, total decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[bookingID]
	if !ok {
		return repository.ErrNotFound
	}
	stored := make([]model.BookingService, len(services))
	for i, s := range services {
		s.BookingID = bookingID
		stored[i] = s
	}
	m.services[bookingID] = stored
	b.TotalAmount = total
	return nil
}

func (m *memBookings) MarkSubmitted(_ context.Context, id uint64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = model.StatusPending
	b.SubmittedAt = &at
	return nil
}

func (m *memBookings) ListByUser(_ context.Context, userID uint64) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Booking{}
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memBookings) List(_ context.Context, f repository.BookingFilter) ([]model.Booking, int64, error) {
	all, _ := m.ListAll(context.Background(), f)
	return all, int64(len(all)), nil
}

func (m *memBookings) ListAll(_ context.Context, f repository.BookingFilter) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Booking{}
	for _, b := range m.bookings {
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if f.EventID != 0 && b.EventID != f.EventID {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (m *memBookings) UpdateStatus(_ context.Context, id uint64, status model.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = status
	return nil
}

func (m *memBookings) MarkAttendance(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.AttendanceMarked = true
	return nil
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.BookingAuditEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.BookingAuditEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Kind
	}
	return out
}

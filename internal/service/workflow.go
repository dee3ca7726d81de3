package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/event-booking/internal/metrics"
	"github.com/iliyamo/event-booking/internal/model"
	"github.com/iliyamo/event-booking/internal/queue"
)

// EventReader loads a single event.
type EventReader interface {
	GetByID(ctx context.Context, id uint64) (model.Event, error)
}

// ActivePackageReader returns packages only while they are active;
// inactive or missing ones are reported as ErrNotFound.
type ActivePackageReader interface {
	GetActivePhotography(ctx context.Context, id uint64) (model.PhotographyPackage, error)
	GetActiveCatering(ctx context.Context, id uint64) (model.CateringPackage, error)
}

// BookingStore is the persistence used by the booking workflow.  Reads
// by owner return ErrNotFound for bookings belonging to someone else.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetForUser(ctx context.Context, id, userID uint64) (model.Booking, error)
	ListServices(ctx context.Context, bookingID uint64) ([]model.BookingService, error)
	ReplaceServices(ctx context.Context, bookingID uint64, services []model.BookingService, total decimal.Decimal) error
	MarkSubmitted(ctx context.Context, id uint64, at time.Time) error
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
}

// AuditPublisher hands audit events to the message broker.
type AuditPublisher interface {
	Publish(ctx context.Context, ev queue.BookingAuditEvent) error
}

// PhotographySelection is the step-two photography form.  A zero
// PackageID means photography was not requested.
type PhotographySelection struct {
	PackageID      uint64
	PhotoType      string
	Duration       string
	DeliveryMethod string
}

// CateringSelection is the step-two catering form.  PlateCount is kept
// as submitted; anything that is not a positive integer drops the
// catering service.
type CateringSelection struct {
	PackageID  uint64
	FoodType   string
	PlateCount string
}

// ServiceSelection is everything submitted in step two.
type ServiceSelection struct {
	Photography *PhotographySelection
	Catering    *CateringSelection
}

// BookingWorkflow drives a user's booking from event selection to
// submission for staff review.
type BookingWorkflow struct {
	events    EventReader
	packages  ActivePackageReader
	bookings  BookingStore
	publisher AuditPublisher
	clock     clock.Clock
	logger    *slog.Logger
}

// NewBookingWorkflow wires the workflow.  publisher may be nil, in which
// case no audit events are sent.
func NewBookingWorkflow(events EventReader, packages ActivePackageReader, bookings BookingStore,
	publisher AuditPublisher, clk clock.Clock, logger *slog.Logger) *BookingWorkflow {
	if clk == nil {
		clk = clock.WallClock
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BookingWorkflow{events: events, packages: packages, bookings: bookings,
		publisher: publisher, clock: clk, logger: logger}
}

// StartBooking creates a pending booking for the event priced at the
// event's current fee.
func (w *BookingWorkflow) StartBooking(ctx context.Context, userID, eventID uint64, notes string) (model.Booking, error) {
	ev, err := w.events.GetByID(ctx, eventID)
	if err != nil {
		return model.Booking{}, err
	}
	if !ev.RegistrationEnabled {
		return model.Booking{}, ErrRegistrationDisabled
	}
	b := model.Booking{
		UserID:      userID,
		EventID:     ev.ID,
		EventTitle:  ev.Title,
		EventFee:    ev.Price,
		BookingDate: w.clock.Now().UTC(),
		Notes:       strings.TrimSpace(notes),
	}
	if err := w.bookings.Create(ctx, &b); err != nil {
		return model.Booking{}, err
	}
	metrics.BookingStep("started")
	return b, nil
}

// SelectServices replaces the booking's add-ons with sel and recomputes
// the total.  Unknown or inactive packages and unusable plate counts are
// dropped without error so a partially filled form still saves.
func (w *BookingWorkflow) SelectServices(ctx context.Context, userID, bookingID uint64, sel ServiceSelection) (model.Booking, error) {
	b, err := w.bookings.GetForUser(ctx, bookingID, userID)
	if err != nil {
		return model.Booking{}, err
	}

	services := make([]model.BookingService, 0, 2)
	if s, ok, err := w.photographyService(ctx, sel.Photography); err != nil {
		return model.Booking{}, err
	} else if ok {
		services = append(services, s)
	}
	if s, ok, err := w.cateringService(ctx, sel.Catering); err != nil {
		return model.Booking{}, err
	} else if ok {
		services = append(services, s)
	}

	total := TotalAmount(b.EventFee, services)
	for len(services) > 0 && total.GreaterThan(MaxAmount) {
		dropped := services[len(services)-1]
		w.logger.Debug("total out of range, skipping service", "service_type", dropped.ServiceType, "total", total)
		services = services[:len(services)-1]
		total = TotalAmount(b.EventFee, services)
	}
	if err := w.bookings.ReplaceServices(ctx, b.ID, services, total); err != nil {
		return model.Booking{}, err
	}
	for i := range services {
		services[i].BookingID = b.ID
	}
	b.TotalAmount = total
	b.Services = services
	metrics.BookingStep("services")
	return b, nil
}

func (w *BookingWorkflow) photographyService(ctx context.Context, sel *PhotographySelection) (model.BookingService, bool, error) {
	if sel == nil || sel.PackageID == 0 {
		return model.BookingService{}, false, nil
	}
	pkg, err := w.packages.GetActivePhotography(ctx, sel.PackageID)
	if errors.Is(err, ErrNotFound) {
		w.logger.Debug("photography package unavailable, skipping", "package_id", sel.PackageID)
		return model.BookingService{}, false, nil
	}
	if err != nil {
		return model.BookingService{}, false, err
	}
	id := pkg.ID
	return model.BookingService{
		ServiceType:          model.ServicePhotography,
		PhotographyPackageID: &id,
		PhotoType:            sel.PhotoType,
		Duration:             sel.Duration,
		DeliveryMethod:       sel.DeliveryMethod,
		ServicePrice:         pkg.Price.Round(2),
	}, true, nil
}

func (w *BookingWorkflow) cateringService(ctx context.Context, sel *CateringSelection) (model.BookingService, bool, error) {
	if sel == nil || sel.PackageID == 0 {
		return model.BookingService{}, false, nil
	}
	plates, err := strconv.Atoi(strings.TrimSpace(sel.PlateCount))
	if err != nil || plates <= 0 || plates > MaxPlateCount {
		w.logger.Debug("invalid plate count, skipping catering", "plate_count", sel.PlateCount)
		return model.BookingService{}, false, nil
	}
	pkg, err := w.packages.GetActiveCatering(ctx, sel.PackageID)
	if errors.Is(err, ErrNotFound) {
		w.logger.Debug("catering package unavailable, skipping", "package_id", sel.PackageID)
		return model.BookingService{}, false, nil
	}
	if err != nil {
		return model.BookingService{}, false, err
	}
	price := CateringPrice(pkg, plates)
	if price.GreaterThan(MaxAmount) {
		w.logger.Debug("catering price out of range, skipping", "package_id", sel.PackageID, "plate_count", plates)
		return model.BookingService{}, false, nil
	}
	id := pkg.ID
	return model.BookingService{
		ServiceType:       model.ServiceCatering,
		CateringPackageID: &id,
		FoodType:          sel.FoodType,
		PlateCount:        &plates,
		ServicePrice:      price,
	}, true, nil
}

// ReviewBooking returns the booking with its services.  Nothing is
// modified.
func (w *BookingWorkflow) ReviewBooking(ctx context.Context, userID, bookingID uint64) (model.Booking, error) {
	b, err := w.bookings.GetForUser(ctx, bookingID, userID)
	if err != nil {
		return model.Booking{}, err
	}
	services, err := w.bookings.ListServices(ctx, b.ID)
	if err != nil {
		return model.Booking{}, err
	}
	b.Services = services
	return b, nil
}

// ConfirmBooking submits the booking for staff review.  The status is
// set back to pending and the submission time is recorded.
func (w *BookingWorkflow) ConfirmBooking(ctx context.Context, userID, bookingID uint64) (model.Booking, error) {
	b, err := w.bookings.GetForUser(ctx, bookingID, userID)
	if err != nil {
		return model.Booking{}, err
	}
	now := w.clock.Now().UTC()
	if err := w.bookings.MarkSubmitted(ctx, b.ID, now); err != nil {
		return model.Booking{}, err
	}
	b.Status = model.StatusPending
	b.SubmittedAt = &now
	metrics.BookingStep("submitted")

	publishAudit(ctx, w.publisher, w.logger, queue.BookingAuditEvent{
		Kind:        queue.KindBookingSubmitted,
		BookingID:   b.ID,
		UserID:      b.UserID,
		EventID:     b.EventID,
		EventTitle:  b.EventTitle,
		Status:      string(b.Status),
		TotalAmount: b.TotalAmount.StringFixed(2),
		ActorID:     userID,
		OccurredAt:  now.Format(time.RFC3339),
	})
	return b, nil
}

// MyBookings lists the user's bookings, newest first.
func (w *BookingWorkflow) MyBookings(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return w.bookings.ListByUser(ctx, userID)
}

const auditPublishTimeout = 3 * time.Second

// publishAudit sends ev when a publisher is configured.  Broker failures
// are logged and counted; they never fail the operation.
func publishAudit(ctx context.Context, p AuditPublisher, logger *slog.Logger, ev queue.BookingAuditEvent) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditPublishTimeout)
	defer cancel()
	if err := p.Publish(ctx, ev); err != nil {
		metrics.AuditPublishFailed()
		logger.Warn("audit event not published", "kind", ev.Kind, "booking_id", ev.BookingID, "err", err)
	}
}

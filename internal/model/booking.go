package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// BookingStatus is the admin-controlled state of a booking.
type BookingStatus string

const (
    StatusPending   BookingStatus = "pending"
    StatusConfirmed BookingStatus = "confirmed"
    StatusRejected  BookingStatus = "rejected"
    StatusCompleted BookingStatus = "completed"
)

// BookingStatuses lists every valid status.
var BookingStatuses = []BookingStatus{StatusPending, StatusConfirmed, StatusRejected, StatusCompleted}

// ParseBookingStatus returns the status named by s and whether it is one
// of BookingStatuses.
func ParseBookingStatus(s string) (BookingStatus, bool) {
    for _, st := range BookingStatuses {
        if string(st) == s {
            return st, true
        }
    }
    return "", false
}

// ServiceType tags the variant of a BookingService.
type ServiceType string

const (
    ServicePhotography ServiceType = "photography"
    ServiceCatering    ServiceType = "catering"
)

// Booking records a user's registration for one event.  EventFee is the
// event price at booking time; TotalAmount always equals EventFee plus
// the ServicePrice of every attached service.
//
// Fields:
//  ID               – primary key identifier.
//  UserID, Username – owner of the booking.
//  EventID          – booked event; EventTitle is joined for display.
//  Status           – pending, confirmed, rejected or completed.
//  EventFee         – snapshot of the event price.
//  TotalAmount      – event fee plus add-on services.
//  BookingDate      – creation timestamp.
//  AttendanceMarked – set by staff on the day.
//  Notes            – free text from step one.
//  SubmittedAt      – when the user confirmed the booking (null before).
//  Services         – add-ons, populated only where requested.
type Booking struct {
    ID               uint64           `json:"id"`                     // bookings.id
    UserID           uint64           `json:"user_id"`                // bookings.user_id
    Username         string           `json:"username,omitempty"`     // users.username
    EventID          uint64           `json:"event_id"`               // bookings.event_id
    EventTitle       string           `json:"event_title,omitempty"`  // events.title
    Status           BookingStatus    `json:"status"`                 // bookings.status
    EventFee         decimal.Decimal  `json:"event_fee"`              // bookings.event_fee
    TotalAmount      decimal.Decimal  `json:"total_amount"`           // bookings.total_amount
    BookingDate      time.Time        `json:"booking_date"`           // bookings.booking_date
    AttendanceMarked bool             `json:"attendance_marked"`      // bookings.attendance_marked
    Notes            string           `json:"notes"`                  // bookings.notes
    SubmittedAt      *time.Time       `json:"submitted_at,omitempty"` // bookings.submitted_at (nullable)
    Services         []BookingService `json:"services,omitempty"`
}

// BookingService is one add-on attached to a booking.  Only the fields of
// its ServiceType variant are populated.  ServicePrice is a snapshot and
// does not follow later package edits.
type BookingService struct {
    ID          uint64      `json:"id"`           // booking_services.id
    BookingID   uint64      `json:"booking_id"`   // booking_services.booking_id
    ServiceType ServiceType `json:"service_type"` // booking_services.service_type

    PhotographyPackageID *uint64 `json:"photography_package_id,omitempty"`
    PhotoType            string  `json:"photo_type,omitempty"`
    Duration             string  `json:"duration,omitempty"`
    DeliveryMethod       string  `json:"delivery_method,omitempty"`

    CateringPackageID *uint64 `json:"catering_package_id,omitempty"`
    FoodType          string  `json:"food_type,omitempty"`
    PlateCount        *int    `json:"plate_count,omitempty"`

    ServicePrice decimal.Decimal `json:"service_price"` // booking_services.service_price
}

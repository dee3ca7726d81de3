// Package queue defines message payloads exchanged over the message broker.
package queue

// AuditQueueName is the durable queue carrying booking audit events.
const AuditQueueName = "booking.audit"

// Audit event kinds.
const (
    KindBookingSubmitted = "booking.submitted"
    KindStatusChanged    = "booking.status_changed"
    KindAttendanceMarked = "booking.attendance_marked"
)

// BookingAuditEvent is published whenever a booking is submitted by its
// owner or changed by staff.  It carries enough context for consumers to
// log or notify without querying the primary database.
type BookingAuditEvent struct {
    ID          string `json:"id"`
    Kind        string `json:"kind"`
    BookingID   uint64 `json:"booking_id"`
    UserID      uint64 `json:"user_id"`
    EventID     uint64 `json:"event_id"`
    EventTitle  string `json:"event_title"`
    Status      string `json:"status"`
    TotalAmount string `json:"total_amount"`
    ActorID     uint64 `json:"actor_id"`
    OccurredAt  string `json:"occurred_at"`
}

package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// EventType enumerates the kinds of events listed in the catalog.
type EventType string

const (
    EventConference EventType = "conference"
    EventWorkshop   EventType = "workshop"
    EventSeminar    EventType = "seminar"
    EventConcert    EventType = "concert"
    EventFestival   EventType = "festival"
    EventExhibition EventType = "exhibition"
    EventOther      EventType = "other"
)

// EventTypes lists every accepted event type in display order.
var EventTypes = []EventType{
    EventConference, EventWorkshop, EventSeminar, EventConcert,
    EventFestival, EventExhibition, EventOther,
}

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
    for _, v := range EventTypes {
        if v == t {
            return true
        }
    }
    return false
}

// EventCategory groups events for browsing.  Deleting a category leaves
// its events uncategorised.
type EventCategory struct {
    ID          uint64 `json:"id"`          // event_categories.id
    Name        string `json:"name"`        // event_categories.name
    Description string `json:"description"` // event_categories.description
}

// Event is a catalog entry users can book.  Price is the fee charged per
// booking and is copied onto the booking at creation time.
//
// Fields:
//  ID                  – primary key identifier.
//  Title, Description  – display text.
//  CategoryID          – optional category (null after category deletion).
//  CategoryName        – joined category name for listings.
//  EventType           – one of EventTypes.
//  Date, Time          – when the event takes place (Time as HH:MM:SS).
//  Location, Organizer – free text.
//  Price               – non-negative booking fee.
//  Capacity            – positive attendee limit.
//  RegistrationEnabled – whether new bookings are accepted.
type Event struct {
    ID                  uint64          `json:"id"`                      // events.id
    Title               string          `json:"title"`                   // events.title
    Description         string          `json:"description"`             // events.description
    CategoryID          *uint64         `json:"category_id,omitempty"`   // events.category_id (nullable)
    CategoryName        *string         `json:"category_name,omitempty"` // event_categories.name
    EventType           EventType       `json:"event_type"`              // events.event_type
    Date                time.Time       `json:"date"`                    // events.date
    Time                string          `json:"time"`                    // events.time
    Location            string          `json:"location"`                // events.location
    Organizer           string          `json:"organizer"`               // events.organizer
    Price               decimal.Decimal `json:"price"`                   // events.price
    Capacity            int             `json:"capacity"`                // events.capacity
    RegistrationEnabled bool            `json:"registration_enabled"`    // events.registration_enabled
    CreatedAt           time.Time       `json:"created_at"`              // events.created_at
    UpdatedAt           time.Time       `json:"updated_at"`              // events.updated_at
}

// IsUpcoming reports whether the event date is today or later.
func (e Event) IsUpcoming(now time.Time) bool {
    y, m, d := now.Date()
    today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
    ey, em, ed := e.Date.Date()
    return !time.Date(ey, em, ed, 0, 0, 0, 0, now.Location()).Before(today)
}

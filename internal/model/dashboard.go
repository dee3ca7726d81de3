package model

// DailyCount is the number of bookings created on one calendar day.
type DailyCount struct {
    Date  string `json:"date"` // YYYY-MM-DD
    Count int64  `json:"count"`
}

// EventBookingCount pairs an event with how many bookings it has.
type EventBookingCount struct {
    EventID      uint64 `json:"event_id"`
    Title        string `json:"title"`
    BookingCount int64  `json:"booking_count"`
}

// DashboardStats aggregates the back-office landing page figures.
type DashboardStats struct {
    TotalEvents         int64               `json:"total_events"`
    TotalBookings       int64               `json:"total_bookings"`
    TotalUsers          int64               `json:"total_users"`
    UpcomingEvents      int64               `json:"upcoming_events"`
    RecentRegistrations int64               `json:"recent_registrations"`
    DailyBookings       []DailyCount        `json:"daily_bookings"`
    TopEvents           []EventBookingCount `json:"top_events"`
}

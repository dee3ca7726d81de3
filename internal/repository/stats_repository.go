package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/event-booking/internal/model"
)

// StatsRepo computes the aggregate figures shown on the admin dashboard.
type StatsRepo struct {
	db *sql.DB
}

func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{db: db} }

const topEventsLimit = 10

// Dashboard gathers totals relative to now: upcoming events start on or
// after today, recent registrations are bookings from the last 7 days and
// the daily series covers the last 30 days.  Days without bookings are
// omitted from the series.
func (r *StatsRepo) Dashboard(ctx context.Context, now time.Time) (model.DashboardStats, error) {
	now = now.UTC()
	today := now.Format("2006-01-02")
	var st model.DashboardStats

	counts := []struct {
		query string
		args  []any
		dest  *int64
	}{
		{"SELECT COUNT(*) FROM events", nil, &st.TotalEvents},
		{"SELECT COUNT(*) FROM bookings", nil, &st.TotalBookings},
		{"SELECT COUNT(*) FROM users", nil, &st.TotalUsers},
		{"SELECT COUNT(*) FROM events WHERE date >= ?", []any{today}, &st.UpcomingEvents},
		{"SELECT COUNT(*) FROM bookings WHERE booking_date >= ?", []any{now.AddDate(0, 0, -7)}, &st.RecentRegistrations},
	}
	for _, c := range counts {
		if err := r.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dest); err != nil {
			return model.DashboardStats{}, err
		}
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT DATE_FORMAT(booking_date, '%Y-%m-%d') AS day, COUNT(*)
		 FROM bookings WHERE booking_date >= ?
		 GROUP BY day ORDER BY day`, now.AddDate(0, 0, -30))
	if err != nil {
		return model.DashboardStats{}, err
	}
	st.DailyBookings = []model.DailyCount{}
	for rows.Next() {
		var d model.DailyCount
		if err := rows.Scan(&d.Date, &d.Count); err != nil {
			rows.Close()
			return model.DashboardStats{}, err
		}
		st.DailyBookings = append(st.DailyBookings, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return model.DashboardStats{}, err
	}

	rows, err = r.db.QueryContext(ctx,
		`SELECT e.id, e.title, COUNT(b.id) AS n
		 FROM events e LEFT JOIN bookings b ON b.event_id = e.id
		 GROUP BY e.id, e.title ORDER BY n DESC, e.id
		 LIMIT ?`, topEventsLimit)
	if err != nil {
		return model.DashboardStats{}, err
	}
	defer rows.Close()
	st.TopEvents = []model.EventBookingCount{}
	for rows.Next() {
		var e model.EventBookingCount
		if err := rows.Scan(&e.EventID, &e.Title, &e.BookingCount); err != nil {
			return model.DashboardStats{}, err
		}
		st.TopEvents = append(st.TopEvents, e)
	}
	return st, rows.Err()
}

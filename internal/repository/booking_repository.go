package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/shopspring/decimal"

    "github.com/iliyamo/event-booking/internal/model"
)

// BookingRepo persists bookings and their add-on services.  Every read
// joins the owner's username and the event title so callers never have
// to issue follow-up queries for display fields.  All timestamps are UTC.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// BookingFilter narrows the back-office listing.  Zero values disable a
// filter.  Date matches the calendar day of booking_date.
type BookingFilter struct {
    EventID  uint64
    Status   model.BookingStatus
    Date     *time.Time
    Page     int
    PageSize int
}

const bookingColumns = `b.id, b.user_id, u.username, b.event_id, e.title, b.status, b.event_fee,
    b.total_amount, b.booking_date, b.attendance_marked, b.notes, b.submitted_at`

const bookingFrom = ` FROM bookings b
    JOIN users u ON u.id = b.user_id
    JOIN events e ON e.id = b.event_id`

func scanBooking(row rowScanner) (model.Booking, error) {
    var (
        b         model.Booking
        status    string
        submitted sql.NullTime
    )
    err := row.Scan(&b.ID, &b.UserID, &b.Username, &b.EventID, &b.EventTitle, &status, &b.EventFee,
        &b.TotalAmount, &b.BookingDate, &b.AttendanceMarked, &b.Notes, &submitted)
    if err != nil {
        return model.Booking{}, err
    }
    b.Status = model.BookingStatus(status)
    if submitted.Valid {
        t := submitted.Time
        b.SubmittedAt = &t
    }
    return b, nil
}

func (r *BookingRepo) queryBookings(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.Booking{}
    for rows.Next() {
        b, err := scanBooking(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, b)
    }
    return out, rows.Err()
}

// Create inserts a pending booking whose total equals its event fee and
// fills in the generated ID.  A zero BookingDate is replaced by now.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
    now := b.BookingDate.UTC().Truncate(time.Second)
    if b.BookingDate.IsZero() {
        now = time.Now().UTC().Truncate(time.Second)
    }
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO bookings (user_id, event_id, status, event_fee, total_amount, booking_date, notes)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
        b.UserID, b.EventID, string(model.StatusPending), b.EventFee, b.EventFee, now, b.Notes)
    if err != nil {
        if isMySQLError(err, mysqlForeignKey) {
            return ErrNotFound
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    b.Status = model.StatusPending
    b.TotalAmount = b.EventFee
    b.BookingDate = now
    return nil
}

// GetForUser returns the booking only when it belongs to userID.  Bookings
// owned by someone else are indistinguishable from missing ones.
func (r *BookingRepo) GetForUser(ctx context.Context, id, userID uint64) (model.Booking, error) {
    b, err := scanBooking(r.db.QueryRowContext(ctx,
        "SELECT "+bookingColumns+bookingFrom+" WHERE b.id = ? AND b.user_id = ?", id, userID))
    return b, notFound(err)
}

// GetByID returns any booking; used by staff operations.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
    b, err := scanBooking(r.db.QueryRowContext(ctx,
        "SELECT "+bookingColumns+bookingFrom+" WHERE b.id = ?", id))
    return b, notFound(err)
}

// ListServices returns the add-ons attached to a booking in insertion order.
func (r *BookingRepo) ListServices(ctx context.Context, bookingID uint64) ([]model.BookingService, error) {
    const q = `SELECT id, booking_id, service_type, photography_package_id, photo_type, duration,
                      delivery_method, catering_package_id, food_type, plate_count, service_price
               FROM booking_services WHERE booking_id = ? ORDER BY id`
    rows, err := r.db.QueryContext(ctx, q, bookingID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.BookingService{}
    for rows.Next() {
        var (
            s               model.BookingService
            svcType         string
            photoID, cateID sql.NullInt64
            plates          sql.NullInt64
        )
        if err := rows.Scan(&s.ID, &s.BookingID, &svcType, &photoID, &s.PhotoType, &s.Duration,
            &s.DeliveryMethod, &cateID, &s.FoodType, &plates, &s.ServicePrice); err != nil {
            return nil, err
        }
        s.ServiceType = model.ServiceType(svcType)
        if photoID.Valid {
            id := uint64(photoID.Int64)
            s.PhotographyPackageID = &id
        }
        if cateID.Valid {
            id := uint64(cateID.Int64)
            s.CateringPackageID = &id
        }
        if plates.Valid {
            n := int(plates.Int64)
            s.PlateCount = &n
        }
        out = append(out, s)
    }
    return out, rows.Err()
}

// ReplaceServices swaps the booking's add-ons for services and stores the
// recomputed total, all inside one transaction.  Readers never observe a
// booking whose total disagrees with its service rows.
func (r *BookingRepo) ReplaceServices(ctx context.Context, bookingID uint64, services []model.BookingService, total decimal.Decimal) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    defer func() { _ = tx.Rollback() }()

    if _, err := tx.ExecContext(ctx, "DELETE FROM booking_services WHERE booking_id = ?", bookingID); err != nil {
        return err
    }
    if len(services) > 0 {
        query := `INSERT INTO booking_services (booking_id, service_type, photography_package_id, photo_type,
            duration, delivery_method, catering_package_id, food_type, plate_count, service_price) VALUES `
        args := make([]any, 0, len(services)*10)
        for i, s := range services {
            if i > 0 {
                query += ","
            }
            query += "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
            args = append(args, bookingID, string(s.ServiceType), s.PhotographyPackageID, s.PhotoType,
                s.Duration, s.DeliveryMethod, s.CateringPackageID, s.FoodType, s.PlateCount, s.ServicePrice)
        }
        if _, err := tx.ExecContext(ctx, query, args...); err != nil {
            return err
        }
    }
    res, err := tx.ExecContext(ctx, "UPDATE bookings SET total_amount = ? WHERE id = ?", total, bookingID)
    if err := affectedOrNotFound(res, err); err != nil {
        return err
    }
    return tx.Commit()
}

// MarkSubmitted records the user's confirmation: the booking goes back to
// pending review and submitted_at is stamped.
func (r *BookingRepo) MarkSubmitted(ctx context.Context, id uint64, at time.Time) error {
    return affectedOrNotFound(r.db.ExecContext(ctx,
        "UPDATE bookings SET status = ?, submitted_at = ? WHERE id = ?",
        string(model.StatusPending), at.UTC(), id))
}

// ListByUser returns the user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
    return r.queryBookings(ctx,
        "SELECT "+bookingColumns+bookingFrom+" WHERE b.user_id = ? ORDER BY b.booking_date DESC, b.id DESC", userID)
}

func (f BookingFilter) where() (string, []any) {
    conds := []string{}
    args := []any{}
    if f.EventID != 0 {
        conds = append(conds, "b.event_id = ?")
        args = append(args, f.EventID)
    }
    if f.Status != "" {
        conds = append(conds, "b.status = ?")
        args = append(args, string(f.Status))
    }
    if f.Date != nil {
        conds = append(conds, "DATE(b.booking_date) = ?")
        args = append(args, f.Date.Format("2006-01-02"))
    }
    if len(conds) == 0 {
        return "1=1", args
    }
    return strings.Join(conds, " AND "), args
}

// List returns one page of bookings matching f and the total count.
func (r *BookingRepo) List(ctx context.Context, f BookingFilter) ([]model.Booking, int64, error) {
    cond, args := f.where()

    var total int64
    if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bookings b WHERE "+cond, args...).Scan(&total); err != nil {
        return nil, 0, err
    }
    offset := (f.Page - 1) * f.PageSize
    page, err := r.queryBookings(ctx,
        "SELECT "+bookingColumns+bookingFrom+" WHERE "+cond+" ORDER BY b.booking_date DESC, b.id DESC LIMIT ? OFFSET ?",
        append(append([]any{}, args...), f.PageSize, offset)...)
    if err != nil {
        return nil, 0, err
    }
    return page, total, nil
}

// ListAll returns every booking matching f without paging; used by exports.
func (r *BookingRepo) ListAll(ctx context.Context, f BookingFilter) ([]model.Booking, error) {
    cond, args := f.where()
    return r.queryBookings(ctx,
        "SELECT "+bookingColumns+bookingFrom+" WHERE "+cond+" ORDER BY b.booking_date DESC, b.id DESC", args...)
}

func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status model.BookingStatus) error {
    return affectedOrNotFound(r.db.ExecContext(ctx,
        "UPDATE bookings SET status = ? WHERE id = ?", string(status), id))
}

// MarkAttendance sets attendance_marked.  Marking twice is not an error.
func (r *BookingRepo) MarkAttendance(ctx context.Context, id uint64) error {
    return affectedOrNotFound(r.db.ExecContext(ctx,
        "UPDATE bookings SET attendance_marked = 1 WHERE id = ?", id))
}

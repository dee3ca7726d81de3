package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/event-booking/internal/model"
)

// EventRepo provides CRUD and search over the events table.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// EventSearchQuery defines filters & pagination for the public listing.
// Search matches title or description; Location is a substring match.
type EventSearchQuery struct {
	Search     string
	CategoryID uint64
	EventType  string
	Location   string
	Page       int
	PageSize   int
}

const eventColumns = `e.id, e.title, e.description, e.category_id, c.name, e.event_type, e.date,
	TIME_FORMAT(e.time, '%H:%i:%s'), e.location, e.organizer, e.price, e.capacity,
	e.registration_enabled, e.created_at, e.updated_at`

const eventFrom = ` FROM events e LEFT JOIN event_categories c ON c.id = e.category_id`

func scanEvent(row rowScanner) (model.Event, error) {
	var (
		e       model.Event
		catID   sql.NullInt64
		catName sql.NullString
		evType  string
	)
	err := row.Scan(&e.ID, &e.Title, &e.Description, &catID, &catName, &evType, &e.Date,
		&e.Time, &e.Location, &e.Organizer, &e.Price, &e.Capacity,
		&e.RegistrationEnabled, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return model.Event{}, err
	}
	e.EventType = model.EventType(evType)
	if catID.Valid {
		id := uint64(catID.Int64)
		e.CategoryID = &id
	}
	if catName.Valid {
		n := catName.String
		e.CategoryName = &n
	}
	return e, nil
}

// Search returns one page of events matching q, newest date first, and
// the total number of matches.
func (r *EventRepo) Search(ctx context.Context, q EventSearchQuery) ([]model.Event, int64, error) {
	where := []string{}
	args := []any{}

	if s := strings.TrimSpace(q.Search); s != "" {
		where = append(where, "(LOWER(e.title) LIKE ? OR LOWER(e.description) LIKE ?)")
		like := "%" + strings.ToLower(s) + "%"
		args = append(args, like, like)
	}
	if q.CategoryID != 0 {
		where = append(where, "e.category_id = ?")
		args = append(args, q.CategoryID)
	}
	if q.EventType != "" {
		where = append(where, "e.event_type = ?")
		args = append(args, q.EventType)
	}
	if l := strings.TrimSpace(q.Location); l != "" {
		where = append(where, "LOWER(e.location) LIKE ?")
		args = append(args, "%"+strings.ToLower(l)+"%")
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events e WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.PageSize
	offset := (q.Page - 1) * q.PageSize
	dataArgs := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+eventColumns+eventFrom+" WHERE "+cond+" ORDER BY e.date DESC, e.id DESC LIMIT ? OFFSET ?",
		dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Event, 0, limit)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListAll returns every event ordered by creation time, newest first, for
// the back-office.
func (r *EventRepo) ListAll(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+eventColumns+eventFrom+" ORDER BY e.created_at DESC, e.id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetByID fetches a single event with its category name.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (model.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx, "SELECT "+eventColumns+eventFrom+" WHERE e.id=?", id))
	return e, notFound(err)
}

// Create inserts the event and sets its generated ID.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO events (title, description, category_id, event_type, date, time, location,
		 organizer, price, capacity, registration_enabled) VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		e.Title, e.Description, e.CategoryID, string(e.EventType), e.Date.Format("2006-01-02"), e.Time,
		e.Location, e.Organizer, e.Price, e.Capacity, e.RegistrationEnabled)
	if err != nil {
		if isMySQLError(err, mysqlForeignKey) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// Update overwrites every editable column of the event.
func (r *EventRepo) Update(ctx context.Context, e *model.Event) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET title=?, description=?, category_id=?, event_type=?, date=?, time=?,
		 location=?, organizer=?, price=?, capacity=?, registration_enabled=? WHERE id=?`,
		e.Title, e.Description, e.CategoryID, string(e.EventType), e.Date.Format("2006-01-02"), e.Time,
		e.Location, e.Organizer, e.Price, e.Capacity, e.RegistrationEnabled, e.ID)
	if err != nil && isMySQLError(err, mysqlForeignKey) {
		return ErrConflict
	}
	return affectedOrNotFound(res, err)
}

// Delete removes the event; its bookings are removed by cascade.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	return affectedOrNotFound(r.db.ExecContext(ctx, "DELETE FROM events WHERE id=?", id))
}

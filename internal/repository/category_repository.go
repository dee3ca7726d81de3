package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/event-booking/internal/model"
)

// CategoryRepo stores event categories.
type CategoryRepo struct {
	db *sql.DB
}

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// List returns all categories ordered by name.
func (r *CategoryRepo) List(ctx context.Context) ([]model.EventCategory, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, description FROM event_categories ORDER BY name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.EventCategory{}
	for rows.Next() {
		var c model.EventCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Create inserts a category and sets its ID.
func (r *CategoryRepo) Create(ctx context.Context, c *model.EventCategory) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO event_categories (name, description) VALUES (?,?)", c.Name, c.Description)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// Delete removes a category.  Events referencing it keep existing with a
// NULL category (ON DELETE SET NULL).
func (r *CategoryRepo) Delete(ctx context.Context, id uint64) error {
	return affectedOrNotFound(r.db.ExecContext(ctx, "DELETE FROM event_categories WHERE id=?", id))
}

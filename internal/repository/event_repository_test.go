package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-booking/internal/model"
)

var eventCols = []string{"id", "title", "description", "category_id", "name", "event_type", "date", "time",
	"location", "organizer", "price", "capacity", "registration_enabled", "created_at", "updated_at"}

func TestEventRepo_SearchBuildsFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEventRepo(db)
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events e WHERE \(LOWER\(e.title\) LIKE \? OR LOWER\(e.description\) LIKE \?\) AND e.category_id = \? AND e.event_type = \? AND LOWER\(e.location\) LIKE \?`).
		WithArgs("%jazz%", "%jazz%", 2, "concert", "%paris%").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(13))
	mock.ExpectQuery(`LIMIT \? OFFSET \?`).
		WithArgs("%jazz%", "%jazz%", 2, "concert", "%paris%", 12, 12).
		WillReturnRows(sqlmock.NewRows(eventCols).
			AddRow(20, "Jazz Night", "live", 2, "Music", "concert", day, "19:30:00", "Paris", "Org", "25.00", 100, true, day, day))

	events, total, err := repo.Search(context.Background(), EventSearchQuery{
		Search: " Jazz ", CategoryID: 2, EventType: "concert", Location: "Paris", Page: 2, PageSize: 12,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 13, total)
	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, model.EventConcert, e.EventType)
	require.NotNil(t, e.CategoryName)
	assert.Equal(t, "Music", *e.CategoryName)
	assert.True(t, e.Price.Equal(decimal.NewFromInt(25)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepo_CreateUnknownCategory(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEventRepo(db)
	cat := uint64(99)

	mock.ExpectExec(`INSERT INTO events`).
		WillReturnError(&mysql.MySQLError{Number: 1452, Message: "foreign key"})

	err := repo.Create(context.Background(), &model.Event{Title: "x", CategoryID: &cat, EventType: model.EventOther,
		Date: time.Now(), Time: "10:00:00", Price: decimal.Zero, Capacity: 1})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestEventRepo_DeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEventRepo(db)

	mock.ExpectExec(`DELETE FROM events WHERE id=\?`).WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), 5), ErrNotFound)
}

func TestPackageRepo_GetActivePhotographyFiltersInactive(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPackageRepo(db)

	mock.ExpectQuery(`FROM photography_packages WHERE id=\? AND is_active = 1`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetActivePhotography(context.Background(), 3)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

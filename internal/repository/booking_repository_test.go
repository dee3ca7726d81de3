package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-booking/internal/model"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var bookingCols = []string{"id", "user_id", "username", "event_id", "title", "status", "event_fee",
	"total_amount", "booking_date", "attendance_marked", "notes", "submitted_at"}

func TestBookingRepo_ReplaceServicesCommitsAllStatements(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepo(db)

	pkg := uint64(3)
	plates := 10
	services := []model.BookingService{
		{ServiceType: model.ServicePhotography, PhotographyPackageID: &pkg, PhotoType: "candid", ServicePrice: decimal.RequireFromString("60.00")},
		{ServiceType: model.ServiceCatering, CateringPackageID: &pkg, FoodType: "veg", PlateCount: &plates, ServicePrice: decimal.RequireFromString("50.00")},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM booking_services WHERE booking_id = \?`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO booking_services .* VALUES \(\?, \?, \?, \?, \?, \?, \?, \?, \?, \?\),\(\?`).
		WillReturnResult(sqlmock.NewResult(10, 2))
	mock.ExpectExec(`UPDATE bookings SET total_amount = \? WHERE id = \?`).
		WithArgs(sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.ReplaceServices(context.Background(), 7, services, decimal.RequireFromString("210.00"))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepo_ReplaceServicesWithEmptySelectionSkipsInsert(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM booking_services`).WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`UPDATE bookings SET total_amount`).WithArgs(sqlmock.AnyArg(), 7).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceServices(context.Background(), 7, nil, decimal.NewFromInt(100)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepo_ReplaceServicesRollsBackOnInsertFailure(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepo(db)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM booking_services`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO booking_services`).WillReturnError(boom)
	mock.ExpectRollback()

	err := repo.ReplaceServices(context.Background(), 7,
		[]model.BookingService{{ServiceType: model.ServicePhotography, ServicePrice: decimal.NewFromInt(60)}},
		decimal.NewFromInt(160))
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepo_GetForUserScopesByOwner(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepo(db)

	mock.ExpectQuery(`WHERE b.id = \? AND b.user_id = \?`).
		WithArgs(5, 2).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetForUser(context.Background(), 5, 2)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepo_GetForUserScansRow(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepo(db)
	booked := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM bookings b`).
		WithArgs(5, 1).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow(5, 1, "alice", 9, "Spring Gala", "confirmed", "100.00", "210.00", booked, true, "", nil))

	b, err := repo.GetForUser(context.Background(), 5, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", b.Username)
	assert.Equal(t, model.StatusConfirmed, b.Status)
	assert.True(t, b.TotalAmount.Equal(decimal.RequireFromString("210")))
	assert.True(t, b.AttendanceMarked)
	assert.Nil(t, b.SubmittedAt)
}

func TestBookingRepo_MarkAttendanceMissingBooking(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepo(db)

	mock.ExpectExec(`UPDATE bookings SET attendance_marked = 1`).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.MarkAttendance(context.Background(), 99), ErrNotFound)
}

func TestBookingRepo_ListAppliesFiltersAndPaging(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepo(db)
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM bookings b WHERE b.event_id = \? AND b.status = \? AND DATE\(b.booking_date\) = \?`).
		WithArgs(9, "pending", "2026-03-01").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))
	mock.ExpectQuery(`ORDER BY b.booking_date DESC, b.id DESC LIMIT \? OFFSET \?`).
		WithArgs(9, "pending", "2026-03-01", 20, 20).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow(1, 1, "alice", 9, "Spring Gala", "pending", "100.00", "100.00", day, false, "", nil))

	list, total, err := repo.List(context.Background(), BookingFilter{
		EventID: 9, Status: model.StatusPending, Date: &day, Page: 2, PageSize: 20,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 21, total)
	assert.Len(t, list, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepo_ListServicesMapsNullableColumns(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepo(db)

	mock.ExpectQuery(`FROM booking_services WHERE booking_id = \?`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "service_type", "photography_package_id",
			"photo_type", "duration", "delivery_method", "catering_package_id", "food_type", "plate_count", "service_price"}).
			AddRow(1, 5, "photography", 3, "candid", "2hrs", "drive", nil, "", nil, "60.00").
			AddRow(2, 5, "catering", nil, "", "", "", 4, "veg", 10, "50.00"))

	services, err := repo.ListServices(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, services, 2)

	assert.Equal(t, model.ServicePhotography, services[0].ServiceType)
	require.NotNil(t, services[0].PhotographyPackageID)
	assert.EqualValues(t, 3, *services[0].PhotographyPackageID)
	assert.Nil(t, services[0].PlateCount)

	assert.Equal(t, model.ServiceCatering, services[1].ServiceType)
	require.NotNil(t, services[1].PlateCount)
	assert.Equal(t, 10, *services[1].PlateCount)
}

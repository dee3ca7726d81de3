package export

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/event-booking/internal/model"
)

func sampleBookings(n int) []model.Booking {
	out := make([]model.Booking, n)
	for i := range out {
		out[i] = model.Booking{
			ID:               uint64(i + 1),
			Username:         fmt.Sprintf("user%d", i),
			EventTitle:       "Café Night",
			Status:           model.StatusConfirmed,
			EventFee:         decimal.RequireFromString("100.00"),
			TotalAmount:      decimal.RequireFromString("210.50"),
			BookingDate:      time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
			AttendanceMarked: i%2 == 0,
		}
	}
	return out
}

func TestWriteExcel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExcel(&buf, sampleBookings(2)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"User", "Event", "Status", "Event Fee", "Total Amount", "Booking Date", "Attendance"}, rows[0])
	assert.Equal(t, []string{"user0", "Café Night", "confirmed", "100", "210.5", "2026-03-01 09:30:00", "Yes"}, rows[1])
	assert.Equal(t, "No", rows[2][6])
}

func TestWriteExcelEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExcel(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWritePDF(t *testing.T) {
	var small, large bytes.Buffer
	require.NoError(t, WritePDF(&small, sampleBookings(1)))
	require.NoError(t, WritePDF(&large, sampleBookings(120)))

	assert.True(t, bytes.HasPrefix(small.Bytes(), []byte("%PDF-")))
	assert.Greater(t, large.Len(), small.Len())
}

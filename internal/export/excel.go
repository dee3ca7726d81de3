// Package export renders booking listings as downloadable XLSX and PDF
// reports for the back-office.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/event-booking/internal/model"
)

const (
	ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ExcelFilename    = "bookings.xlsx"

	bookingsSheet = "Bookings"
)

var excelHeader = []interface{}{"User", "Event", "Status", "Event Fee", "Total Amount", "Booking Date", "Attendance"}

// WriteExcel writes bookings to w as a single-sheet workbook.  Amounts are
// numeric cells; dates use YYYY-MM-DD HH:MM:SS in UTC.
func WriteExcel(w io.Writer, bookings []model.Booking) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", bookingsSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(bookingsSheet, "A1", &excelHeader); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(bookingsSheet, "A1", "G1", bold); err != nil {
		return err
	}

	for i, b := range bookings {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		fee, _ := b.EventFee.Round(2).Float64()
		total, _ := b.TotalAmount.Round(2).Float64()
		row := []interface{}{
			b.Username,
			b.EventTitle,
			string(b.Status),
			fee,
			total,
			b.BookingDate.UTC().Format("2006-01-02 15:04:05"),
			yesNo(b.AttendanceMarked),
		}
		if err := f.SetSheetRow(bookingsSheet, cell, &row); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(bookingsSheet, "A", "B", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(bookingsSheet, "C", "G", 16); err != nil {
		return err
	}
	return f.Write(w)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

package export

import (
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/iliyamo/event-booking/internal/model"
)

const (
	PDFContentType = "application/pdf"
	PDFFilename    = "bookings.pdf"

	reportTitle = "Bookings Report"
)

var (
	pdfHeader = []string{"User", "Event", "Status", "Total Amount", "Date"}
	pdfWidths = []float64{40, 60, 30, 35, 30}
)

// WritePDF writes a letter-sized table of bookings to w.  The header row
// is repeated on every page.
func WritePDF(w io.Writer, bookings []model.Booking) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle(reportTitle, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	header := func() {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetFillColor(128, 128, 128)
		pdf.SetTextColor(245, 245, 245)
		for i, h := range pdfHeader {
			pdf.CellFormat(pdfWidths[i], 8, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetFillColor(245, 245, 220)
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, reportTitle, "", 1, "C", false, 0, "")
	pdf.Ln(4)
	header()

	for _, b := range bookings {
		cells := []string{
			tr(b.Username),
			tr(b.EventTitle),
			string(b.Status),
			b.TotalAmount.StringFixed(2),
			b.BookingDate.UTC().Format("2006-01-02"),
		}
		for i, c := range cells {
			pdf.CellFormat(pdfWidths[i], 7, c, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

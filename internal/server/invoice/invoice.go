// Package invoice renders payment invoices as PDF documents from structured
// data. Rendering is a pure function of its input; storage and delivery are
// the caller's concern.
package invoice

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// Line is one invoiced mailbox item.
type Line struct {
	Name           string
	Price          decimal.Decimal
	WeightKg       float64
	Dimension      string
	TrackingNumber string
}

// Data is everything the renderer needs for one invoice.
type Data struct {
	Username   string
	CustomerID string
	Email      string
	PaymentID  string
	Lines      []Line
	IssuedAt   time.Time
}

// Total sums the line prices.
func (d Data) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.Lines {
		total = total.Add(l.Price)
	}
	return total
}

// Render produces the invoice PDF.
func Render(data Data) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(0x33, 0x33, 0x66)
	pdf.CellFormat(0, 10, "ShipShopGlobal", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 6, "Invoice Date: "+data.IssuedAt.Format("2006-01-02 15:04:05"), "", 1, "R", false, 0, "")
	pdf.Line(10, pdf.GetY()+2, 206, pdf.GetY()+2)
	pdf.Ln(8)

	// Customer and payment info
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "Customer Information", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, "Username: "+data.Username, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Customer ID: "+data.CustomerID, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Email: "+data.Email, "", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "Payment ID: "+data.PaymentID, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Item table
	pdf.CellFormat(0, 7, "Purchased Items", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(0xf0, 0xf0, 0xf0)
	widths := []float64{70, 25, 25, 35, 41}
	headers := []string{"Item", "Price", "Weight", "Dimension", "Tracking #"}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, l := range data.Lines {
		tracking := l.TrackingNumber
		if tracking == "" {
			tracking = "-"
		}
		cols := []string{
			l.Name,
			"$" + l.Price.StringFixed(2),
			fmt.Sprintf("%g kg", l.WeightKg),
			l.Dimension,
			tracking,
		}
		for i, v := range cols {
			pdf.CellFormat(widths[i], 7, v, "", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	// Total
	pdf.Ln(3)
	pdf.Line(10, pdf.GetY(), 206, pdf.GetY())
	pdf.Ln(5)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Total Amount Paid: $"+data.Total().StringFixed(2), "", 1, "L", false, 0, "")

	// Footer
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.SetTextColor(0x80, 0x80, 0x80)
	pdf.CellFormat(0, 6, "Thank you for shopping with ShipShopGlobal. Have a great day!", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering invoice: %w", err)
	}
	return buf.Bytes(), nil
}

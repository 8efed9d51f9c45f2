package render

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/go-pdf/fpdf"
)

// WageSlip is everything printed on one wage slip.
type WageSlip struct {
	StaffName     string
	OperationName string
	ProductName   string
	Date          string
	Sizes         map[string]string
	ExtraPieces   string
	TotalPieces   int
	GrossAmount   float64
	Deduction     float64
	PayableAmount float64
	PaymentType   string
}

// WageSlipPDF lays out an A4 slip: header, job details, the size
// breakdown, and the amount summary.
func WageSlipPDF(slip WageSlip) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Wage Slip", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(50, 8, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}
	row("Staff", slip.StaffName)
	row("Operation", slip.OperationName)
	row("Product", slip.ProductName)
	row("Date", slip.Date)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(40, 8, "Size", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 8, "Pieces", "1", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)

	sizes := make([]string, 0, len(slip.Sizes))
	for size := range slip.Sizes {
		sizes = append(sizes, size)
	}
	sort.Strings(sizes)
	for _, size := range sizes {
		qty := slip.Sizes[size]
		if qty == "" {
			qty = "0"
		}
		pdf.CellFormat(40, 8, size, "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 8, qty, "1", 1, "C", false, 0, "")
	}
	if slip.ExtraPieces != "" {
		pdf.CellFormat(40, 8, "Extra", "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 8, slip.ExtraPieces, "1", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	row("Total pieces", fmt.Sprintf("%d", slip.TotalPieces))
	row("Gross amount", fmt.Sprintf("%.2f", slip.GrossAmount))
	row("Advance deducted", fmt.Sprintf("%.2f", slip.Deduction))
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(50, 8, "Payable", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("%.2f", slip.PayableAmount), "", 1, "L", false, 0, "")
	if slip.PaymentType != "" {
		row("Payment mode", slip.PaymentType)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render wage slip: %w", err)
	}
	return buf.Bytes(), nil
}

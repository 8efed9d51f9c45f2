package render

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// HistoryRow is one line of the wage history export.
type HistoryRow struct {
	Date          string
	StaffName     string
	OperationName string
	ProductName   string
	TotalPieces   int
	GrossAmount   float64
	Deduction     float64
	PayableAmount float64
	PaymentType   string
}

// WageHistoryXLSX writes the wage history as a spreadsheet.
func WageHistoryXLSX(rows []HistoryRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	headers := []string{"Date", "Staff", "Operation", "Product", "Total Pieces", "Gross Amount", "Advance Deducted", "Payable Amount", "Payment Mode"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, r := range rows {
		values := []any{r.Date, r.StaffName, r.OperationName, r.ProductName, r.TotalPieces, r.GrossAmount, r.Deduction, r.PayableAmount, r.PaymentType}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write wage history export: %w", err)
	}
	return buf.Bytes(), nil
}

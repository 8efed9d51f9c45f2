package render

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestBarcodeBarsWidths(t *testing.T) {
	bars, total := barcodeBars("09")
	if len(bars) != 2 {
		t.Fatalf("bars = %d, want 2", len(bars))
	}
	// Digit 0: bar 1.0, space 5.5. Digit 9: bar 5.5, space 1.0.
	if bars[0][1] != 1.0 {
		t.Errorf("bar width for 0 = %v, want 1.0", bars[0][1])
	}
	if bars[1][0] != 6.5 {
		t.Errorf("second bar starts at %v, want 6.5", bars[1][0])
	}
	if bars[1][1] != 5.5 {
		t.Errorf("bar width for 9 = %v, want 5.5", bars[1][1])
	}
	if total != 13.0 {
		t.Errorf("total = %v, want 13.0", total)
	}
}

func TestBarcodeBarsSkipsNonDigits(t *testing.T) {
	bars, _ := barcodeBars("1a2")
	if len(bars) != 2 {
		t.Errorf("bars = %d, want 2", len(bars))
	}
}

func TestBarcodeSVG(t *testing.T) {
	svg := BarcodeSVG("1234567890")
	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>") {
		t.Errorf("not an svg document: %.60s", svg)
	}
	if strings.Count(svg, "<rect") != 10 {
		t.Errorf("rect count = %d, want one per digit", strings.Count(svg, "<rect"))
	}
	if !strings.Contains(svg, ">1234567890</text>") {
		t.Error("number not printed under the bars")
	}
}

func TestFormattedReceiptID(t *testing.T) {
	got := FormattedReceiptID("shree", "INV-42", "15/03/2024")
	if got != "SHREE-INV-42-2024" {
		t.Errorf("FormattedReceiptID = %q", got)
	}
}

func TestReceiptCardPNG(t *testing.T) {
	data, err := ReceiptCardPNG(ReceiptCard{
		UniqueNumber:      "1234567890",
		SupplierShortName: "SHREE",
		InvoiceNo:         "INV-42",
		Date:              "15/03/2024",
		FabricType:        "Cotton Lycra",
		Weight:            "25.5",
	})
	if err != nil {
		t.Fatalf("ReceiptCardPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 400 || b.Dy() != 250 {
		t.Errorf("card is %dx%d, want 400x250", b.Dx(), b.Dy())
	}
}

func TestWageSlipPDF(t *testing.T) {
	data, err := WageSlipPDF(WageSlip{
		StaffName:     "Lata",
		OperationName: "singer",
		ProductName:   "Kids Tee",
		Date:          "15/03/2024",
		Sizes:         map[string]string{"2-3": "5", "3-4": "7"},
		ExtraPieces:   "2",
		TotalPieces:   14,
		GrossAmount:   140,
		Deduction:     40,
		PayableAmount: 100,
		PaymentType:   "Cash",
	})
	if err != nil {
		t.Fatalf("WageSlipPDF: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output does not start with %%PDF: %.8s", data)
	}
}

func TestWageHistoryXLSX(t *testing.T) {
	data, err := WageHistoryXLSX([]HistoryRow{
		{Date: "2024-03-15", StaffName: "Lata", OperationName: "singer", ProductName: "Kids Tee", TotalPieces: 14, GrossAmount: 140, Deduction: 40, PayableAmount: 100, PaymentType: "Cash"},
	})
	if err != nil {
		t.Fatalf("WageHistoryXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetCellValue("Sheet1", "B2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if got != "Lata" {
		t.Errorf("B2 = %q, want staff name", got)
	}
}

package wagecalc

import "testing"

func TestTotalPieces(t *testing.T) {
	tests := []struct {
		name  string
		sizes map[string]string
		extra string
		want  int
	}{
		{"all sizes", map[string]string{"2-3": "10", "3-4": "5", "4-5": "0"}, "", 15},
		{"with extra", map[string]string{"2-3": "10"}, "2", 12},
		{"blank entries count as zero", map[string]string{"2-3": "", "3-4": "7"}, "", 7},
		{"garbage entries count as zero", map[string]string{"2-3": "abc", "3-4": "3"}, "x", 3},
		{"empty map", map[string]string{}, "", 0},
		{"whitespace tolerated", map[string]string{"2-3": " 4 "}, " 1 ", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalPieces(tt.sizes, tt.extra); got != tt.want {
				t.Errorf("TotalPieces = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRateTableLookup(t *testing.T) {
	table, err := ParseRateTable(`[{"name":"Cutting","rate":10},{"name":" Singer ","rate":"12.5"},{"name":"Flatlock","rate":"n/a"}]`)
	if err != nil {
		t.Fatalf("ParseRateTable: %v", err)
	}

	if got := table.Rate("cutting"); got != 10 {
		t.Errorf("case-insensitive lookup = %v, want 10", got)
	}
	if got := table.Rate("  SINGER "); got != 12.5 {
		t.Errorf("trimmed lookup with string rate = %v, want 12.5", got)
	}
	if got := table.Rate("flatlock"); got != 0 {
		t.Errorf("non-numeric rate = %v, want 0", got)
	}
	if got := table.Rate("overlock"); got != 0 {
		t.Errorf("missing operation = %v, want 0", got)
	}
}

func TestParseRateTable(t *testing.T) {
	if table, err := ParseRateTable(""); err != nil || len(table) != 0 {
		t.Errorf("empty field: table=%v err=%v, want empty table and nil error", table, err)
	}
	if _, err := ParseRateTable("{broken"); err == nil {
		t.Error("malformed serialization should error")
	}
}

func TestComputeGrossFormula(t *testing.T) {
	rates := RateTable{{Name: "Singer", Rate: 3}}
	res := Compute(Input{
		Sizes:       map[string]string{"2-3": "4", "3-4": "6"},
		ExtraPieces: "2",
		Rates:       rates,
		Operation:   "singer",
	})
	if res.TotalPieces != 12 {
		t.Errorf("TotalPieces = %d, want 12", res.TotalPieces)
	}
	if res.GrossAmount != 36 {
		t.Errorf("GrossAmount = %v, want 36", res.GrossAmount)
	}
	if res.PayableAmount != 36 {
		t.Errorf("PayableAmount with zero deduction = %v, want 36", res.PayableAmount)
	}
}

// A deduction larger than the gross amount must produce a negative payable;
// the settlement carries the surplus forward as advance, so no clamping.
func TestComputeNegativePayableNotClamped(t *testing.T) {
	rates := RateTable{{Name: "Overlock", Rate: 2}}
	res := Compute(Input{
		Sizes:     map[string]string{"2-3": "5"},
		Rates:     rates,
		Operation: "Overlock",
		Deduction: 100,
	})
	if res.GrossAmount != 10 {
		t.Fatalf("GrossAmount = %v, want 10", res.GrossAmount)
	}
	if res.PayableAmount != -90 {
		t.Errorf("PayableAmount = %v, want -90", res.PayableAmount)
	}
}

// Product "Kids Tee", cutting at rate 10: 12 pieces gross 120, pending
// advance 20 defaulted into the deduction leaves 100 payable.
func TestComputeKidsTee(t *testing.T) {
	table, err := ParseRateTable(`[{"name":"Cutting","rate":10}]`)
	if err != nil {
		t.Fatalf("ParseRateTable: %v", err)
	}
	res := Compute(Input{
		Sizes:     map[string]string{"2-3": "12"},
		Rates:     table,
		Operation: "Cutting",
		Deduction: 20,
	})
	if res.GrossAmount != 120 {
		t.Errorf("GrossAmount = %v, want 120", res.GrossAmount)
	}
	if res.PayableAmount != 100 {
		t.Errorf("PayableAmount = %v, want 100", res.PayableAmount)
	}
}

func singerRates() RateTable {
	return RateTable{
		{Name: "Singer", Rate: 5},
		{Name: "Flatlock", Rate: 3},
		{Name: "Overlock", Rate: 2},
	}
}

func TestLinesSingerFanOut(t *testing.T) {
	sizes := map[string]string{"2-3": "10"}
	lines := Lines(singerRates(), sizes, "", []Payee{
		{Operation: "Singer", Staff: "Asha", Deduction: 10},
		{Operation: "Flatlock", Staff: "Binod", Deduction: 5},
		{Operation: "Overlock", Staff: "Chitra"},
	})

	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	want := []Line{
		{Operation: "Singer", Staff: "Asha", TotalPieces: 10, GrossAmount: 50, Deduction: 10, PayableAmount: 40},
		{Operation: "Flatlock", Staff: "Binod", TotalPieces: 10, GrossAmount: 30, Deduction: 5, PayableAmount: 25},
		{Operation: "Overlock", Staff: "Chitra", TotalPieces: 10, GrossAmount: 20, Deduction: 0, PayableAmount: 20},
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %+v, want %+v", i, lines[i], w)
		}
	}
}

func TestLinesSuppressesSamePersonAndEmpty(t *testing.T) {
	sizes := map[string]string{"2-3": "10"}

	// Flatlock operator is the singer herself: no second payout for her.
	lines := Lines(singerRates(), sizes, "", []Payee{
		{Operation: "Singer", Staff: "Asha"},
		{Operation: "Flatlock", Staff: "Asha"},
		{Operation: "Overlock", Staff: "Chitra"},
	})
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[1].Operation != "Overlock" || lines[1].Staff != "Chitra" {
		t.Errorf("kept line = %+v, want Chitra's overlock row", lines[1])
	}

	// Unassigned operators are dropped too.
	lines = Lines(singerRates(), sizes, "", []Payee{
		{Operation: "Singer", Staff: "Asha"},
		{Operation: "Flatlock", Staff: ""},
		{Operation: "Overlock", Staff: "  "},
	})
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
}

func TestLinesPrimaryAlwaysKept(t *testing.T) {
	lines := Lines(singerRates(), nil, "", []Payee{{Operation: "Singer", Staff: "Asha"}})
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0].TotalPieces != 0 || lines[0].GrossAmount != 0 {
		t.Errorf("zero pieces line = %+v, want zero totals", lines[0])
	}
}

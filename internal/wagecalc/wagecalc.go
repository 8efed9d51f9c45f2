package wagecalc

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Rate is a piece rate as stored in a product's serialized operation list.
// The backend serializes rates inconsistently (sometimes a JSON number,
// sometimes a quoted string); anything unparseable counts as zero.
type Rate float64

func (r *Rate) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(b)), `"`))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*r = 0
		return nil
	}
	*r = Rate(v)
	return nil
}

// OperationRate is one entry of a product's rate table.
type OperationRate struct {
	Name string `json:"name"`
	Rate Rate   `json:"rate"`
}

// RateTable maps operation names to piece rates.
type RateTable []OperationRate

// ParseRateTable decodes a product's serialized operations field.
// An empty field yields an empty table.
func ParseRateTable(serialized string) (RateTable, error) {
	if strings.TrimSpace(serialized) == "" {
		return RateTable{}, nil
	}
	var table RateTable
	if err := json.Unmarshal([]byte(serialized), &table); err != nil {
		return nil, err
	}
	return table, nil
}

// Rate returns the piece rate for an operation. Lookup is case-insensitive
// and ignores surrounding whitespace; a missing operation rates at zero.
func (t RateTable) Rate(operation string) float64 {
	want := strings.ToLower(strings.TrimSpace(operation))
	for _, op := range t {
		if strings.ToLower(strings.TrimSpace(op.Name)) == want {
			return float64(op.Rate)
		}
	}
	return 0
}

// TotalPieces sums the per-size quantities plus the extra-pieces field.
// Quantities arrive as form strings; blank or non-numeric entries count
// as zero.
func TotalPieces(sizes map[string]string, extraPieces string) int {
	total := 0
	for _, v := range sizes {
		total += atoiOrZero(v)
	}
	return total + atoiOrZero(extraPieces)
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// Input is one operator's wage computation.
type Input struct {
	Sizes       map[string]string
	ExtraPieces string
	Rates       RateTable
	Operation   string
	Deduction   float64
}

// Result carries the derived wage fields shown to the operator before
// submission.
type Result struct {
	TotalPieces   int
	Rate          float64
	GrossAmount   float64
	PayableAmount float64
}

// Compute derives total pieces, gross amount and payable amount.
// Payable is gross minus deduction with no floor: a deduction larger than
// the gross amount produces a negative payable, matching how the books are
// settled (the surplus stays owed as advance).
func Compute(in Input) Result {
	total := TotalPieces(in.Sizes, in.ExtraPieces)
	rate := in.Rates.Rate(in.Operation)
	gross := float64(total) * rate
	return Result{
		TotalPieces:   total,
		Rate:          rate,
		GrossAmount:   gross,
		PayableAmount: gross - in.Deduction,
	}
}

// Payee is one operator to be paid out of a single wage submission.
type Payee struct {
	Operation string
	Staff     string
	Deduction float64
}

// Line is one payee row of a wage submission.
type Line struct {
	Operation     string
	Staff         string
	TotalPieces   int
	GrossAmount   float64
	Deduction     float64
	PayableAmount float64
}

// Lines prices the same piece counts once per payee. The first payee is the
// submitting operator and is always kept; later payees (the flatlock and
// overlock operators of a singer submission) are dropped when unset or when
// they are the same person as the submitter, so nobody is paid twice for
// one job.
func Lines(rates RateTable, sizes map[string]string, extraPieces string, payees []Payee) []Line {
	if len(payees) == 0 {
		return nil
	}
	total := TotalPieces(sizes, extraPieces)
	primary := strings.TrimSpace(payees[0].Staff)

	lines := make([]Line, 0, len(payees))
	for i, p := range payees {
		staff := strings.TrimSpace(p.Staff)
		if i > 0 && (staff == "" || staff == primary) {
			continue
		}
		gross := float64(total) * rates.Rate(p.Operation)
		lines = append(lines, Line{
			Operation:     p.Operation,
			Staff:         staff,
			TotalPieces:   total,
			GrossAmount:   gross,
			Deduction:     p.Deduction,
			PayableAmount: gross - p.Deduction,
		})
	}
	return lines
}

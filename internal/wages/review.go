package wages

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"shrusti-dashboard/internal/forms"
	"shrusti-dashboard/internal/render"
	"shrusti-dashboard/internal/session"
	"shrusti-dashboard/internal/upstream"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

// OperatorGroup is one operator's unsettled jobs on the flatlock or
// overlock review tab, priced at that tab's rates.
type OperatorGroup struct {
	Operator       string             `json:"operator"`
	Jobs           []upstream.WageRow `json:"jobs"`
	TotalPieces    int                `json:"total_pieces"`
	TotalGross     float64            `json:"total_gross_amount"`
	PendingBalance float64            `json:"pending_balance"`
}

type ReviewResponse struct {
	Operation string                  `json:"operation"`
	Date      string                  `json:"date"`
	Rows      []upstream.WageRow      `json:"rows,omitempty"`
	Groups    []OperatorGroup         `json:"groups,omitempty"`
	Entries   []upstream.CuttingEntry `json:"entries,omitempty"`
}

type PayRequest struct {
	Operation     string   `json:"operation"`
	Operator      string   `json:"operator"`
	Date          string   `json:"date"` // YYYY-MM-DD
	PayableAmount *float64 `json:"payable_amount"`
	PaymentType   string   `json:"payment_type"`
}

type PayResponse struct {
	Message       string  `json:"message"`
	Operator      string  `json:"operator"`
	TotalGross    float64 `json:"total_gross_amount"`
	Deduction     float64 `json:"deduction"`
	PayableAmount float64 `json:"payable_amount"`
}

func isCompanionTab(operation string) bool {
	return strings.EqualFold(operation, opFlatlock) || strings.EqualFold(operation, opOverlock)
}

// jobGross picks the amount a job contributes on the given tab. Flatlock
// and overlock tabs read the derived amounts the singer row carries.
func jobGross(tab string, row upstream.WageRow) float64 {
	switch {
	case strings.EqualFold(tab, opFlatlock):
		return row.FlatlockGrossAmount
	case strings.EqualFold(tab, opOverlock):
		return row.OverlockGrossAmount
	default:
		return row.GrossAmount
	}
}

func jobOperator(tab string, row upstream.WageRow) string {
	switch {
	case strings.EqualFold(tab, opFlatlock):
		return row.FlatlockOperator
	case strings.EqualFold(tab, opOverlock):
		return row.OverlockOperator
	default:
		return row.StaffName
	}
}

// groupByOperator buckets singer rows by the tab's companion operator,
// keeping first-seen order. Rows without an operator are left out.
func groupByOperator(tab string, rows []upstream.WageRow) []OperatorGroup {
	index := make(map[string]int)
	var groups []OperatorGroup
	for _, row := range rows {
		operator := strings.TrimSpace(jobOperator(tab, row))
		if operator == "" {
			continue
		}
		i, ok := index[operator]
		if !ok {
			i = len(groups)
			index[operator] = i
			groups = append(groups, OperatorGroup{Operator: operator})
		}
		groups[i].Jobs = append(groups[i].Jobs, row)
		groups[i].TotalPieces += row.TotalPieces
		groups[i].TotalGross += jobGross(tab, row)
	}
	return groups
}

// fillBalances resolves each operator's pending advance balance through
// the tab's roster. Operators missing from the roster read as zero.
func fillBalances(c *fiber.Ctx, api *upstream.Client, token, branchID, tab string, groups []OperatorGroup) error {
	if len(groups) == 0 {
		return nil
	}
	roster, err := api.StaffByOperation(c.Context(), token, branchID, strings.ToLower(tab))
	if err != nil {
		return err
	}
	ids := make(map[string]uint, len(roster))
	for _, s := range roster {
		ids[s.FullName] = s.ID
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(c.Context())
	for i := range groups {
		i := i
		id, ok := ids[groups[i].Operator]
		if !ok {
			continue
		}
		g.Go(func() error {
			balance, err := api.StaffPendingBalance(ctx, token, id)
			if err != nil {
				return err
			}
			mu.Lock()
			groups[i].PendingBalance = balance
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}

// ReviewHandler serves one review tab for one day. Cutting shows the raw
// entries; flatlock and overlock regroup the singer rows by companion
// operator; every other operation lists its own rows.
func ReviewHandler(api *upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		operation := strings.TrimSpace(c.Query("operation"))
		date := strings.TrimSpace(c.Query("date"))
		if operation == "" || date == "" {
			return fiber.NewError(fiber.StatusBadRequest, "operation and date query parameters are required")
		}
		branchID := session.BranchID(c)
		token := session.Token(c)

		resp := ReviewResponse{Operation: operation, Date: date}

		if strings.EqualFold(operation, opCutting) {
			entries, err := api.CuttingEntries(c.Context(), token, branchID, date)
			if err != nil {
				return respondUpstream(c, err)
			}
			resp.Entries = entries
			return c.JSON(resp)
		}

		fetchOp := operation
		if isCompanionTab(operation) {
			fetchOp = opSinger
		}
		rows, err := api.WagesByOperation(c.Context(), token, branchID, fetchOp, date)
		if err != nil {
			return respondUpstream(c, err)
		}

		if !isCompanionTab(operation) {
			resp.Rows = rows
			return c.JSON(resp)
		}

		groups := groupByOperator(operation, rows)
		if err := fillBalances(c, api, token, branchID, operation, groups); err != nil {
			return respondUpstream(c, err)
		}
		resp.Groups = groups
		return c.JSON(resp)
	}
}

// operatorJobs recollects one operator's jobs for the pay and slip flows,
// so the settled amounts come from stored rows rather than the client.
func operatorJobs(c *fiber.Ctx, api *upstream.Client, token, branchID, operation, operator, date string) ([]upstream.WageRow, float64, error) {
	fetchOp := operation
	if isCompanionTab(operation) {
		fetchOp = opSinger
	}
	rows, err := api.WagesByOperation(c.Context(), token, branchID, fetchOp, date)
	if err != nil {
		return nil, 0, err
	}

	var jobs []upstream.WageRow
	var totalGross float64
	for _, row := range rows {
		if strings.TrimSpace(jobOperator(operation, row)) != operator {
			continue
		}
		jobs = append(jobs, row)
		totalGross += jobGross(operation, row)
	}
	if len(jobs) == 0 {
		return nil, 0, fiber.NewError(fiber.StatusNotFound, "No wage entries found for this operator")
	}
	return jobs, totalGross, nil
}

// PayHandler settles one operator's day. The deduction is derived, not
// supplied: whatever of the gross total the payer holds back is recorded
// against the operator's advance.
func PayHandler(api *upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := session.BranchID(c)
		token := session.Token(c)

		var req PayRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		req.Operator = strings.TrimSpace(req.Operator)
		if req.Operator == "" || req.Operation == "" || req.Date == "" {
			return fiber.NewError(fiber.StatusBadRequest, "operator, operation and date are required")
		}
		if !forms.ValidPaymentMode(req.PaymentType) {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid payment mode")
		}

		jobs, totalGross, err := operatorJobs(c, api, token, branchID, req.Operation, req.Operator, req.Date)
		if err != nil {
			return respondUpstream(c, err)
		}

		payable := totalGross
		if req.PayableAmount != nil {
			payable = *req.PayableAmount
		}
		deduction := totalGross - payable

		payJobs := make([]upstream.WagePayJob, 0, len(jobs))
		for _, job := range jobs {
			payJobs = append(payJobs, upstream.WagePayJob{
				ID:               job.ID,
				PayableAmount:    payable,
				DeductAdvancePay: deduction,
				PaymentType:      req.PaymentType,
			})
		}
		err = api.PayWages(c.Context(), token, upstream.WagePayRequest{
			Operator:     req.Operator,
			TotalPayable: payable,
			Deduction:    deduction,
			PaymentType:  req.PaymentType,
			Jobs:         payJobs,
			Operation:    strings.ToLower(req.Operation),
		})
		if err != nil {
			return respondUpstream(c, err)
		}
		return c.JSON(PayResponse{
			Message:       "Wages paid",
			Operator:      req.Operator,
			TotalGross:    totalGross,
			Deduction:     deduction,
			PayableAmount: payable,
		})
	}
}

// combinedSizes merges the size breakdowns of several jobs for the slip.
func combinedSizes(jobs []upstream.WageRow) map[string]string {
	counts := make(map[string]int)
	for _, job := range jobs {
		if strings.TrimSpace(job.SizeWiseEntry) == "" {
			continue
		}
		var sizes map[string]string
		if err := json.Unmarshal([]byte(job.SizeWiseEntry), &sizes); err != nil {
			continue
		}
		for size, qty := range sizes {
			n, err := strconv.Atoi(strings.TrimSpace(qty))
			if err != nil {
				continue
			}
			counts[size] += n
		}
	}
	out := make(map[string]string, len(counts))
	for size, n := range counts {
		out[size] = strconv.Itoa(n)
	}
	return out
}

// slipExtras folds the settled rows into the slip's extra-pieces count
// and payment mode. Extra pieces sum across rows; the mode comes from
// the first row that records one.
func slipExtras(jobs []upstream.WageRow) (string, string) {
	total := 0
	mode := ""
	for _, job := range jobs {
		if n, err := strconv.Atoi(strings.TrimSpace(job.ExtraPieces)); err == nil {
			total += n
		}
		if mode == "" && strings.TrimSpace(job.PaymentType) != "" {
			mode = job.PaymentType
		}
	}
	if total == 0 {
		return "", mode
	}
	return strconv.Itoa(total), mode
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// SlipHandler renders the printable settlement slip for one operator's
// day.
func SlipHandler(api *upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		operation := strings.TrimSpace(c.Query("operation"))
		operator := strings.TrimSpace(c.Query("operator"))
		date := strings.TrimSpace(c.Query("date"))
		if operation == "" || operator == "" || date == "" {
			return fiber.NewError(fiber.StatusBadRequest, "operation, operator and date query parameters are required")
		}
		branchID := session.BranchID(c)
		token := session.Token(c)

		jobs, totalGross, err := operatorJobs(c, api, token, branchID, operation, operator, date)
		if err != nil {
			return respondUpstream(c, err)
		}

		payable := totalGross
		if q := c.Query("payable"); q != "" {
			v, err := strconv.ParseFloat(q, 64)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "payable must be a number")
			}
			payable = v
		}

		var totalPieces int
		for _, job := range jobs {
			totalPieces += job.TotalPieces
		}
		extras, mode := slipExtras(jobs)

		data, err := render.WageSlipPDF(render.WageSlip{
			StaffName:     operator,
			OperationName: titleCase(operation),
			ProductName:   jobs[0].ProductName,
			Date:          forms.ToDisplayDate(date),
			Sizes:         combinedSizes(jobs),
			ExtraPieces:   extras,
			TotalPieces:   totalPieces,
			GrossAmount:   totalGross,
			Deduction:     totalGross - payable,
			PayableAmount: payable,
			PaymentType:   mode,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not render wage slip")
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="WageSlip-%s-%s-%s.pdf"`, operator, titleCase(operation), date))
		return c.Send(data)
	}
}

// ExportHandler writes one review tab as a spreadsheet.
func ExportHandler(api *upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		operation := strings.TrimSpace(c.Query("operation"))
		date := strings.TrimSpace(c.Query("date"))
		if operation == "" || date == "" {
			return fiber.NewError(fiber.StatusBadRequest, "operation and date query parameters are required")
		}
		branchID := session.BranchID(c)
		token := session.Token(c)

		var rows []render.HistoryRow
		if strings.EqualFold(operation, opCutting) {
			entries, err := api.CuttingEntries(c.Context(), token, branchID, date)
			if err != nil {
				return respondUpstream(c, err)
			}
			for _, e := range entries {
				rows = append(rows, render.HistoryRow{
					Date:          date,
					StaffName:     e.CuttingMaster,
					OperationName: titleCase(opCutting),
					ProductName:   e.ProductName,
					TotalPieces:   e.TotalPcs,
					GrossAmount:   e.GrossAmount,
					Deduction:     e.DeductAdvancePay,
					PayableAmount: e.PayableAmount,
					PaymentType:   e.PaymentType,
				})
			}
		} else {
			fetchOp := operation
			if isCompanionTab(operation) {
				fetchOp = opSinger
			}
			wageRows, err := api.WagesByOperation(c.Context(), token, branchID, fetchOp, date)
			if err != nil {
				return respondUpstream(c, err)
			}
			for _, w := range wageRows {
				operator := strings.TrimSpace(jobOperator(operation, w))
				if operator == "" {
					continue
				}
				gross := jobGross(operation, w)
				payable := w.PayableAmount
				if strings.EqualFold(operation, opFlatlock) {
					payable = w.FlatlockPayableAmount
				} else if strings.EqualFold(operation, opOverlock) {
					payable = w.OverlockPayableAmount
				}
				rows = append(rows, render.HistoryRow{
					Date:          date,
					StaffName:     operator,
					OperationName: titleCase(operation),
					ProductName:   w.ProductName,
					TotalPieces:   w.TotalPieces,
					GrossAmount:   gross,
					Deduction:     gross - payable,
					PayableAmount: payable,
					PaymentType:   w.PaymentType,
				})
			}
		}

		data, err := render.WageHistoryXLSX(rows)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not render export")
		}
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="Wages-%s-%s.xlsx"`, titleCase(operation), date))
		return c.Send(data)
	}
}

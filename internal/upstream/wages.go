package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// AddCuttingEntry records one cutting job.
func (c *Client) AddCuttingEntry(ctx context.Context, token string, e NewCuttingEntry) error {
	return c.do(ctx, token, http.MethodPost, "/api/cutting-entry/add", nil, e, nil)
}

// CuttingEntries lists cutting jobs, optionally filtered by date
// (YYYY-MM-DD).
func (c *Client) CuttingEntries(ctx context.Context, token, branchID, date string) ([]CuttingEntry, error) {
	q := branchQuery("branchId", branchID)
	if date != "" {
		q.Set("date", date)
	}
	var out []CuttingEntry
	err := c.do(ctx, token, http.MethodGet, "/api/cutting-entry/list", q, nil, &out)
	return out, err
}

// AddWages submits the payee rows of one wage entry in a single call.
func (c *Client) AddWages(ctx context.Context, token string, payments []WagePayment) error {
	body := map[string][]WagePayment{"payments": payments}
	return c.do(ctx, token, http.MethodPost, "/api/wages/add", nil, body, nil)
}

// WagesByOperation lists wage rows for one operation and day. The backend
// answers either a bare list or a {data: [...]} envelope depending on
// version; both are accepted.
func (c *Client) WagesByOperation(ctx context.Context, token, branchID, operation, date string) ([]WageRow, error) {
	q := url.Values{}
	q.Set("branch_id", branchID)
	q.Set("operation", operation)
	if date != "" {
		q.Set("date", date)
	}

	var raw json.RawMessage
	if err := c.do(ctx, token, http.MethodGet, "/api/wages/by-operation", q, nil, &raw); err != nil {
		return nil, err
	}

	var rows []WageRow
	if err := json.Unmarshal(raw, &rows); err == nil {
		return rows, nil
	}
	var envelope struct {
		Data []WageRow `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode wages/by-operation response: %w", err)
	}
	return envelope.Data, nil
}

// PayWages settles a group of wage rows for one operator.
func (c *Client) PayWages(ctx context.Context, token string, r WagePayRequest) error {
	return c.do(ctx, token, http.MethodPost, "/api/wages/pay", nil, r, nil)
}

// PendingAdvances lists advances still owed to the branch.
func (c *Client) PendingAdvances(ctx context.Context, token, branchID string) ([]AdvancePayment, error) {
	var out []AdvancePayment
	err := c.do(ctx, token, http.MethodGet, "/api/advance-payment/pending", branchQuery("branch_id", branchID), nil, &out)
	return out, err
}

// PaidAdvances lists settled advances.
func (c *Client) PaidAdvances(ctx context.Context, token, branchID string) ([]AdvancePayment, error) {
	var out []AdvancePayment
	err := c.do(ctx, token, http.MethodGet, "/api/advance-payment/paid", branchQuery("branch_id", branchID), nil, &out)
	return out, err
}

// StaffPendingBalance fetches one staff member's outstanding advance
// balance. A response without success reads as a zero balance, matching
// how the deduction default degrades.
func (c *Client) StaffPendingBalance(ctx context.Context, token string, staffID uint) (float64, error) {
	q := url.Values{}
	q.Set("staff_id", strconv.FormatUint(uint64(staffID), 10))
	var out PendingBalance
	if err := c.do(ctx, token, http.MethodGet, "/api/advance-payment/pending-balance", q, nil, &out); err != nil {
		return 0, err
	}
	if !out.Success {
		return 0, nil
	}
	return out.PendingBalance, nil
}

// PayAdvanceAmount records a repayment against a pending advance.
func (c *Client) PayAdvanceAmount(ctx context.Context, token string, paymentID uint, amountPaid float64) error {
	body := map[string]any{
		"paymentId":  paymentID,
		"amountPaid": amountPaid,
	}
	return c.do(ctx, token, http.MethodPost, "/api/advance-payment/pay-amount", nil, body, nil)
}

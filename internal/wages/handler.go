// Package wages serves the wage entry and review screens: rosters and
// rate tables for the form, the singer fan-out on submission, grouped
// review with settlement, and the printable slip and export.
package wages

import (
	"errors"
	"strings"

	"shrusti-dashboard/internal/forms"
	"shrusti-dashboard/internal/session"
	"shrusti-dashboard/internal/upstream"
	"shrusti-dashboard/internal/wagecalc"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

const (
	opSinger   = "singer"
	opFlatlock = "flatlock"
	opOverlock = "overlock"
	opCutting  = "cutting"
)

type ProductView struct {
	ID          uint                     `json:"id"`
	ProductName string                   `json:"product_name"`
	Rates       []wagecalc.OperationRate `json:"rates"`
}

type NewScreenResponse struct {
	Operations   []upstream.Operation `json:"operations"`
	Products     []ProductView        `json:"products"`
	PaymentModes []string             `json:"payment_modes"`
	Defaults     FormDefaults         `json:"defaults"`
}

type FormDefaults struct {
	Date string `json:"date"`
}

type RosterResponse struct {
	Staff         []upstream.Staff `json:"staff"`
	FlatlockStaff []upstream.Staff `json:"flatlock_staff,omitempty"`
	OverlockStaff []upstream.Staff `json:"overlock_staff,omitempty"`
}

type StaffDefaultsResponse struct {
	FlatlockOperator string `json:"flatlock_operator"`
	OverlockOperator string `json:"overlock_operator"`
}

type CreateEntryRequest struct {
	Date              string            `json:"date"` // DD/MM/YYYY, bare digits accepted
	ProductName       string            `json:"product_name"`
	Operation         string            `json:"operation"`
	StaffName         string            `json:"staff_name"`
	SizeWiseEntry     map[string]string `json:"size_wise_entry"`
	ExtraPieces       string            `json:"extra_pieces"`
	DeductAdvancePay  float64           `json:"deduct_advance_pay"`
	PaymentType       string            `json:"payment_type"`
	FlatlockOperator  string            `json:"flatlock_operator"`
	OverlockOperator  string            `json:"overlock_operator"`
	FlatlockDeduction float64           `json:"flatlock_deduction"`
	OverlockDeduction float64           `json:"overlock_deduction"`
}

type EntryLine struct {
	Operation     string  `json:"operation"`
	StaffName     string  `json:"staff_name"`
	TotalPieces   int     `json:"total_pieces"`
	GrossAmount   float64 `json:"gross_amount"`
	Deduction     float64 `json:"deduction"`
	PayableAmount float64 `json:"payable_amount"`
}

type CreateEntryResponse struct {
	Message string      `json:"message"`
	Lines   []EntryLine `json:"lines"`
}

func respondUpstream(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe
	}
	if errors.Is(err, upstream.ErrUnauthorized) {
		return session.LoginRedirect(c, "Session expired")
	}
	var se *upstream.StatusError
	if errors.As(err, &se) {
		return fiber.NewError(se.Status, se.Message)
	}
	return fiber.NewError(fiber.StatusBadGateway, err.Error())
}

// NewScreenHandler assembles the wage entry form: every operation except
// cutting, and the products with their rate tables decoded.
func NewScreenHandler(api *upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := session.BranchID(c)
		token := session.Token(c)

		var operations []upstream.Operation
		var products []upstream.Product
		g, ctx := errgroup.WithContext(c.Context())
		g.Go(func() (err error) {
			operations, err = api.Operations(ctx, token, branchID)
			return
		})
		g.Go(func() (err error) {
			products, err = api.Products(ctx, token, branchID)
			return
		})
		if err := g.Wait(); err != nil {
			return respondUpstream(c, err)
		}

		resp := NewScreenResponse{
			PaymentModes: forms.PaymentModes,
			Defaults:     FormDefaults{Date: forms.TodayDDMMYYYY()},
		}
		for _, op := range operations {
			if strings.EqualFold(strings.TrimSpace(op.Name), opCutting) {
				continue
			}
			resp.Operations = append(resp.Operations, op)
		}
		for _, p := range products {
			rates, err := wagecalc.ParseRateTable(p.Operations)
			if err != nil {
				rates = wagecalc.RateTable{}
			}
			resp.Products = append(resp.Products, ProductView{
				ID:          p.ID,
				ProductName: p.ProductName,
				Rates:       rates,
			})
		}
		return c.JSON(resp)
	}
}

// RosterHandler lists the staff for one operation. A singer roster also
// carries the flatlock and overlock rosters so the form can offer the
// companion operators.
func RosterHandler(api *upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		operation := strings.TrimSpace(c.Query("operation"))
		if operation == "" {
			return fiber.NewError(fiber.StatusBadRequest, "operation query parameter is required")
		}
		branchID := session.BranchID(c)
		token := session.Token(c)

		var resp RosterResponse
		g, ctx := errgroup.WithContext(c.Context())
		g.Go(func() (err error) {
			resp.Staff, err = api.StaffByOperation(ctx, token, branchID, operation)
			return
		})
		if strings.EqualFold(operation, opSinger) {
			g.Go(func() (err error) {
				resp.FlatlockStaff, err = api.StaffByOperation(ctx, token, branchID, opFlatlock)
				return
			})
			g.Go(func() (err error) {
				resp.OverlockStaff, err = api.StaffByOperation(ctx, token, branchID, opOverlock)
				return
			})
		}
		if err := g.Wait(); err != nil {
			return respondUpstream(c, err)
		}
		return c.JSON(resp)
	}
}

// StaffDefaultsHandler returns a singer's usual flatlock and overlock
// counterparts for prefilling the form.
func StaffDefaultsHandler(api *upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid staff id")
		}
		staff, err := api.StaffByID(c.Context(), session.Token(c), uint(id))
		if err != nil {
			return respondUpstream(c, err)
		}
		return c.JSON(StaffDefaultsResponse{
			FlatlockOperator: staff.FlatlockOperator,
			OverlockOperator: staff.OverlockOperator,
		})
	}
}

// BalanceHandler proxies one staff member's pending advance balance.
func BalanceHandler(api *upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid staff id")
		}
		balance, err := api.StaffPendingBalance(c.Context(), session.Token(c), uint(id))
		if err != nil {
			return respondUpstream(c, err)
		}
		return c.JSON(fiber.Map{"pending_balance": balance})
	}
}

// CreateEntryHandler prices one wage submission and forwards it. A singer
// submission fans out to the flatlock and overlock operators at their own
// rates; a companion line is dropped when the operator is unset or is the
// singer themselves.
func CreateEntryHandler(api *upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := session.BranchID(c)
		token := session.Token(c)

		var req CreateEntryRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if strings.TrimSpace(req.StaffName) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Staff name is required")
		}
		if strings.TrimSpace(req.Operation) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Operation is required")
		}
		if strings.TrimSpace(req.ProductName) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Product is required")
		}
		if !forms.ValidPaymentMode(req.PaymentType) {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid payment mode")
		}

		date := forms.MaskDate(req.Date)
		if !forms.ValidDate(date) {
			return fiber.NewError(fiber.StatusBadRequest, "Date must be in DD/MM/YYYY format")
		}
		iso, err := forms.ToISODate(date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Date must be in DD/MM/YYYY format")
		}

		rates, err := productRates(c, api, token, branchID, req.ProductName)
		if err != nil {
			return respondUpstream(c, err)
		}

		payees := []wagecalc.Payee{
			{Operation: req.Operation, Staff: req.StaffName, Deduction: req.DeductAdvancePay},
		}
		if strings.EqualFold(strings.TrimSpace(req.Operation), opSinger) {
			payees = append(payees,
				wagecalc.Payee{Operation: "Overlock", Staff: req.OverlockOperator, Deduction: req.OverlockDeduction},
				wagecalc.Payee{Operation: "Flatlock", Staff: req.FlatlockOperator, Deduction: req.FlatlockDeduction},
			)
		}

		lines := wagecalc.Lines(rates, req.SizeWiseEntry, req.ExtraPieces, payees)
		if len(lines) == 0 || lines[0].TotalPieces <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Enter at least one piece")
		}

		payments := make([]upstream.WagePayment, 0, len(lines))
		for i, line := range lines {
			p := upstream.WagePayment{
				Date:             iso,
				ProductName:      req.ProductName,
				OperationName:    line.Operation,
				StaffName:        line.Staff,
				SizeWiseEntry:    req.SizeWiseEntry,
				ExtraPieces:      req.ExtraPieces,
				TotalPieces:      line.TotalPieces,
				GrossAmount:      line.GrossAmount,
				DeductAdvancePay: line.Deduction,
				PayableAmount:    line.PayableAmount,
				PaymentType:      req.PaymentType,
				BranchID:         branchID,
			}
			// Companion operators ride on the submitting row only.
			if i == 0 && strings.EqualFold(strings.TrimSpace(req.Operation), opSinger) {
				p.FlatlockOperator = strings.TrimSpace(req.FlatlockOperator)
				p.OverlockOperator = strings.TrimSpace(req.OverlockOperator)
			}
			payments = append(payments, p)
		}

		if err := api.AddWages(c.Context(), token, payments); err != nil {
			return respondUpstream(c, err)
		}

		resp := CreateEntryResponse{Message: "Wages added"}
		for _, line := range lines {
			resp.Lines = append(resp.Lines, EntryLine{
				Operation:     line.Operation,
				StaffName:     line.Staff,
				TotalPieces:   line.TotalPieces,
				GrossAmount:   line.GrossAmount,
				Deduction:     line.Deduction,
				PayableAmount: line.PayableAmount,
			})
		}
		return c.Status(fiber.StatusCreated).JSON(resp)
	}
}

func productRates(c *fiber.Ctx, api *upstream.Client, token, branchID, productName string) (wagecalc.RateTable, error) {
	products, err := api.Products(c.Context(), token, branchID)
	if err != nil {
		return nil, err
	}
	want := strings.ToLower(strings.TrimSpace(productName))
	for i := range products {
		if strings.ToLower(strings.TrimSpace(products[i].ProductName)) != want {
			continue
		}
		rates, err := wagecalc.ParseRateTable(products[i].Operations)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadGateway, "Product rate table is unreadable")
		}
		return rates, nil
	}
	return nil, fiber.NewError(fiber.StatusBadRequest, "Unknown product")
}

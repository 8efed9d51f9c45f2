// Package advance serves the advance payment screen: the pending and
// settled lists side by side, and repayments against pending advances.
package advance

import (
	"errors"
	"strings"

	"shrusti-dashboard/internal/session"
	"shrusti-dashboard/internal/upstream"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

type ScreenResponse struct {
	Pending []upstream.AdvancePayment `json:"pending"`
	Paid    []upstream.AdvancePayment `json:"paid"`
}

type PayAmountRequest struct {
	PaymentID  uint    `json:"payment_id"`
	AmountPaid float64 `json:"amount_paid"`
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

// ScreenHandler fetches the pending and settled advances in parallel. An
// optional name query filters both lists.
func ScreenHandler(api *upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := session.BranchID(c)
		token := session.Token(c)

		var resp ScreenResponse
		g, ctx := errgroup.WithContext(c.Context())
		g.Go(func() (err error) {
			resp.Pending, err = api.PendingAdvances(ctx, token, branchID)
			return
		})
		g.Go(func() (err error) {
			resp.Paid, err = api.PaidAdvances(ctx, token, branchID)
			return
		})
		if err := g.Wait(); err != nil {
			return respondUpstream(c, err)
		}

		if name := strings.TrimSpace(c.Query("name")); name != "" {
			resp.Pending = filterByName(resp.Pending, name)
			resp.Paid = filterByName(resp.Paid, name)
		}
		return c.JSON(resp)
	}
}

func filterByName(payments []upstream.AdvancePayment, name string) []upstream.AdvancePayment {
	want := strings.ToLower(name)
	out := payments[:0:0]
	for _, p := range payments {
		if strings.Contains(strings.ToLower(p.StaffName), want) {
			out = append(out, p)
		}
	}
	return out
}

// PayAmountHandler records a repayment against a pending advance.
func PayAmountHandler(api *upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req PayAmountRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if req.PaymentID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "payment_id is required")
		}
		if req.AmountPaid <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Amount must be greater than zero")
		}
		err := api.PayAdvanceAmount(c.Context(), session.Token(c), req.PaymentID, req.AmountPaid)
		if err != nil {
			return respondUpstream(c, err)
		}
		return c.JSON(fiber.Map{"message": "Advance payment recorded"})
	}
}

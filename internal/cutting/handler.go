// Package cutting serves the cutting entry screen: inward lookup, the
// entry form with its derived amounts, and the day's history.
package cutting

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

// CuttingOperation is the roster and rate table key for cutting work.
const CuttingOperation = "cutting"

type ScreenResponse struct {
	Products []upstream.Product      `json:"products"`
	Masters  []upstream.Staff        `json:"masters"`
	Entries  []upstream.CuttingEntry `json:"entries"`
	Defaults FormDefaults            `json:"defaults"`
}

type FormDefaults struct {
	Date string `json:"date"`
}

type InwardResponse struct {
	FabricType       string `json:"fabric_type"`
	WeightOfMaterial string `json:"weight_of_material"`
}

type CreateEntryRequest struct {
	InwardNumber     string            `json:"inward_number"`
	CuttingMaster    string            `json:"cutting_master"`
	ProductName      string            `json:"product_name"`
	FabricType       string            `json:"fabric_type"`
	WeightOfFabric   string            `json:"weight_of_fabric"`
	SizeWiseEntry    map[string]string `json:"size_wise_entry"`
	DeductAdvancePay float64           `json:"deduct_advance_pay"`
	PaymentType      string            `json:"payment_type"`
}

type CreateEntryResponse struct {
	Message       string  `json:"message"`
	TotalPcs      int     `json:"total_pcs"`
	GrossAmount   float64 `json:"gross_amount"`
	PayableAmount float64 `json:"payable_amount"`
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

// ScreenHandler assembles the cutting screen: products, the cutting
// roster, and the existing entries, fetched in parallel.
func ScreenHandler(api *upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := session.BranchID(c)
		token := session.Token(c)

		var resp ScreenResponse
		g, ctx := errgroup.WithContext(c.Context())
		g.Go(func() (err error) {
			resp.Products, err = api.Products(ctx, token, branchID)
			return
		})
		g.Go(func() (err error) {
			resp.Masters, err = api.StaffByOperation(ctx, token, branchID, CuttingOperation)
			return
		})
		g.Go(func() (err error) {
			resp.Entries, err = api.CuttingEntries(ctx, token, branchID, c.Query("date"))
			return
		})
		if err := g.Wait(); err != nil {
			return respondUpstream(c, err)
		}

		resp.Defaults = FormDefaults{Date: forms.TodayDDMMYYYY()}
		return c.JSON(resp)
	}
}

// InwardLookupHandler resolves an intake number so the form can autofill
// the fabric type and weight.
func InwardLookupHandler(api *upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		receipt, err := api.ReceiptByNumber(c.Context(), session.Token(c), session.BranchID(c), c.Params("number"))
		if err != nil {
			var se *upstream.StatusError
			if errors.As(err, &se) && se.Status == fiber.StatusNotFound {
				return fiber.NewError(fiber.StatusNotFound, "Incorrect or missing inward number.")
			}
			return respondUpstream(c, err)
		}
		return c.JSON(InwardResponse{
			FabricType:       receipt.FabricType,
			WeightOfMaterial: receipt.WeightOfMaterial,
		})
	}
}

// BalanceHandler proxies one staff member's pending advance balance, used
// to cap the deduction the form offers.
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

// CreateEntryHandler validates the form, derives the amounts from the
// product's cutting rate, and records the entry.
func CreateEntryHandler(api *upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := session.BranchID(c)
		token := session.Token(c)

		var req CreateEntryRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if strings.TrimSpace(req.InwardNumber) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Inward number is required")
		}
		if strings.TrimSpace(req.CuttingMaster) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Cutting master is required")
		}
		if strings.TrimSpace(req.ProductName) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Product is required")
		}
		if req.WeightOfFabric != "" && !forms.ValidWeight(req.WeightOfFabric) {
			return fiber.NewError(fiber.StatusBadRequest, "Weight must be a number")
		}
		if !forms.ValidPaymentMode(req.PaymentType) {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid payment mode")
		}

		rates, err := productRates(c, api, token, branchID, req.ProductName)
		if err != nil {
			return respondUpstream(c, err)
		}

		result := wagecalc.Compute(wagecalc.Input{
			Sizes:     req.SizeWiseEntry,
			Rates:     rates,
			Operation: CuttingOperation,
			Deduction: req.DeductAdvancePay,
		})
		if result.TotalPieces <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Enter at least one piece")
		}

		err = api.AddCuttingEntry(c.Context(), token, upstream.NewCuttingEntry{
			InwardNumber:     strings.TrimSpace(req.InwardNumber),
			CuttingMaster:    req.CuttingMaster,
			ProductName:      req.ProductName,
			FabricType:       req.FabricType,
			WeightOfFabric:   req.WeightOfFabric,
			SizeWiseEntry:    req.SizeWiseEntry,
			TotalPcs:         result.TotalPieces,
			GrossAmount:      result.GrossAmount,
			DeductAdvancePay: req.DeductAdvancePay,
			PayableAmount:    result.PayableAmount,
			PaymentType:      req.PaymentType,
			BranchID:         branchID,
		})
		if err != nil {
			return respondUpstream(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(CreateEntryResponse{
			Message:       "Cutting entry saved",
			TotalPcs:      result.TotalPieces,
			GrossAmount:   result.GrossAmount,
			PayableAmount: result.PayableAmount,
		})
	}
}

// HistoryHandler lists entries for one day.
func HistoryHandler(api *upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entries, err := api.CuttingEntries(c.Context(), session.Token(c), session.BranchID(c), c.Query("date"))
		if err != nil {
			return respondUpstream(c, err)
		}
		return c.JSON(fiber.Map{"entries": entries})
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

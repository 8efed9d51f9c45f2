// Package fabric serves the intake screens: the receipt form with its
// registries, the printable barcode artifacts, and the supplier history
// view.
package fabric

import (
	"errors"
	"strings"

	"shrusti-dashboard/internal/forms"
	"shrusti-dashboard/internal/render"
	"shrusti-dashboard/internal/session"
	"shrusti-dashboard/internal/stash"
	"shrusti-dashboard/internal/upstream"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

type ScreenResponse struct {
	Receipts    []upstream.Receipt    `json:"receipts"`
	Suppliers   []upstream.Supplier   `json:"suppliers"`
	FabricTypes []upstream.FabricType `json:"fabric_types"`
	Defaults    FormDefaults          `json:"defaults"`
	Prefill     *stash.Prefill        `json:"prefill,omitempty"`
}

type FormDefaults struct {
	Date         string `json:"date"`
	UniqueNumber string `json:"unique_number"`
}

type CreateReceiptRequest struct {
	UniqueNumber     string `json:"unique_number"`
	SupplierName     string `json:"supplier_name"`
	InvoiceNo        string `json:"invoice_no"`
	Date             string `json:"date"` // DD/MM/YYYY, bare digits accepted
	WeightOfMaterial string `json:"weight_of_material"`
	FabricType       string `json:"fabric_type"`
}

type CreateSupplierRequest struct {
	SupplierName      string `json:"supplier_name"`
	SupplierShortName string `json:"supplier_short_name"`
}

type CreateFabricTypeRequest struct {
	FabricTypeName string `json:"fabric_type_name"`
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

// ScreenHandler assembles the intake screen in one response: history,
// both registries, fresh form defaults, and a parked prefill when the last
// submission bounced as a duplicate.
func ScreenHandler(api *upstream.Client, store stash.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := session.BranchID(c)
		token := session.Token(c)

		var resp ScreenResponse
		g, ctx := errgroup.WithContext(c.Context())
		g.Go(func() (err error) {
			resp.Receipts, err = api.Receipts(ctx, token, branchID)
			return
		})
		g.Go(func() (err error) {
			resp.Suppliers, err = api.Suppliers(ctx, token, branchID)
			return
		})
		g.Go(func() (err error) {
			resp.FabricTypes, err = api.FabricTypes(ctx, token, branchID)
			return
		})
		if err := g.Wait(); err != nil {
			return respondUpstream(c, err)
		}

		resp.Defaults = FormDefaults{
			Date:         forms.TodayDDMMYYYY(),
			UniqueNumber: forms.NewUniqueNumber(),
		}
		if p, ok, err := store.Take(c.Context(), branchID); err == nil && ok {
			// A duplicated receipt gets a fresh number and today's date;
			// only the descriptive fields carry over.
			p.UniqueNumber = resp.Defaults.UniqueNumber
			p.Date = resp.Defaults.Date
			resp.Prefill = &p
		}
		return c.JSON(resp)
	}
}

type DuplicateRequest struct {
	UniqueNumber string `json:"unique_number"`
}

// DuplicateHandler parks an existing receipt so the intake form opens
// prefilled with its details.
func DuplicateHandler(api *upstream.Client, store stash.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := session.BranchID(c)

		var req DuplicateRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if strings.TrimSpace(req.UniqueNumber) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Receipt number is required")
		}
		receipt, err := api.ReceiptByNumber(c.Context(), session.Token(c), branchID, strings.TrimSpace(req.UniqueNumber))
		if err != nil {
			return respondUpstream(c, err)
		}
		err = store.Put(c.Context(), branchID, stash.Prefill{
			UniqueNumber:     receipt.UniqueNumber,
			SupplierName:     receipt.SupplierName,
			InvoiceNo:        receipt.InvoiceNo,
			Date:             receipt.Date,
			WeightOfMaterial: receipt.WeightOfMaterial,
			FabricType:       receipt.FabricType,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not park the receipt")
		}
		return c.JSON(fiber.Map{"message": "Duplicate data loaded. Please review and save."})
	}
}

// CreateReceiptHandler validates the intake form and records it. A
// duplicate rejection parks the entered values so the reloaded screen can
// offer them back.
func CreateReceiptHandler(api *upstream.Client, store stash.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := session.BranchID(c)
		token := session.Token(c)

		var req CreateReceiptRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		req.UniqueNumber = strings.TrimSpace(req.UniqueNumber)
		if len(req.UniqueNumber) != 10 {
			return fiber.NewError(fiber.StatusBadRequest, "Receipt number must be 10 digits")
		}
		if strings.TrimSpace(req.SupplierName) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Supplier name is required")
		}
		if strings.TrimSpace(req.InvoiceNo) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Invoice number is required")
		}

		date := forms.MaskDate(req.Date)
		if !forms.ValidDate(date) {
			return fiber.NewError(fiber.StatusBadRequest, "Date must be in DD/MM/YYYY format")
		}
		if !forms.ValidWeight(req.WeightOfMaterial) {
			return fiber.NewError(fiber.StatusBadRequest, "Weight must be a number")
		}

		supplier, err := matchSupplier(c, api, token, branchID, req.SupplierName)
		if err != nil {
			return respondUpstream(c, err)
		}
		if err := matchFabricType(c, api, token, branchID, req.FabricType); err != nil {
			return respondUpstream(c, err)
		}

		iso, err := forms.ToISODate(date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Date must be in DD/MM/YYYY format")
		}

		err = api.CreateReceipt(c.Context(), token, upstream.NewReceipt{
			UniqueNumber:      req.UniqueNumber,
			SupplierName:      supplier.SupplierName,
			SupplierShortName: supplier.SupplierShortName,
			InvoiceNo:         req.InvoiceNo,
			Date:              iso,
			WeightOfMaterial:  req.WeightOfMaterial,
			FabricType:        req.FabricType,
			BranchID:          branchID,
			SupplierID:        supplier.ID,
		})
		if err != nil {
			var se *upstream.StatusError
			if errors.As(err, &se) && isDuplicate(se) {
				store.Put(c.Context(), branchID, stash.Prefill{
					UniqueNumber:     req.UniqueNumber,
					SupplierName:     req.SupplierName,
					InvoiceNo:        req.InvoiceNo,
					Date:             date,
					WeightOfMaterial: req.WeightOfMaterial,
					FabricType:       req.FabricType,
				})
			}
			return respondUpstream(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Receipt saved"})
	}
}

func isDuplicate(se *upstream.StatusError) bool {
	return se.Status == fiber.StatusConflict ||
		strings.Contains(strings.ToLower(se.Message), "exist")
}

// matchSupplier resolves the typed name against the registry; receipts only
// accept registered suppliers so the short name on the card is stable.
func matchSupplier(c *fiber.Ctx, api *upstream.Client, token, branchID, name string) (*upstream.Supplier, error) {
	suppliers, err := api.Suppliers(c.Context(), token, branchID)
	if err != nil {
		return nil, err
	}
	want := strings.ToLower(strings.TrimSpace(name))
	for i := range suppliers {
		if strings.ToLower(strings.TrimSpace(suppliers[i].SupplierName)) == want {
			return &suppliers[i], nil
		}
	}
	return nil, fiber.NewError(fiber.StatusBadRequest, "Supplier is not registered. Add the supplier first.")
}

func matchFabricType(c *fiber.Ctx, api *upstream.Client, token, branchID, name string) error {
	types, err := api.FabricTypes(c.Context(), token, branchID)
	if err != nil {
		return err
	}
	want := strings.ToLower(strings.TrimSpace(name))
	for i := range types {
		if strings.ToLower(strings.TrimSpace(types[i].FabricTypeName)) == want {
			return nil
		}
	}
	return fiber.NewError(fiber.StatusBadRequest, "Fabric type is not registered. Add the fabric type first.")
}

// AddSupplierHandler registers a supplier for the branch.
func AddSupplierHandler(api *upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CreateSupplierRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if strings.TrimSpace(req.SupplierName) == "" || strings.TrimSpace(req.SupplierShortName) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Supplier name and short name are required")
		}
		err := api.CreateSupplier(c.Context(), session.Token(c), upstream.NewSupplier{
			SupplierName:      strings.TrimSpace(req.SupplierName),
			SupplierShortName: strings.ToUpper(strings.TrimSpace(req.SupplierShortName)),
			BranchID:          session.BranchID(c),
		})
		if err != nil {
			return respondUpstream(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Supplier added"})
	}
}

// AddFabricTypeHandler registers a fabric type for the branch.
func AddFabricTypeHandler(api *upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CreateFabricTypeRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if strings.TrimSpace(req.FabricTypeName) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Fabric type name is required")
		}
		err := api.CreateFabricType(c.Context(), session.Token(c), upstream.NewFabricType{
			FabricTypeName: strings.TrimSpace(req.FabricTypeName),
			BranchID:       session.BranchID(c),
		})
		if err != nil {
			return respondUpstream(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Fabric type added"})
	}
}

// BarcodeHandler renders the stripe image for one receipt number.
func BarcodeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		number := c.Params("number")
		if len(number) != 10 {
			return fiber.NewError(fiber.StatusBadRequest, "Receipt number must be 10 digits")
		}
		c.Set(fiber.HeaderContentType, "image/svg+xml")
		return c.SendString(render.BarcodeSVG(number))
	}
}

// CardHandler renders the printable intake card for one receipt.
func CardHandler(api *upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		receipt, err := api.ReceiptByNumber(c.Context(), session.Token(c), session.BranchID(c), c.Params("number"))
		if err != nil {
			return respondUpstream(c, err)
		}
		data, err := render.ReceiptCardPNG(render.ReceiptCard{
			UniqueNumber:      receipt.UniqueNumber,
			SupplierShortName: receipt.SupplierShortName,
			InvoiceNo:         receipt.InvoiceNo,
			Date:              forms.ToDisplayDate(receipt.Date),
			FabricType:        receipt.FabricType,
			Weight:            receipt.WeightOfMaterial,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not render receipt card")
		}
		c.Set(fiber.HeaderContentType, "image/png")
		return c.Send(data)
	}
}

// SuppliersScreenHandler serves the supplier registry view.
func SuppliersScreenHandler(api *upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		suppliers, err := api.Suppliers(c.Context(), session.Token(c), session.BranchID(c))
		if err != nil {
			return respondUpstream(c, err)
		}
		return c.JSON(fiber.Map{"suppliers": suppliers})
	}
}

// SupplierReceiptsHandler lists one supplier's intake history.
func SupplierReceiptsHandler(api *upstream.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid supplier id")
		}
		receipts, err := api.ReceiptsBySupplier(c.Context(), session.Token(c), session.BranchID(c), uint(id))
		if err != nil {
			return respondUpstream(c, err)
		}
		return c.JSON(fiber.Map{"receipts": receipts})
	}
}

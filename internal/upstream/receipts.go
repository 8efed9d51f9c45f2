package upstream

import (
	"context"
	"net/http"
	"net/url"
)

// The receipts endpoints are the only part of the backend that takes its
// branch scope as camelCase "branchId"; everything newer uses "branch_id".

// Receipts lists a branch's fabric intake history.
func (c *Client) Receipts(ctx context.Context, token, branchID string) ([]Receipt, error) {
	var out []Receipt
	err := c.do(ctx, token, http.MethodGet, "/api/receipts", branchQuery("branchId", branchID), nil, &out)
	return out, err
}

// ReceiptByNumber resolves a single receipt by its intake number.
func (c *Client) ReceiptByNumber(ctx context.Context, token, branchID, uniqueNumber string) (*Receipt, error) {
	var out Receipt
	err := c.do(ctx, token, http.MethodGet, "/api/receipts/"+url.PathEscape(uniqueNumber), branchQuery("branchId", branchID), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ReceiptsBySupplier lists one supplier's intake history.
func (c *Client) ReceiptsBySupplier(ctx context.Context, token, branchID string, supplierID uint) ([]Receipt, error) {
	var out []Receipt
	err := c.do(ctx, token, http.MethodGet, "/api/receipts/by-supplier/"+uitoa(supplierID), branchQuery("branchId", branchID), nil, &out)
	return out, err
}

// CreateReceipt records a new fabric intake.
func (c *Client) CreateReceipt(ctx context.Context, token string, r NewReceipt) error {
	return c.do(ctx, token, http.MethodPost, "/api/receipts", nil, r, nil)
}

// Suppliers lists the branch's supplier registry.
func (c *Client) Suppliers(ctx context.Context, token, branchID string) ([]Supplier, error) {
	var out []Supplier
	err := c.do(ctx, token, http.MethodGet, "/api/receipts/suppliers", branchQuery("branchId", branchID), nil, &out)
	return out, err
}

// CreateSupplier adds a supplier to the registry.
func (c *Client) CreateSupplier(ctx context.Context, token string, s NewSupplier) error {
	return c.do(ctx, token, http.MethodPost, "/api/receipts/suppliers", nil, s, nil)
}

// FabricTypes lists the branch's fabric type registry.
func (c *Client) FabricTypes(ctx context.Context, token, branchID string) ([]FabricType, error) {
	var out []FabricType
	err := c.do(ctx, token, http.MethodGet, "/api/receipts/fabric-types", branchQuery("branchId", branchID), nil, &out)
	return out, err
}

// CreateFabricType adds a fabric type to the registry.
func (c *Client) CreateFabricType(ctx context.Context, token string, f NewFabricType) error {
	return c.do(ctx, token, http.MethodPost, "/api/receipts/fabric-types", nil, f, nil)
}

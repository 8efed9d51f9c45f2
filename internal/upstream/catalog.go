package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func uitoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// Operations lists the branch's production steps.
func (c *Client) Operations(ctx context.Context, token, branchID string) ([]Operation, error) {
	var out []Operation
	err := c.do(ctx, token, http.MethodGet, "/api/operations", branchQuery("branch_id", branchID), nil, &out)
	return out, err
}

// CreateOperation registers a production step.
func (c *Client) CreateOperation(ctx context.Context, token, name string) error {
	body := map[string]string{"name": name}
	return c.do(ctx, token, http.MethodPost, "/api/operations/add", nil, body, nil)
}

// UpdateOperation renames a production step.
func (c *Client) UpdateOperation(ctx context.Context, token string, id uint, name string) error {
	body := map[string]string{"name": name}
	return c.do(ctx, token, http.MethodPut, "/api/operations/"+uitoa(id), nil, body, nil)
}

// DeleteOperation removes a production step.
func (c *Client) DeleteOperation(ctx context.Context, token string, id uint) error {
	return c.do(ctx, token, http.MethodDelete, "/api/operations/"+uitoa(id), nil, nil, nil)
}

// Products lists the branch's products with their serialized rate tables.
func (c *Client) Products(ctx context.Context, token, branchID string) ([]Product, error) {
	var out []Product
	err := c.do(ctx, token, http.MethodGet, "/api/products", branchQuery("branch_id", branchID), nil, &out)
	return out, err
}

// StaffList lists the branch roster.
func (c *Client) StaffList(ctx context.Context, token, branchID string) ([]Staff, error) {
	var out []Staff
	err := c.do(ctx, token, http.MethodGet, "/api/staff", branchQuery("branch_id", branchID), nil, &out)
	return out, err
}

// StaffByOperation lists the roster for one production step.
func (c *Client) StaffByOperation(ctx context.Context, token, branchID, operation string) ([]Staff, error) {
	var out []Staff
	err := c.do(ctx, token, http.MethodGet, "/api/staff/by-operation/"+url.PathEscape(operation), branchQuery("branch_id", branchID), nil, &out)
	return out, err
}

// StaffByID fetches one roster entry, including a singer's usual flatlock
// and overlock counterparts.
func (c *Client) StaffByID(ctx context.Context, token string, id uint) (*Staff, error) {
	var out Staff
	err := c.do(ctx, token, http.MethodGet, "/api/staff/"+uitoa(id), nil, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteStaff removes a roster entry.
func (c *Client) DeleteStaff(ctx context.Context, token string, id uint) error {
	return c.do(ctx, token, http.MethodDelete, "/api/staff/"+uitoa(id), nil, nil, nil)
}

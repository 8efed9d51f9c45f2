// Package stash holds short-lived form prefills. When an intake submission
// is rejected as a duplicate, the entered values are parked here keyed by
// branch so the next screen load can offer them back once.
package stash

import (
	"context"
	"time"
)

// TTL is how long a parked prefill survives before it is dropped.
const TTL = 30 * time.Minute

// Prefill is a parked copy of the intake form.
type Prefill struct {
	UniqueNumber     string `json:"unique_number"`
	SupplierName     string `json:"supplier_name"`
	InvoiceNo        string `json:"invoice_no"`
	Date             string `json:"date"`
	WeightOfMaterial string `json:"weight_of_material"`
	FabricType       string `json:"fabric_type"`
}

// Store parks and hands back prefills. Take consumes: a prefill is
// returned at most once.
type Store interface {
	Put(ctx context.Context, branchID string, p Prefill) error
	Take(ctx context.Context, branchID string) (Prefill, bool, error)
}

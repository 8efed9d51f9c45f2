package upstream

// Records exchanged with the backend. Field names follow the wire format;
// the gateway never reinterprets them beyond the derived-amount math in
// wagecalc.

// Receipt is one fabric intake record.
type Receipt struct {
	ID                uint   `json:"id"`
	UniqueNumber      string `json:"unique_number"`
	SupplierID        uint   `json:"supplier_id"`
	SupplierName      string `json:"supplier_name"`
	SupplierShortName string `json:"supplier_short_name"`
	InvoiceNo         string `json:"invoice_no"`
	Date              string `json:"date"`
	WeightOfMaterial  string `json:"weight_of_material"`
	FabricType        string `json:"fabric_type"`
	CreatedAt         string `json:"created_at,omitempty"`
}

// NewReceipt is the intake form payload. The backend expects camelCase here,
// unlike the records it returns.
type NewReceipt struct {
	UniqueNumber      string `json:"uniqueNumber"`
	SupplierName      string `json:"supplierName"`
	SupplierShortName string `json:"supplierShortName"`
	InvoiceNo         string `json:"invoiceNo"`
	Date              string `json:"date"` // YYYY-MM-DD
	WeightOfMaterial  string `json:"weightOfMaterial"`
	FabricType        string `json:"fabricType"`
	BranchID          string `json:"branchId"`
	SupplierID        uint   `json:"supplierId"`
}

// Supplier is a registry entry.
type Supplier struct {
	ID                uint   `json:"id"`
	SupplierName      string `json:"supplier_name"`
	SupplierShortName string `json:"supplier_short_name"`
}

// NewSupplier registers a supplier.
type NewSupplier struct {
	SupplierName      string `json:"supplier_name"`
	SupplierShortName string `json:"supplier_short_name"`
	BranchID          string `json:"branchId"`
}

// FabricType is a registry entry.
type FabricType struct {
	ID             uint   `json:"id"`
	FabricTypeName string `json:"fabric_type_name"`
}

// NewFabricType registers a fabric type.
type NewFabricType struct {
	FabricTypeName string `json:"fabric_type_name"`
	BranchID       string `json:"branchId"`
}

// Operation is a production step with its own roster and piece rate.
type Operation struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Product carries its rate table as a serialized list of {name, rate}.
type Product struct {
	ID          uint   `json:"id"`
	ProductName string `json:"product_name"`
	Operations  string `json:"operations"`
}

// Staff is one roster entry. Singer staff carry their usual flatlock and
// overlock counterparts, used to prefill a wage submission.
type Staff struct {
	ID               uint   `json:"id"`
	FullName         string `json:"full_name"`
	Operation        string `json:"operation"`
	FlatlockOperator string `json:"flatlock_operator,omitempty"`
	OverlockOperator string `json:"overlock_operator,omitempty"`
}

// NewCuttingEntry is the cutting form payload.
type NewCuttingEntry struct {
	InwardNumber     string            `json:"inward_number"`
	CuttingMaster    string            `json:"cutting_master"`
	ProductName      string            `json:"product_name"`
	FabricType       string            `json:"fabric_type"`
	WeightOfFabric   string            `json:"weight_of_fabric"`
	SizeWiseEntry    map[string]string `json:"size_wise_entry"`
	TotalPcs         int               `json:"total_pcs"`
	GrossAmount      float64           `json:"gross_amount"`
	DeductAdvancePay float64           `json:"deduct_advance_pay"`
	PayableAmount    float64           `json:"payable_amount"`
	PaymentType      string            `json:"payment_type"`
	BranchID         string            `json:"branchId"`
}

// CuttingEntry is a stored cutting row. SizeWiseEntry comes back
// serialized, as the backend stores it.
type CuttingEntry struct {
	ID               uint    `json:"id"`
	InwardNumber     string  `json:"inward_number"`
	CuttingMaster    string  `json:"cutting_master"`
	ProductName      string  `json:"product_name"`
	FabricType       string  `json:"fabric_type"`
	WeightOfFabric   string  `json:"weight_of_fabric"`
	SizeWiseEntry    string  `json:"size_wise_entry"`
	TotalPcs         int     `json:"total_pcs"`
	GrossAmount      float64 `json:"gross_amount"`
	DeductAdvancePay float64 `json:"deduct_advance_pay"`
	PayableAmount    float64 `json:"payable_amount"`
	PaymentType      string  `json:"payment_type"`
	Date             string  `json:"date,omitempty"`
	CreatedAt        string  `json:"created_at,omitempty"`
}

// WagePayment is one payee row of a wage submission. A singer submission
// fans out into up to three of these.
type WagePayment struct {
	Date             string            `json:"date"`
	ProductName      string            `json:"product_name"`
	OperationName    string            `json:"operation_name"`
	StaffName        string            `json:"staff_name"`
	SizeWiseEntry    map[string]string `json:"size_wise_entry"`
	ExtraPieces      string            `json:"extra_pieces"`
	TotalPieces      int               `json:"total_pieces"`
	GrossAmount      float64           `json:"gross_amount"`
	DeductAdvancePay float64           `json:"deduct_advance_pay"`
	PayableAmount    float64           `json:"payable_amount"`
	PaymentType      string            `json:"payment_type"`
	FlatlockOperator string            `json:"flatlock_operator,omitempty"`
	OverlockOperator string            `json:"overlock_operator,omitempty"`
	BranchID         string            `json:"branchId"`
}

// WageRow is a stored wage entry. Singer rows also carry the derived
// flatlock and overlock amounts the backend stores alongside them.
type WageRow struct {
	ID                    uint    `json:"id"`
	StaffName             string  `json:"staff_name"`
	OperationName         string  `json:"operation_name"`
	ProductName           string  `json:"product_name"`
	SizeWiseEntry         string  `json:"size_wise_entry"`
	ExtraPieces           string  `json:"extra_pieces"`
	TotalPieces           int     `json:"total_pieces"`
	GrossAmount           float64 `json:"gross_amount"`
	DeductAdvancePay      float64 `json:"deduct_advance_pay"`
	PayableAmount         float64 `json:"payable_amount"`
	PaymentType           string  `json:"payment_type"`
	FlatlockOperator      string  `json:"flatlock_operator,omitempty"`
	OverlockOperator      string  `json:"overlock_operator,omitempty"`
	FlatlockGrossAmount   float64 `json:"flatlock_gross_amount,omitempty"`
	FlatlockPayableAmount float64 `json:"flatlock_payable_amount,omitempty"`
	OverlockGrossAmount   float64 `json:"overlock_gross_amount,omitempty"`
	OverlockPayableAmount float64 `json:"overlock_payable_amount,omitempty"`
	IsPaid                bool    `json:"is_paid,omitempty"`
	Date                  string  `json:"date,omitempty"`
	CreatedAt             string  `json:"created_at,omitempty"`
}

// WagePayJob marks one wage row as settled.
type WagePayJob struct {
	ID               uint    `json:"id"`
	PayableAmount    float64 `json:"payable_amount"`
	DeductAdvancePay float64 `json:"deduct_advance_pay"`
	PaymentType      string  `json:"payment_type"`
}

// WagePayRequest settles a group of wage rows for one operator.
type WagePayRequest struct {
	Operator     string       `json:"operator"`
	TotalPayable float64      `json:"total_payable"`
	Deduction    float64      `json:"deduction"`
	PaymentType  string       `json:"payment_type"`
	Jobs         []WagePayJob `json:"jobs"`
	Operation    string       `json:"operation"`
}

// AdvancePayment is one advance record, pending or settled.
type AdvancePayment struct {
	ID            uint    `json:"id"`
	StaffID       uint    `json:"staff_id"`
	StaffName     string  `json:"staff_name"`
	Amount        float64 `json:"amount"`
	AmountPaid    float64 `json:"amount_paid"`
	PaymentDate   string  `json:"payment_date"`
	PaymentMethod string  `json:"payment_method"`
}

// PendingBalance is the advance balance still owed by one staff member.
type PendingBalance struct {
	Success        bool    `json:"success"`
	PendingBalance float64 `json:"pendingBalance"`
}

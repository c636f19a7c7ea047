package domain

import "context"

// Service validates and applies stock adjustments and serves the summary
// read model.
type Service interface {
	// GetSummary returns the stock snapshot for a product at a location.
	// Unknown pairs yield a zeroed summary rather than an error so the
	// adjustment form can render before the first movement.
	GetSummary(ctx context.Context, productID, locationID string) (*SummaryResponse, error)

	ListAdjustments(ctx context.Context, req ListAdjustmentsRequest) ([]AdjustmentResponse, error)

	// Apply validates the draft and, when clean, commits the adjustment and
	// the summary change in one transaction. Validation problems come back
	// as the field->message map; err is reserved for infrastructure
	// failures. Exactly one of the three results is meaningful.
	Apply(ctx context.Context, draft AdjustmentDraft) (*AdjustmentResponse, FieldErrors, error)
}

type ListAdjustmentsRequest struct {
	ProductID      string
	LocationID     string
	AdjustmentType string
	SortBy         string
	OrderBy        string
}

type SummaryResponse struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`

	StockQuantity       int64 `json:"stock_quantity"`
	ReservedQuantity    int64 `json:"reserved_quantity"`
	NonSaleableQuantity int64 `json:"non_saleable_quantity"`
	OnOrderQuantity     int64 `json:"on_order_quantity"`
	InTransitQuantity   int64 `json:"in_transit_quantity"`
	ReturnedQuantity    int64 `json:"returned_quantity"`
	OnHoldQuantity      int64 `json:"on_hold_quantity"`
	BackorderedQuantity int64 `json:"backordered_quantity"`

	// AvailableQuantity is stock minus reserved and held units.
	AvailableQuantity int64 `json:"available_quantity"`
	LowStock          bool  `json:"low_stock"`

	UpdatedAt *string `json:"updated_at,omitempty"`
}

type AdjustmentResponse struct {
	ID            string `json:"id"`
	ReferenceCode string `json:"reference_code"`

	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`

	AdjustmentType string `json:"adjustment_type"`
	QuantityChange int64  `json:"quantity_change"`
	ReasonID       string `json:"reason_id"`

	SerialNumber *string `json:"serial_number,omitempty"`
	LotNumber    *string `json:"lot_number,omitempty"`
	ExpiryDate   *string `json:"expiry_date,omitempty"`
	Notes        *string `json:"notes,omitempty"`

	NewStockLevel int64 `json:"new_stock_level"`

	// Warning carries the negative stock advisory when policy allows the
	// adjustment through anyway. Never persisted.
	Warning *string `json:"warning,omitempty"`

	CreatedAt string `json:"created_at"`
}

package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Service owns draft order assembly. Drafts are mutable through the item
// operations; Submit freezes them.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)

	// AddItem appends a line; its item_order becomes current count + 1.
	AddItem(ctx context.Context, orderID string, input LineItemInput) (*Response, error)
	// ReplaceItem swaps a line's content in place, keeping its item_order.
	// Tax rates are never auto-preselected here; omitting tax_rate_ids keeps
	// the line's current selection.
	ReplaceItem(ctx context.Context, orderID, itemID string, input LineItemInput) (*Response, error)
	// RemoveItem deletes a line without renumbering the remaining ones.
	RemoveItem(ctx context.Context, orderID, itemID string) (*Response, error)

	// Preview prices a line without persisting anything.
	Preview(ctx context.Context, input LineItemInput) (*LineItemResponse, error)

	Submit(ctx context.Context, orderID string) (*Response, error)
	Cancel(ctx context.Context, orderID string) error
}

// LineItemInput carries one line of user input. Quantity defaults to 1 and
// UnitPrice to the product's list price when omitted. TaxRateIDs semantics
// depend on the operation: on add, nil triggers profile preselection while
// an empty slice means "no taxes"; on replace, nil keeps the current
// selection.
type LineItemInput struct {
	ProductID     string           `json:"product_id"`
	Quantity      *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice     *decimal.Decimal `json:"unit_price,omitempty"`
	DiscountType  *string          `json:"discount_type,omitempty"`
	DiscountValue *decimal.Decimal `json:"discount_value,omitempty"`
	TaxRateIDs    []string         `json:"tax_rate_ids,omitempty"`
}

type CreateRequest struct {
	CustomerID *string         `json:"customer_id,omitempty"`
	ChannelID  *string         `json:"channel_id,omitempty"`
	LocationID *string         `json:"location_id,omitempty"`
	Notes      *string         `json:"notes,omitempty"`
	Items      []LineItemInput `json:"items,omitempty"`
}

type ListRequest struct {
	Status  string
	SortBy  string
	OrderBy string
}

type TaxLineResponse struct {
	TaxRateID string `json:"tax_id"`
	TaxCode   string `json:"tax_code"`
	Rate      string `json:"tax_rate"`
	Amount    string `json:"tax_amount"`
}

// LineItemResponse is the serialized line. Money fields are fixed to two
// decimals. DiscountPercentage appears only for percentage discounts.
type LineItemResponse struct {
	ID          string `json:"id,omitempty"`
	ProductID   string `json:"product_id"`
	SKU         string `json:"sku"`
	Description string `json:"description"`
	UOMSymbol   string `json:"uom_symbol"`
	ItemOrder   int    `json:"item_order,omitempty"`

	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unit_price"`

	DiscountType       *string `json:"discount_type,omitempty"`
	DiscountValue      *string `json:"discount_value,omitempty"`
	DiscountPercentage *string `json:"discount_percentage,omitempty"`

	BaseAmount     string            `json:"base_amount"`
	DiscountAmount string            `json:"discount_amount"`
	Subtotal       string            `json:"subtotal"`
	TaxLines       []TaxLineResponse `json:"tax_lines,omitempty"`
	TotalTax       string            `json:"total_tax"`
	TotalAmount    string            `json:"total_amount"`
}

type Response struct {
	ID         string  `json:"id"`
	CustomerID *string `json:"customer_id,omitempty"`
	ChannelID  *string `json:"channel_id,omitempty"`
	LocationID *string `json:"location_id,omitempty"`
	Status     string  `json:"status"`
	Notes      *string `json:"notes,omitempty"`

	Items []LineItemResponse `json:"items,omitempty"`

	Subtotal      string `json:"subtotal"`
	DiscountTotal string `json:"discount_total"`
	TaxTotal      string `json:"tax_total"`
	Total         string `json:"total"`

	SubmittedAt *string `json:"submitted_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

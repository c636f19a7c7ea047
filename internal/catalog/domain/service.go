package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	Archive(ctx context.Context, id string) error
}

type CreateRequest struct {
	SKU          string           `json:"sku"`
	Name         string           `json:"name"`
	Description  *string          `json:"description,omitempty"`
	ListPrice    decimal.Decimal  `json:"list_price"`
	UOMSymbol    string           `json:"uom_symbol,omitempty"`
	HSNCode      *string          `json:"hsn_code,omitempty"`
	IsSerialized bool             `json:"is_serialized,omitempty"`
	IsLotted     bool             `json:"is_lotted,omitempty"`
	TaxProfileID *string          `json:"tax_profile_id,omitempty"`
}

type UpdateRequest struct {
	Name         *string          `json:"name,omitempty"`
	Description  *string          `json:"description,omitempty"`
	ListPrice    *decimal.Decimal `json:"list_price,omitempty"`
	UOMSymbol    *string          `json:"uom_symbol,omitempty"`
	HSNCode      *string          `json:"hsn_code,omitempty"`
	IsSerialized *bool            `json:"is_serialized,omitempty"`
	IsLotted     *bool            `json:"is_lotted,omitempty"`
	TaxProfileID *string          `json:"tax_profile_id,omitempty"`
	IsActive     *bool            `json:"is_active,omitempty"`
}

type ListRequest struct {
	ActiveOnly bool
	Search     string
	SortBy     string
	OrderBy    string
}

type Response struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  *string         `json:"description,omitempty"`
	ListPrice    decimal.Decimal `json:"list_price"`
	UOMSymbol    string          `json:"uom_symbol"`
	HSNCode      *string         `json:"hsn_code,omitempty"`
	IsSerialized bool            `json:"is_serialized"`
	IsLotted     bool            `json:"is_lotted"`
	TaxProfileID *string         `json:"tax_profile_id,omitempty"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}

package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Service manages the org's tax rate catalog.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	Disable(ctx context.Context, id string) error
}

type CreateRequest struct {
	Name        string          `json:"name"`
	TaxType     string          `json:"tax_type"`
	Rate        decimal.Decimal `json:"rate"`
	Description *string         `json:"description,omitempty"`
}

type UpdateRequest struct {
	Name        *string          `json:"name,omitempty"`
	TaxType     *string          `json:"tax_type,omitempty"`
	Rate        *decimal.Decimal `json:"rate,omitempty"`
	Description *string          `json:"description,omitempty"`
	IsEnabled   *bool            `json:"is_enabled,omitempty"`
}

type ListRequest struct {
	EnabledOnly bool
	SortBy      string
	OrderBy     string
}

type Response struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	TaxType     string          `json:"tax_type"`
	Rate        decimal.Decimal `json:"rate"`
	Description *string         `json:"description,omitempty"`
	IsEnabled   bool            `json:"is_enabled"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

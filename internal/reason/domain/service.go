package domain

import "context"

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	// List filters in memory on AppliesTo so the same query works across
	// postgres text[] and the sqlite test driver.
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	Disable(ctx context.Context, id string) error
}

type CreateRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	AppliesTo   []string `json:"applies_to,omitempty"`
}

type UpdateRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	AppliesTo   []string `json:"applies_to,omitempty"`
	IsEnabled   *bool    `json:"is_enabled,omitempty"`
}

type ListRequest struct {
	// AdjustmentType narrows the list to reasons usable with that type.
	AdjustmentType string
	EnabledOnly    bool
	SortBy         string
	OrderBy        string
}

type Response struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	AppliesTo   []string `json:"applies_to,omitempty"`
	IsEnabled   bool     `json:"is_enabled"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

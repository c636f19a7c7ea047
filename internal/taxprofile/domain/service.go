package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Service manages tax profiles and resolves them to rate lists for
// line item preselection.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	Disable(ctx context.Context, id string) error

	// Resolve walks the profile's rules in priority order and returns the
	// distinct tax rate IDs their outcomes reference, first occurrence wins.
	Resolve(ctx context.Context, id snowflake.ID) ([]snowflake.ID, error)
}

type RuleInput struct {
	Criteria string         `json:"criteria"`
	Priority int            `json:"priority"`
	Outcomes []OutcomeInput `json:"outcomes"`
}

type OutcomeInput struct {
	TaxRateID string `json:"tax_rate_id"`
}

type CreateRequest struct {
	Name        string      `json:"name"`
	Description *string     `json:"description,omitempty"`
	Rules       []RuleInput `json:"rules,omitempty"`
}

type UpdateRequest struct {
	Name        *string     `json:"name,omitempty"`
	Description *string     `json:"description,omitempty"`
	IsEnabled   *bool       `json:"is_enabled,omitempty"`
	Rules       []RuleInput `json:"rules,omitempty"`
	// ReplaceRules distinguishes "leave rules alone" from "set to empty".
	ReplaceRules bool `json:"replace_rules,omitempty"`
}

type ListRequest struct {
	EnabledOnly bool
	SortBy      string
	OrderBy     string
}

type RuleResponse struct {
	ID       string            `json:"id"`
	Criteria string            `json:"criteria"`
	Priority int               `json:"priority"`
	Outcomes []OutcomeResponse `json:"outcomes"`
}

type OutcomeResponse struct {
	ID        string `json:"id"`
	TaxRateID string `json:"tax_rate_id"`
	Position  int    `json:"position"`
}

type Response struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	IsEnabled   bool           `json:"is_enabled"`
	Rules       []RuleResponse `json:"rules,omitempty"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
}

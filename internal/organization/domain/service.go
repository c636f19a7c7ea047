package domain

import (
	"context"
	"errors"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
}

type CreateRequest struct {
	Name         string            `json:"name"`
	SupportEmail *string           `json:"support_email,omitempty"`
	CountryCode  string            `json:"country_code,omitempty"`
	TimezoneName string            `json:"timezone_name,omitempty"`
	Metadata     map[string]any    `json:"metadata,omitempty"`
}

type UpdateRequest struct {
	Name         *string        `json:"name,omitempty"`
	SupportEmail *string        `json:"support_email,omitempty"`
	TimezoneName *string        `json:"timezone_name,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

type Response struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Slug         string         `json:"slug"`
	SupportEmail *string        `json:"support_email,omitempty"`
	IsDefault    bool           `json:"is_default"`
	CountryCode  string         `json:"country_code"`
	TimezoneName string         `json:"timezone_name"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    string         `json:"created_at"`
}

var (
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidTimezone     = errors.New("invalid_timezone")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrOrganizationExists  = errors.New("organization_exists")
)

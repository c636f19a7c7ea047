package domain

import "context"

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	Deactivate(ctx context.Context, id string) error

	AddContact(ctx context.Context, customerID string, req ContactRequest) (*ContactResponse, error)
	UpdateContact(ctx context.Context, customerID, contactID string, req ContactRequest) (*ContactResponse, error)
	DeleteContact(ctx context.Context, customerID, contactID string) error
	ListContacts(ctx context.Context, customerID string) ([]ContactResponse, error)

	AddAddress(ctx context.Context, customerID string, req AddressRequest) (*AddressResponse, error)
	UpdateAddress(ctx context.Context, customerID, addressID string, req AddressRequest) (*AddressResponse, error)
	DeleteAddress(ctx context.Context, customerID, addressID string) error
	ListAddresses(ctx context.Context, customerID string) ([]AddressResponse, error)

	// Seed bulk-imports customers from a tagged payload. The contacts branch
	// creates one customer per entry; the lists branch creates a customer
	// group per list and files its members under it.
	Seed(ctx context.Context, req SeedRequest) (*SeedResult, error)
}

type CreateRequest struct {
	Kind        string  `json:"kind,omitempty"`
	DisplayName string  `json:"display_name"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	GroupID     *string `json:"group_id,omitempty"`
}

type UpdateRequest struct {
	Kind        *string `json:"kind,omitempty"`
	DisplayName *string `json:"display_name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	GroupID     *string `json:"group_id,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type ListRequest struct {
	ActiveOnly bool
	Search     string
	GroupID    string
	SortBy     string
	OrderBy    string
}

type ContactRequest struct {
	FirstName string  `json:"first_name"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Role      *string `json:"role,omitempty"`
	IsPrimary bool    `json:"is_primary,omitempty"`
}

type AddressRequest struct {
	Kind       string  `json:"kind"`
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city"`
	State      *string `json:"state,omitempty"`
	PostalCode string  `json:"postal_code"`
	Country    string  `json:"country"`
	IsDefault  bool    `json:"is_default,omitempty"`
}

type Response struct {
	ID          string  `json:"id"`
	Kind        string  `json:"kind"`
	DisplayName string  `json:"display_name"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	GroupID     *string `json:"group_id,omitempty"`
	IsActive    bool    `json:"is_active"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type ContactResponse struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Role      *string `json:"role,omitempty"`
	IsPrimary bool    `json:"is_primary"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type AddressResponse struct {
	ID         string  `json:"id"`
	Kind       string  `json:"kind"`
	Line1      string  `json:"line1"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city"`
	State      *string `json:"state,omitempty"`
	PostalCode string  `json:"postal_code"`
	Country    string  `json:"country"`
	IsDefault  bool    `json:"is_default"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

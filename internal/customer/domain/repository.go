package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"

	"github.com/shopkit/tradepost/pkg/db/option"
)

type Repository interface {
	Create(ctx context.Context, customer *Customer) error
	BatchCreate(ctx context.Context, customers []Customer) error
	Update(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, orgID, id snowflake.ID) (*Customer, error)
	Find(ctx context.Context, orgID snowflake.ID, opts ...option.QueryOption) ([]Customer, error)
	Search(ctx context.Context, orgID snowflake.ID, term string, activeOnly bool, limit int) ([]Customer, error)

	CreateContact(ctx context.Context, contact *Contact) error
	UpdateContact(ctx context.Context, contact *Contact) error
	DeleteContact(ctx context.Context, orgID, id snowflake.ID) error
	FindContactByID(ctx context.Context, orgID, id snowflake.ID) (*Contact, error)
	FindContacts(ctx context.Context, orgID, customerID snowflake.ID) ([]Contact, error)
	// ClearPrimaryContact drops the primary flag from the customer's contacts.
	ClearPrimaryContact(ctx context.Context, orgID, customerID snowflake.ID) error

	CreateAddress(ctx context.Context, address *Address) error
	UpdateAddress(ctx context.Context, address *Address) error
	DeleteAddress(ctx context.Context, orgID, id snowflake.ID) error
	FindAddressByID(ctx context.Context, orgID, id snowflake.ID) (*Address, error)
	FindAddresses(ctx context.Context, orgID, customerID snowflake.ID) ([]Address, error)
	// ClearDefaultAddress drops the default flag from the customer's
	// addresses of the given kind.
	ClearDefaultAddress(ctx context.Context, orgID, customerID snowflake.ID, kind string) error
}

package domain

import "errors"

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidDisplayName  = errors.New("invalid_display_name")
	ErrInvalidKind         = errors.New("invalid_kind")
	ErrInvalidContactName  = errors.New("invalid_contact_name")
	ErrInvalidPhone        = errors.New("invalid_phone")
	ErrInvalidAddressKind  = errors.New("invalid_address_kind")
	ErrInvalidAddress      = errors.New("invalid_address")
	ErrCustomerNotFound    = errors.New("customer_not_found")
	ErrContactNotFound     = errors.New("contact_not_found")
	ErrAddressNotFound     = errors.New("address_not_found")
	ErrGroupNotFound       = errors.New("customer_group_not_found")

	ErrInvalidSeedKind = errors.New("invalid_seed_kind")
	ErrEmptySeed       = errors.New("empty_seed")
	ErrMixedSeed       = errors.New("mixed_seed")
)

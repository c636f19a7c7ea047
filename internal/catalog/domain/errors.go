package domain

import "errors"

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidSKU          = errors.New("invalid_sku")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidListPrice    = errors.New("invalid_list_price")
	ErrInvalidUOM          = errors.New("invalid_uom")
	ErrProductNotFound     = errors.New("product_not_found")
	ErrDuplicateSKU        = errors.New("duplicate_sku")
)

package domain

import "errors"

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidTaxType      = errors.New("invalid_tax_type")
	ErrInvalidRate         = errors.New("invalid_rate")
	ErrTaxRateNotFound     = errors.New("tax_rate_not_found")
	ErrDuplicateName       = errors.New("duplicate_name")
)

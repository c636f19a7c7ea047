package domain

import "errors"

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidRule         = errors.New("invalid_rule")
	ErrInvalidOutcome      = errors.New("invalid_outcome")
	ErrProfileNotFound     = errors.New("tax_profile_not_found")
	ErrDuplicateName       = errors.New("duplicate_name")
)

package domain

import "errors"

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrReasonNotFound      = errors.New("reason_not_found")
	ErrDuplicateName       = errors.New("duplicate_name")
)

package domain

import "errors"

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrGroupNotFound       = errors.New("customer_group_not_found")
	ErrDuplicateName       = errors.New("duplicate_name")
)

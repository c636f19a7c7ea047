package domain

import "errors"

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidCode         = errors.New("invalid_code")
	ErrChannelNotFound     = errors.New("channel_not_found")
	ErrDuplicateCode       = errors.New("duplicate_code")
)

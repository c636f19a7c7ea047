package validate

import "errors"

var (
	ErrEmptyPhone   = errors.New("empty_phone")
	ErrInvalidPhone = errors.New("invalid_phone")
)

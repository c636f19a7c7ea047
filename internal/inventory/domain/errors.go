package domain

import "errors"

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrSummaryBusy         = errors.New("summary_busy")
)

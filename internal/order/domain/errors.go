package domain

import "errors"

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrOrderNotFound       = errors.New("order_not_found")
	ErrItemNotFound        = errors.New("line_item_not_found")
	ErrProductNotFound     = errors.New("product_not_found")
	ErrInvalidQuantity     = errors.New("invalid_quantity")
	ErrInvalidUnitPrice    = errors.New("invalid_unit_price")
	ErrInvalidDiscount     = errors.New("invalid_discount")
	ErrOrderNotEditable    = errors.New("order_not_editable")
	ErrEmptyOrder          = errors.New("empty_order")
	ErrCustomerNotFound    = errors.New("customer_not_found")
	ErrChannelNotFound     = errors.New("channel_not_found")
	ErrLocationNotFound    = errors.New("location_not_found")
)

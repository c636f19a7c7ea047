package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

const (
	StatusDraft     = "DRAFT"
	StatusSubmitted = "SUBMITTED"
	StatusCancelled = "CANCELLED"
)

const (
	DiscountPercentage = "PERCENTAGE"
	DiscountAmount     = "AMOUNT"
)

// Order is a back-office sales order. Money totals are stored rounded to
// two decimals and recomputed from the line items after every mutation.
type Order struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;index" json:"organization_id"`

	CustomerID *snowflake.ID `gorm:"column:customer_id;index" json:"customer_id,omitempty"`
	ChannelID  *snowflake.ID `gorm:"column:channel_id" json:"channel_id,omitempty"`
	LocationID *snowflake.ID `gorm:"column:location_id" json:"location_id,omitempty"`

	Status string  `gorm:"type:text;not null;default:'DRAFT';index" json:"status"`
	Notes  *string `gorm:"type:text" json:"notes,omitempty"`

	Subtotal      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"subtotal"`
	DiscountTotal decimal.Decimal `gorm:"column:discount_total;type:decimal(18,2);not null;default:0" json:"discount_total"`
	TaxTotal      decimal.Decimal `gorm:"column:tax_total;type:decimal(18,2);not null;default:0" json:"tax_total"`
	Total         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"total"`

	SubmittedAt *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

// OrderLineItem snapshots the product at add time. ItemOrder is assigned as
// count+1 when the line is appended and is deliberately never renumbered:
// removing a line leaves a gap so that concurrently issued edits keep
// addressing the lines they were issued against.
type OrderLineItem struct {
	ID      snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID   snowflake.ID `gorm:"column:org_id;not null;index" json:"-"`
	OrderID snowflake.ID `gorm:"column:order_id;not null;index" json:"order_id"`

	ProductID   snowflake.ID `gorm:"column:product_id;not null" json:"product_id"`
	SKU         string       `gorm:"column:sku;type:text;not null" json:"sku"`
	Description string       `gorm:"type:text;not null" json:"description"`
	UOMSymbol   string       `gorm:"column:uom_symbol;type:text;not null" json:"uom_symbol"`

	ItemOrder int `gorm:"column:item_order;not null" json:"item_order"`

	Quantity  decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:decimal(18,6);not null" json:"unit_price"`

	DiscountType  *string          `gorm:"column:discount_type;type:text" json:"discount_type,omitempty"`
	DiscountValue *decimal.Decimal `gorm:"column:discount_value;type:decimal(18,6)" json:"discount_value,omitempty"`

	BaseAmount     decimal.Decimal `gorm:"column:base_amount;type:decimal(18,2);not null" json:"base_amount"`
	DiscountAmount decimal.Decimal `gorm:"column:discount_amount;type:decimal(18,2);not null" json:"discount_amount"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"subtotal"`
	TotalTax       decimal.Decimal `gorm:"column:total_tax;type:decimal(18,2);not null" json:"total_tax"`
	TotalAmount    decimal.Decimal `gorm:"column:total_amount;type:decimal(18,2);not null" json:"total_amount"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (OrderLineItem) TableName() string { return "order_line_items" }

// OrderLineTax is one tax rate applied to one line item.
type OrderLineTax struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID      snowflake.ID `gorm:"column:org_id;not null;index" json:"-"`
	OrderID    snowflake.ID `gorm:"column:order_id;not null;index" json:"-"`
	LineItemID snowflake.ID `gorm:"column:line_item_id;not null;index" json:"line_item_id"`

	TaxRateID snowflake.ID    `gorm:"column:tax_rate_id;not null" json:"tax_rate_id"`
	TaxCode   string          `gorm:"column:tax_code;type:text;not null" json:"tax_code"`
	Rate      decimal.Decimal `gorm:"type:decimal(9,4);not null" json:"rate"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (OrderLineTax) TableName() string { return "order_line_taxes" }

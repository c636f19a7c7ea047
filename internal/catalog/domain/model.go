package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Product is a sellable, stockable item. ListPrice is the default unit price
// used when an order line does not carry an explicit price. The serialized
// and lotted flags drive which tracking fields inventory adjustments require.
type Product struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;index:idx_products_org_sku,unique" json:"organization_id"`

	SKU         string  `gorm:"column:sku;type:text;not null;index:idx_products_org_sku,unique" json:"sku"`
	Name        string  `gorm:"type:text;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description,omitempty"`

	ListPrice decimal.Decimal `gorm:"column:list_price;type:decimal(18,6);not null" json:"list_price"`
	UOMSymbol string          `gorm:"column:uom_symbol;type:text;not null;default:'EA'" json:"uom_symbol"`
	HSNCode   *string         `gorm:"column:hsn_code;type:text" json:"hsn_code,omitempty"`

	IsSerialized bool `gorm:"column:is_serialized;not null;default:false" json:"is_serialized"`
	IsLotted     bool `gorm:"column:is_lotted;not null;default:false" json:"is_lotted"`

	TaxProfileID *snowflake.ID `gorm:"column:tax_profile_id" json:"tax_profile_id,omitempty"`

	IsActive bool `gorm:"column:is_active;not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Product) TableName() string { return "products" }

func (p *Product) Validate() error {
	if p.SKU == "" {
		return ErrInvalidSKU
	}
	if p.Name == "" {
		return ErrInvalidName
	}
	if p.ListPrice.IsNegative() {
		return ErrInvalidListPrice
	}
	if p.UOMSymbol == "" {
		return ErrInvalidUOM
	}
	return nil
}

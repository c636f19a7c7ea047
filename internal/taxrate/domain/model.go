package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Well-known tax type codes surfaced in rate pickers. Rates are free to use
// other codes; these are only the ones the seed data and tests rely on.
const (
	TaxTypeCGST = "CGST"
	TaxTypeSGST = "SGST"
	TaxTypeIGST = "IGST"
	TaxTypeVAT  = "VAT"
)

// TaxRate is an org-scoped tax rate. Rate is a percentage: 9 means 9%.
type TaxRate struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;index" json:"organization_id"`

	Name    string          `gorm:"type:text;not null" json:"name"`
	TaxType string          `gorm:"column:tax_type;type:text;not null" json:"tax_type"`
	Rate    decimal.Decimal `gorm:"type:decimal(9,4);not null" json:"rate"`

	Description *string `gorm:"type:text" json:"description,omitempty"`

	IsEnabled bool `gorm:"column:is_enabled;not null;default:true" json:"is_enabled"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (TaxRate) TableName() string { return "tax_rates" }

func (t *TaxRate) Validate() error {
	if t.Name == "" {
		return ErrInvalidName
	}
	if t.TaxType == "" {
		return ErrInvalidTaxType
	}
	if t.Rate.IsNegative() {
		return ErrInvalidRate
	}
	return nil
}

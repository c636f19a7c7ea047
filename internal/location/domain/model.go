package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Location is a physical stock location (warehouse, store backroom) that
// inventory adjustments and stock summaries are keyed on.
type Location struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;index:idx_locations_org_code,unique" json:"organization_id"`

	Code string `gorm:"type:text;not null;index:idx_locations_org_code,unique" json:"code"`
	Name string `gorm:"type:text;not null" json:"name"`

	AddressLine1 *string `gorm:"column:address_line1;type:text" json:"address_line1,omitempty"`
	AddressLine2 *string `gorm:"column:address_line2;type:text" json:"address_line2,omitempty"`
	City         *string `gorm:"type:text" json:"city,omitempty"`
	State        *string `gorm:"type:text" json:"state,omitempty"`
	PostalCode   *string `gorm:"column:postal_code;type:text" json:"postal_code,omitempty"`
	Country      *string `gorm:"type:text" json:"country,omitempty"`

	IsDefault bool `gorm:"column:is_default;not null;default:false" json:"is_default"`
	IsEnabled bool `gorm:"column:is_enabled;not null;default:true" json:"is_enabled"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Location) TableName() string { return "locations" }

func (l *Location) Validate() error {
	if l.Name == "" {
		return ErrInvalidName
	}
	if l.Code == "" {
		return ErrInvalidCode
	}
	return nil
}

package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// CustomerGroup segments customers for pricing and reporting.
type CustomerGroup struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;index" json:"organization_id"`

	Name        string  `gorm:"type:text;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description,omitempty"`

	IsEnabled bool `gorm:"column:is_enabled;not null;default:true" json:"is_enabled"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (CustomerGroup) TableName() string { return "customer_groups" }

func (g *CustomerGroup) Validate() error {
	if g.Name == "" {
		return ErrInvalidName
	}
	return nil
}

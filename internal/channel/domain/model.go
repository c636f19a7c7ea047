package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Channel is a sales channel (storefront, marketplace, POS counter) orders
// are attributed to. Code is derived from the name on create and stays
// stable afterwards so downstream reports can key on it.
type Channel struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;index:idx_channels_org_code,unique" json:"organization_id"`

	Code        string  `gorm:"type:text;not null;index:idx_channels_org_code,unique" json:"code"`
	Name        string  `gorm:"type:text;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description,omitempty"`

	IsEnabled bool `gorm:"column:is_enabled;not null;default:true" json:"is_enabled"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Channel) TableName() string { return "channels" }

func (c *Channel) Validate() error {
	if c.Name == "" {
		return ErrInvalidName
	}
	if c.Code == "" {
		return ErrInvalidCode
	}
	return nil
}

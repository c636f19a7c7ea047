package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lib/pq"
)

// Reason codes the "why" of a stock movement. AppliesTo lists the adjustment
// types the reason may be used with; an empty list means it applies to all.
type Reason struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;index" json:"organization_id"`

	Name        string  `gorm:"type:text;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description,omitempty"`

	AppliesTo pq.StringArray `gorm:"column:applies_to;type:text[]" json:"applies_to,omitempty"`

	IsEnabled bool `gorm:"column:is_enabled;not null;default:true" json:"is_enabled"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Reason) TableName() string { return "inventory_reasons" }

func (r *Reason) Validate() error {
	if r.Name == "" {
		return ErrInvalidName
	}
	return nil
}

// Applies reports whether the reason may be used with the given adjustment
// type. Reasons without an AppliesTo restriction apply everywhere.
func (r *Reason) Applies(adjustmentType string) bool {
	if len(r.AppliesTo) == 0 {
		return true
	}
	for _, t := range r.AppliesTo {
		if t == adjustmentType {
			return true
		}
	}
	return false
}

package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// TaxProfile groups tax rules so products can be tagged with one profile
// instead of individual rates. Resolving a profile walks its rules in
// priority order and yields the distinct tax rates their outcomes name.
type TaxProfile struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;index" json:"organization_id"`

	Name        string  `gorm:"type:text;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description,omitempty"`

	IsEnabled bool `gorm:"column:is_enabled;not null;default:true" json:"is_enabled"`

	Rules []TaxProfileRule `gorm:"-" json:"rules,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (TaxProfile) TableName() string { return "tax_profiles" }

func (p *TaxProfile) Validate() error {
	if p.Name == "" {
		return ErrInvalidName
	}
	return nil
}

// TaxProfileRule is one matching clause inside a profile. Criteria is an
// opaque label for back-office operators (for example a region or product
// class); rule evaluation order is ascending Priority.
type TaxProfileRule struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID `gorm:"column:org_id;not null;index" json:"-"`
	ProfileID snowflake.ID `gorm:"column:profile_id;not null;index" json:"-"`

	Criteria string `gorm:"type:text;not null" json:"criteria"`
	Priority int    `gorm:"not null;default:0" json:"priority"`

	Outcomes []TaxRuleOutcome `gorm:"-" json:"outcomes,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (TaxProfileRule) TableName() string { return "tax_profile_rules" }

// TaxRuleOutcome binds a rule to one tax rate. Position keeps the operator's
// ordering inside the rule.
type TaxRuleOutcome struct {
	ID     snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID  snowflake.ID `gorm:"column:org_id;not null;index" json:"-"`
	RuleID snowflake.ID `gorm:"column:rule_id;not null;index" json:"-"`

	TaxRateID snowflake.ID `gorm:"column:tax_rate_id;not null" json:"tax_rate_id"`
	Position  int          `gorm:"not null;default:0" json:"position"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (TaxRuleOutcome) TableName() string { return "tax_rule_outcomes" }

package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	KindIndividual = "INDIVIDUAL"
	KindBusiness   = "BUSINESS"
)

type Customer struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;index" json:"organization_id"`

	Kind        string  `gorm:"type:text;not null;default:'INDIVIDUAL'" json:"kind"`
	DisplayName string  `gorm:"column:display_name;type:text;not null" json:"display_name"`
	Email       *string `gorm:"type:text" json:"email,omitempty"`
	Phone       *string `gorm:"type:text" json:"phone,omitempty"`
	Notes       *string `gorm:"type:text" json:"notes,omitempty"`

	GroupID *snowflake.ID `gorm:"column:group_id;index" json:"group_id,omitempty"`

	IsActive bool `gorm:"column:is_active;not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

func (c *Customer) Validate() error {
	if c.DisplayName == "" {
		return ErrInvalidDisplayName
	}
	if c.Kind != KindIndividual && c.Kind != KindBusiness {
		return ErrInvalidKind
	}
	return nil
}

// Contact is a person attached to a customer record. Phone is stored in
// E.164 form. At most one contact per customer is primary.
type Contact struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID      snowflake.ID `gorm:"column:org_id;not null;index" json:"-"`
	CustomerID snowflake.ID `gorm:"column:customer_id;not null;index" json:"customer_id"`

	FirstName string  `gorm:"column:first_name;type:text;not null" json:"first_name"`
	LastName  *string `gorm:"column:last_name;type:text" json:"last_name,omitempty"`
	Email     *string `gorm:"type:text" json:"email,omitempty"`
	Phone     *string `gorm:"type:text" json:"phone,omitempty"`
	Role      *string `gorm:"type:text" json:"role,omitempty"`

	IsPrimary bool `gorm:"column:is_primary;not null;default:false" json:"is_primary"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Contact) TableName() string { return "customer_contacts" }

func (c *Contact) Validate() error {
	if c.FirstName == "" {
		return ErrInvalidContactName
	}
	return nil
}

const (
	AddressKindBilling  = "billing"
	AddressKindShipping = "shipping"
)

// Address belongs to a customer. Per kind at most one address is the default.
type Address struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID      snowflake.ID `gorm:"column:org_id;not null;index" json:"-"`
	CustomerID snowflake.ID `gorm:"column:customer_id;not null;index" json:"customer_id"`

	Kind string `gorm:"type:text;not null" json:"kind"`

	Line1      string  `gorm:"column:line1;type:text;not null" json:"line1"`
	Line2      *string `gorm:"column:line2;type:text" json:"line2,omitempty"`
	City       string  `gorm:"type:text;not null" json:"city"`
	State      *string `gorm:"type:text" json:"state,omitempty"`
	PostalCode string  `gorm:"column:postal_code;type:text;not null" json:"postal_code"`
	Country    string  `gorm:"type:text;not null" json:"country"`

	IsDefault bool `gorm:"column:is_default;not null;default:false" json:"is_default"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Address) TableName() string { return "customer_addresses" }

func (a *Address) Validate() error {
	if a.Kind != AddressKindBilling && a.Kind != AddressKindShipping {
		return ErrInvalidAddressKind
	}
	if a.Line1 == "" || a.City == "" || a.PostalCode == "" || a.Country == "" {
		return ErrInvalidAddress
	}
	return nil
}

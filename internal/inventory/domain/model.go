package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Adjustment types. Each type applies the signed quantity change to exactly
// one summary bucket.
const (
	TypeAdd          = "ADD"
	TypeSub          = "SUB"
	TypeReserve      = "RES"
	TypeReleaseRes   = "REL_RES"
	TypeInitial      = "INIT"
	TypeNonSale      = "NON_SALE"
	TypeReceivePO    = "RECV_PO"
	TypeShipOrder    = "SHIP_ORD"
	TypeReturnStock  = "RET_STOCK"
	TypeReturnNoSale = "RET_NON_SALE"
	TypeHold         = "HOLD"
	TypeReleaseHold  = "REL_HOLD"
	TypeCycleCount   = "CYCLE"
)

// Buckets a summary tracks.
const (
	BucketStock       = "stock"
	BucketReserved    = "reserved"
	BucketNonSaleable = "non_saleable"
	BucketOnHold      = "on_hold"
)

var bucketByType = map[string]string{
	TypeAdd:          BucketStock,
	TypeSub:          BucketStock,
	TypeInitial:      BucketStock,
	TypeCycleCount:   BucketStock,
	TypeReceivePO:    BucketStock,
	TypeShipOrder:    BucketStock,
	TypeReturnStock:  BucketStock,
	TypeNonSale:      BucketNonSaleable,
	TypeReturnNoSale: BucketNonSaleable,
	TypeReserve:      BucketReserved,
	TypeReleaseRes:   BucketReserved,
	TypeHold:         BucketOnHold,
	TypeReleaseHold:  BucketOnHold,
}

// KnownType reports whether t is a recognized adjustment type.
func KnownType(t string) bool {
	_, ok := bucketByType[t]
	return ok
}

// BucketFor returns the summary bucket an adjustment type applies to.
func BucketFor(t string) string {
	return bucketByType[t]
}

// StockSummary is the per (org, product, location) stock read model. The
// quantities are whole units; adjustments carry integer quantity changes.
type StockSummary struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;index:idx_stock_summaries_key,unique" json:"-"`

	ProductID  snowflake.ID `gorm:"column:product_id;not null;index:idx_stock_summaries_key,unique" json:"product_id"`
	LocationID snowflake.ID `gorm:"column:location_id;not null;index:idx_stock_summaries_key,unique" json:"location_id"`

	StockQuantity       int64 `gorm:"column:stock_quantity;not null;default:0" json:"stock_quantity"`
	ReservedQuantity    int64 `gorm:"column:reserved_quantity;not null;default:0" json:"reserved_quantity"`
	NonSaleableQuantity int64 `gorm:"column:non_saleable_quantity;not null;default:0" json:"non_saleable_quantity"`
	OnOrderQuantity     int64 `gorm:"column:on_order_quantity;not null;default:0" json:"on_order_quantity"`
	InTransitQuantity   int64 `gorm:"column:in_transit_quantity;not null;default:0" json:"in_transit_quantity"`
	ReturnedQuantity    int64 `gorm:"column:returned_quantity;not null;default:0" json:"returned_quantity"`
	OnHoldQuantity      int64 `gorm:"column:on_hold_quantity;not null;default:0" json:"on_hold_quantity"`
	BackorderedQuantity int64 `gorm:"column:backordered_quantity;not null;default:0" json:"backordered_quantity"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (StockSummary) TableName() string { return "stock_summaries" }

// Bucket returns the current value of the named bucket.
func (s *StockSummary) Bucket(name string) int64 {
	switch name {
	case BucketStock:
		return s.StockQuantity
	case BucketReserved:
		return s.ReservedQuantity
	case BucketNonSaleable:
		return s.NonSaleableQuantity
	case BucketOnHold:
		return s.OnHoldQuantity
	default:
		return 0
	}
}

// AddToBucket applies a signed delta to the named bucket.
func (s *StockSummary) AddToBucket(name string, delta int64) {
	switch name {
	case BucketStock:
		s.StockQuantity += delta
	case BucketReserved:
		s.ReservedQuantity += delta
	case BucketNonSaleable:
		s.NonSaleableQuantity += delta
	case BucketOnHold:
		s.OnHoldQuantity += delta
	}
}

// Adjustment is one committed stock movement. ReferenceCode is a ULID so
// adjustments sort by creation time and correlate across systems.
type Adjustment struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;index" json:"-"`

	ReferenceCode string `gorm:"column:reference_code;type:text;not null;uniqueIndex" json:"reference_code"`

	ProductID  snowflake.ID `gorm:"column:product_id;not null;index" json:"product_id"`
	LocationID snowflake.ID `gorm:"column:location_id;not null;index" json:"location_id"`

	AdjustmentType string       `gorm:"column:adjustment_type;type:text;not null" json:"adjustment_type"`
	QuantityChange int64        `gorm:"column:quantity_change;not null" json:"quantity_change"`
	ReasonID       snowflake.ID `gorm:"column:reason_id;not null" json:"reason_id"`

	SerialNumber *string    `gorm:"column:serial_number;type:text" json:"serial_number,omitempty"`
	LotNumber    *string    `gorm:"column:lot_number;type:text" json:"lot_number,omitempty"`
	ExpiryDate   *time.Time `gorm:"column:expiry_date" json:"expiry_date,omitempty"`
	Notes        *string    `gorm:"type:text" json:"notes,omitempty"`

	// NewStockLevel is the affected bucket's value after this adjustment.
	NewStockLevel int64 `gorm:"column:new_stock_level;not null" json:"new_stock_level"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Adjustment) TableName() string { return "stock_adjustments" }

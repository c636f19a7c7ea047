package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// AdjustmentDraft is raw form input. Every field arrives as a string so the
// validator owns all parsing; nothing is rejected before it runs.
type AdjustmentDraft struct {
	ProductID      string `json:"product_id"`
	LocationID     string `json:"location_id"`
	AdjustmentType string `json:"adjustment_type"`
	QuantityChange string `json:"quantity_change"`
	ReasonID       string `json:"reason_id"`
	SerialNumber   string `json:"serial_number,omitempty"`
	LotNumber      string `json:"lot_number,omitempty"`
	ExpiryDate     string `json:"expiry_date,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// ProductFlags carries the product attributes the validator keys on.
type ProductFlags struct {
	IsSerialized bool
	IsLotted     bool
}

// FieldErrors accumulates one message per offending field.
type FieldErrors map[string]string

// Payload is the normalized adjustment produced from a valid draft. Serial,
// lot, and expiry fields are omitted entirely when the product is not
// serialized or lotted; inapplicable values never survive normalization,
// even when the caller filled them in.
type Payload struct {
	ProductID      snowflake.ID `json:"product_id"`
	LocationID     snowflake.ID `json:"location_id"`
	AdjustmentType string       `json:"adjustment_type"`
	QuantityChange int64        `json:"quantity_change"`
	ReasonID       snowflake.ID `json:"reason_id"`
	SerialNumber   *string      `json:"serial_number,omitempty"`
	LotNumber      *string      `json:"lot_number,omitempty"`
	ExpiryDate     *time.Time   `json:"expiry_date,omitempty"`
	Notes          *string      `json:"notes,omitempty"`
}

// ValidateDraft checks every rule and reports all violations at once. A
// draft either yields a complete normalized payload or nothing.
func ValidateDraft(draft AdjustmentDraft, flags ProductFlags) (*Payload, FieldErrors) {
	fieldErrs := FieldErrors{}

	var payload Payload

	productID := strings.TrimSpace(draft.ProductID)
	if productID == "" {
		fieldErrs["product_id"] = "product is required"
	} else if id, err := snowflake.ParseString(productID); err != nil {
		fieldErrs["product_id"] = "product is invalid"
	} else {
		payload.ProductID = id
	}

	locationID := strings.TrimSpace(draft.LocationID)
	if locationID == "" {
		fieldErrs["location_id"] = "location is required"
	} else if id, err := snowflake.ParseString(locationID); err != nil {
		fieldErrs["location_id"] = "location is invalid"
	} else {
		payload.LocationID = id
	}

	adjustmentType := strings.ToUpper(strings.TrimSpace(draft.AdjustmentType))
	switch {
	case adjustmentType == "":
		fieldErrs["adjustment_type"] = "adjustment type is required"
	case !KnownType(adjustmentType):
		fieldErrs["adjustment_type"] = "adjustment type is invalid"
	default:
		payload.AdjustmentType = adjustmentType
	}

	rawQuantity := strings.TrimSpace(draft.QuantityChange)
	if rawQuantity == "" {
		fieldErrs["quantity_change"] = "quantity change is required"
	} else if quantity, err := strconv.ParseInt(rawQuantity, 10, 64); err != nil {
		fieldErrs["quantity_change"] = "quantity change must be an integer"
	} else {
		switch {
		case adjustmentType == TypeAdd && quantity < 0:
			fieldErrs["quantity_change"] = "quantity change must be zero or positive for ADD"
		case adjustmentType == TypeSub && quantity > 0:
			fieldErrs["quantity_change"] = "quantity change must be zero or negative for SUB"
		default:
			payload.QuantityChange = quantity
		}
	}

	reasonID := strings.TrimSpace(draft.ReasonID)
	if reasonID == "" {
		fieldErrs["reason_id"] = "reason is required"
	} else if id, err := snowflake.ParseString(reasonID); err != nil {
		fieldErrs["reason_id"] = "reason is invalid"
	} else {
		payload.ReasonID = id
	}

	serial := strings.TrimSpace(draft.SerialNumber)
	if flags.IsSerialized {
		if serial == "" {
			fieldErrs["serial_number"] = "serial number is required for serialized products"
		} else {
			payload.SerialNumber = &serial
		}
	}

	lot := strings.TrimSpace(draft.LotNumber)
	if flags.IsLotted {
		if lot == "" {
			fieldErrs["lot_number"] = "lot number is required for lotted products"
		} else {
			payload.LotNumber = &lot
		}
		// Expiry is collected alongside the lot number but stays optional.
		if expiry := strings.TrimSpace(draft.ExpiryDate); expiry != "" {
			parsed, err := parseExpiry(expiry)
			if err != nil {
				fieldErrs["expiry_date"] = "expiry date must be a valid date"
			} else {
				payload.ExpiryDate = &parsed
			}
		}
	}

	if notes := strings.TrimSpace(draft.Notes); notes != "" {
		payload.Notes = &notes
	}

	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}
	return &payload, nil
}

func parseExpiry(raw string) (time.Time, error) {
	if ts, err := time.Parse("2006-01-02", raw); err == nil {
		return ts.UTC(), nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return ts.UTC(), nil
}

package domain

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
)

func validDraft() AdjustmentDraft {
	return AdjustmentDraft{
		ProductID:      snowflake.ID(1001).String(),
		LocationID:     snowflake.ID(2002).String(),
		AdjustmentType: "ADD",
		QuantityChange: "10",
		ReasonID:       snowflake.ID(3003).String(),
	}
}

func TestValidateDraftAcceptsPlainAddition(t *testing.T) {
	payload, fieldErrs := ValidateDraft(validDraft(), ProductFlags{})
	require.Nil(t, fieldErrs)
	require.NotNil(t, payload)
	require.Equal(t, "ADD", payload.AdjustmentType)
	require.EqualValues(t, 10, payload.QuantityChange)
	require.Nil(t, payload.SerialNumber)
	require.Nil(t, payload.LotNumber)
	require.Nil(t, payload.ExpiryDate)
}

func TestValidateDraftAccumulatesAllViolations(t *testing.T) {
	payload, fieldErrs := ValidateDraft(AdjustmentDraft{}, ProductFlags{})
	require.Nil(t, payload)
	require.Len(t, fieldErrs, 5)
	require.Contains(t, fieldErrs, "product_id")
	require.Contains(t, fieldErrs, "location_id")
	require.Contains(t, fieldErrs, "adjustment_type")
	require.Contains(t, fieldErrs, "quantity_change")
	require.Contains(t, fieldErrs, "reason_id")
}

func TestValidateDraftSignRules(t *testing.T) {
	draft := validDraft()
	draft.AdjustmentType = "SUB"
	draft.QuantityChange = "5"
	payload, fieldErrs := ValidateDraft(draft, ProductFlags{})
	require.Nil(t, payload)
	require.Equal(t, "quantity change must be zero or negative for SUB", fieldErrs["quantity_change"])

	draft.AdjustmentType = "ADD"
	draft.QuantityChange = "-3"
	payload, fieldErrs = ValidateDraft(draft, ProductFlags{})
	require.Nil(t, payload)
	require.Equal(t, "quantity change must be zero or positive for ADD", fieldErrs["quantity_change"])

	// Other types carry no sign constraint.
	draft.AdjustmentType = "CYCLE"
	draft.QuantityChange = "-3"
	payload, fieldErrs = ValidateDraft(draft, ProductFlags{})
	require.Nil(t, fieldErrs)
	require.EqualValues(t, -3, payload.QuantityChange)
}

func TestValidateDraftQuantityMustBeInteger(t *testing.T) {
	draft := validDraft()
	draft.QuantityChange = "1.5"
	_, fieldErrs := ValidateDraft(draft, ProductFlags{})
	require.Equal(t, "quantity change must be an integer", fieldErrs["quantity_change"])

	draft.QuantityChange = "ten"
	_, fieldErrs = ValidateDraft(draft, ProductFlags{})
	require.Equal(t, "quantity change must be an integer", fieldErrs["quantity_change"])
}

func TestValidateDraftRejectsUnknownType(t *testing.T) {
	draft := validDraft()
	draft.AdjustmentType = "TRANSFER"
	_, fieldErrs := ValidateDraft(draft, ProductFlags{})
	require.Equal(t, "adjustment type is invalid", fieldErrs["adjustment_type"])
}

func TestValidateDraftSerialRequiredForSerialized(t *testing.T) {
	draft := validDraft()
	_, fieldErrs := ValidateDraft(draft, ProductFlags{IsSerialized: true})
	require.Equal(t, "serial number is required for serialized products", fieldErrs["serial_number"])

	draft.SerialNumber = " SN-0042 "
	payload, fieldErrs := ValidateDraft(draft, ProductFlags{IsSerialized: true})
	require.Nil(t, fieldErrs)
	require.NotNil(t, payload.SerialNumber)
	require.Equal(t, "SN-0042", *payload.SerialNumber)
}

func TestValidateDraftOmitsInapplicableFields(t *testing.T) {
	draft := validDraft()
	draft.SerialNumber = "SN-1"
	draft.LotNumber = "LOT-1"
	draft.ExpiryDate = "2027-01-31"

	payload, fieldErrs := ValidateDraft(draft, ProductFlags{})
	require.Nil(t, fieldErrs)
	require.Nil(t, payload.SerialNumber)
	require.Nil(t, payload.LotNumber)
	require.Nil(t, payload.ExpiryDate)
}

func TestValidateDraftLotRules(t *testing.T) {
	draft := validDraft()
	_, fieldErrs := ValidateDraft(draft, ProductFlags{IsLotted: true})
	require.Equal(t, "lot number is required for lotted products", fieldErrs["lot_number"])

	// Expiry stays optional for lotted products.
	draft.LotNumber = "LOT-7"
	payload, fieldErrs := ValidateDraft(draft, ProductFlags{IsLotted: true})
	require.Nil(t, fieldErrs)
	require.Equal(t, "LOT-7", *payload.LotNumber)
	require.Nil(t, payload.ExpiryDate)

	draft.ExpiryDate = "2027-01-31"
	payload, fieldErrs = ValidateDraft(draft, ProductFlags{IsLotted: true})
	require.Nil(t, fieldErrs)
	require.NotNil(t, payload.ExpiryDate)
	require.Equal(t, "2027-01-31", payload.ExpiryDate.Format("2006-01-02"))

	draft.ExpiryDate = "soon"
	_, fieldErrs = ValidateDraft(draft, ProductFlags{IsLotted: true})
	require.Equal(t, "expiry date must be a valid date", fieldErrs["expiry_date"])
}

func TestValidateDraftNormalizesInput(t *testing.T) {
	draft := validDraft()
	draft.AdjustmentType = " add "
	draft.Notes = "  counted twice  "

	payload, fieldErrs := ValidateDraft(draft, ProductFlags{})
	require.Nil(t, fieldErrs)
	require.Equal(t, "ADD", payload.AdjustmentType)
	require.NotNil(t, payload.Notes)
	require.Equal(t, "counted twice", *payload.Notes)
}

package pricing

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputePercentageDiscountWithSplitRates(t *testing.T) {
	in := LineInput{
		Quantity:      dec("2"),
		UnitPrice:     dec("100"),
		DiscountType:  DiscountTypePercentage,
		DiscountValue: dec("10"),
		TaxRates: []TaxRateInput{
			{ID: 1, Code: "CGST", Rate: dec("9")},
			{ID: 2, Code: "SGST", Rate: dec("9")},
		},
	}

	got := Compute(in)

	assert.True(t, got.BaseAmount.Equal(dec("200")), "base: %s", got.BaseAmount)
	assert.True(t, got.DiscountAmount.Equal(dec("20")), "discount: %s", got.DiscountAmount)
	assert.True(t, got.Subtotal.Equal(dec("180")), "subtotal: %s", got.Subtotal)
	require.Len(t, got.TaxLines, 2)
	assert.True(t, got.TaxLines[0].TaxAmount.Equal(dec("16.2")))
	assert.True(t, got.TaxLines[1].TaxAmount.Equal(dec("16.2")))
	assert.True(t, got.TotalTax.Equal(dec("32.4")), "total tax: %s", got.TotalTax)
	assert.True(t, got.TotalAmount.Equal(dec("212.4")), "total: %s", got.TotalAmount)

	rounded := got.Rounded()
	assert.Equal(t, "16.20", rounded.TaxLines[0].TaxAmount.StringFixed(2))
	assert.Equal(t, "212.40", rounded.TotalAmount.StringFixed(2))
}

func TestComputeAmountDiscountTakenVerbatim(t *testing.T) {
	in := LineInput{
		Quantity:      dec("1"),
		UnitPrice:     dec("50"),
		DiscountType:  DiscountTypeAmount,
		DiscountValue: dec("12.34"),
		TaxRates:      []TaxRateInput{{ID: 7, Code: "VAT", Rate: dec("20")}},
	}

	got := Compute(in)

	assert.True(t, got.DiscountAmount.Equal(dec("12.34")))
	assert.True(t, got.Subtotal.Equal(dec("37.66")))
	assert.True(t, got.TotalTax.Equal(dec("7.532")))
	assert.True(t, got.TotalAmount.Equal(dec("45.192")))
}

func TestComputeOversizedAmountDiscountGoesNegative(t *testing.T) {
	in := LineInput{
		Quantity:      dec("1"),
		UnitPrice:     dec("10"),
		DiscountType:  DiscountTypeAmount,
		DiscountValue: dec("25"),
		TaxRates:      []TaxRateInput{{ID: 1, Code: "GST", Rate: dec("10")}},
	}

	got := Compute(in)

	assert.True(t, got.Subtotal.Equal(dec("-15")), "subtotal is not clamped")
	assert.True(t, got.TaxLines[0].TaxAmount.Equal(dec("-1.5")))
	assert.True(t, got.TotalAmount.Equal(dec("-16.5")))
}

func TestComputeExactBaseAmount(t *testing.T) {
	// Values that misbehave under binary floats stay exact here.
	in := LineInput{
		Quantity:  dec("3"),
		UnitPrice: dec("0.1"),
	}

	got := Compute(in)

	assert.True(t, got.BaseAmount.Equal(dec("0.3")), "base: %s", got.BaseAmount)
	assert.True(t, got.Subtotal.Equal(dec("0.3")))
	assert.True(t, got.TotalAmount.Equal(dec("0.3")))
}

func TestComputeNoTaxRates(t *testing.T) {
	in := LineInput{
		Quantity:      dec("4"),
		UnitPrice:     dec("2.50"),
		DiscountType:  DiscountTypePercentage,
		DiscountValue: dec("0"),
	}

	got := Compute(in)

	assert.Empty(t, got.TaxLines)
	assert.True(t, got.TotalTax.Equal(decimal.Zero))
	assert.True(t, got.TotalAmount.Equal(got.Subtotal))
}

func TestComputeTotalTaxIsSumOfTaxLines(t *testing.T) {
	in := LineInput{
		Quantity:      dec("3"),
		UnitPrice:     dec("33.33"),
		DiscountType:  DiscountTypePercentage,
		DiscountValue: dec("7"),
		TaxRates: []TaxRateInput{
			{ID: 1, Code: "CGST", Rate: dec("2.5")},
			{ID: 2, Code: "SGST", Rate: dec("2.5")},
			{ID: 3, Code: "CESS", Rate: dec("1")},
		},
	}

	got := Compute(in)

	sum := decimal.Zero
	for _, line := range got.TaxLines {
		sum = sum.Add(line.TaxAmount)
	}
	assert.True(t, got.TotalTax.Equal(sum))
	assert.True(t, got.TotalAmount.Equal(got.Subtotal.Add(sum)))
}

func TestComputeIsIdempotent(t *testing.T) {
	in := LineInput{
		Quantity:      dec("5"),
		UnitPrice:     dec("19.99"),
		DiscountType:  DiscountTypeAmount,
		DiscountValue: dec("5"),
		TaxRates:      []TaxRateInput{{ID: 9, Code: "VAT", Rate: dec("21")}},
	}

	first := Compute(in)
	second := Compute(in)

	assert.True(t, first.BaseAmount.Equal(second.BaseAmount))
	assert.True(t, first.DiscountAmount.Equal(second.DiscountAmount))
	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.TotalTax.Equal(second.TotalTax))
	assert.True(t, first.TotalAmount.Equal(second.TotalAmount))
}

func TestRoundedKeepsTotalsConsistent(t *testing.T) {
	// 1/3-ish figures force rounding on every line.
	in := LineInput{
		Quantity:      dec("1"),
		UnitPrice:     dec("100.555"),
		DiscountType:  DiscountTypePercentage,
		DiscountValue: dec("3"),
		TaxRates: []TaxRateInput{
			{ID: 1, Code: "CGST", Rate: dec("9")},
			{ID: 2, Code: "SGST", Rate: dec("9")},
		},
	}

	rounded := Compute(in).Rounded()

	sum := decimal.Zero
	for _, line := range rounded.TaxLines {
		sum = sum.Add(line.TaxAmount)
	}
	assert.True(t, rounded.TotalTax.Equal(sum), "rounded total tax equals sum of rounded lines")
	assert.True(t, rounded.TotalAmount.Equal(rounded.Subtotal.Add(rounded.TotalTax)))
	assert.True(t, rounded.TaxLines[0].TaxAmount.Exponent() >= -2, "no sub-cent residue")
}

func TestSelectDefault(t *testing.T) {
	available := []TaxRateInput{
		{ID: 1, Code: "CGST", Rate: dec("9")},
		{ID: 2, Code: "SGST", Rate: dec("9")},
		{ID: 3, Code: "IGST", Rate: dec("18")},
	}

	t.Run("subset preserves available order", func(t *testing.T) {
		got := SelectDefault([]snowflake.ID{3, 1}, available)
		require.Len(t, got, 2)
		assert.Equal(t, snowflake.ID(1), got[0].ID)
		assert.Equal(t, snowflake.ID(3), got[1].ID)
	})

	t.Run("unknown ids are skipped", func(t *testing.T) {
		got := SelectDefault([]snowflake.ID{99}, available)
		assert.Nil(t, got)
	})

	t.Run("empty inputs yield nil", func(t *testing.T) {
		assert.Nil(t, SelectDefault(nil, available))
		assert.Nil(t, SelectDefault([]snowflake.ID{1}, nil))
	})
}

// Package pricing computes line item money breakdowns. It is pure: no
// persistence, no context, no tenant awareness. Callers pass every input
// explicitly and round only when they serialize or store the result.
package pricing

import (
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "PERCENTAGE"
	DiscountTypeAmount     DiscountType = "AMOUNT"
)

// TaxRateInput is one tax rate applied to a line. Rate is a percentage,
// so 9 means 9%.
type TaxRateInput struct {
	ID   snowflake.ID
	Code string
	Rate decimal.Decimal
}

// LineInput carries the raw figures for a single line computation.
type LineInput struct {
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
	TaxRates      []TaxRateInput
}

// TaxLine is the per-rate share of the subtotal.
type TaxLine struct {
	TaxID     snowflake.ID    `json:"tax_id"`
	TaxCode   string          `json:"tax_code"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
}

// Breakdown is the result of a line computation. Values are exact until
// Rounded is called.
type Breakdown struct {
	BaseAmount     decimal.Decimal `json:"base_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxLines       []TaxLine       `json:"tax_lines"`
	TotalTax       decimal.Decimal `json:"total_tax"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
}

var oneHundred = decimal.NewFromInt(100)

// Compute derives the money breakdown for one line.
//
// base    = quantity * unitPrice
// discount = base * value / 100 for percentage discounts, value otherwise
// subtotal = base - discount
// per rate: tax = subtotal * rate / 100
// total    = subtotal + sum(taxes)
//
// The subtotal is not clamped at zero: an amount discount larger than the
// base yields a negative subtotal and negative taxes. Percentage range
// checks belong to the input layer, not here. Calling Compute twice with
// the same input yields the same output.
func Compute(in LineInput) Breakdown {
	base := in.Quantity.Mul(in.UnitPrice)

	var discount decimal.Decimal
	switch in.DiscountType {
	case DiscountTypePercentage:
		discount = base.Mul(in.DiscountValue).Div(oneHundred)
	case DiscountTypeAmount:
		discount = in.DiscountValue
	default:
		discount = decimal.Zero
	}

	subtotal := base.Sub(discount)

	taxLines := make([]TaxLine, 0, len(in.TaxRates))
	totalTax := decimal.Zero
	for _, rate := range in.TaxRates {
		amount := subtotal.Mul(rate.Rate).Div(oneHundred)
		taxLines = append(taxLines, TaxLine{
			TaxID:     rate.ID,
			TaxCode:   rate.Code,
			TaxRate:   rate.Rate,
			TaxAmount: amount,
		})
		totalTax = totalTax.Add(amount)
	}

	return Breakdown{
		BaseAmount:     base,
		DiscountAmount: discount,
		Subtotal:       subtotal,
		TaxLines:       taxLines,
		TotalTax:       totalTax,
		TotalAmount:    subtotal.Add(totalTax),
	}
}

// Rounded returns the breakdown with every figure rounded to two decimal
// places, recomputing the totals from the rounded tax lines so the emitted
// numbers stay internally consistent. This is the single rounding point;
// Compute itself never rounds.
func (b Breakdown) Rounded() Breakdown {
	taxLines := make([]TaxLine, 0, len(b.TaxLines))
	totalTax := decimal.Zero
	for _, line := range b.TaxLines {
		amount := line.TaxAmount.Round(2)
		taxLines = append(taxLines, TaxLine{
			TaxID:     line.TaxID,
			TaxCode:   line.TaxCode,
			TaxRate:   line.TaxRate,
			TaxAmount: amount,
		})
		totalTax = totalTax.Add(amount)
	}

	subtotal := b.Subtotal.Round(2)

	return Breakdown{
		BaseAmount:     b.BaseAmount.Round(2),
		DiscountAmount: b.DiscountAmount.Round(2),
		Subtotal:       subtotal,
		TaxLines:       taxLines,
		TotalTax:       totalTax,
		TotalAmount:    subtotal.Add(totalTax),
	}
}

package calc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateDocumentTotals_ZeroItems(t *testing.T) {
	totals := CalculateDocumentTotals(nil, 0, 0, false)

	assert.Equal(t, 0.0, totals.Subtotal)
	assert.Equal(t, 0.0, totals.TotalLineDiscounts)
	assert.Equal(t, 0.0, totals.BaseBeforeGlobalDiscount)
	assert.Equal(t, 0.0, totals.GlobalDiscountAmount)
	assert.Equal(t, 0.0, totals.EffectiveBase)
	assert.Equal(t, 0.0, totals.TaxAmount)
	assert.Equal(t, 0.0, totals.RetentionAmount)
	assert.Equal(t, 0.0, totals.TotalAmount)
	assert.Empty(t, totals.TaxBreakdown)
}

func TestCalculateDocumentTotals_SingleLineNoTaxNoDiscount(t *testing.T) {
	items := []LineItem{{Quantity: 3, UnitPrice: 10}}

	totals := CalculateDocumentTotals(items, 0, 0, false)

	assert.Equal(t, 30.0, totals.Subtotal)
	assert.Equal(t, 30.0, totals.BaseBeforeGlobalDiscount)
	assert.Equal(t, 30.0, totals.EffectiveBase)
	assert.Equal(t, 30.0, totals.TotalAmount)
}

func TestCalculateLine_DiscountAmountWinsOverPercentage(t *testing.T) {
	values := CalculateLine(LineItem{
		Quantity:        1,
		UnitPrice:       100,
		DiscountAmount:  20,
		DiscountPercent: 50,
	})

	assert.Equal(t, 20.0, values.Discount)
	assert.Equal(t, 80.0, values.Base)
}

func TestCalculateLine_PercentageDiscountOnly(t *testing.T) {
	values := CalculateLine(LineItem{
		Quantity:        2,
		UnitPrice:       50,
		DiscountPercent: 10,
	})

	assert.Equal(t, 100.0, values.Gross)
	assert.Equal(t, 10.0, values.Discount)
	assert.Equal(t, 90.0, values.Base)
}

func TestCalculateLine_VATAndRetentionIndependent(t *testing.T) {
	values := CalculateLine(LineItem{
		Quantity:  1,
		UnitPrice: 100,
		Taxes: []TaxRate{
			{Name: "IVA", Rate: 21, Kind: TaxKindVAT},
			{Name: "IRPF", Rate: 15, Kind: TaxKindRetention},
		},
	})

	assert.Equal(t, 100.0, values.Base)
	assert.Equal(t, 21.0, values.TaxAmount)
	assert.Equal(t, 15.0, values.RetentionAmount)
	assert.Equal(t, 106.0, values.Total)
}

func TestCalculateDocumentTotals_GlobalPercentageDiscountScalesTaxes(t *testing.T) {
	items := []LineItem{{
		Quantity:  1,
		UnitPrice: 100,
		Taxes:     []TaxRate{{Name: "IVA", Rate: 21, Kind: TaxKindVAT}},
	}}

	totals := CalculateDocumentTotals(items, 50, 0, true)

	assert.Equal(t, 50.0, totals.GlobalDiscountAmount)
	assert.Equal(t, 50.0, totals.EffectiveBase)
	assert.InDelta(t, 10.5, totals.TaxAmount, 1e-9)
	assert.InDelta(t, 60.5, totals.TotalAmount, 1e-9)
	assert.InDelta(t, 10.5, totals.TaxBreakdown["IVA (21%)"], 1e-9)
}

func TestCalculateDocumentTotals_ShippingAddedUntaxedAfterDiscountAndTax(t *testing.T) {
	items := []LineItem{{
		Quantity:  1,
		UnitPrice: 100,
		Taxes:     []TaxRate{{Name: "IVA", Rate: 21, Kind: TaxKindVAT}},
	}}

	totals := CalculateDocumentTotals(items, 50, 5, true)

	assert.InDelta(t, 65.5, totals.TotalAmount, 1e-9)
	assert.Equal(t, 5.0, totals.ShippingCost)
}

func TestCalculateDocumentTotals_BreakdownMergesIdenticalKeys(t *testing.T) {
	iva := TaxRate{Name: "IVA", Rate: 21, Kind: TaxKindVAT}
	items := []LineItem{
		{Quantity: 1, UnitPrice: 100, Taxes: []TaxRate{iva}},
		{Quantity: 1, UnitPrice: 200, Taxes: []TaxRate{iva}},
	}

	totals := CalculateDocumentTotals(items, 0, 0, false)

	require.Len(t, totals.TaxBreakdown, 1)
	assert.InDelta(t, 63.0, totals.TaxBreakdown["IVA (21%)"], 1e-9)
	assert.InDelta(t, 63.0, totals.TaxAmount, 1e-9)
}

func TestCalculateDocumentTotals_RetentionNegativeInBreakdown(t *testing.T) {
	items := []LineItem{{
		Quantity:  1,
		UnitPrice: 100,
		Taxes: []TaxRate{
			{Name: "IVA", Rate: 21, Kind: TaxKindVAT},
			{Name: "IRPF", Rate: 15, Kind: TaxKindRetention},
		},
	}}

	totals := CalculateDocumentTotals(items, 0, 0, false)

	assert.InDelta(t, 21.0, totals.TaxBreakdown["IVA (21%)"], 1e-9)
	assert.InDelta(t, -15.0, totals.TaxBreakdown["IRPF (15%)"], 1e-9)
	assert.InDelta(t, 106.0, totals.TotalAmount, 1e-9)
}

func TestCalculateDocumentTotals_AbsoluteGlobalDiscount(t *testing.T) {
	items := []LineItem{{
		Quantity:  2,
		UnitPrice: 100,
		Taxes:     []TaxRate{{Name: "IVA", Rate: 10, Kind: TaxKindVAT}},
	}}

	totals := CalculateDocumentTotals(items, 40, 0, false)

	assert.Equal(t, 40.0, totals.GlobalDiscountAmount)
	assert.Equal(t, 160.0, totals.EffectiveBase)
	// factor = 1 - 40/200 = 0.8, tax = 20 * 0.8
	assert.InDelta(t, 16.0, totals.TaxAmount, 1e-9)
	assert.InDelta(t, 176.0, totals.TotalAmount, 1e-9)
}

func TestCalculateDocumentTotals_NoClampOnNegativeEffectiveBase(t *testing.T) {
	items := []LineItem{{Quantity: 1, UnitPrice: 100}}

	totals := CalculateDocumentTotals(items, 150, 0, false)

	assert.Equal(t, -50.0, totals.EffectiveBase)
	assert.Equal(t, -50.0, totals.TotalAmount)
}

func TestCalculateDocumentTotals_Idempotent(t *testing.T) {
	items := []LineItem{
		{Quantity: 3, UnitPrice: 19.99, DiscountPercent: 5, Taxes: []TaxRate{
			{Name: "IVA", Rate: 21, Kind: TaxKindVAT},
			{Name: "IRPF", Rate: 7, Kind: TaxKindRetention},
		}},
		{Quantity: 1, UnitPrice: -10},
	}

	first := CalculateDocumentTotals(items, 12.5, 4.95, true)
	second := CalculateDocumentTotals(items, 12.5, 4.95, true)

	assert.Equal(t, first, second)
}

func TestLineItem_CoercesMalformedJSON(t *testing.T) {
	var item LineItem
	err := json.Unmarshal([]byte(`{"quantity":"abc","unit_price":null,"discount_percent":"7.5"}`), &item)

	require.NoError(t, err)
	assert.Equal(t, Number(0), item.Quantity)
	assert.Equal(t, Number(0), item.UnitPrice)
	assert.Equal(t, Number(7.5), item.DiscountPercent)

	values := CalculateLine(item)
	assert.Equal(t, 0.0, values.Gross)
	assert.Equal(t, 0.0, values.Total)
}

func TestCalculateTaxLines_MatchesBreakdown(t *testing.T) {
	items := []LineItem{
		{Quantity: 1, UnitPrice: 100, Taxes: []TaxRate{
			{Name: "IVA", Rate: 21, Kind: TaxKindVAT},
			{Name: "IRPF", Rate: 15, Kind: TaxKindRetention},
		}},
		{Quantity: 2, UnitPrice: 50, Taxes: []TaxRate{
			{Name: "IVA", Rate: 21, Kind: TaxKindVAT},
		}},
	}

	lines := CalculateTaxLines(items, 50, true)
	totals := CalculateDocumentTotals(items, 50, 0, true)

	require.Len(t, lines, 2)
	assert.Equal(t, "IVA", lines[0].Name)
	assert.Equal(t, TaxKindVAT, lines[0].Kind)
	assert.InDelta(t, totals.TaxBreakdown[BreakdownKey("IVA", 21)], lines[0].Amount, 1e-9)
	assert.Equal(t, "IRPF", lines[1].Name)
	assert.Equal(t, TaxKindRetention, lines[1].Kind)
	assert.InDelta(t, totals.TaxBreakdown[BreakdownKey("IRPF", 15)], lines[1].Amount, 1e-9)
	assert.Less(t, lines[1].Amount, 0.0)
}

func TestBreakdownKey_TrimsTrailingZeros(t *testing.T) {
	assert.Equal(t, "IVA (21%)", BreakdownKey("IVA", 21))
	assert.Equal(t, "IGIC (6.5%)", BreakdownKey("IGIC", 6.5))
}

package calc

import "strconv"

// LineValues is the monetary breakdown of a single line, independent
// of document-level adjustments. Base is the net/taxable value of the
// line and is the figure persisted as the line's stored total.
type LineValues struct {
	Gross           float64 `json:"gross"`
	Discount        float64 `json:"discount"`
	Base            float64 `json:"base"`
	TaxAmount       float64 `json:"tax_amount"`
	RetentionAmount float64 `json:"retention_amount"`
	Total           float64 `json:"total"`
}

// DocumentTotals aggregates every line plus the document-level
// discount and shipping. TaxAmount and RetentionAmount are already
// scaled by the global-discount factor, as is every TaxBreakdown
// entry (retention contributions are negative).
type DocumentTotals struct {
	Subtotal                 float64            `json:"subtotal"`
	TotalLineDiscounts       float64            `json:"total_line_discounts"`
	BaseBeforeGlobalDiscount float64            `json:"base_before_global_discount"`
	GlobalDiscountAmount     float64            `json:"global_discount_amount"`
	EffectiveBase            float64            `json:"effective_base"`
	TaxAmount                float64            `json:"tax_amount"`
	RetentionAmount          float64            `json:"retention_amount"`
	ShippingCost             float64            `json:"shipping_cost"`
	TotalAmount              float64            `json:"total_amount"`
	TaxBreakdown             map[string]float64 `json:"tax_breakdown"`
}

// CalculateLine computes the monetary breakdown of one line item.
//
// An absolute discount wins outright over a percentage one. Taxes are
// computed independently on the same base; VAT adds to the line total,
// retention subtracts from it.
func CalculateLine(item LineItem) LineValues {
	gross := float64(item.Quantity) * float64(item.UnitPrice)

	var discount float64
	switch {
	case item.DiscountAmount > 0:
		discount = float64(item.DiscountAmount)
	case item.DiscountPercent > 0:
		discount = gross * float64(item.DiscountPercent) / 100
	}

	base := gross - discount

	var tax, retention float64
	for _, t := range item.Taxes {
		amount := base * float64(t.Rate) / 100
		if t.Kind == TaxKindRetention {
			retention += amount
		} else {
			tax += amount
		}
	}

	return LineValues{
		Gross:           gross,
		Discount:        discount,
		Base:            base,
		TaxAmount:       tax,
		RetentionAmount: retention,
		Total:           base + tax - retention,
	}
}

// CalculateDocumentTotals aggregates all lines and applies the
// document-level discount and shipping.
//
// The global discount shrinks the taxable base of every line equally,
// so tax and retention totals computed on the undiscounted base are
// scaled by the surviving fraction of that base. Shipping is added
// last, untaxed and undiscounted. Negative results are not clamped;
// validating discount inputs is the caller's job.
func CalculateDocumentTotals(items []LineItem, globalDiscount, shipping float64, discountIsPercent bool) DocumentTotals {
	var subtotal, lineDiscounts, totalTax, totalRetention float64
	breakdown := make(map[string]float64)

	for _, item := range items {
		values := CalculateLine(item)
		subtotal += values.Gross
		lineDiscounts += values.Discount

		for _, t := range item.Taxes {
			amount := values.Base * float64(t.Rate) / 100
			key := BreakdownKey(t.Name, float64(t.Rate))
			if t.Kind == TaxKindRetention {
				breakdown[key] -= amount
				totalRetention += amount
			} else {
				breakdown[key] += amount
				totalTax += amount
			}
		}
	}

	base := subtotal - lineDiscounts

	globalDiscountAmount := globalDiscount
	if discountIsPercent {
		globalDiscountAmount = base * globalDiscount / 100
	}

	// Fraction of the pre-discount taxable base that survives the
	// global discount. Guarded so an empty or fully discounted
	// document never divides by zero.
	factor := 1.0
	if base > 0 {
		factor = 1 - globalDiscountAmount/base
	}

	for key := range breakdown {
		breakdown[key] *= factor
	}

	effectiveBase := base - globalDiscountAmount
	taxAmount := totalTax * factor
	retentionAmount := totalRetention * factor

	return DocumentTotals{
		Subtotal:                 subtotal,
		TotalLineDiscounts:       lineDiscounts,
		BaseBeforeGlobalDiscount: base,
		GlobalDiscountAmount:     globalDiscountAmount,
		EffectiveBase:            effectiveBase,
		TaxAmount:                taxAmount,
		RetentionAmount:          retentionAmount,
		ShippingCost:             shipping,
		TotalAmount:              effectiveBase + taxAmount - retentionAmount + shipping,
		TaxBreakdown:             breakdown,
	}
}

// TaxLine is one structured entry of the adjusted tax breakdown.
// Amount carries the same sign convention as TaxBreakdown: retention
// contributions are negative.
type TaxLine struct {
	Name   string  `json:"name"`
	Rate   float64 `json:"rate"`
	Kind   TaxKind `json:"kind"`
	Amount float64 `json:"amount"`
}

// CalculateTaxLines returns the adjusted breakdown as structured lines,
// ordered by first appearance across the items. Amounts match the
// TaxBreakdown entries of CalculateDocumentTotals for the same inputs.
func CalculateTaxLines(items []LineItem, globalDiscount float64, discountIsPercent bool) []TaxLine {
	var subtotal, lineDiscounts float64
	index := make(map[string]int)
	var lines []TaxLine

	for _, item := range items {
		values := CalculateLine(item)
		subtotal += values.Gross
		lineDiscounts += values.Discount

		for _, t := range item.Taxes {
			amount := values.Base * float64(t.Rate) / 100
			if t.Kind == TaxKindRetention {
				amount = -amount
			}

			key := BreakdownKey(t.Name, float64(t.Rate))
			if i, ok := index[key]; ok {
				lines[i].Amount += amount
				continue
			}
			index[key] = len(lines)
			lines = append(lines, TaxLine{
				Name:   t.Name,
				Rate:   float64(t.Rate),
				Kind:   t.Kind,
				Amount: amount,
			})
		}
	}

	base := subtotal - lineDiscounts

	globalDiscountAmount := globalDiscount
	if discountIsPercent {
		globalDiscountAmount = base * globalDiscount / 100
	}

	factor := 1.0
	if base > 0 {
		factor = 1 - globalDiscountAmount/base
	}

	for i := range lines {
		lines[i].Amount *= factor
	}

	return lines
}

// BreakdownKey builds the display key a tax accumulates under, e.g.
// "IVA (21%)". Rates print without trailing zeros so 21 and 21.0
// merge into the same bucket.
func BreakdownKey(name string, rate float64) string {
	return name + " (" + strconv.FormatFloat(rate, 'f', -1, 64) + "%)"
}

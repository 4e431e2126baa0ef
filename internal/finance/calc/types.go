// Package calc computes line and document totals for financial
// documents (invoices, quotes, expenses). Everything in this package
// is pure: no state, no I/O, no error paths. Malformed numeric input
// coerces to zero so the engine stays total even for half-typed draft
// data coming from a live editor.
package calc

import (
	"math"
	"strconv"
	"strings"
)

// Number is a float64 that tolerates sloppy JSON: numbers, quoted
// numbers, null and garbage all decode without error, with anything
// non-numeric coercing to 0.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		*n = 0
		return nil
	}
	raw = strings.Trim(raw, `"`)

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		*n = 0
		return nil
	}
	*n = Number(value)
	return nil
}

// TaxKind distinguishes taxes that increase the payable total from
// retentions (withholding) that decrease it.
type TaxKind string

const (
	TaxKindVAT       TaxKind = "vat"
	TaxKindRetention TaxKind = "retention"
)

// TaxRate is a named percentage applied to a line's taxable base.
// Name is a display label, not an identifier: entries with the same
// name and rate on different lines merge in the document breakdown.
type TaxRate struct {
	Name string  `json:"name"`
	Rate Number  `json:"rate"`
	Kind TaxKind `json:"kind"`
}

// LineItem is one row of a financial document. DiscountAmount wins
// over DiscountPercent when both are set. Taxes apply independently
// to the line's base; they never cascade on each other.
type LineItem struct {
	Description     string    `json:"description,omitempty"`
	Quantity        Number    `json:"quantity"`
	UnitPrice       Number    `json:"unit_price"`
	DiscountAmount  Number    `json:"discount_amount,omitempty"`
	DiscountPercent Number    `json:"discount_percent,omitempty"`
	Taxes           []TaxRate `json:"taxes,omitempty"`
}

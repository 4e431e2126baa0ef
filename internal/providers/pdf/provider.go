package pdf

import (
	"context"
	"io"
)

// RenderInput carries everything the renderer prints. Amounts arrive
// preformatted so the renderer stays free of money formatting rules.
type RenderInput struct {
	Title          string
	DocumentNumber string
	IssueDate      string
	DueDate        string
	Currency       string

	OrgName    string
	OrgAddress string
	OrgTaxID   string
	OrgEmail   string

	BillToName    string
	BillToAddress string
	BillToTaxID   string

	Items []RenderItem

	Subtotal       string
	GlobalDiscount string
	Shipping       string
	Total          string

	TaxLines []RenderTaxLine

	Notes string
}

type RenderItem struct {
	Description string
	Qty         string
	UnitPrice   string
	Discount    string
	Amount      string
}

type RenderTaxLine struct {
	Label  string
	Amount string
}

type Provider interface {
	RenderDocument(ctx context.Context, input RenderInput) (io.Reader, error)
}

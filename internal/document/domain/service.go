package domain

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/finance/calc"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/pkg/db/pagination"
)

type Service interface {
	// Preview runs the totals engine over an unsaved payload. It never
	// fails; malformed numerics have already been coerced to zero.
	Preview(req PreviewRequest) calc.DocumentTotals

	Create(ctx context.Context, req CreateRequest) (*DocumentResponse, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*DocumentResponse, error)
	GetByID(ctx context.Context, id string) (*DocumentResponse, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)

	Finalize(ctx context.Context, id string) (*DocumentResponse, error)
	Void(ctx context.Context, id string) (*DocumentResponse, error)
	MarkPaid(ctx context.Context, id string) (*DocumentResponse, error)
	ConvertQuote(ctx context.Context, id string) (*DocumentResponse, error)
}

// ItemInput is a document line as submitted by clients. Numeric fields
// decode leniently; anything malformed becomes zero.
type ItemInput struct {
	Description     string         `json:"description"`
	Quantity        calc.Number    `json:"quantity"`
	UnitPrice       calc.Number    `json:"unit_price"`
	DiscountAmount  calc.Number    `json:"discount_amount"`
	DiscountPercent calc.Number    `json:"discount_percentage"`
	Taxes           []calc.TaxRate `json:"taxes"`
}

// AsLineItem converts the input into engine input.
func (i ItemInput) AsLineItem() calc.LineItem {
	return calc.LineItem{
		Description:     i.Description,
		Quantity:        i.Quantity,
		UnitPrice:       i.UnitPrice,
		DiscountAmount:  i.DiscountAmount,
		DiscountPercent: i.DiscountPercent,
		Taxes:           i.Taxes,
	}
}

type PreviewRequest struct {
	Items                   []ItemInput `json:"items"`
	GlobalDiscount          calc.Number `json:"global_discount"`
	GlobalDiscountIsPercent bool        `json:"global_discount_is_percent"`
	ShippingCost            calc.Number `json:"shipping_cost"`
}

// LineItems converts the request's items into engine input.
func (r PreviewRequest) LineItems() []calc.LineItem {
	items := make([]calc.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, item.AsLineItem())
	}
	return items
}

type CreateRequest struct {
	Kind                    DocumentKind      `json:"kind" binding:"required"`
	ContactID               string            `json:"contact_id"`
	Currency                string            `json:"currency"`
	Notes                   string            `json:"notes"`
	IssueDate               *time.Time        `json:"issue_date"`
	DueDate                 *time.Time        `json:"due_date"`
	Items                   []ItemInput       `json:"items"`
	GlobalDiscount          calc.Number       `json:"global_discount"`
	GlobalDiscountIsPercent bool              `json:"global_discount_is_percent"`
	ShippingCost            calc.Number       `json:"shipping_cost"`
	Metadata                datatypes.JSONMap `json:"metadata"`
}

type UpdateRequest struct {
	ContactID               *string           `json:"contact_id"`
	Currency                *string           `json:"currency"`
	Notes                   *string           `json:"notes"`
	IssueDate               *time.Time        `json:"issue_date"`
	DueDate                 *time.Time        `json:"due_date"`
	Items                   []ItemInput       `json:"items"`
	GlobalDiscount          calc.Number       `json:"global_discount"`
	GlobalDiscountIsPercent bool              `json:"global_discount_is_percent"`
	ShippingCost            calc.Number       `json:"shipping_cost"`
	Metadata                datatypes.JSONMap `json:"metadata"`
}

type ListRequest struct {
	pagination.Pagination
	Kind         *DocumentKind   `form:"kind"`
	Status       *DocumentStatus `form:"status"`
	ContactID    *string         `form:"contact_id"`
	IssuedAfter  *time.Time      `form:"issued_after" time_format:"2006-01-02"`
	IssuedBefore *time.Time      `form:"issued_before" time_format:"2006-01-02"`
}

type ListResponse struct {
	Documents []Document          `json:"documents"`
	PageInfo  pagination.PageInfo `json:"page_info"`
}

// DocumentResponse is a document with its lines, live totals and, once
// finalized, its snapshotted tax lines.
type DocumentResponse struct {
	Document Document            `json:"document"`
	Items    []DocumentItem      `json:"items"`
	Totals   calc.DocumentTotals `json:"totals"`
	TaxLines []DocumentTaxLine   `json:"tax_lines,omitempty"`
}

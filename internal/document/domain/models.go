// Package domain contains persistence models for financial documents.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"

	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/finance/calc"
)

// DocumentKind distinguishes the document families sharing one table.
type DocumentKind string

const (
	DocumentKindInvoice DocumentKind = "invoice"
	DocumentKindQuote   DocumentKind = "quote"
	DocumentKindExpense DocumentKind = "expense"
)

func (k DocumentKind) Valid() bool {
	switch k {
	case DocumentKindInvoice, DocumentKindQuote, DocumentKindExpense:
		return true
	}
	return false
}

// DocumentStatus represents document lifecycle states.
type DocumentStatus string

const (
	DocumentStatusDraft DocumentStatus = "draft"
	DocumentStatusFinal DocumentStatus = "final"
	DocumentStatusPaid  DocumentStatus = "paid"
	DocumentStatusVoid  DocumentStatus = "void"
)

// Document represents an invoice, quote or expense. Totals columns are
// always recomputed server side before writing.
type Document struct {
	ID     snowflake.ID   `gorm:"primaryKey" json:"id"`
	OrgID  snowflake.ID   `gorm:"not null;index;uniqueIndex:ux_documents_org_kind_seq,priority:1" json:"organization_id"`
	Kind   DocumentKind   `gorm:"type:text;not null;uniqueIndex:ux_documents_org_kind_seq,priority:2" json:"kind"`
	Status DocumentStatus `gorm:"type:text;not null;default:'draft'" json:"status"`

	ContactID *snowflake.ID `gorm:"index" json:"contact_id,omitempty"`
	Currency  string        `gorm:"type:varchar(3);not null" json:"currency"`
	Notes     string        `gorm:"type:text" json:"notes,omitempty"`
	IssueDate *time.Time    `gorm:"" json:"issue_date,omitempty"`
	DueDate   *time.Time    `gorm:"" json:"due_date,omitempty"`

	GlobalDiscount          float64 `gorm:"not null;default:0" json:"global_discount"`
	GlobalDiscountIsPercent bool    `gorm:"not null;default:false" json:"global_discount_is_percent"`
	ShippingCost            float64 `gorm:"not null;default:0" json:"shipping_cost"`

	Subtotal             float64 `gorm:"not null;default:0" json:"subtotal"`
	GlobalDiscountAmount float64 `gorm:"not null;default:0" json:"global_discount_amount"`
	TaxAmount            float64 `gorm:"not null;default:0" json:"tax_amount"`
	RetentionAmount      float64 `gorm:"not null;default:0" json:"retention_amount"`
	TotalAmount          float64 `gorm:"not null;default:0" json:"total_amount"`

	DocumentNumber *string `gorm:"column:document_number;type:text" json:"document_number,omitempty"`
	SequenceNumber *int64  `gorm:"column:sequence_number;uniqueIndex:ux_documents_org_kind_seq,priority:3" json:"sequence_number,omitempty"`

	ConvertedToID *snowflake.ID `gorm:"column:converted_to_id;index" json:"converted_to_id,omitempty"`

	FinalizedAt *time.Time        `gorm:"" json:"finalized_at,omitempty"`
	PaidAt      *time.Time        `gorm:"" json:"paid_at,omitempty"`
	VoidedAt    *time.Time        `gorm:"" json:"voided_at,omitempty"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Document) TableName() string { return "documents" }

// DocumentItem represents a line on a document. Amount holds the line's
// taxable base after its own discount.
type DocumentItem struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID      snowflake.ID `gorm:"not null;index" json:"organization_id"`
	DocumentID snowflake.ID `gorm:"not null;index" json:"document_id"`
	Position   int          `gorm:"not null;default:0" json:"position"`

	Description     string         `gorm:"type:text" json:"description"`
	Quantity        float64        `gorm:"not null;default:0" json:"quantity"`
	UnitPrice       float64        `gorm:"not null;default:0" json:"unit_price"`
	DiscountAmount  float64        `gorm:"not null;default:0" json:"discount_amount"`
	DiscountPercent float64        `gorm:"not null;default:0" json:"discount_percentage"`
	Taxes           []calc.TaxRate `gorm:"serializer:json;type:text" json:"taxes"`
	Amount          float64        `gorm:"not null;default:0" json:"amount"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (DocumentItem) TableName() string { return "document_items" }

// AsLineItem converts the stored line back into engine input.
func (i DocumentItem) AsLineItem() calc.LineItem {
	return calc.LineItem{
		Description:     i.Description,
		Quantity:        calc.Number(i.Quantity),
		UnitPrice:       calc.Number(i.UnitPrice),
		DiscountAmount:  calc.Number(i.DiscountAmount),
		DiscountPercent: calc.Number(i.DiscountPercent),
		Taxes:           i.Taxes,
	}
}

// DocumentTaxLine captures one adjusted tax contribution at
// finalization. Retention amounts are stored negative.
type DocumentTaxLine struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID      snowflake.ID `gorm:"not null;index" json:"organization_id"`
	DocumentID snowflake.ID `gorm:"not null;index" json:"document_id"`
	TaxName    string       `gorm:"type:text;not null" json:"tax_name"`
	TaxKind    calc.TaxKind `gorm:"type:text;not null" json:"tax_kind"`
	TaxRate    float64      `gorm:"not null" json:"tax_rate"`
	Amount     float64      `gorm:"not null" json:"amount"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (DocumentTaxLine) TableName() string { return "document_tax_lines" }

package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/finance/calc"
)

// TaxDefinition is an org-scoped named tax rate offered when editing
// document lines. Code is a stable identifier (immutable once
// created); name is UI-facing and editable.
type TaxDefinition struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID snowflake.ID `gorm:"column:org_id;not null;index" json:"organization_id"`

	Name string       `gorm:"type:text;not null" json:"name"`
	Code string       `gorm:"type:text;not null" json:"code"`
	Kind calc.TaxKind `gorm:"type:text;not null" json:"kind"`
	Rate float64      `gorm:"type:numeric(6,3);not null" json:"rate"` // percentage, e.g. 21 for 21%

	Description *string `gorm:"type:text" json:"description,omitempty"`

	IsDefault bool `gorm:"column:is_default;not null;default:false" json:"is_default"`
	IsEnabled bool `gorm:"column:is_enabled;not null;default:true" json:"is_enabled"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (TaxDefinition) TableName() string { return "tax_definitions" }

func (t *TaxDefinition) Validate() error {
	if t.Name == "" {
		return ErrInvalidName
	}
	if t.Kind != calc.TaxKindVAT && t.Kind != calc.TaxKindRetention {
		return ErrInvalidTaxKind
	}
	if t.Rate < 0 || t.Rate > 100 {
		return ErrInvalidTaxRate
	}
	return nil
}

// AsRate converts the definition into the engine's tax rate value.
func (t TaxDefinition) AsRate() calc.TaxRate {
	return calc.TaxRate{
		Name: t.Name,
		Rate: calc.Number(t.Rate),
		Kind: t.Kind,
	}
}

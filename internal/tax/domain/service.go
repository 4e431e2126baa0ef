package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/finance/calc"
)

// TaxResolver returns the default tax rates applied to new document
// lines of an org.
type TaxResolver interface {
	DefaultsForOrg(ctx context.Context, orgID snowflake.ID) ([]TaxDefinition, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Disable(ctx context.Context, id string) (*Response, error)
}

type ListRequest struct {
	Name      string
	Code      string
	Kind      string
	IsEnabled *bool
	SortBy    string
	OrderBy   string
}

type CreateRequest struct {
	Name        string       `json:"name"`
	Code        string       `json:"code"`
	Kind        calc.TaxKind `json:"kind"`
	Rate        float64      `json:"rate"`
	Description *string      `json:"description"`
	IsDefault   *bool        `json:"is_default"`
	IsEnabled   *bool        `json:"is_enabled"`
}

type UpdateRequest struct {
	ID          string   `json:"id"`
	Name        *string  `json:"name,omitempty"`
	Rate        *float64 `json:"rate,omitempty"`
	Description *string  `json:"description,omitempty"`
	IsDefault   *bool    `json:"is_default,omitempty"`
}

type Response struct {
	ID             string       `json:"id"`
	OrganizationID string       `json:"organization_id"`
	Name           string       `json:"name"`
	Code           string       `json:"code"`
	Kind           calc.TaxKind `json:"kind"`
	Rate           float64      `json:"rate"`
	Description    *string      `json:"description,omitempty"`
	IsDefault      bool         `json:"is_default"`
	IsEnabled      bool         `json:"is_enabled"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

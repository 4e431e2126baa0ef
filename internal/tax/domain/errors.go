package domain

import "errors"

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
	ErrInvalidTaxCode      = errors.New("invalid_tax_code")
	ErrInvalidTaxKind      = errors.New("invalid_tax_kind")
	ErrInvalidTaxRate      = errors.New("invalid_tax_rate")
	ErrDuplicateTaxCode    = errors.New("duplicate_tax_code")
)

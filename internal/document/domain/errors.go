package domain

import "errors"

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_document_id")
	ErrInvalidKind         = errors.New("invalid_document_kind")
	ErrInvalidContact      = errors.New("invalid_contact")
	ErrContactRequired     = errors.New("contact_required")
	ErrNotFound            = errors.New("document_not_found")
	ErrNotDraft            = errors.New("document_not_draft")
	ErrNotFinal            = errors.New("document_not_final")
	ErrNotQuote            = errors.New("document_not_quote")
	ErrAlreadyConverted    = errors.New("quote_already_converted")
	ErrNotFinalizable      = errors.New("document_not_finalizable")
)

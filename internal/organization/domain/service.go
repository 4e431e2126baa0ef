package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateOrganizationRequest) (*OrganizationResponse, error)
	GetByID(ctx context.Context, id string) (*OrganizationResponse, error)
	List(ctx context.Context) ([]OrganizationResponse, error)
	Update(ctx context.Context, id string, req UpdateOrganizationRequest) (*OrganizationResponse, error)
}

type CreateOrganizationRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email"`
	TaxNumber       string `json:"tax_number"`
	Address         string `json:"address"`
	City            string `json:"city"`
	Country         string `json:"country"`
	DefaultCurrency string `json:"default_currency"`
}

type UpdateOrganizationRequest struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	TaxNumber       *string `json:"tax_number"`
	Address         *string `json:"address"`
	City            *string `json:"city"`
	Country         *string `json:"country"`
	DefaultCurrency *string `json:"default_currency"`
}

type OrganizationResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Email           string    `json:"email,omitempty"`
	TaxNumber       string    `json:"tax_number,omitempty"`
	Address         string    `json:"address,omitempty"`
	City            string    `json:"city,omitempty"`
	Country         string    `json:"country,omitempty"`
	DefaultCurrency string    `json:"default_currency"`
	IsDefault       bool      `json:"is_default"`
	CreatedAt       time.Time `json:"created_at"`
}

var (
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidCurrency     = errors.New("invalid_currency")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrDuplicateSlug       = errors.New("duplicate_slug")
	ErrNotFound            = errors.New("organization_not_found")
)

// Package domain contains persistence models for the organization service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Organization represents a tenant. Its profile fields are the issuer
// block printed on documents.
type Organization struct {
	ID              snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name            string            `gorm:"type:text;not null" json:"name"`
	Slug            string            `gorm:"type:text;not null;uniqueIndex:ux_organizations_slug" json:"slug"`
	Email           string            `gorm:"type:text" json:"email,omitempty"`
	TaxNumber       string            `gorm:"column:tax_number;type:text" json:"tax_number,omitempty"`
	Address         string            `gorm:"type:text" json:"address,omitempty"`
	City            string            `gorm:"type:text" json:"city,omitempty"`
	Country         string            `gorm:"type:text" json:"country,omitempty"`
	DefaultCurrency string            `gorm:"column:default_currency;type:varchar(3);not null;default:'EUR'" json:"default_currency"`
	IsDefault       bool              `gorm:"column:is_default" json:"is_default"`
	Metadata        datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }

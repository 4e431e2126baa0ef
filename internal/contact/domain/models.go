package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Contact is the bill-to party of financial documents.
type Contact struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID      `gorm:"not null;index" json:"organization_id"`
	Name      string            `gorm:"not null" json:"name"`
	Email     string            `gorm:"type:text" json:"email,omitempty"`
	Phone     string            `gorm:"type:text" json:"phone,omitempty"`
	Company   string            `gorm:"type:text" json:"company,omitempty"`
	TaxNumber string            `gorm:"column:tax_number;type:text" json:"tax_number,omitempty"`
	Address   string            `gorm:"type:text" json:"address,omitempty"`
	City      string            `gorm:"type:text" json:"city,omitempty"`
	Country   string            `gorm:"type:text" json:"country,omitempty"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Contact) TableName() string { return "contacts" }

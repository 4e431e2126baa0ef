package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"

	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Contact, error)
	GetByID(ctx context.Context, id snowflake.ID) (*Contact, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateRequest) (*Contact, error)
}

type CreateRequest struct {
	Name      string            `json:"name" binding:"required"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	Company   string            `json:"company"`
	TaxNumber string            `json:"tax_number"`
	Address   string            `json:"address"`
	City      string            `json:"city"`
	Country   string            `json:"country"`
	Metadata  datatypes.JSONMap `json:"metadata"`
}

type UpdateRequest struct {
	Name      *string            `json:"name"`
	Email     *string            `json:"email"`
	Phone     *string            `json:"phone"`
	Company   *string            `json:"company"`
	TaxNumber *string            `json:"tax_number"`
	Address   *string            `json:"address"`
	City      *string            `json:"city"`
	Country   *string            `json:"country"`
	Metadata  *datatypes.JSONMap `json:"metadata"`
}

type ListRequest struct {
	pagination.Pagination
	Query string `form:"q"`
}

type ListResponse struct {
	Contacts []Contact           `json:"contacts"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

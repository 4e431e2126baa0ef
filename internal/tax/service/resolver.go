package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/tax/domain"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/tax/repository"
	"gorm.io/gorm"
)

type resolver struct {
	db   *gorm.DB
	repo repository.Repository
}

func NewResolver(db *gorm.DB) domain.TaxResolver {
	return &resolver{db: db, repo: repository.NewRepository()}
}

func (r *resolver) DefaultsForOrg(ctx context.Context, orgID snowflake.ID) ([]domain.TaxDefinition, error) {
	if orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	enabled := true
	defs, err := r.repo.List(ctx, r.db, orgID, domain.ListRequest{IsEnabled: &enabled})
	if err != nil {
		return nil, err
	}

	out := make([]domain.TaxDefinition, 0, len(defs))
	for _, def := range defs {
		if def == nil || !def.IsDefault {
			continue
		}
		out = append(out, *def)
	}
	return out, nil
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/organization/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db    *gorm.DB
	repo  domain.Repository
	genID *snowflake.Node
	log   *zap.Logger
}

func NewService(db *gorm.DB, repo domain.Repository, genID *snowflake.Node, log *zap.Logger) domain.Service {
	return &service{
		db:    db,
		repo:  repo,
		genID: genID,
		log:   log.Named("organization.service"),
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateOrganizationRequest) (*domain.OrganizationResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	currency := strings.ToUpper(strings.TrimSpace(req.DefaultCurrency))
	if currency == "" {
		currency = "EUR"
	}
	if len(currency) != 3 {
		return nil, domain.ErrInvalidCurrency
	}

	orgSlug := slug.Make(name)
	existing, err := s.repo.FindBySlug(ctx, orgSlug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateSlug
	}

	now := time.Now().UTC()
	org := domain.Organization{
		ID:              s.genID.Generate(),
		Name:            name,
		Slug:            orgSlug,
		Email:           strings.TrimSpace(req.Email),
		TaxNumber:       strings.TrimSpace(req.TaxNumber),
		Address:         req.Address,
		City:            req.City,
		Country:         req.Country,
		DefaultCurrency: currency,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, &org); err != nil {
		return nil, err
	}

	s.log.Info("organization created",
		zap.String("organization_id", org.ID.String()),
		zap.String("slug", org.Slug),
	)

	resp := toResponse(org)
	return &resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*domain.OrganizationResponse, error) {
	orgID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	org, err := s.repo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}

	resp := toResponse(*org)
	return &resp, nil
}

func (s *service) List(ctx context.Context) ([]domain.OrganizationResponse, error) {
	orgs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.OrganizationResponse, 0, len(orgs))
	for _, org := range orgs {
		resp = append(resp, toResponse(org))
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, id string, req domain.UpdateOrganizationRequest) (*domain.OrganizationResponse, error) {
	orgID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	org, err := s.repo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		org.Name = name
	}
	if req.Email != nil {
		org.Email = strings.TrimSpace(*req.Email)
	}
	if req.TaxNumber != nil {
		org.TaxNumber = strings.TrimSpace(*req.TaxNumber)
	}
	if req.Address != nil {
		org.Address = *req.Address
	}
	if req.City != nil {
		org.City = *req.City
	}
	if req.Country != nil {
		org.Country = *req.Country
	}
	if req.DefaultCurrency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*req.DefaultCurrency))
		if len(currency) != 3 {
			return nil, domain.ErrInvalidCurrency
		}
		org.DefaultCurrency = currency
	}
	org.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, org); err != nil {
		return nil, err
	}

	resp := toResponse(*org)
	return &resp, nil
}

func parseID(raw string) (snowflake.ID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, domain.ErrInvalidOrganization
	}
	id, err := snowflake.ParseString(trimmed)
	if err != nil {
		return 0, domain.ErrInvalidOrganization
	}
	return id, nil
}

func toResponse(org domain.Organization) domain.OrganizationResponse {
	return domain.OrganizationResponse{
		ID:              org.ID.String(),
		Name:            org.Name,
		Slug:            org.Slug,
		Email:           org.Email,
		TaxNumber:       org.TaxNumber,
		Address:         org.Address,
		City:            org.City,
		Country:         org.Country,
		DefaultCurrency: org.DefaultCurrency,
		IsDefault:       org.IsDefault,
		CreatedAt:       org.CreatedAt,
	}
}

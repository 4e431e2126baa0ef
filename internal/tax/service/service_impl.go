package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/orgcontext"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/tax/domain"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/tax/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  repository.Repository
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("tax.service"),
		genID: p.GenID,
		repo:  repository.NewRepository(),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		code = slug.Make(req.Name)
	}
	if code == "" {
		return nil, domain.ErrInvalidTaxCode
	}

	now := time.Now().UTC()
	def := domain.TaxDefinition{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		Name:        strings.TrimSpace(req.Name),
		Code:        code,
		Kind:        req.Kind,
		Rate:        req.Rate,
		Description: req.Description,
		IsDefault:   req.IsDefault != nil && *req.IsDefault,
		IsEnabled:   req.IsEnabled == nil || *req.IsEnabled,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByCode(ctx, s.db, orgID, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateTaxCode
	}

	if err := s.repo.Insert(ctx, s.db, &def); err != nil {
		return nil, err
	}

	s.log.Info("tax definition created",
		zap.String("tax_definition_id", def.ID.String()),
		zap.String("code", def.Code),
		zap.Float64("rate", def.Rate),
	)

	resp := toResponse(def)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	defs, err := s.repo.List(ctx, s.db, orgID, req)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Response, 0, len(defs))
	for _, def := range defs {
		if def == nil {
			continue
		}
		out = append(out, toResponse(*def))
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	def, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		def.Name = strings.TrimSpace(*req.Name)
	}
	if req.Rate != nil {
		def.Rate = *req.Rate
	}
	if req.Description != nil {
		def.Description = req.Description
	}
	if req.IsDefault != nil {
		def.IsDefault = *req.IsDefault
	}
	def.UpdatedAt = time.Now().UTC()

	if err := def.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, s.db, def); err != nil {
		return nil, err
	}

	resp := toResponse(*def)
	return &resp, nil
}

func (s *Service) Disable(ctx context.Context, rawID string) (*domain.Response, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	def, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, domain.ErrNotFound
	}

	def.IsEnabled = false
	def.IsDefault = false
	def.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, s.db, def); err != nil {
		return nil, err
	}

	resp := toResponse(*def)
	return &resp, nil
}

func (s *Service) orgIDFromContext(ctx context.Context) (snowflake.ID, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return 0, domain.ErrInvalidOrganization
	}
	return orgID, nil
}

func toResponse(def domain.TaxDefinition) domain.Response {
	return domain.Response{
		ID:             def.ID.String(),
		OrganizationID: def.OrgID.String(),
		Name:           def.Name,
		Code:           def.Code,
		Kind:           def.Kind,
		Rate:           def.Rate,
		Description:    def.Description,
		IsDefault:      def.IsDefault,
		IsEnabled:      def.IsEnabled,
		CreatedAt:      def.CreatedAt,
		UpdatedAt:      def.UpdatedAt,
	}
}

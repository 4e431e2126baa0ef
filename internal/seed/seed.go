// Package seed bootstraps the minimum data the service needs on first
// start: a default organization and its default tax definitions.
package seed

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/config"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/finance/calc"
	orgdomain "github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/organization/domain"
	taxdomain "github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/tax/domain"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Cfg   config.Config
	GenID *snowflake.Node
}

type Seeder struct {
	db    *gorm.DB
	log   *zap.Logger
	cfg   config.Config
	genID *snowflake.Node
}

func New(p Params) *Seeder {
	return &Seeder{
		db:    p.DB,
		log:   p.Log.Named("seed"),
		cfg:   p.Cfg,
		genID: p.GenID,
	}
}

// EnsureDefaults creates the default organization and its tax
// definitions when they do not already exist. It is safe to run on
// every start.
func (s *Seeder) EnsureDefaults(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org, err := s.ensureDefaultOrg(ctx, tx)
		if err != nil {
			return err
		}
		return s.ensureDefaultTaxes(ctx, tx, org.ID)
	})
}

func (s *Seeder) ensureDefaultOrg(ctx context.Context, tx *gorm.DB) (*orgdomain.Organization, error) {
	var org orgdomain.Organization
	err := tx.WithContext(ctx).
		Where("is_default = ?", true).
		Limit(1).
		Find(&org).Error
	if err != nil {
		return nil, err
	}
	if org.ID != 0 {
		return &org, nil
	}

	org = orgdomain.Organization{
		ID:              s.defaultOrgID(),
		Name:            "Default Organization",
		Slug:            "default",
		DefaultCurrency: "EUR",
		IsDefault:       true,
	}
	if err := tx.WithContext(ctx).Create(&org).Error; err != nil {
		return nil, err
	}

	s.log.Info("default organization created", zap.String("organization_id", org.ID.String()))
	return &org, nil
}

func (s *Seeder) defaultOrgID() snowflake.ID {
	if s.cfg.DefaultOrgID != 0 {
		return snowflake.ID(s.cfg.DefaultOrgID)
	}
	return s.genID.Generate()
}

func (s *Seeder) ensureDefaultTaxes(ctx context.Context, tx *gorm.DB, orgID snowflake.ID) error {
	var count int64
	err := tx.WithContext(ctx).
		Model(&taxdomain.TaxDefinition{}).
		Where("org_id = ?", orgID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []taxdomain.TaxDefinition{
		{
			ID:        s.genID.Generate(),
			OrgID:     orgID,
			Name:      "IVA",
			Code:      "iva-21",
			Kind:      calc.TaxKindVAT,
			Rate:      21,
			IsDefault: true,
			IsEnabled: true,
		},
		{
			ID:        s.genID.Generate(),
			OrgID:     orgID,
			Name:      "IVA Reducido",
			Code:      "iva-10",
			Kind:      calc.TaxKindVAT,
			Rate:      10,
			IsEnabled: true,
		},
		{
			ID:        s.genID.Generate(),
			OrgID:     orgID,
			Name:      "IRPF",
			Code:      "irpf-15",
			Kind:      calc.TaxKindRetention,
			Rate:      15,
			IsDefault: true,
			IsEnabled: true,
		},
	}

	if err := tx.WithContext(ctx).Create(&defaults).Error; err != nil {
		return err
	}

	s.log.Info("default tax definitions created",
		zap.String("organization_id", orgID.String()),
		zap.Int("count", len(defaults)),
	)
	return nil
}

var Module = fx.Module("seed",
	fx.Provide(New),
	fx.Invoke(func(lc fx.Lifecycle, seeder *Seeder) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return seeder.EnsureDefaults(ctx)
			},
		})
	}),
)

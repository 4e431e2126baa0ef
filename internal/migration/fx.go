package migration

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/config"
	contactdomain "github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/contact/domain"
	documentdomain "github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/document/domain"
	organizationdomain "github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/organization/domain"
	taxdomain "github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/tax/domain"
)

// Module runs the SQL migrations during app construction, before any
// lifecycle hooks fire. The migration files target Postgres, so SQLite
// deployments fall back to GORM's schema sync.
var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		mlog := log.Named("migration")

		if cfg.DBType == "sqlite" {
			if err := conn.AutoMigrate(
				&organizationdomain.Organization{},
				&contactdomain.Contact{},
				&taxdomain.TaxDefinition{},
				&documentdomain.Document{},
				&documentdomain.DocumentItem{},
				&documentdomain.DocumentTaxLine{},
			); err != nil {
				return err
			}
			mlog.Info("schema synced", zap.String("mode", "automigrate"))
			return nil
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}

		if err := RunMigrations(sqlDB); err != nil {
			return err
		}

		mlog.Info("migrations applied")
		return nil
	}),
)

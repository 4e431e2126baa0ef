package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/tax/domain"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, def *domain.TaxDefinition) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.TaxDefinition, error)
	FindByCode(ctx context.Context, db *gorm.DB, orgID snowflake.ID, code string) (*domain.TaxDefinition, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListRequest) ([]*domain.TaxDefinition, error)
	Save(ctx context.Context, db *gorm.DB, def *domain.TaxDefinition) error
}

type repo struct{}

func NewRepository() Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, def *domain.TaxDefinition) error {
	return db.WithContext(ctx).Create(def).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.TaxDefinition, error) {
	var def domain.TaxDefinition
	err := db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Limit(1).
		Find(&def).Error
	if err != nil {
		return nil, err
	}
	if def.ID == 0 {
		return nil, nil
	}
	return &def, nil
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, orgID snowflake.ID, code string) (*domain.TaxDefinition, error) {
	var def domain.TaxDefinition
	err := db.WithContext(ctx).
		Where("org_id = ? AND code = ?", orgID, code).
		Limit(1).
		Find(&def).Error
	if err != nil {
		return nil, err
	}
	if def.ID == 0 {
		return nil, nil
	}
	return &def, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListRequest) ([]*domain.TaxDefinition, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.TaxDefinition{}).
		Where("org_id = ?", orgID)
	if filter.Name != "" {
		stmt = stmt.Where("name = ?", filter.Name)
	}
	if filter.Code != "" {
		stmt = stmt.Where("code = ?", filter.Code)
	}
	if filter.Kind != "" {
		stmt = stmt.Where("kind = ?", filter.Kind)
	}
	if filter.IsEnabled != nil {
		stmt = stmt.Where("is_enabled = ?", *filter.IsEnabled)
	}

	var defs []*domain.TaxDefinition
	if err := stmt.Order("created_at desc, id desc").Find(&defs).Error; err != nil {
		return nil, err
	}
	return defs, nil
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, def *domain.TaxDefinition) error {
	return db.WithContext(ctx).Save(def).Error
}

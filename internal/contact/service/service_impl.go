package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/contact/domain"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/orgcontext"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/pkg/db/option"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/pkg/db/pagination"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/pkg/repository"
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
	store repository.Repository[domain.Contact]
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("contact.service"),
		genID: p.GenID,
		store: repository.ProvideStore[domain.Contact](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Contact, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	contact := domain.Contact{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		Name:      name,
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Company:   strings.TrimSpace(req.Company),
		TaxNumber: strings.TrimSpace(req.TaxNumber),
		Address:   req.Address,
		City:      req.City,
		Country:   req.Country,
		Metadata:  req.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Create(ctx, &contact); err != nil {
		return nil, err
	}

	s.log.Info("contact created",
		zap.String("contact_id", contact.ID.String()),
		zap.String("organization_id", orgID.String()),
	)

	return &contact, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*domain.Contact, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	contact, err := s.store.FindOne(ctx, &domain.Contact{ID: id, OrgID: orgID})
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, domain.ErrNotFound
	}
	return contact, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	opts := []option.QueryOption{
		option.WithSortBy(option.QuerySortBy{}),
		option.ApplyPagination(req.Pagination),
	}
	if q := strings.TrimSpace(req.Query); q != "" {
		opts = append(opts, option.ApplyOperator(option.Condition{
			Field:    "name",
			Operator: option.LIKE,
			Value:    "%" + q + "%",
		}))
	}

	rows, err := s.store.Find(ctx, &domain.Contact{OrgID: orgID}, opts...)
	if err != nil {
		return nil, err
	}

	size := req.PageSize
	if size <= 0 {
		size = 10
	}
	pageInfo := pagination.BuildCursorPageInfo(rows, size, func(c *domain.Contact) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{
			ID:        c.ID.String(),
			CreatedAt: c.CreatedAt.Format(time.RFC3339Nano),
		})
		return token
	})

	if len(rows) > size {
		rows = rows[:size]
	}
	contacts := make([]domain.Contact, 0, len(rows))
	for _, row := range rows {
		contacts = append(contacts, *row)
	}

	return &domain.ListResponse{
		Contacts: contacts,
		PageInfo: *pageInfo,
	}, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateRequest) (*domain.Contact, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	contact, err := s.store.FindOne(ctx, &domain.Contact{ID: id, OrgID: orgID})
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		contact.Name = name
	}
	if req.Email != nil {
		contact.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		contact.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Company != nil {
		contact.Company = strings.TrimSpace(*req.Company)
	}
	if req.TaxNumber != nil {
		contact.TaxNumber = strings.TrimSpace(*req.TaxNumber)
	}
	if req.Address != nil {
		contact.Address = *req.Address
	}
	if req.City != nil {
		contact.City = *req.City
	}
	if req.Country != nil {
		contact.Country = *req.Country
	}
	if req.Metadata != nil {
		contact.Metadata = *req.Metadata
	}
	contact.UpdatedAt = time.Now().UTC()

	if err := s.db.WithContext(ctx).Save(contact).Error; err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *Service) orgIDFromContext(ctx context.Context) (snowflake.ID, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return 0, domain.ErrInvalidOrganization
	}
	return orgID, nil
}

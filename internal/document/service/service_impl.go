package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/config"
	contactdomain "github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/contact/domain"
	documentdomain "github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/document/domain"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/document/format"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/finance/calc"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/orgcontext"
	taxdomain "github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/tax/domain"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/pkg/db/option"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/pkg/db/pagination"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/pkg/repository"
)

type ServiceParam struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	FinanceCfg  *config.FinanceConfigHolder
	TaxResolver taxdomain.TaxResolver `optional:"true"`
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID       *snowflake.Node
	financeCfg  *config.FinanceConfigHolder
	taxResolver taxdomain.TaxResolver

	docrepo     repository.Repository[documentdomain.Document]
	contactrepo repository.Repository[contactdomain.Contact]
}

func NewService(p ServiceParam) documentdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("document.service"),
		genID: p.GenID,

		financeCfg:  p.FinanceCfg,
		taxResolver: p.TaxResolver,
		docrepo:     repository.ProvideStore[documentdomain.Document](p.DB),
		contactrepo: repository.ProvideStore[contactdomain.Contact](p.DB),
	}
}

func (s *Service) Preview(req documentdomain.PreviewRequest) calc.DocumentTotals {
	return calc.CalculateDocumentTotals(
		req.LineItems(),
		float64(req.GlobalDiscount),
		float64(req.ShippingCost),
		req.GlobalDiscountIsPercent,
	)
}

func (s *Service) Create(ctx context.Context, req documentdomain.CreateRequest) (*documentdomain.DocumentResponse, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if !req.Kind.Valid() {
		return nil, documentdomain.ErrInvalidKind
	}

	contactID, err := s.resolveContact(ctx, orgID, req.Kind, req.ContactID)
	if err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.financeCfg.Get().DefaultCurrency
	}

	now := time.Now().UTC()
	doc := documentdomain.Document{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		Kind:      req.Kind,
		Status:    documentdomain.DocumentStatusDraft,
		ContactID: contactID,
		Currency:  currency,
		Notes:     req.Notes,
		IssueDate: req.IssueDate,
		DueDate:   req.DueDate,

		GlobalDiscount:          float64(req.GlobalDiscount),
		GlobalDiscountIsPercent: req.GlobalDiscountIsPercent,
		ShippingCost:            float64(req.ShippingCost),

		Metadata:  req.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}

	inputs, err := s.withDefaultTaxes(ctx, orgID, req.Items)
	if err != nil {
		return nil, err
	}
	items := s.buildItems(orgID, doc.ID, inputs, now)
	totals := s.applyTotals(&doc, items)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&doc).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("document created",
		zap.String("document_id", doc.ID.String()),
		zap.String("kind", string(doc.Kind)),
		zap.Float64("total_amount", doc.TotalAmount),
	)

	return &documentdomain.DocumentResponse{Document: doc, Items: items, Totals: totals}, nil
}

func (s *Service) Update(ctx context.Context, id string, req documentdomain.UpdateRequest) (*documentdomain.DocumentResponse, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	docID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc *documentdomain.Document
	var items []documentdomain.DocumentItem
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doc, err = s.loadDocument(ctx, tx, orgID, docID)
		if err != nil {
			return err
		}
		if doc == nil {
			return documentdomain.ErrNotFound
		}
		if doc.Status != documentdomain.DocumentStatusDraft {
			return documentdomain.ErrNotDraft
		}

		if req.ContactID != nil {
			contactID, err := s.resolveContact(ctx, orgID, doc.Kind, *req.ContactID)
			if err != nil {
				return err
			}
			doc.ContactID = contactID
		}
		if req.Currency != nil {
			doc.Currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
		}
		if req.Notes != nil {
			doc.Notes = *req.Notes
		}
		if req.IssueDate != nil {
			doc.IssueDate = req.IssueDate
		}
		if req.DueDate != nil {
			doc.DueDate = req.DueDate
		}
		if req.Metadata != nil {
			doc.Metadata = req.Metadata
		}

		doc.GlobalDiscount = float64(req.GlobalDiscount)
		doc.GlobalDiscountIsPercent = req.GlobalDiscountIsPercent
		doc.ShippingCost = float64(req.ShippingCost)

		inputs, err := s.withDefaultTaxes(ctx, orgID, req.Items)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		items = s.buildItems(orgID, doc.ID, inputs, now)
		s.applyTotals(doc, items)
		doc.UpdatedAt = now

		if err := tx.Where("document_id = ?", doc.ID).Delete(&documentdomain.DocumentItem{}).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return tx.Save(doc).Error
	})
	if err != nil {
		return nil, err
	}

	return s.respond(ctx, *doc)
}

func (s *Service) GetByID(ctx context.Context, id string) (*documentdomain.DocumentResponse, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	docID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	doc, err := s.docrepo.FindOne(ctx, &documentdomain.Document{ID: docID, OrgID: orgID})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, documentdomain.ErrNotFound
	}

	return s.respond(ctx, *doc)
}

func (s *Service) List(ctx context.Context, req documentdomain.ListRequest) (*documentdomain.ListResponse, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	filter := &documentdomain.Document{OrgID: orgID}
	if req.Kind != nil {
		filter.Kind = *req.Kind
	}
	if req.Status != nil {
		filter.Status = *req.Status
	}
	if req.ContactID != nil {
		contactID, err := snowflake.ParseString(strings.TrimSpace(*req.ContactID))
		if err != nil {
			return nil, documentdomain.ErrInvalidContact
		}
		filter.ContactID = &contactID
	}

	opts := []option.QueryOption{
		option.WithSortBy(option.QuerySortBy{Allow: map[string]bool{"created_at": true}}),
		option.ApplyPagination(req.Pagination),
	}
	if req.IssuedAfter != nil {
		opts = append(opts, option.ApplyOperator(option.Condition{
			Field:    "issue_date",
			Operator: option.GTE,
			Value:    *req.IssuedAfter,
		}))
	}
	if req.IssuedBefore != nil {
		opts = append(opts, option.ApplyOperator(option.Condition{
			Field:    "issue_date",
			Operator: option.LTE,
			Value:    *req.IssuedBefore,
		}))
	}

	rows, err := s.docrepo.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}

	size := req.PageSize
	if size <= 0 {
		size = 10
	}
	pageInfo := pagination.BuildCursorPageInfo(rows, size, func(d *documentdomain.Document) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{
			ID:        d.ID.String(),
			CreatedAt: d.CreatedAt.Format(time.RFC3339Nano),
		})
		return token
	})

	if len(rows) > size {
		rows = rows[:size]
	}
	documents := make([]documentdomain.Document, 0, len(rows))
	for _, row := range rows {
		documents = append(documents, *row)
	}

	return &documentdomain.ListResponse{
		Documents: documents,
		PageInfo:  *pageInfo,
	}, nil
}

func (s *Service) Finalize(ctx context.Context, id string) (*documentdomain.DocumentResponse, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	docID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc *documentdomain.Document
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doc, err = s.loadDocument(ctx, tx, orgID, docID)
		if err != nil {
			return err
		}
		if doc == nil {
			return documentdomain.ErrNotFound
		}
		if doc.Status != documentdomain.DocumentStatusDraft {
			return documentdomain.ErrNotDraft
		}

		items, err := s.loadItems(ctx, tx, doc.ID)
		if err != nil {
			return err
		}

		seq, err := s.nextSequence(ctx, tx, orgID, doc.Kind)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		issuedAt := now
		if doc.IssueDate != nil {
			issuedAt = *doc.IssueDate
		} else {
			doc.IssueDate = &now
		}

		template := s.financeCfg.Get().NumberTemplate(string(doc.Kind))
		number, err := format.FormatDocumentNumber(template, issuedAt, seq)
		if err != nil {
			return err
		}

		lineItems := make([]calc.LineItem, 0, len(items))
		for _, item := range items {
			lineItems = append(lineItems, item.AsLineItem())
		}
		taxLines := calc.CalculateTaxLines(lineItems, doc.GlobalDiscount, doc.GlobalDiscountIsPercent)
		for _, line := range taxLines {
			if err := tx.Create(&documentdomain.DocumentTaxLine{
				ID:         s.genID.Generate(),
				OrgID:      orgID,
				DocumentID: doc.ID,
				TaxName:    line.Name,
				TaxKind:    line.Kind,
				TaxRate:    line.Rate,
				Amount:     line.Amount,
				CreatedAt:  now,
			}).Error; err != nil {
				return err
			}
		}

		doc.Status = documentdomain.DocumentStatusFinal
		doc.DocumentNumber = &number
		doc.SequenceNumber = &seq
		doc.FinalizedAt = &now
		doc.UpdatedAt = now
		return tx.Save(doc).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("document finalized",
		zap.String("document_id", doc.ID.String()),
		zap.String("document_number", *doc.DocumentNumber),
	)

	return s.respond(ctx, *doc)
}

func (s *Service) Void(ctx context.Context, id string) (*documentdomain.DocumentResponse, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	docID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc *documentdomain.Document
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doc, err = s.loadDocument(ctx, tx, orgID, docID)
		if err != nil {
			return err
		}
		if doc == nil {
			return documentdomain.ErrNotFound
		}
		if doc.Status != documentdomain.DocumentStatusFinal && doc.Status != documentdomain.DocumentStatusPaid {
			return documentdomain.ErrNotFinal
		}

		now := time.Now().UTC()
		doc.Status = documentdomain.DocumentStatusVoid
		doc.VoidedAt = &now
		doc.UpdatedAt = now
		return tx.Save(doc).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("document voided", zap.String("document_id", doc.ID.String()))

	return s.respond(ctx, *doc)
}

func (s *Service) MarkPaid(ctx context.Context, id string) (*documentdomain.DocumentResponse, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	docID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc *documentdomain.Document
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doc, err = s.loadDocument(ctx, tx, orgID, docID)
		if err != nil {
			return err
		}
		if doc == nil {
			return documentdomain.ErrNotFound
		}
		if doc.Status != documentdomain.DocumentStatusFinal {
			return documentdomain.ErrNotFinal
		}

		now := time.Now().UTC()
		doc.Status = documentdomain.DocumentStatusPaid
		doc.PaidAt = &now
		doc.UpdatedAt = now
		return tx.Save(doc).Error
	})
	if err != nil {
		return nil, err
	}

	return s.respond(ctx, *doc)
}

func (s *Service) ConvertQuote(ctx context.Context, id string) (*documentdomain.DocumentResponse, error) {
	orgID, err := s.orgIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	quoteID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var invoice documentdomain.Document
	var invoiceItems []documentdomain.DocumentItem
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		quote, err := s.loadDocument(ctx, tx, orgID, quoteID)
		if err != nil {
			return err
		}
		if quote == nil {
			return documentdomain.ErrNotFound
		}
		if quote.Kind != documentdomain.DocumentKindQuote {
			return documentdomain.ErrNotQuote
		}
		if quote.Status == documentdomain.DocumentStatusVoid {
			return documentdomain.ErrNotFinal
		}
		if quote.ConvertedToID != nil {
			return documentdomain.ErrAlreadyConverted
		}

		quoteItems, err := s.loadItems(ctx, tx, quote.ID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		invoice = documentdomain.Document{
			ID:        s.genID.Generate(),
			OrgID:     orgID,
			Kind:      documentdomain.DocumentKindInvoice,
			Status:    documentdomain.DocumentStatusDraft,
			ContactID: quote.ContactID,
			Currency:  quote.Currency,
			Notes:     quote.Notes,

			GlobalDiscount:          quote.GlobalDiscount,
			GlobalDiscountIsPercent: quote.GlobalDiscountIsPercent,
			ShippingCost:            quote.ShippingCost,

			Metadata:  quote.Metadata,
			CreatedAt: now,
			UpdatedAt: now,
		}

		invoiceItems = make([]documentdomain.DocumentItem, 0, len(quoteItems))
		for _, item := range quoteItems {
			copied := item
			copied.ID = s.genID.Generate()
			copied.DocumentID = invoice.ID
			copied.CreatedAt = now
			invoiceItems = append(invoiceItems, copied)
		}

		s.applyTotals(&invoice, invoiceItems)

		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}
		if len(invoiceItems) > 0 {
			if err := tx.Create(&invoiceItems).Error; err != nil {
				return err
			}
		}

		quote.ConvertedToID = &invoice.ID
		quote.UpdatedAt = now
		return tx.Save(quote).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("quote converted",
		zap.String("quote_id", quoteID.String()),
		zap.String("invoice_id", invoice.ID.String()),
	)

	return s.respond(ctx, invoice)
}

// withDefaultTaxes fills lines submitted without taxes with the org's
// default tax definitions.
func (s *Service) withDefaultTaxes(ctx context.Context, orgID snowflake.ID, inputs []documentdomain.ItemInput) ([]documentdomain.ItemInput, error) {
	if s.taxResolver == nil {
		return inputs, nil
	}

	missing := false
	for _, input := range inputs {
		if len(input.Taxes) == 0 {
			missing = true
			break
		}
	}
	if !missing {
		return inputs, nil
	}

	defs, err := s.taxResolver.DefaultsForOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return inputs, nil
	}

	rates := make([]calc.TaxRate, 0, len(defs))
	for _, def := range defs {
		rates = append(rates, def.AsRate())
	}

	out := make([]documentdomain.ItemInput, len(inputs))
	copy(out, inputs)
	for i := range out {
		if len(out[i].Taxes) == 0 {
			out[i].Taxes = rates
		}
	}
	return out, nil
}

// buildItems resolves each submitted line into its stored form. The
// persisted Amount is the line's taxable base.
func (s *Service) buildItems(orgID, docID snowflake.ID, inputs []documentdomain.ItemInput, now time.Time) []documentdomain.DocumentItem {
	items := make([]documentdomain.DocumentItem, 0, len(inputs))
	for i, input := range inputs {
		values := calc.CalculateLine(input.AsLineItem())
		items = append(items, documentdomain.DocumentItem{
			ID:         s.genID.Generate(),
			OrgID:      orgID,
			DocumentID: docID,
			Position:   i,

			Description:     input.Description,
			Quantity:        float64(input.Quantity),
			UnitPrice:       float64(input.UnitPrice),
			DiscountAmount:  float64(input.DiscountAmount),
			DiscountPercent: float64(input.DiscountPercent),
			Taxes:           input.Taxes,
			Amount:          values.Base,

			CreatedAt: now,
		})
	}
	return items
}

// applyTotals recomputes the document's stored totals from its items.
func (s *Service) applyTotals(doc *documentdomain.Document, items []documentdomain.DocumentItem) calc.DocumentTotals {
	lineItems := make([]calc.LineItem, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, item.AsLineItem())
	}

	totals := calc.CalculateDocumentTotals(lineItems, doc.GlobalDiscount, doc.ShippingCost, doc.GlobalDiscountIsPercent)
	doc.Subtotal = totals.Subtotal
	doc.GlobalDiscountAmount = totals.GlobalDiscountAmount
	doc.TaxAmount = totals.TaxAmount
	doc.RetentionAmount = totals.RetentionAmount
	doc.TotalAmount = totals.TotalAmount
	return totals
}

func (s *Service) respond(ctx context.Context, doc documentdomain.Document) (*documentdomain.DocumentResponse, error) {
	items, err := s.loadItems(ctx, s.db, doc.ID)
	if err != nil {
		return nil, err
	}

	lineItems := make([]calc.LineItem, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, item.AsLineItem())
	}
	totals := calc.CalculateDocumentTotals(lineItems, doc.GlobalDiscount, doc.ShippingCost, doc.GlobalDiscountIsPercent)

	resp := &documentdomain.DocumentResponse{
		Document: doc,
		Items:    items,
		Totals:   totals,
	}

	if doc.Status != documentdomain.DocumentStatusDraft {
		var taxLines []documentdomain.DocumentTaxLine
		err := s.db.WithContext(ctx).
			Where("document_id = ?", doc.ID).
			Order("created_at asc, id asc").
			Find(&taxLines).Error
		if err != nil {
			return nil, err
		}
		resp.TaxLines = taxLines
	}

	return resp, nil
}

func (s *Service) loadDocument(ctx context.Context, tx *gorm.DB, orgID, id snowflake.ID) (*documentdomain.Document, error) {
	var doc documentdomain.Document
	err := tx.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Limit(1).
		Find(&doc).Error
	if err != nil {
		return nil, err
	}
	if doc.ID == 0 {
		return nil, nil
	}
	return &doc, nil
}

func (s *Service) loadItems(ctx context.Context, tx *gorm.DB, docID snowflake.ID) ([]documentdomain.DocumentItem, error) {
	var items []documentdomain.DocumentItem
	err := tx.WithContext(ctx).
		Where("document_id = ?", docID).
		Order("position asc, id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// nextSequence allocates the next per-org, per-kind number. The unique
// index on (org_id, kind, sequence_number) turns a concurrent double
// allocation into a constraint error that rolls the transaction back.
func (s *Service) nextSequence(ctx context.Context, tx *gorm.DB, orgID snowflake.ID, kind documentdomain.DocumentKind) (int64, error) {
	var next int64
	err := tx.WithContext(ctx).Raw(
		`SELECT COALESCE(MAX(sequence_number), 0) + 1
		 FROM documents
		 WHERE org_id = ? AND kind = ?`,
		orgID,
		kind,
	).Scan(&next).Error
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (s *Service) resolveContact(ctx context.Context, orgID snowflake.ID, kind documentdomain.DocumentKind, raw string) (*snowflake.ID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		if kind == documentdomain.DocumentKindExpense {
			return nil, nil
		}
		return nil, documentdomain.ErrContactRequired
	}

	contactID, err := snowflake.ParseString(trimmed)
	if err != nil {
		return nil, documentdomain.ErrInvalidContact
	}

	contact, err := s.contactrepo.FindOne(ctx, &contactdomain.Contact{ID: contactID, OrgID: orgID})
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, documentdomain.ErrInvalidContact
	}
	return &contactID, nil
}

func (s *Service) orgIDFromContext(ctx context.Context) (snowflake.ID, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return 0, documentdomain.ErrInvalidOrganization
	}
	return orgID, nil
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, documentdomain.ErrInvalidID
	}
	return id, nil
}

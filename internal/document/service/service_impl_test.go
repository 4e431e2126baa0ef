package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/config"
	contactdomain "github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/contact/domain"
	documentdomain "github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/document/domain"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/finance/calc"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/orgcontext"
	taxdomain "github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/tax/domain"
	taxservice "github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/tax/service"
)

var testDBSeq int

func newTestService(t *testing.T) (documentdomain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	testDBSeq++
	dsn := fmt.Sprintf("file:docsvc%d?mode=memory&cache=shared", testDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&contactdomain.Contact{},
		&documentdomain.Document{},
		&documentdomain.DocumentItem{},
		&documentdomain.DocumentTaxLine{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(ServiceParam{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		FinanceCfg: config.NewStaticFinanceConfigHolder(config.DefaultFinanceConfig()),
	})
	return svc, db, node
}

func testOrgContext(node *snowflake.Node) (context.Context, snowflake.ID) {
	orgID := node.Generate()
	return orgcontext.WithOrgID(context.Background(), int64(orgID)), orgID
}

func seedContact(t *testing.T, db *gorm.DB, node *snowflake.Node, orgID snowflake.ID) contactdomain.Contact {
	t.Helper()
	contact := contactdomain.Contact{
		ID:    node.Generate(),
		OrgID: orgID,
		Name:  "Acme SL",
	}
	require.NoError(t, db.Create(&contact).Error)
	return contact
}

func invoiceItems() []documentdomain.ItemInput {
	return []documentdomain.ItemInput{
		{
			Description: "Consulting",
			Quantity:    1,
			UnitPrice:   100,
			Taxes: []calc.TaxRate{
				{Name: "IVA", Rate: 21, Kind: calc.TaxKindVAT},
				{Name: "IRPF", Rate: 15, Kind: calc.TaxKindRetention},
			},
		},
		{
			Description: "Hosting",
			Quantity:    2,
			UnitPrice:   25,
			Taxes: []calc.TaxRate{
				{Name: "IVA", Rate: 21, Kind: calc.TaxKindVAT},
			},
		},
	}
}

func TestCreate_RecomputesTotalsServerSide(t *testing.T) {
	svc, _, node := newTestService(t)
	ctx, _ := testOrgContext(node)

	resp, err := svc.Create(ctx, documentdomain.CreateRequest{
		Kind:  documentdomain.DocumentKindExpense,
		Items: invoiceItems(),
	})
	require.NoError(t, err)

	// 100 + 50 base, IVA on 150, IRPF on 100.
	assert.Equal(t, documentdomain.DocumentStatusDraft, resp.Document.Status)
	assert.InDelta(t, 150.0, resp.Document.Subtotal, 1e-9)
	assert.InDelta(t, 31.5, resp.Document.TaxAmount, 1e-9)
	assert.InDelta(t, 15.0, resp.Document.RetentionAmount, 1e-9)
	assert.InDelta(t, 166.5, resp.Document.TotalAmount, 1e-9)
	assert.Equal(t, "EUR", resp.Document.Currency)
	require.Len(t, resp.Items, 2)
	assert.InDelta(t, 100.0, resp.Items[0].Amount, 1e-9)
	assert.InDelta(t, 50.0, resp.Items[1].Amount, 1e-9)
	assert.Nil(t, resp.Document.DocumentNumber)
}

func TestCreate_InvoiceRequiresContact(t *testing.T) {
	svc, _, node := newTestService(t)
	ctx, _ := testOrgContext(node)

	_, err := svc.Create(ctx, documentdomain.CreateRequest{
		Kind:  documentdomain.DocumentKindInvoice,
		Items: invoiceItems(),
	})
	assert.ErrorIs(t, err, documentdomain.ErrContactRequired)
}

func TestCreate_InvalidKind(t *testing.T) {
	svc, _, node := newTestService(t)
	ctx, _ := testOrgContext(node)

	_, err := svc.Create(ctx, documentdomain.CreateRequest{Kind: "receipt"})
	assert.ErrorIs(t, err, documentdomain.ErrInvalidKind)
}

func TestCreate_RequiresOrganization(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), documentdomain.CreateRequest{
		Kind: documentdomain.DocumentKindExpense,
	})
	assert.ErrorIs(t, err, documentdomain.ErrInvalidOrganization)
}

func TestUpdate_ReplacesItemsAndRecomputes(t *testing.T) {
	svc, db, node := newTestService(t)
	ctx, orgID := testOrgContext(node)

	created, err := svc.Create(ctx, documentdomain.CreateRequest{
		Kind:  documentdomain.DocumentKindExpense,
		Items: invoiceItems(),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.Document.ID.String(), documentdomain.UpdateRequest{
		Items: []documentdomain.ItemInput{
			{Description: "Single line", Quantity: 1, UnitPrice: 200},
		},
		GlobalDiscount:          10,
		GlobalDiscountIsPercent: true,
		ShippingCost:            5,
	})
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	assert.InDelta(t, 200.0, updated.Document.Subtotal, 1e-9)
	assert.InDelta(t, 20.0, updated.Document.GlobalDiscountAmount, 1e-9)
	assert.InDelta(t, 185.0, updated.Document.TotalAmount, 1e-9)

	var count int64
	require.NoError(t, db.Model(&documentdomain.DocumentItem{}).
		Where("document_id = ? AND org_id = ?", created.Document.ID, orgID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdate_RejectsNonDraft(t *testing.T) {
	svc, _, node := newTestService(t)
	ctx, _ := testOrgContext(node)

	created, err := svc.Create(ctx, documentdomain.CreateRequest{
		Kind:  documentdomain.DocumentKindExpense,
		Items: invoiceItems(),
	})
	require.NoError(t, err)

	_, err = svc.Finalize(ctx, created.Document.ID.String())
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.Document.ID.String(), documentdomain.UpdateRequest{})
	assert.ErrorIs(t, err, documentdomain.ErrNotDraft)
}

func TestFinalize_AssignsNumberAndSnapshotsTaxLines(t *testing.T) {
	svc, db, node := newTestService(t)
	ctx, orgID := testOrgContext(node)
	contact := seedContact(t, db, node, orgID)

	created, err := svc.Create(ctx, documentdomain.CreateRequest{
		Kind:      documentdomain.DocumentKindInvoice,
		ContactID: contact.ID.String(),
		Items:     invoiceItems(),
	})
	require.NoError(t, err)

	finalized, err := svc.Finalize(ctx, created.Document.ID.String())
	require.NoError(t, err)

	require.NotNil(t, finalized.Document.DocumentNumber)
	require.NotNil(t, finalized.Document.SequenceNumber)
	assert.Equal(t, int64(1), *finalized.Document.SequenceNumber)
	assert.Equal(t, documentdomain.DocumentStatusFinal, finalized.Document.Status)
	assert.Regexp(t, `^INV-\d{6}-0001$`, *finalized.Document.DocumentNumber)
	require.NotNil(t, finalized.Document.FinalizedAt)
	require.NotNil(t, finalized.Document.IssueDate)

	require.Len(t, finalized.TaxLines, 2)
	assert.Equal(t, "IVA", finalized.TaxLines[0].TaxName)
	assert.Equal(t, calc.TaxKindVAT, finalized.TaxLines[0].TaxKind)
	assert.InDelta(t, 31.5, finalized.TaxLines[0].Amount, 1e-9)
	assert.Equal(t, "IRPF", finalized.TaxLines[1].TaxName)
	assert.InDelta(t, -15.0, finalized.TaxLines[1].Amount, 1e-9)
}

func TestFinalize_SequenceIsPerKind(t *testing.T) {
	svc, db, node := newTestService(t)
	ctx, orgID := testOrgContext(node)
	contact := seedContact(t, db, node, orgID)

	first, err := svc.Create(ctx, documentdomain.CreateRequest{
		Kind:      documentdomain.DocumentKindInvoice,
		ContactID: contact.ID.String(),
		Items:     invoiceItems(),
	})
	require.NoError(t, err)
	second, err := svc.Create(ctx, documentdomain.CreateRequest{
		Kind:      documentdomain.DocumentKindInvoice,
		ContactID: contact.ID.String(),
		Items:     invoiceItems(),
	})
	require.NoError(t, err)
	quote, err := svc.Create(ctx, documentdomain.CreateRequest{
		Kind:      documentdomain.DocumentKindQuote,
		ContactID: contact.ID.String(),
		Items:     invoiceItems(),
	})
	require.NoError(t, err)

	fin1, err := svc.Finalize(ctx, first.Document.ID.String())
	require.NoError(t, err)
	fin2, err := svc.Finalize(ctx, second.Document.ID.String())
	require.NoError(t, err)
	finQuote, err := svc.Finalize(ctx, quote.Document.ID.String())
	require.NoError(t, err)

	assert.Equal(t, int64(1), *fin1.Document.SequenceNumber)
	assert.Equal(t, int64(2), *fin2.Document.SequenceNumber)
	assert.Equal(t, int64(1), *finQuote.Document.SequenceNumber)
	assert.Regexp(t, `^QUO-`, *finQuote.Document.DocumentNumber)
}

func TestFinalize_RejectsNonDraft(t *testing.T) {
	svc, _, node := newTestService(t)
	ctx, _ := testOrgContext(node)

	created, err := svc.Create(ctx, documentdomain.CreateRequest{
		Kind:  documentdomain.DocumentKindExpense,
		Items: invoiceItems(),
	})
	require.NoError(t, err)

	_, err = svc.Finalize(ctx, created.Document.ID.String())
	require.NoError(t, err)

	_, err = svc.Finalize(ctx, created.Document.ID.String())
	assert.ErrorIs(t, err, documentdomain.ErrNotDraft)
}

func TestFinalize_StoresWhatPreviewReturns(t *testing.T) {
	svc, _, node := newTestService(t)
	ctx, _ := testOrgContext(node)

	items := invoiceItems()
	preview := svc.Preview(documentdomain.PreviewRequest{
		Items:                   items,
		GlobalDiscount:          25,
		GlobalDiscountIsPercent: true,
		ShippingCost:            4.95,
	})

	created, err := svc.Create(ctx, documentdomain.CreateRequest{
		Kind:                    documentdomain.DocumentKindExpense,
		Items:                   items,
		GlobalDiscount:          25,
		GlobalDiscountIsPercent: true,
		ShippingCost:            4.95,
	})
	require.NoError(t, err)

	finalized, err := svc.Finalize(ctx, created.Document.ID.String())
	require.NoError(t, err)

	assert.InDelta(t, preview.TotalAmount, finalized.Document.TotalAmount, 1e-9)
	assert.InDelta(t, preview.TaxAmount, finalized.Document.TaxAmount, 1e-9)
	assert.InDelta(t, preview.RetentionAmount, finalized.Document.RetentionAmount, 1e-9)
	assert.Equal(t, preview, finalized.Totals)
}

func TestVoid_KeepsNumber(t *testing.T) {
	svc, _, node := newTestService(t)
	ctx, _ := testOrgContext(node)

	created, err := svc.Create(ctx, documentdomain.CreateRequest{
		Kind:  documentdomain.DocumentKindExpense,
		Items: invoiceItems(),
	})
	require.NoError(t, err)

	_, err = svc.Void(ctx, created.Document.ID.String())
	assert.ErrorIs(t, err, documentdomain.ErrNotFinal)

	finalized, err := svc.Finalize(ctx, created.Document.ID.String())
	require.NoError(t, err)

	voided, err := svc.Void(ctx, created.Document.ID.String())
	require.NoError(t, err)
	assert.Equal(t, documentdomain.DocumentStatusVoid, voided.Document.Status)
	assert.Equal(t, *finalized.Document.DocumentNumber, *voided.Document.DocumentNumber)
	require.NotNil(t, voided.Document.VoidedAt)
}

func TestMarkPaid_FinalOnly(t *testing.T) {
	svc, _, node := newTestService(t)
	ctx, _ := testOrgContext(node)

	created, err := svc.Create(ctx, documentdomain.CreateRequest{
		Kind:  documentdomain.DocumentKindExpense,
		Items: invoiceItems(),
	})
	require.NoError(t, err)

	_, err = svc.MarkPaid(ctx, created.Document.ID.String())
	assert.ErrorIs(t, err, documentdomain.ErrNotFinal)

	_, err = svc.Finalize(ctx, created.Document.ID.String())
	require.NoError(t, err)

	paid, err := svc.MarkPaid(ctx, created.Document.ID.String())
	require.NoError(t, err)
	assert.Equal(t, documentdomain.DocumentStatusPaid, paid.Document.Status)
	require.NotNil(t, paid.Document.PaidAt)
}

func TestConvertQuote_CopiesItemsAndLinks(t *testing.T) {
	svc, db, node := newTestService(t)
	ctx, orgID := testOrgContext(node)
	contact := seedContact(t, db, node, orgID)

	quote, err := svc.Create(ctx, documentdomain.CreateRequest{
		Kind:         documentdomain.DocumentKindQuote,
		ContactID:    contact.ID.String(),
		Items:        invoiceItems(),
		ShippingCost: 10,
	})
	require.NoError(t, err)

	invoice, err := svc.ConvertQuote(ctx, quote.Document.ID.String())
	require.NoError(t, err)

	assert.Equal(t, documentdomain.DocumentKindInvoice, invoice.Document.Kind)
	assert.Equal(t, documentdomain.DocumentStatusDraft, invoice.Document.Status)
	assert.Equal(t, quote.Document.ContactID, invoice.Document.ContactID)
	assert.InDelta(t, quote.Document.TotalAmount, invoice.Document.TotalAmount, 1e-9)
	require.Len(t, invoice.Items, len(quote.Items))

	refreshed, err := svc.GetByID(ctx, quote.Document.ID.String())
	require.NoError(t, err)
	require.NotNil(t, refreshed.Document.ConvertedToID)
	assert.Equal(t, invoice.Document.ID, *refreshed.Document.ConvertedToID)

	_, err = svc.ConvertQuote(ctx, quote.Document.ID.String())
	assert.ErrorIs(t, err, documentdomain.ErrAlreadyConverted)
}

func TestConvertQuote_RejectsNonQuote(t *testing.T) {
	svc, _, node := newTestService(t)
	ctx, _ := testOrgContext(node)

	expense, err := svc.Create(ctx, documentdomain.CreateRequest{
		Kind:  documentdomain.DocumentKindExpense,
		Items: invoiceItems(),
	})
	require.NoError(t, err)

	_, err = svc.ConvertQuote(ctx, expense.Document.ID.String())
	assert.ErrorIs(t, err, documentdomain.ErrNotQuote)
}

func TestList_FiltersByKindAndStatus(t *testing.T) {
	svc, _, node := newTestService(t)
	ctx, _ := testOrgContext(node)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, documentdomain.CreateRequest{
			Kind:  documentdomain.DocumentKindExpense,
			Items: invoiceItems(),
		})
		require.NoError(t, err)
	}

	kind := documentdomain.DocumentKindExpense
	resp, err := svc.List(ctx, documentdomain.ListRequest{Kind: &kind})
	require.NoError(t, err)
	assert.Len(t, resp.Documents, 3)

	invoiceKind := documentdomain.DocumentKindInvoice
	resp, err = svc.List(ctx, documentdomain.ListRequest{Kind: &invoiceKind})
	require.NoError(t, err)
	assert.Empty(t, resp.Documents)
}

func TestGetByID_OtherOrgIsNotFound(t *testing.T) {
	svc, _, node := newTestService(t)
	ctx, _ := testOrgContext(node)

	created, err := svc.Create(ctx, documentdomain.CreateRequest{
		Kind:  documentdomain.DocumentKindExpense,
		Items: invoiceItems(),
	})
	require.NoError(t, err)

	otherCtx, _ := testOrgContext(node)
	_, err = svc.GetByID(otherCtx, created.Document.ID.String())
	assert.ErrorIs(t, err, documentdomain.ErrNotFound)
}

func TestCreate_AppliesDefaultTaxes(t *testing.T) {
	_, db, node := newTestService(t)
	require.NoError(t, db.AutoMigrate(&taxdomain.TaxDefinition{}))

	svc := NewService(ServiceParam{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		FinanceCfg:  config.NewStaticFinanceConfigHolder(config.DefaultFinanceConfig()),
		TaxResolver: taxservice.NewResolver(db),
	})

	ctx, orgID := testOrgContext(node)
	contact := seedContact(t, db, node, orgID)

	require.NoError(t, db.Create(&taxdomain.TaxDefinition{
		ID:        node.Generate(),
		OrgID:     orgID,
		Name:      "IVA",
		Code:      "iva",
		Kind:      calc.TaxKindVAT,
		Rate:      21,
		IsDefault: true,
		IsEnabled: true,
	}).Error)

	resp, err := svc.Create(ctx, documentdomain.CreateRequest{
		Kind:      documentdomain.DocumentKindInvoice,
		ContactID: contact.ID.String(),
		Items: []documentdomain.ItemInput{
			{Description: "Consulting", Quantity: 1, UnitPrice: 100},
		},
	})
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	require.Len(t, resp.Items[0].Taxes, 1)
	assert.Equal(t, "IVA", resp.Items[0].Taxes[0].Name)
	assert.InDelta(t, 21.0, resp.Totals.TaxAmount, 1e-9)
}

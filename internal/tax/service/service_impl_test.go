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

	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/finance/calc"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/orgcontext"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/tax/domain"
)

var testDBSeq int

func newTestService(t *testing.T) (domain.Service, *snowflake.Node) {
	t.Helper()

	testDBSeq++
	dsn := fmt.Sprintf("file:taxsvc%d?mode=memory&cache=shared", testDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&domain.TaxDefinition{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
	})
	return svc, node
}

func testOrgContext(node *snowflake.Node) (context.Context, snowflake.ID) {
	orgID := node.Generate()
	return orgcontext.WithOrgID(context.Background(), int64(orgID)), orgID
}

func TestCreate_DerivesCodeFromName(t *testing.T) {
	svc, node := newTestService(t)
	ctx, _ := testOrgContext(node)

	resp, err := svc.Create(ctx, domain.CreateRequest{
		Name: "IVA Reducido",
		Kind: calc.TaxKindVAT,
		Rate: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, "iva-reducido", resp.Code)
	assert.True(t, resp.IsEnabled)
	assert.False(t, resp.IsDefault)
}

func TestCreate_RejectsDuplicateCode(t *testing.T) {
	svc, node := newTestService(t)
	ctx, _ := testOrgContext(node)

	_, err := svc.Create(ctx, domain.CreateRequest{
		Name: "IVA",
		Code: "iva",
		Kind: calc.TaxKindVAT,
		Rate: 21,
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateRequest{
		Name: "IVA otra vez",
		Code: "iva",
		Kind: calc.TaxKindVAT,
		Rate: 21,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateTaxCode)
}

func TestCreate_SameCodeInAnotherOrg(t *testing.T) {
	svc, node := newTestService(t)
	ctxA, _ := testOrgContext(node)
	ctxB, _ := testOrgContext(node)

	_, err := svc.Create(ctxA, domain.CreateRequest{Name: "IVA", Code: "iva", Kind: calc.TaxKindVAT, Rate: 21})
	require.NoError(t, err)

	_, err = svc.Create(ctxB, domain.CreateRequest{Name: "IVA", Code: "iva", Kind: calc.TaxKindVAT, Rate: 21})
	assert.NoError(t, err)
}

func TestCreate_RejectsInvalidRate(t *testing.T) {
	svc, node := newTestService(t)
	ctx, _ := testOrgContext(node)

	_, err := svc.Create(ctx, domain.CreateRequest{
		Name: "Negative",
		Kind: calc.TaxKindVAT,
		Rate: -1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTaxRate)
}

func TestCreate_RequiresOrganization(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateRequest{
		Name: "IVA",
		Kind: calc.TaxKindVAT,
		Rate: 21,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)
}

func TestUpdate_KeepsCodeImmutable(t *testing.T) {
	svc, node := newTestService(t)
	ctx, _ := testOrgContext(node)

	created, err := svc.Create(ctx, domain.CreateRequest{
		Name: "IRPF",
		Kind: calc.TaxKindRetention,
		Rate: 15,
	})
	require.NoError(t, err)

	newName := "IRPF Profesionales"
	newRate := 7.0
	updated, err := svc.Update(ctx, domain.UpdateRequest{
		ID:   created.ID,
		Name: &newName,
		Rate: &newRate,
	})
	require.NoError(t, err)

	assert.Equal(t, created.Code, updated.Code)
	assert.Equal(t, "IRPF Profesionales", updated.Name)
	assert.Equal(t, 7.0, updated.Rate)
}

func TestDisable_ClearsDefaultFlag(t *testing.T) {
	svc, node := newTestService(t)
	ctx, _ := testOrgContext(node)

	isDefault := true
	created, err := svc.Create(ctx, domain.CreateRequest{
		Name:      "IVA",
		Kind:      calc.TaxKindVAT,
		Rate:      21,
		IsDefault: &isDefault,
	})
	require.NoError(t, err)

	disabled, err := svc.Disable(ctx, created.ID)
	require.NoError(t, err)

	assert.False(t, disabled.IsEnabled)
	assert.False(t, disabled.IsDefault)
}

func TestList_FiltersByKind(t *testing.T) {
	svc, node := newTestService(t)
	ctx, _ := testOrgContext(node)

	_, err := svc.Create(ctx, domain.CreateRequest{Name: "IVA", Kind: calc.TaxKindVAT, Rate: 21})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateRequest{Name: "IRPF", Kind: calc.TaxKindRetention, Rate: 15})
	require.NoError(t, err)

	defs, err := svc.List(ctx, domain.ListRequest{Kind: string(calc.TaxKindRetention)})
	require.NoError(t, err)

	require.Len(t, defs, 1)
	assert.Equal(t, "IRPF", defs[0].Name)
}

func TestList_ScopedToOrg(t *testing.T) {
	svc, node := newTestService(t)
	ctxA, _ := testOrgContext(node)
	ctxB, _ := testOrgContext(node)

	_, err := svc.Create(ctxA, domain.CreateRequest{Name: "IVA", Kind: calc.TaxKindVAT, Rate: 21})
	require.NoError(t, err)

	defs, err := svc.List(ctxB, domain.ListRequest{})
	require.NoError(t, err)
	assert.Empty(t, defs)
}

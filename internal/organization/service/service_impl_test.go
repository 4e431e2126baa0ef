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

	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/organization/domain"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/organization/repository"
)

var testDBSeq int

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	testDBSeq++
	dsn := fmt.Sprintf("file:orgsvc%d?mode=memory&cache=shared", testDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&domain.Organization{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(db, repository.NewRepository(db), node, zap.NewNop())
}

func TestCreate_SlugAndDefaults(t *testing.T) {
	svc := newTestService(t)

	resp, err := svc.Create(context.Background(), domain.CreateOrganizationRequest{
		Name: "Estudi Disseny BCN",
	})
	require.NoError(t, err)

	assert.Equal(t, "estudi-disseny-bcn", resp.Slug)
	assert.Equal(t, "EUR", resp.DefaultCurrency)
}

func TestCreate_RejectsDuplicateSlug(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateOrganizationRequest{Name: "Acme"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), domain.CreateOrganizationRequest{Name: "Acme"})
	assert.ErrorIs(t, err, domain.ErrDuplicateSlug)
}

func TestCreate_RejectsBadCurrency(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateOrganizationRequest{
		Name:            "Acme",
		DefaultCurrency: "EURO",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCurrency)
}

func TestUpdate_CurrencyUppercased(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), domain.CreateOrganizationRequest{Name: "Acme"})
	require.NoError(t, err)

	currency := "usd"
	updated, err := svc.Update(context.Background(), created.ID, domain.UpdateOrganizationRequest{
		DefaultCurrency: &currency,
	})
	require.NoError(t, err)

	assert.Equal(t, "USD", updated.DefaultCurrency)
}

func TestGetByID_UnknownIsNotFound(t *testing.T) {
	svc := newTestService(t)

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), node.Generate().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

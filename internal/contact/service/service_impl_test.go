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

	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/contact/domain"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/internal/orgcontext"
	"github.com/ribotflowdeveloper-hub/ribotflow-sub006/pkg/db/pagination"
)

var testDBSeq int

func newTestService(t *testing.T) (domain.Service, *snowflake.Node) {
	t.Helper()

	testDBSeq++
	dsn := fmt.Sprintf("file:contactsvc%d?mode=memory&cache=shared", testDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&domain.Contact{}))

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

func TestCreate_TrimsFields(t *testing.T) {
	svc, node := newTestService(t)
	ctx, orgID := testOrgContext(node)

	contact, err := svc.Create(ctx, domain.CreateRequest{
		Name:  "  Acme SL  ",
		Email: " billing@acme.example ",
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme SL", contact.Name)
	assert.Equal(t, "billing@acme.example", contact.Email)
	assert.Equal(t, orgID, contact.OrgID)
}

func TestCreate_RequiresName(t *testing.T) {
	svc, node := newTestService(t)
	ctx, _ := testOrgContext(node)

	_, err := svc.Create(ctx, domain.CreateRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestCreate_RequiresOrganization(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateRequest{Name: "Acme"})
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)
}

func TestGetByID_OtherOrgIsNotFound(t *testing.T) {
	svc, node := newTestService(t)
	ctxA, _ := testOrgContext(node)
	ctxB, _ := testOrgContext(node)

	created, err := svc.Create(ctxA, domain.CreateRequest{Name: "Acme"})
	require.NoError(t, err)

	_, err = svc.GetByID(ctxB, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_PartialFields(t *testing.T) {
	svc, node := newTestService(t)
	ctx, _ := testOrgContext(node)

	created, err := svc.Create(ctx, domain.CreateRequest{
		Name:  "Acme",
		Email: "old@acme.example",
		City:  "Barcelona",
	})
	require.NoError(t, err)

	newEmail := "new@acme.example"
	updated, err := svc.Update(ctx, created.ID, domain.UpdateRequest{Email: &newEmail})
	require.NoError(t, err)

	assert.Equal(t, "new@acme.example", updated.Email)
	assert.Equal(t, "Acme", updated.Name)
	assert.Equal(t, "Barcelona", updated.City)
}

func TestUpdate_RejectsBlankName(t *testing.T) {
	svc, node := newTestService(t)
	ctx, _ := testOrgContext(node)

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Acme"})
	require.NoError(t, err)

	blank := "  "
	_, err = svc.Update(ctx, created.ID, domain.UpdateRequest{Name: &blank})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestList_SearchAndPagination(t *testing.T) {
	svc, node := newTestService(t)
	ctx, _ := testOrgContext(node)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, domain.CreateRequest{Name: fmt.Sprintf("Acme %d", i)})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, domain.CreateRequest{Name: "Globex"})
	require.NoError(t, err)

	resp, err := svc.List(ctx, domain.ListRequest{
		Pagination: pagination.Pagination{PageSize: 2},
		Query:      "Acme",
	})
	require.NoError(t, err)

	assert.Len(t, resp.Contacts, 2)
	assert.True(t, resp.PageInfo.HasMore)
	for _, contact := range resp.Contacts {
		assert.Contains(t, contact.Name, "Acme")
	}
}

func TestList_ScopedToOrg(t *testing.T) {
	svc, node := newTestService(t)
	ctxA, _ := testOrgContext(node)
	ctxB, _ := testOrgContext(node)

	_, err := svc.Create(ctxA, domain.CreateRequest{Name: "Acme"})
	require.NoError(t, err)

	resp, err := svc.List(ctxB, domain.ListRequest{})
	require.NoError(t, err)
	assert.Empty(t, resp.Contacts)
}

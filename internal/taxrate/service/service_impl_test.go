package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shopkit/tradepost/internal/orgcontext"
	"github.com/shopkit/tradepost/internal/taxrate/domain"
	"github.com/shopkit/tradepost/internal/taxrate/repository"
)

func newTestService(t *testing.T) (domain.Service, snowflake.ID) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.TaxRate{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(serviceParams{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.NewRepository(conn),
	})
	return svc, node.Generate()
}

func orgCtx(orgID snowflake.ID) context.Context {
	return orgcontext.WithOrgID(context.Background(), orgID)
}

func TestCreateRequiresOrganization(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateRequest{
		Name:    "CGST 9%",
		TaxType: "CGST",
		Rate:    decimal.NewFromInt(9),
	})
	require.ErrorIs(t, err, domain.ErrInvalidOrganization)
}

func TestCreateNormalizesAndPersists(t *testing.T) {
	svc, orgID := newTestService(t)

	resp, err := svc.Create(orgCtx(orgID), domain.CreateRequest{
		Name:    "  CGST 9%  ",
		TaxType: " cgst ",
		Rate:    decimal.NewFromInt(9),
	})
	require.NoError(t, err)
	require.Equal(t, "CGST 9%", resp.Name)
	require.Equal(t, "CGST", resp.TaxType)
	require.True(t, resp.IsEnabled)

	got, err := svc.Get(orgCtx(orgID), resp.ID)
	require.NoError(t, err)
	require.True(t, got.Rate.Equal(decimal.NewFromInt(9)))
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	svc, orgID := newTestService(t)

	_, err := svc.Create(orgCtx(orgID), domain.CreateRequest{
		Name:    "VAT 20%",
		TaxType: "VAT",
		Rate:    decimal.NewFromInt(20),
	})
	require.NoError(t, err)

	_, err = svc.Create(orgCtx(orgID), domain.CreateRequest{
		Name:    "VAT 20%",
		TaxType: "VAT",
		Rate:    decimal.NewFromInt(20),
	})
	require.ErrorIs(t, err, domain.ErrDuplicateName)
}

func TestCreateRejectsNegativeRate(t *testing.T) {
	svc, orgID := newTestService(t)

	_, err := svc.Create(orgCtx(orgID), domain.CreateRequest{
		Name:    "Broken",
		TaxType: "VAT",
		Rate:    decimal.NewFromInt(-1),
	})
	require.ErrorIs(t, err, domain.ErrInvalidRate)
}

func TestListFiltersDisabledRates(t *testing.T) {
	svc, orgID := newTestService(t)
	ctx := orgCtx(orgID)

	first, err := svc.Create(ctx, domain.CreateRequest{Name: "CGST 9%", TaxType: "CGST", Rate: decimal.NewFromInt(9)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateRequest{Name: "SGST 9%", TaxType: "SGST", Rate: decimal.NewFromInt(9)})
	require.NoError(t, err)

	require.NoError(t, svc.Disable(ctx, first.ID))

	all, err := svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	enabled, err := svc.List(ctx, domain.ListRequest{EnabledOnly: true})
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	require.Equal(t, "SGST 9%", enabled[0].Name)
}

func TestListIsScopedToOrganization(t *testing.T) {
	svc, orgID := newTestService(t)

	_, err := svc.Create(orgCtx(orgID), domain.CreateRequest{Name: "CGST 9%", TaxType: "CGST", Rate: decimal.NewFromInt(9)})
	require.NoError(t, err)

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	other, err := svc.List(orgCtx(node.Generate()), domain.ListRequest{})
	require.NoError(t, err)
	require.Empty(t, other)
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	svc, orgID := newTestService(t)
	ctx := orgCtx(orgID)

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "IGST 18%", TaxType: "IGST", Rate: decimal.NewFromInt(18)})
	require.NoError(t, err)

	newRate := decimal.NewFromInt(12)
	updated, err := svc.Update(ctx, created.ID, domain.UpdateRequest{Rate: &newRate})
	require.NoError(t, err)
	require.True(t, updated.Rate.Equal(newRate))
	require.Equal(t, "IGST 18%", updated.Name)
}

func TestDisableIsIdempotent(t *testing.T) {
	svc, orgID := newTestService(t)
	ctx := orgCtx(orgID)

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "VAT 5%", TaxType: "VAT", Rate: decimal.NewFromInt(5)})
	require.NoError(t, err)

	require.NoError(t, svc.Disable(ctx, created.ID))
	require.NoError(t, svc.Disable(ctx, created.ID))

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, got.IsEnabled)
}

func TestGetUnknownIDReturnsNotFound(t *testing.T) {
	svc, orgID := newTestService(t)

	_, err := svc.Get(orgCtx(orgID), "not-a-snowflake")
	require.ErrorIs(t, err, domain.ErrTaxRateNotFound)
}

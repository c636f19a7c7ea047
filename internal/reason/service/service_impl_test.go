package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shopkit/tradepost/internal/orgcontext"
	"github.com/shopkit/tradepost/internal/reason/domain"
	"github.com/shopkit/tradepost/internal/reason/repository"
)

func newTestService(t *testing.T) (domain.Service, snowflake.ID) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Reason{}))

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

func TestCreateNormalizesAppliesTo(t *testing.T) {
	svc, orgID := newTestService(t)

	resp, err := svc.Create(orgCtx(orgID), domain.CreateRequest{
		Name:      "Damaged in transit",
		AppliesTo: []string{" sub ", "SUB", "non_sale", ""},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"SUB", "NON_SALE"}, resp.AppliesTo)
}

func TestListFiltersByAdjustmentType(t *testing.T) {
	svc, orgID := newTestService(t)
	ctx := orgCtx(orgID)

	_, err := svc.Create(ctx, domain.CreateRequest{Name: "Damaged", AppliesTo: []string{"SUB"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateRequest{Name: "Found extra", AppliesTo: []string{"ADD"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateRequest{Name: "Cycle count"})
	require.NoError(t, err)

	subReasons, err := svc.List(ctx, domain.ListRequest{AdjustmentType: "sub"})
	require.NoError(t, err)
	require.Len(t, subReasons, 2)

	names := []string{subReasons[0].Name, subReasons[1].Name}
	require.Contains(t, names, "Damaged")
	require.Contains(t, names, "Cycle count")
}

func TestUnrestrictedReasonAppliesEverywhere(t *testing.T) {
	svc, orgID := newTestService(t)
	ctx := orgCtx(orgID)

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Manual correction"})
	require.NoError(t, err)
	require.Empty(t, created.AppliesTo)

	forAdd, err := svc.List(ctx, domain.ListRequest{AdjustmentType: "ADD"})
	require.NoError(t, err)
	require.Len(t, forAdd, 1)

	forSub, err := svc.List(ctx, domain.ListRequest{AdjustmentType: "SUB"})
	require.NoError(t, err)
	require.Len(t, forSub, 1)
}

func TestAppliesToRoundTripsThroughStorage(t *testing.T) {
	svc, orgID := newTestService(t)
	ctx := orgCtx(orgID)

	created, err := svc.Create(ctx, domain.CreateRequest{
		Name:      "Return to vendor",
		AppliesTo: []string{"SUB", "RET_STOCK"},
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"SUB", "RET_STOCK"}, got.AppliesTo)
}

func TestDisableExcludesFromEnabledList(t *testing.T) {
	svc, orgID := newTestService(t)
	ctx := orgCtx(orgID)

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Obsolete"})
	require.NoError(t, err)
	require.NoError(t, svc.Disable(ctx, created.ID))

	enabled, err := svc.List(ctx, domain.ListRequest{EnabledOnly: true})
	require.NoError(t, err)
	require.Empty(t, enabled)
}

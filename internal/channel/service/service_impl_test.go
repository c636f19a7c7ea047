package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shopkit/tradepost/internal/channel/domain"
	"github.com/shopkit/tradepost/internal/channel/repository"
	"github.com/shopkit/tradepost/internal/orgcontext"
)

func newTestService(t *testing.T) (domain.Service, snowflake.ID) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Channel{}))

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

func TestCreateDerivesSlugCode(t *testing.T) {
	svc, orgID := newTestService(t)

	resp, err := svc.Create(orgCtx(orgID), domain.CreateRequest{Name: "Main Street POS"})
	require.NoError(t, err)
	require.Equal(t, "main-street-pos", resp.Code)
}

func TestCreateSuffixesDuplicateCodes(t *testing.T) {
	svc, orgID := newTestService(t)
	ctx := orgCtx(orgID)

	first, err := svc.Create(ctx, domain.CreateRequest{Name: "Webshop"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, domain.CreateRequest{Name: "Webshop"})
	require.NoError(t, err)

	require.Equal(t, "webshop", first.Code)
	require.Equal(t, "webshop-2", second.Code)
}

func TestUpdateKeepsCodeWhenNameChanges(t *testing.T) {
	svc, orgID := newTestService(t)
	ctx := orgCtx(orgID)

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Old Name"})
	require.NoError(t, err)

	newName := "Completely Different"
	updated, err := svc.Update(ctx, created.ID, domain.UpdateRequest{Name: &newName})
	require.NoError(t, err)
	require.Equal(t, "Completely Different", updated.Name)
	require.Equal(t, "old-name", updated.Code)
}

func TestDisableSurvivesRepeatCalls(t *testing.T) {
	svc, orgID := newTestService(t)
	ctx := orgCtx(orgID)

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Kiosk"})
	require.NoError(t, err)

	require.NoError(t, svc.Disable(ctx, created.ID))
	require.NoError(t, svc.Disable(ctx, created.ID))

	enabled, err := svc.List(ctx, domain.ListRequest{EnabledOnly: true})
	require.NoError(t, err)
	require.Empty(t, enabled)
}

func TestCreateRejectsBlankName(t *testing.T) {
	svc, orgID := newTestService(t)

	_, err := svc.Create(orgCtx(orgID), domain.CreateRequest{Name: "   "})
	require.ErrorIs(t, err, domain.ErrInvalidName)
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shopkit/tradepost/internal/cache"
	catalogdomain "github.com/shopkit/tradepost/internal/catalog/domain"
	catalogrepo "github.com/shopkit/tradepost/internal/catalog/repository"
	"github.com/shopkit/tradepost/internal/clock"
	"github.com/shopkit/tradepost/internal/config"
	"github.com/shopkit/tradepost/internal/inventory/domain"
	locationdomain "github.com/shopkit/tradepost/internal/location/domain"
	locationrepo "github.com/shopkit/tradepost/internal/location/repository"
	"github.com/shopkit/tradepost/internal/orgcontext"
	"github.com/shopkit/tradepost/internal/outbox"
	reasondomain "github.com/shopkit/tradepost/internal/reason/domain"
	reasonrepo "github.com/shopkit/tradepost/internal/reason/repository"
)

type testEnv struct {
	svc       domain.Service
	policy    *config.StockPolicyHolder
	clock     *clock.FakeClock
	genID     *snowflake.Node
	orgID     snowflake.ID
	products  catalogdomain.Repository
	locations locationdomain.Repository
	reasons   reasondomain.Repository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&domain.StockSummary{},
		&domain.Adjustment{},
		&catalogdomain.Product{},
		&locationdomain.Location{},
		&reasondomain.Reason{},
		&outbox.Event{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	products := catalogrepo.NewRepository(conn)
	locations := locationrepo.NewRepository(conn)
	reasons := reasonrepo.NewRepository(conn)
	policy := config.NewStaticStockPolicyHolder(config.DefaultStockPolicy())
	fakeClock := clock.NewFakeClock(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))

	svc := NewService(ServiceParams{
		DB:        conn,
		Log:       zap.NewNop(),
		GenID:     node,
		Clock:     fakeClock,
		Products:  products,
		Locations: locations,
		Reasons:   reasons,
		Policy:    policy,
		Cache:     cache.NewSummaryCache(),
		Publisher: outbox.NewPublisher(conn, node),
	})

	return &testEnv{
		svc:       svc,
		policy:    policy,
		clock:     fakeClock,
		genID:     node,
		orgID:     node.Generate(),
		products:  products,
		locations: locations,
		reasons:   reasons,
	}
}

func (e *testEnv) ctx() context.Context {
	return orgcontext.WithOrgID(context.Background(), e.orgID)
}

func (e *testEnv) seedProduct(t *testing.T, sku string, serialized, lotted bool) *catalogdomain.Product {
	t.Helper()
	product := &catalogdomain.Product{
		ID:           e.genID.Generate(),
		OrgID:        e.orgID,
		SKU:          sku,
		Name:         sku + " product",
		ListPrice:    decimal.NewFromInt(10),
		UOMSymbol:    "EA",
		IsSerialized: serialized,
		IsLotted:     lotted,
		IsActive:     true,
	}
	require.NoError(t, e.products.Create(e.ctx(), product))
	return product
}

func (e *testEnv) seedLocation(t *testing.T, code string) *locationdomain.Location {
	t.Helper()
	location := &locationdomain.Location{
		ID:        e.genID.Generate(),
		OrgID:     e.orgID,
		Code:      code,
		Name:      code + " warehouse",
		IsEnabled: true,
	}
	require.NoError(t, e.locations.Create(e.ctx(), location))
	return location
}

func (e *testEnv) seedReason(t *testing.T, name string, appliesTo ...string) *reasondomain.Reason {
	t.Helper()
	reason := &reasondomain.Reason{
		ID:        e.genID.Generate(),
		OrgID:     e.orgID,
		Name:      name,
		AppliesTo: pq.StringArray(appliesTo),
		IsEnabled: true,
	}
	require.NoError(t, e.reasons.Create(e.ctx(), reason))
	return reason
}

func (e *testEnv) draft(product *catalogdomain.Product, location *locationdomain.Location, reason *reasondomain.Reason, adjType, qty string) domain.AdjustmentDraft {
	return domain.AdjustmentDraft{
		ProductID:      product.ID.String(),
		LocationID:     location.ID.String(),
		AdjustmentType: adjType,
		QuantityChange: qty,
		ReasonID:       reason.ID.String(),
	}
}

func TestApplyAddsStockAndStampsReference(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "WIDGET-1", false, false)
	location := env.seedLocation(t, "MAIN")
	reason := env.seedReason(t, "Stock intake")

	resp, fieldErrs, err := env.svc.Apply(env.ctx(), env.draft(product, location, reason, "ADD", "10"))
	require.NoError(t, err)
	require.Nil(t, fieldErrs)
	require.NotNil(t, resp)
	require.Len(t, resp.ReferenceCode, 26)
	require.EqualValues(t, 10, resp.NewStockLevel)
	require.Nil(t, resp.Warning)

	resp, fieldErrs, err = env.svc.Apply(env.ctx(), env.draft(product, location, reason, "ADD", "5"))
	require.NoError(t, err)
	require.Nil(t, fieldErrs)
	require.EqualValues(t, 15, resp.NewStockLevel)

	summary, err := env.svc.GetSummary(env.ctx(), product.ID.String(), location.ID.String())
	require.NoError(t, err)
	require.EqualValues(t, 15, summary.StockQuantity)
	require.EqualValues(t, 15, summary.AvailableQuantity)
	require.False(t, summary.LowStock)
}

func TestApplyAccumulatesFieldErrors(t *testing.T) {
	env := newTestEnv(t)

	resp, fieldErrs, err := env.svc.Apply(env.ctx(), domain.AdjustmentDraft{})
	require.NoError(t, err)
	require.Nil(t, resp)
	require.Len(t, fieldErrs, 5)

	rows, err := env.svc.ListAdjustments(env.ctx(), domain.ListAdjustmentsRequest{})
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestApplyChecksReferences(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "WIDGET-2", false, false)
	location := env.seedLocation(t, "EAST")
	reason := env.seedReason(t, "Damage write-off", "SUB")

	draft := env.draft(product, location, reason, "ADD", "5")
	draft.ProductID = env.genID.Generate().String()
	_, fieldErrs, err := env.svc.Apply(env.ctx(), draft)
	require.NoError(t, err)
	require.Equal(t, "product not found", fieldErrs["product_id"])

	draft = env.draft(product, location, reason, "ADD", "5")
	draft.ReasonID = env.genID.Generate().String()
	_, fieldErrs, err = env.svc.Apply(env.ctx(), draft)
	require.NoError(t, err)
	require.Equal(t, "reason not found", fieldErrs["reason_id"])

	// The reason only applies to SUB.
	_, fieldErrs, err = env.svc.Apply(env.ctx(), env.draft(product, location, reason, "ADD", "5"))
	require.NoError(t, err)
	require.Equal(t, "reason does not apply to ADD", fieldErrs["reason_id"])

	resp, fieldErrs, err := env.svc.Apply(env.ctx(), env.draft(product, location, reason, "SUB", "-2"))
	require.NoError(t, err)
	require.Nil(t, fieldErrs)
	require.NotNil(t, resp)
}

func TestApplyNegativeStockAdvisory(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "WIDGET-3", false, false)
	location := env.seedLocation(t, "WEST")
	reason := env.seedReason(t, "Shrinkage")

	resp, fieldErrs, err := env.svc.Apply(env.ctx(), env.draft(product, location, reason, "SUB", "-5"))
	require.NoError(t, err)
	require.Nil(t, fieldErrs)
	require.NotNil(t, resp.Warning)
	require.EqualValues(t, -5, resp.NewStockLevel)

	summary, err := env.svc.GetSummary(env.ctx(), product.ID.String(), location.ID.String())
	require.NoError(t, err)
	require.EqualValues(t, -5, summary.StockQuantity)
}

func TestApplyNegativeStockRejectedByPolicy(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "WIDGET-4", false, false)
	location := env.seedLocation(t, "NORTH")
	reason := env.seedReason(t, "Shrinkage")

	policy := config.DefaultStockPolicy()
	policy.RejectNegativeStock = true
	env.policy.Set(policy)

	resp, fieldErrs, err := env.svc.Apply(env.ctx(), env.draft(product, location, reason, "SUB", "-5"))
	require.NoError(t, err)
	require.Nil(t, resp)
	require.Equal(t, "insufficient stock at this location", fieldErrs["quantity_change"])

	summary, err := env.svc.GetSummary(env.ctx(), product.ID.String(), location.ID.String())
	require.NoError(t, err)
	require.EqualValues(t, 0, summary.StockQuantity)
}

func TestApplyQuantityBoundedByPolicy(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "WIDGET-5", false, false)
	location := env.seedLocation(t, "SOUTH")
	reason := env.seedReason(t, "Bulk intake")

	_, fieldErrs, err := env.svc.Apply(env.ctx(), env.draft(product, location, reason, "ADD", "2000000"))
	require.NoError(t, err)
	require.Equal(t, "quantity change exceeds the configured maximum", fieldErrs["quantity_change"])
}

func TestApplySerialAndLotHandling(t *testing.T) {
	env := newTestEnv(t)
	serialized := env.seedProduct(t, "SER-1", true, false)
	plain := env.seedProduct(t, "PLAIN-1", false, false)
	location := env.seedLocation(t, "DOCK")
	reason := env.seedReason(t, "Intake")

	_, fieldErrs, err := env.svc.Apply(env.ctx(), env.draft(serialized, location, reason, "ADD", "1"))
	require.NoError(t, err)
	require.Equal(t, "serial number is required for serialized products", fieldErrs["serial_number"])

	draft := env.draft(serialized, location, reason, "ADD", "1")
	draft.SerialNumber = "SN-100"
	resp, fieldErrs, err := env.svc.Apply(env.ctx(), draft)
	require.NoError(t, err)
	require.Nil(t, fieldErrs)
	require.NotNil(t, resp.SerialNumber)
	require.Equal(t, "SN-100", *resp.SerialNumber)

	// Inapplicable identifiers never survive normalization.
	draft = env.draft(plain, location, reason, "ADD", "1")
	draft.SerialNumber = "SN-200"
	draft.LotNumber = "LOT-9"
	draft.ExpiryDate = "2027-03-01"
	resp, fieldErrs, err = env.svc.Apply(env.ctx(), draft)
	require.NoError(t, err)
	require.Nil(t, fieldErrs)
	require.Nil(t, resp.SerialNumber)
	require.Nil(t, resp.LotNumber)
	require.Nil(t, resp.ExpiryDate)
}

func TestApplyRoutesBuckets(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "WIDGET-6", false, false)
	location := env.seedLocation(t, "HUB")
	reason := env.seedReason(t, "Ops")

	_, _, err := env.svc.Apply(env.ctx(), env.draft(product, location, reason, "ADD", "20"))
	require.NoError(t, err)
	_, _, err = env.svc.Apply(env.ctx(), env.draft(product, location, reason, "RES", "3"))
	require.NoError(t, err)
	_, _, err = env.svc.Apply(env.ctx(), env.draft(product, location, reason, "HOLD", "2"))
	require.NoError(t, err)
	_, _, err = env.svc.Apply(env.ctx(), env.draft(product, location, reason, "NON_SALE", "4"))
	require.NoError(t, err)

	summary, err := env.svc.GetSummary(env.ctx(), product.ID.String(), location.ID.String())
	require.NoError(t, err)
	require.EqualValues(t, 20, summary.StockQuantity)
	require.EqualValues(t, 3, summary.ReservedQuantity)
	require.EqualValues(t, 2, summary.OnHoldQuantity)
	require.EqualValues(t, 4, summary.NonSaleableQuantity)
	require.EqualValues(t, 15, summary.AvailableQuantity)

	_, _, err = env.svc.Apply(env.ctx(), env.draft(product, location, reason, "REL_RES", "-3"))
	require.NoError(t, err)
	summary, err = env.svc.GetSummary(env.ctx(), product.ID.String(), location.ID.String())
	require.NoError(t, err)
	require.EqualValues(t, 0, summary.ReservedQuantity)
	require.EqualValues(t, 18, summary.AvailableQuantity)
}

func TestGetSummaryZeroedForUnknownPair(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct(t, "WIDGET-7", false, false)
	location := env.seedLocation(t, "COLD")

	summary, err := env.svc.GetSummary(env.ctx(), product.ID.String(), location.ID.String())
	require.NoError(t, err)
	require.EqualValues(t, 0, summary.StockQuantity)
	require.True(t, summary.LowStock)
	require.Nil(t, summary.UpdatedAt)
}

func TestListAdjustmentsFilters(t *testing.T) {
	env := newTestEnv(t)
	first := env.seedProduct(t, "WIDGET-8", false, false)
	second := env.seedProduct(t, "WIDGET-9", false, false)
	location := env.seedLocation(t, "BAY")
	reason := env.seedReason(t, "Ops")

	_, _, err := env.svc.Apply(env.ctx(), env.draft(first, location, reason, "ADD", "5"))
	require.NoError(t, err)
	_, _, err = env.svc.Apply(env.ctx(), env.draft(second, location, reason, "ADD", "7"))
	require.NoError(t, err)
	_, _, err = env.svc.Apply(env.ctx(), env.draft(first, location, reason, "SUB", "-1"))
	require.NoError(t, err)

	rows, err := env.svc.ListAdjustments(env.ctx(), domain.ListAdjustmentsRequest{})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	rows, err = env.svc.ListAdjustments(env.ctx(), domain.ListAdjustmentsRequest{ProductID: first.ID.String()})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	rows, err = env.svc.ListAdjustments(env.ctx(), domain.ListAdjustmentsRequest{AdjustmentType: "sub"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.EqualValues(t, -1, rows[0].QuantityChange)
}

func TestApplyRequiresOrganization(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.svc.Apply(context.Background(), domain.AdjustmentDraft{})
	require.ErrorIs(t, err, domain.ErrInvalidOrganization)
}

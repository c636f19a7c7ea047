package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/shopkit/tradepost/internal/customer/domain"
	"github.com/shopkit/tradepost/internal/customer/repository"
	groupdomain "github.com/shopkit/tradepost/internal/customergroup/domain"
	grouprepo "github.com/shopkit/tradepost/internal/customergroup/repository"
	"github.com/shopkit/tradepost/internal/orgcontext"
)

func newTestService(t *testing.T) (domain.Service, groupdomain.Repository, snowflake.ID) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&domain.Customer{},
		&domain.Contact{},
		&domain.Address{},
		&groupdomain.CustomerGroup{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	groups := grouprepo.NewRepository(conn)
	svc := NewService(serviceParams{
		Log:    zap.NewNop(),
		GenID:  node,
		Repo:   repository.NewRepository(conn),
		Groups: groups,
	})
	return svc, groups, node.Generate()
}

func orgCtx(orgID snowflake.ID) context.Context {
	return orgcontext.WithOrgID(context.Background(), orgID)
}

func strPtr(s string) *string { return &s }

func TestCreateNormalizesPhone(t *testing.T) {
	svc, _, orgID := newTestService(t)

	resp, err := svc.Create(orgCtx(orgID), domain.CreateRequest{
		DisplayName: "Asha Traders",
		Kind:        "business",
		Phone:       strPtr("98765 43210"),
	})
	require.NoError(t, err)
	require.Equal(t, "BUSINESS", resp.Kind)
	require.NotNil(t, resp.Phone)
	require.Equal(t, "+919876543210", *resp.Phone)
}

func TestCreateRejectsUnknownGroup(t *testing.T) {
	svc, _, orgID := newTestService(t)

	missing := snowflake.ID(424242).String()
	_, err := svc.Create(orgCtx(orgID), domain.CreateRequest{
		DisplayName: "Orphan",
		GroupID:     &missing,
	})
	require.ErrorIs(t, err, domain.ErrGroupNotFound)
}

func TestPrimaryContactFlagMoves(t *testing.T) {
	svc, _, orgID := newTestService(t)
	ctx := orgCtx(orgID)

	customer, err := svc.Create(ctx, domain.CreateRequest{DisplayName: "Acme"})
	require.NoError(t, err)

	first, err := svc.AddContact(ctx, customer.ID, domain.ContactRequest{
		FirstName: "Ravi",
		IsPrimary: true,
	})
	require.NoError(t, err)
	require.True(t, first.IsPrimary)

	second, err := svc.AddContact(ctx, customer.ID, domain.ContactRequest{
		FirstName: "Meera",
		IsPrimary: true,
	})
	require.NoError(t, err)
	require.True(t, second.IsPrimary)

	contacts, err := svc.ListContacts(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, contacts, 2)

	var primaries int
	for _, c := range contacts {
		if c.IsPrimary {
			primaries++
			require.Equal(t, "Meera", c.FirstName)
		}
	}
	require.Equal(t, 1, primaries)
}

func TestDefaultAddressIsPerKind(t *testing.T) {
	svc, _, orgID := newTestService(t)
	ctx := orgCtx(orgID)

	customer, err := svc.Create(ctx, domain.CreateRequest{DisplayName: "Acme"})
	require.NoError(t, err)

	billing, err := svc.AddAddress(ctx, customer.ID, domain.AddressRequest{
		Kind: "billing", Line1: "1 Fort Rd", City: "Mumbai", PostalCode: "400001", Country: "in", IsDefault: true,
	})
	require.NoError(t, err)
	require.Equal(t, "IN", billing.Country)

	shipping, err := svc.AddAddress(ctx, customer.ID, domain.AddressRequest{
		Kind: "shipping", Line1: "2 Dock St", City: "Mumbai", PostalCode: "400002", Country: "IN", IsDefault: true,
	})
	require.NoError(t, err)
	require.True(t, shipping.IsDefault)

	// Billing default must survive the shipping default.
	addresses, err := svc.ListAddresses(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	for _, a := range addresses {
		require.True(t, a.IsDefault)
	}

	// A second billing default steals the flag from the first.
	_, err = svc.AddAddress(ctx, customer.ID, domain.AddressRequest{
		Kind: "billing", Line1: "3 Hill Ave", City: "Pune", PostalCode: "411001", Country: "IN", IsDefault: true,
	})
	require.NoError(t, err)

	addresses, err = svc.ListAddresses(ctx, customer.ID)
	require.NoError(t, err)
	var billingDefaults int
	for _, a := range addresses {
		if a.Kind == "billing" && a.IsDefault {
			billingDefaults++
			require.Equal(t, "3 Hill Ave", a.Line1)
		}
	}
	require.Equal(t, 1, billingDefaults)
}

func TestSeedRequiresMatchingTag(t *testing.T) {
	svc, _, orgID := newTestService(t)
	ctx := orgCtx(orgID)

	_, err := svc.Seed(ctx, domain.SeedRequest{
		Kind:     domain.SeedKindContacts,
		Contacts: []domain.SeedContact{{DisplayName: "A"}},
		Lists:    []domain.SeedList{{Name: "L", Members: nil}},
	})
	require.ErrorIs(t, err, domain.ErrMixedSeed)

	_, err = svc.Seed(ctx, domain.SeedRequest{Kind: "bogus"})
	require.ErrorIs(t, err, domain.ErrInvalidSeedKind)

	_, err = svc.Seed(ctx, domain.SeedRequest{Kind: domain.SeedKindLists})
	require.ErrorIs(t, err, domain.ErrEmptySeed)
}

func TestSeedContactsCreatesCustomers(t *testing.T) {
	svc, _, orgID := newTestService(t)
	ctx := orgCtx(orgID)

	result, err := svc.Seed(ctx, domain.SeedRequest{
		Kind: domain.SeedKindContacts,
		Contacts: []domain.SeedContact{
			{DisplayName: "Asha", Phone: strPtr("9876543210")},
			{DisplayName: "  "},
			{DisplayName: "Binod", Email: strPtr("binod@example.com")},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.CustomersCreated)
	require.Len(t, result.Skipped, 1)

	customers, err := svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, customers, 2)
}

func TestSeedListsCreatesGroupsAndMembers(t *testing.T) {
	svc, groups, orgID := newTestService(t)
	ctx := orgCtx(orgID)

	result, err := svc.Seed(ctx, domain.SeedRequest{
		Kind: domain.SeedKindLists,
		Lists: []domain.SeedList{
			{Name: "Wholesale", Members: []domain.SeedContact{{DisplayName: "Asha"}, {DisplayName: "Binod"}}},
			{Name: "Retail", Members: []domain.SeedContact{{DisplayName: "Chitra"}}},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.GroupsCreated)
	require.Equal(t, 3, result.CustomersCreated)

	wholesale, err := groups.FindByName(ctx, orgID, "Wholesale")
	require.NoError(t, err)
	require.NotNil(t, wholesale)

	members, err := svc.List(ctx, domain.ListRequest{GroupID: wholesale.ID.String()})
	require.NoError(t, err)
	require.Len(t, members, 2)
}

func TestSeedReusesExistingGroup(t *testing.T) {
	svc, groups, orgID := newTestService(t)
	ctx := orgCtx(orgID)

	_, err := svc.Seed(ctx, domain.SeedRequest{
		Kind:  domain.SeedKindLists,
		Lists: []domain.SeedList{{Name: "VIP", Members: []domain.SeedContact{{DisplayName: "First"}}}},
	})
	require.NoError(t, err)

	_, err = svc.Seed(ctx, domain.SeedRequest{
		Kind:  domain.SeedKindLists,
		Lists: []domain.SeedList{{Name: "VIP", Members: []domain.SeedContact{{DisplayName: "Second"}}}},
	})
	require.NoError(t, err)

	vip, err := groups.FindByName(ctx, orgID, "VIP")
	require.NoError(t, err)
	require.NotNil(t, vip)

	members, err := svc.List(ctx, domain.ListRequest{GroupID: vip.ID.String()})
	require.NoError(t, err)
	require.Len(t, members, 2)
}

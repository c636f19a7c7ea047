package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	locationdomain "github.com/shopkit/tradepost/internal/location/domain"
	organizationdomain "github.com/shopkit/tradepost/internal/organization/domain"
	"gorm.io/gorm"
)

const (
	defaultOrgName      = "Main"
	defaultLocationCode = "MAIN"
	defaultLocationName = "Main Warehouse"
)

// EnsureDefaultOrg seeds the default organization and its first stock
// location so a fresh install can take orders and adjustments immediately.
func EnsureDefaultOrg(db *gorm.DB, name string) error {
	return ensure(db, 0, name)
}

// EnsureDefaultOrgWithID pins the seeded org to a fixed ID. Deploys that
// point several services at one database use it to agree on the tenant.
func EnsureDefaultOrgWithID(db *gorm.DB, id int64, name string) error {
	return ensure(db, snowflake.ID(id), name)
}

func ensure(db *gorm.DB, id snowflake.ID, name string) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	if strings.TrimSpace(name) == "" {
		name = defaultOrgName
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		org, err := ensureOrgTx(ctx, tx, node, id, name)
		if err != nil {
			return err
		}
		return ensureDefaultLocationTx(ctx, tx, node, org.ID)
	})
}

func ensureOrgTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, id snowflake.ID, name string) (organizationdomain.Organization, error) {
	orgSlug := slug.Make(name)

	var org organizationdomain.Organization
	err := tx.WithContext(ctx).Where("slug = ?", orgSlug).First(&org).Error
	if err == nil {
		return org, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return org, err
	}

	if id == 0 {
		id = node.Generate()
	}
	now := time.Now().UTC()
	org = organizationdomain.Organization{
		ID:        id,
		Name:      name,
		Slug:      orgSlug,
		IsDefault: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&org).Error; err != nil {
		return org, err
	}
	return org, nil
}

func ensureDefaultLocationTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, orgID snowflake.ID) error {
	var loc locationdomain.Location
	err := tx.WithContext(ctx).
		Where("org_id = ? AND code = ?", orgID, defaultLocationCode).
		First(&loc).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now().UTC()
	loc = locationdomain.Location{
		ID:        node.Generate(),
		OrgID:     orgID,
		Code:      defaultLocationCode,
		Name:      defaultLocationName,
		IsDefault: true,
		IsEnabled: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return tx.WithContext(ctx).Create(&loc).Error
}

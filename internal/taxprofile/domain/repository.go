package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"

	"github.com/shopkit/tradepost/pkg/db/option"
)

type Repository interface {
	// Create persists the profile together with its rules and outcomes in
	// one transaction.
	Create(ctx context.Context, profile *TaxProfile) error
	// ReplaceRules swaps the profile's rule set atomically.
	ReplaceRules(ctx context.Context, profile *TaxProfile) error
	Update(ctx context.Context, profile *TaxProfile) error
	FindByID(ctx context.Context, orgID, id snowflake.ID) (*TaxProfile, error)
	FindByName(ctx context.Context, orgID snowflake.ID, name string) (*TaxProfile, error)
	Find(ctx context.Context, orgID snowflake.ID, opts ...option.QueryOption) ([]TaxProfile, error)
	// LoadRules populates Rules and their Outcomes ordered by rule priority
	// then outcome position.
	LoadRules(ctx context.Context, profile *TaxProfile) error
}

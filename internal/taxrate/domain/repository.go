package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"

	"github.com/shopkit/tradepost/pkg/db/option"
)

type Repository interface {
	Create(ctx context.Context, rate *TaxRate) error
	Update(ctx context.Context, rate *TaxRate) error
	FindByID(ctx context.Context, orgID, id snowflake.ID) (*TaxRate, error)
	FindByName(ctx context.Context, orgID snowflake.ID, name string) (*TaxRate, error)
	Find(ctx context.Context, orgID snowflake.ID, opts ...option.QueryOption) ([]TaxRate, error)
	FindByIDs(ctx context.Context, orgID snowflake.ID, ids []snowflake.ID) ([]TaxRate, error)
}

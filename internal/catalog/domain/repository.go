package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"

	"github.com/shopkit/tradepost/pkg/db/option"
)

type Repository interface {
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, orgID, id snowflake.ID) (*Product, error)
	FindBySKU(ctx context.Context, orgID snowflake.ID, sku string) (*Product, error)
	Find(ctx context.Context, orgID snowflake.ID, opts ...option.QueryOption) ([]Product, error)
	Search(ctx context.Context, orgID snowflake.ID, term string, activeOnly bool, limit int) ([]Product, error)
}

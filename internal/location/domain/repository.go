package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"

	"github.com/shopkit/tradepost/pkg/db/option"
)

type Repository interface {
	Create(ctx context.Context, location *Location) error
	Update(ctx context.Context, location *Location) error
	FindByID(ctx context.Context, orgID, id snowflake.ID) (*Location, error)
	FindByCode(ctx context.Context, orgID snowflake.ID, code string) (*Location, error)
	Find(ctx context.Context, orgID snowflake.ID, opts ...option.QueryOption) ([]Location, error)
	// ClearDefault drops the default flag from every location in the org.
	ClearDefault(ctx context.Context, orgID snowflake.ID) error
}

package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"

	"github.com/shopkit/tradepost/pkg/db/option"
)

type Repository interface {
	Create(ctx context.Context, group *CustomerGroup) error
	Update(ctx context.Context, group *CustomerGroup) error
	FindByID(ctx context.Context, orgID, id snowflake.ID) (*CustomerGroup, error)
	FindByName(ctx context.Context, orgID snowflake.ID, name string) (*CustomerGroup, error)
	Find(ctx context.Context, orgID snowflake.ID, opts ...option.QueryOption) ([]CustomerGroup, error)
}

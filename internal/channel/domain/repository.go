package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"

	"github.com/shopkit/tradepost/pkg/db/option"
)

type Repository interface {
	Create(ctx context.Context, channel *Channel) error
	Update(ctx context.Context, channel *Channel) error
	FindByID(ctx context.Context, orgID, id snowflake.ID) (*Channel, error)
	FindByCode(ctx context.Context, orgID snowflake.ID, code string) (*Channel, error)
	Find(ctx context.Context, orgID snowflake.ID, opts ...option.QueryOption) ([]Channel, error)
}

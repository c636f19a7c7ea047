package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"

	"github.com/shopkit/tradepost/pkg/db/option"
)

type Repository interface {
	Create(ctx context.Context, reason *Reason) error
	Update(ctx context.Context, reason *Reason) error
	FindByID(ctx context.Context, orgID, id snowflake.ID) (*Reason, error)
	FindByName(ctx context.Context, orgID snowflake.ID, name string) (*Reason, error)
	Find(ctx context.Context, orgID snowflake.ID, opts ...option.QueryOption) ([]Reason, error)
}

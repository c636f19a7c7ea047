// Package outbox persists domain events in the same database as the state
// change that produced them. The relay drains the table and hands each
// event to a sink.
package outbox

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopkit/tradepost/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	OrganizationCreatedTopic = "organization.created"
	OrderSubmittedTopic      = "order.submitted"
	StockAdjustedTopic       = "inventory.adjusted"
)

type Event struct {
	ID        snowflake.ID   `gorm:"primaryKey"`
	OrgID     snowflake.ID   `gorm:"column:org_id;not null;index"`
	Topic     string         `gorm:"type:text;not null;index"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	Published bool           `gorm:"not null;default:false;index"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Event) TableName() string { return "outbox_events" }

type Publisher interface {
	Publish(ctx context.Context, orgID snowflake.ID, topic string, payload []byte) error
}

type publisher struct {
	db    *gorm.DB
	genID *snowflake.Node
}

func NewPublisher(db *gorm.DB, genID *snowflake.Node) Publisher {
	return &publisher{db: db, genID: genID}
}

func (p *publisher) Publish(ctx context.Context, orgID snowflake.ID, topic string, payload []byte) error {
	return p.db.WithContext(ctx).Exec(
		`INSERT INTO outbox_events (id, org_id, topic, payload, published, created_at)
		 VALUES (?, ?, ?, ?, false, ?)`,
		p.genID.Generate(),
		orgID,
		topic,
		datatypes.JSON(payload),
		time.Now().UTC(),
	).Error
}

var Module = fx.Module("outbox",
	fx.Provide(NewPublisher),
	fx.Provide(func(log *zap.Logger) Sink { return NewLogSink(log) }),
	fx.Provide(provideRelayConfig),
	fx.Provide(NewRelay),
	fx.Invoke(runRelay),
)

func provideRelayConfig(cfg config.Config) RelayConfig {
	return RelayConfig{
		Interval:  time.Duration(cfg.Outbox.RelayIntervalSeconds) * time.Second,
		BatchSize: cfg.Outbox.RelayBatchSize,
	}
}

func runRelay(lc fx.Lifecycle, relay *Relay, cfg config.Config) {
	if !cfg.Outbox.RelayEnabled {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				relay.RunForever(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

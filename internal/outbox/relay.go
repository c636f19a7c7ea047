package outbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Sink receives events drained from the outbox table. Delivery is
// at-least-once, so sinks must treat the event ID as an idempotency key.
type Sink interface {
	Deliver(ctx context.Context, event Event) error
}

// LogSink writes delivered events to the service log. It is the default
// sink for deployments that have no broker attached.
type LogSink struct {
	log *zap.Logger
}

func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Deliver(_ context.Context, event Event) error {
	s.log.Info("outbox event",
		zap.String("event_id", event.ID.String()),
		zap.String("org_id", event.OrgID.String()),
		zap.String("topic", event.Topic),
	)
	return nil
}

// RelayConfig controls relay cadence and batch size.
type RelayConfig struct {
	Interval  time.Duration
	BatchSize int
}

func DefaultRelayConfig() RelayConfig {
	return RelayConfig{
		Interval:  5 * time.Second,
		BatchSize: 100,
	}
}

func (c RelayConfig) withDefaults() RelayConfig {
	defaults := DefaultRelayConfig()
	if c.Interval <= 0 {
		c.Interval = defaults.Interval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaults.BatchSize
	}
	return c
}

// Relay drains unpublished events and hands them to the sink. One relay
// runs per deployment; rows stay unpublished until the sink accepts them.
type Relay struct {
	db   *gorm.DB
	log  *zap.Logger
	cfg  RelayConfig
	sink Sink
}

func NewRelay(db *gorm.DB, log *zap.Logger, cfg RelayConfig, sink Sink) (*Relay, error) {
	if db == nil || log == nil {
		return nil, errors.New("outbox relay requires db and log")
	}
	if sink == nil {
		sink = NewLogSink(log)
	}
	return &Relay{
		db:   db,
		log:  log.Named("outbox_relay"),
		cfg:  cfg.withDefaults(),
		sink: sink,
	}, nil
}

// RunOnce delivers at most one batch and reports how many events were
// published. A sink failure leaves the row unpublished for the next run.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	var events []Event
	err := r.db.WithContext(ctx).
		Where("published = ?", false).
		Order("id").
		Limit(r.cfg.BatchSize).
		Find(&events).Error
	if err != nil {
		return 0, err
	}

	published := 0
	var runErr error
	for _, event := range events {
		if ctx.Err() != nil {
			return published, errors.Join(runErr, ctx.Err())
		}
		if err := r.sink.Deliver(ctx, event); err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("deliver %s: %w", event.ID, err))
			continue
		}
		if err := r.db.WithContext(ctx).Model(&Event{}).
			Where("id = ?", event.ID).
			Update("published", true).Error; err != nil {
			runErr = errors.Join(runErr, fmt.Errorf("mark %s: %w", event.ID, err))
			continue
		}
		published++
	}
	return published, runErr
}

// RunForever drains the table on a fixed interval until ctx is canceled.
func (r *Relay) RunForever(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		published, err := r.RunOnce(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			r.log.Warn("outbox relay run failed", zap.Error(err))
		}
		if published > 0 {
			r.log.Info("outbox events published", zap.Int("count", published))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

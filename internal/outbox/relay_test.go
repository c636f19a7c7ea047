package outbox

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type captureSink struct {
	delivered []Event
	failTopic string
}

func (s *captureSink) Deliver(_ context.Context, event Event) error {
	if s.failTopic != "" && event.Topic == s.failTopic {
		return errors.New("sink unavailable")
	}
	s.delivered = append(s.delivered, event)
	return nil
}

func newRelayFixture(t *testing.T, cfg RelayConfig, sink Sink) (*Relay, Publisher, *gorm.DB) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&Event{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	relay, err := NewRelay(conn, zap.NewNop(), cfg, sink)
	require.NoError(t, err)
	return relay, NewPublisher(conn, node), conn
}

func publishedCount(t *testing.T, conn *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, conn.Model(&Event{}).Where("published = ?", true).Count(&count).Error)
	return count
}

func TestRelayPublishesPendingInOrder(t *testing.T) {
	sink := &captureSink{}
	relay, pub, conn := newRelayFixture(t, RelayConfig{}, sink)
	ctx := context.Background()
	org := snowflake.ID(42)

	require.NoError(t, pub.Publish(ctx, org, OrderSubmittedTopic, []byte(`{"order_id":"1"}`)))
	require.NoError(t, pub.Publish(ctx, org, StockAdjustedTopic, []byte(`{"reference_code":"A"}`)))

	published, err := relay.RunOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, published)
	require.Len(t, sink.delivered, 2)
	require.Equal(t, OrderSubmittedTopic, sink.delivered[0].Topic)
	require.Equal(t, StockAdjustedTopic, sink.delivered[1].Topic)
	require.EqualValues(t, 2, publishedCount(t, conn))

	// A second run has nothing left to drain.
	published, err = relay.RunOnce(ctx)
	require.NoError(t, err)
	require.Zero(t, published)
	require.Len(t, sink.delivered, 2)
}

func TestRelayRespectsBatchSize(t *testing.T) {
	sink := &captureSink{}
	relay, pub, conn := newRelayFixture(t, RelayConfig{BatchSize: 2}, sink)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, pub.Publish(ctx, snowflake.ID(7), OrganizationCreatedTopic, []byte(`{}`)))
	}

	published, err := relay.RunOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, published)
	require.EqualValues(t, 2, publishedCount(t, conn))
}

func TestRelayKeepsRowWhenSinkFails(t *testing.T) {
	sink := &captureSink{failTopic: OrderSubmittedTopic}
	relay, pub, conn := newRelayFixture(t, RelayConfig{}, sink)
	ctx := context.Background()
	org := snowflake.ID(42)

	require.NoError(t, pub.Publish(ctx, org, OrderSubmittedTopic, []byte(`{}`)))
	require.NoError(t, pub.Publish(ctx, org, StockAdjustedTopic, []byte(`{}`)))

	published, err := relay.RunOnce(ctx)
	require.Error(t, err)
	require.Equal(t, 1, published)
	require.EqualValues(t, 1, publishedCount(t, conn))

	// Once the sink recovers the stuck event goes out on the next run.
	sink.failTopic = ""
	published, err = relay.RunOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, published)
	require.EqualValues(t, 2, publishedCount(t, conn))
}

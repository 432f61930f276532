package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredpanda "github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/twmb/franz-go/pkg/kgo"

	"mintpass/internal/events"
)

// TestPublisher_RoundTrip produces through the publisher and consumes the
// records back from a real broker.
func TestPublisher_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping kafka integration test in short mode")
	}

	ctx := context.Background()

	container, err := tcredpanda.Run(ctx, "docker.redpanda.com/redpandadata/redpanda:v24.1.2")
	require.NoError(t, err, "failed to start redpanda container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	broker, err := container.KafkaSeedBroker(ctx)
	require.NoError(t, err)

	const topic = "mintpass.events.test"
	pub, err := New(ctx, []string{broker}, topic)
	require.NoError(t, err)
	t.Cleanup(pub.Close)

	// publishing is idempotent with respect to topic creation
	pub2, err := New(ctx, []string{broker}, topic)
	require.NoError(t, err)
	pub2.Close()

	minted := events.New(events.TypePassMinted)
	minted.TokenID = 1
	minted.Wallet = "0xaaa"
	minted.Price = "5000000000000000"
	require.NoError(t, pub.Emit(ctx, minted))

	claimed := events.New(events.TypeTokensClaimed)
	claimed.TokenID = 1
	claimed.Wallet = "0xaaa"
	claimed.Amount = 1000
	require.NoError(t, pub.Emit(ctx, claimed))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	t.Cleanup(consumer.Close)

	var got []events.Event
	deadline := time.Now().Add(30 * time.Second)
	for len(got) < 2 && time.Now().Before(deadline) {
		fetchCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		fetches := consumer.PollFetches(fetchCtx)
		cancel()
		fetches.EachRecord(func(r *kgo.Record) {
			var e events.Event
			require.NoError(t, json.Unmarshal(r.Value, &e))
			assert.Equal(t, "1", string(r.Key), "records are keyed by token id")
			got = append(got, e)
		})
	}

	require.Len(t, got, 2)
	assert.Equal(t, events.TypePassMinted, got[0].Type)
	assert.Equal(t, "5000000000000000", got[0].Price)
	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, events.TypeTokensClaimed, got[1].Type)
	assert.Equal(t, uint64(1000), got[1].Amount)
}

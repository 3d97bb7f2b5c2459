package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/connectors/pkg/testing/testhelper"
	"github.com/c9s/connectors/pkg/types"
)

func testSnapshot(updatedAt time.Time) types.MarketSnapshot {
	return types.MarketSnapshot{
		Markets: testhelper.AllMarkets(),
		Currencies: types.CurrencyMap{
			"BTC": types.Currency{ID: "btc", Code: "BTC"},
		},
		UpdatedAt: updatedAt,
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1700000000, 0)

	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }

	snapshot, err := store.Load(ctx, "probit")
	require.NoError(t, err)
	assert.Nil(t, snapshot)

	require.NoError(t, store.Save(ctx, "probit", testSnapshot(now)))

	snapshot, err = store.Load(ctx, "probit")
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, "BTCUSDT", snapshot.Markets["BTC/USDT"].ID)
	assert.Equal(t, "btc", snapshot.Currencies["BTC"].ID)

	// returned maps are copies
	delete(snapshot.Markets, "BTC/USDT")
	snapshot, err = store.Load(ctx, "probit")
	require.NoError(t, err)
	assert.Len(t, snapshot.Markets, len(testhelper.AllMarkets()))

	_, err = store.Load(ctx, "hollaex")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	snapshot, err = store.Load(ctx, "probit")
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}

func TestMemoryStoreStampsSnapshot(t *testing.T) {
	now := time.Unix(1700000000, 0)
	store := NewMemoryStore(0)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(context.Background(), "novadax", testSnapshot(time.Time{})))
	snapshot, err := store.Load(context.Background(), "novadax")
	require.NoError(t, err)
	assert.Equal(t, now, snapshot.UpdatedAt)
}

func TestRedisStoreKey(t *testing.T) {
	assert.Equal(t, "markets:foxbit", NewRedisStoreWithClient(nil, "", 0).key("foxbit"))
	assert.Equal(t, "prod:markets:foxbit", NewRedisStoreWithClient(nil, "prod", 0).key("foxbit"))
}

func TestRedisStore(t *testing.T) {
	host := os.Getenv("TEST_REDIS_HOST")
	if host == "" {
		t.Skip("TEST_REDIS_HOST is not set")
	}

	port := os.Getenv("TEST_REDIS_PORT")
	if port == "" {
		port = "6379"
	}

	ctx := context.Background()
	store := NewRedisStore(RedisConfig{Host: host, Port: port, Namespace: "connectors-test", Expiry: time.Minute})
	defer store.Reset(ctx, "bitteam")

	snapshot, err := store.Load(ctx, "bitteam")
	require.NoError(t, err)
	assert.Nil(t, snapshot)

	updatedAt := time.Unix(1700000000, 0).UTC()
	require.NoError(t, store.Save(ctx, "bitteam", testSnapshot(updatedAt)))

	snapshot, err = store.Load(ctx, "bitteam")
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, types.Number("0.00000001"), snapshot.Markets["BTC/BRL"].Precision.Amount)
	assert.True(t, updatedAt.Equal(snapshot.UpdatedAt))
}

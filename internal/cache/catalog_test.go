package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/safar/go-storefront/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestDisabledCache(t *testing.T) {
	ctx := context.Background()

	for _, c := range []*CatalogCache{nil, NewCatalogCache(nil, time.Minute)} {
		assert.False(t, c.Enabled())
		require.NoError(t, c.Set(ctx, []models.Product{{ID: "p1"}}))

		_, ok, err := c.Get(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, c.Invalidate(ctx))
	}
}

func TestRedisCatalogCache(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Redis integration test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = rdb.Close() })

	c := NewCatalogCache(rdb, time.Minute)

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	in := []models.Product{
		{ID: "p1", Title: "Priced", Price: decimal.NewNullDecimal(decimal.NewFromInt(750))},
		{ID: "p2", Title: "Priceless"},
	}
	require.NoError(t, c.Set(ctx, in))

	out, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, out, 2)
	assert.True(t, out[0].Price.Decimal.Equal(decimal.NewFromInt(750)))
	assert.False(t, out[1].ForSale())

	ttl, err := rdb.TTL(ctx, catalogKey).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, c.Invalidate(ctx))
	_, ok, err = c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

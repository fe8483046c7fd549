package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.connectwisedev.com/serverless-shop/models"
	"gitlab.connectwisedev.com/serverless-shop/pkg/config"
)

func newTestCache(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewFromClient(client), mr
}

func product(id, name string, qty int) models.Product {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return models.Product{ID: id, Name: name, Price: 1.5, Qty: qty, CreatedAt: ts, UpdatedAt: ts}
}

func TestProducts_EmptyCacheIsMiss(t *testing.T) {
	c, _ := newTestCache(t)

	_, err := c.Products(context.Background())
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestReplaceProducts_ThenRead(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	require.NoError(t, c.SetProduct(ctx, product("stale", "Old", 1)))

	want := []models.Product{product("a", "Alpha", 3), product("b", "Beta", 0)}
	require.NoError(t, c.ReplaceProducts(ctx, want))

	got, err := c.Products(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, want, got)

	members, err := mr.Members(AllProductIDsKey)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, members)
	assert.Equal(t, ProductTTL, mr.TTL(ProductKey("a")))
}

func TestProducts_OrderedByName(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)
	require.NoError(t, c.ReplaceProducts(ctx, []models.Product{
		product("z", "Zulu", 1), product("a", "Alpha", 1), product("m", "Mike", 1),
	}))

	for i := 0; i < 5; i++ {
		got, err := c.Products(ctx)
		require.NoError(t, err)
		names := make([]string, len(got))
		for j, p := range got {
			names[j] = p.Name
		}
		assert.Equal(t, []string{"Alpha", "Mike", "Zulu"}, names)
	}
}

func TestProducts_EvictedKeyIsMiss(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)
	require.NoError(t, c.ReplaceProducts(ctx, []models.Product{product("a", "Alpha", 3), product("b", "Beta", 1)}))

	require.NoError(t, c.InvalidateProduct(ctx, "a"))

	_, err := c.Products(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestProducts_CorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	require.NoError(t, c.SetProduct(ctx, product("a", "Alpha", 3)))
	require.NoError(t, mr.Set(ProductKey("a"), "{not json"))

	_, err := c.Products(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisClient(config.Redis{Addr: mr.Addr()})
	require.NoError(t, err)
	defer c.Close()
	assert.NotNil(t, c.GetClient())

	_, err = NewRedisClient(config.Redis{})
	assert.Error(t, err)
}

package cache

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"gitlab.connectwisedev.com/serverless-shop/models"
)

// Product cache layout: one JSON document per product plus a set of all ids.
const (
	AllProductIDsKey = "all_product_ids"
	ProductTTL       = 5 * time.Minute
)

// ErrCacheMiss means the cache cannot answer and the database should be used.
var ErrCacheMiss = errors.New("product cache miss")

func ProductKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

// Products reads every cached product, ordered by name. Any gap in the cache is a miss so the
// caller never serves a partial catalog.
func (c *RedisClient) Products(ctx context.Context) ([]models.Product, error) {
	productIDs, err := c.client.SMembers(ctx, AllProductIDsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get %s from Redis: %w", AllProductIDsKey, err)
	}
	if len(productIDs) == 0 {
		return nil, ErrCacheMiss
	}

	keys := make([]string, len(productIDs))
	for i, id := range productIDs {
		keys[i] = ProductKey(id)
	}

	results, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to MGET products from Redis: %w", err)
	}

	products := make([]models.Product, 0, len(results))
	for i, res := range results {
		productJSON, ok := res.(string)
		if !ok {
			// expired or evicted
			zap.S().Debugf("Cached product %s missing", productIDs[i])
			return nil, ErrCacheMiss
		}
		var product models.Product
		if err := json.Unmarshal([]byte(productJSON), &product); err != nil {
			zap.S().Warnf("Failed to unmarshal cached product %s: %v", productIDs[i], err)
			return nil, ErrCacheMiss
		}
		products = append(products, product)
	}
	// set members come back unordered; match the database's ORDER BY name
	slices.SortFunc(products, func(a, b models.Product) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return products, nil
}

// SetProduct writes one product without touching the id set's other members.
func (c *RedisClient) SetProduct(ctx context.Context, p models.Product) error {
	productJSON, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal product %s: %w", p.ID, err)
	}
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, ProductKey(p.ID), productJSON, ProductTTL)
	pipe.SAdd(ctx, AllProductIDsKey, p.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache product %s: %w", p.ID, err)
	}
	return nil
}

// ReplaceProducts clears and then re-populates the id set and product keys.
func (c *RedisClient) ReplaceProducts(ctx context.Context, products []models.Product) error {
	pipe := c.client.TxPipeline()
	ids := make([]interface{}, 0, len(products))
	for _, p := range products {
		productJSON, err := json.Marshal(p)
		if err != nil {
			zap.S().Warnf("Failed to marshal product %s for cache population: %v", p.ID, err)
			continue
		}
		pipe.Set(ctx, ProductKey(p.ID), productJSON, ProductTTL)
		ids = append(ids, p.ID)
	}

	pipe.Del(ctx, AllProductIDsKey)
	if len(ids) > 0 {
		pipe.SAdd(ctx, AllProductIDsKey, ids...)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to execute Redis pipeline for cache population: %w", err)
	}
	zap.S().Infof("Cache populated with %d products.", len(ids))
	return nil
}

// InvalidateProduct drops one product so the next read goes to the database.
func (c *RedisClient) InvalidateProduct(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, ProductKey(id)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("invalidate product %s: %w", id, err)
	}
	return nil
}

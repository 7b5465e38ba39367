package repository

import (
	"context"
	"encoding/json"
	"errors"

	"storefront-service/models"

	"github.com/redis/go-redis/v9"
)

const featuredProductsKey = "featured_products"

// ProductCache caches the featured-products listing.
type ProductCache interface {
	GetFeatured(ctx context.Context) ([]models.Product, error)
	SetFeatured(ctx context.Context, products []models.Product) error
	InvalidateFeatured(ctx context.Context) error
}

// RedisProductCache implements ProductCache on a single Redis key holding
// the JSON-encoded listing.
type RedisProductCache struct {
	client *redis.Client
}

// NewRedisProductCache creates a new RedisProductCache.
func NewRedisProductCache(client *redis.Client) *RedisProductCache {
	return &RedisProductCache{client: client}
}

func (c *RedisProductCache) GetFeatured(ctx context.Context) ([]models.Product, error) {
	data, err := c.client.Get(ctx, featuredProductsKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := json.Unmarshal([]byte(data), &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *RedisProductCache) SetFeatured(ctx context.Context, products []models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, featuredProductsKey, data, 0).Err()
}

func (c *RedisProductCache) InvalidateFeatured(ctx context.Context) error {
	return c.client.Del(ctx, featuredProductsKey).Err()
}

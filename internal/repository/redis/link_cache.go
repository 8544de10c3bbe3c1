package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JusticeIsreal/url-shortener/internal/domain"
	"github.com/redis/go-redis/v9"
)

// LinkCache is a read-through cache for redirect lookups. It only caches the
// record; click counting always goes to the durable store.
type LinkCache struct {
	client *redis.Client
}

func NewLinkCache(client *redis.Client) *LinkCache {
	return &LinkCache{client: client}
}

func key(slug string) string {
	return fmt.Sprintf("link:%s", slug)
}

func (c *LinkCache) GetLink(ctx context.Context, slug string) (*domain.Link, error) {
	data, err := c.client.Get(ctx, key(slug)).Result()
	if err != nil {
		return nil, err
	}

	var link domain.Link
	if err := json.Unmarshal([]byte(data), &link); err != nil {
		return nil, err
	}

	return &link, nil
}

func (c *LinkCache) SetLink(ctx context.Context, link *domain.Link, ttl time.Duration) error {
	data, err := json.Marshal(link)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key(link.Slug), data, ttl).Err()
}

// DeleteLink evicts a cached record after an update or delete so redirects
// never serve a stale destination.
func (c *LinkCache) DeleteLink(ctx context.Context, slug string) error {
	return c.client.Del(ctx, key(slug)).Err()
}

//go:build integration
// +build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/JusticeIsreal/url-shortener/internal/domain"
	redisrepo "github.com/JusticeIsreal/url-shortener/internal/repository/redis"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis, func()) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, mr, cleanup
}

func TestLinkCache_SetAndGet(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := redisrepo.NewLinkCache(client)
	ctx := context.Background()

	link := &domain.Link{
		ID:          "id-1",
		Slug:        "abc123",
		OriginalURL: "https://example.com",
		ClickCount:  10,
		CreatedAt:   time.Now(),
		ExpiresAt:   time.Now().Add(time.Hour),
	}

	err := cache.SetLink(ctx, link, 10*time.Minute)
	require.NoError(t, err)

	result, err := cache.GetLink(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, link.Slug, result.Slug)
	assert.Equal(t, link.OriginalURL, result.OriginalURL)
	assert.Equal(t, link.ClickCount, result.ClickCount)
}

func TestLinkCache_Get_Miss(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := redisrepo.NewLinkCache(client)

	result, err := cache.GetLink(context.Background(), "missing")

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestLinkCache_Delete_Evicts(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := redisrepo.NewLinkCache(client)
	ctx := context.Background()

	link := &domain.Link{
		Slug:        "abc123",
		OriginalURL: "https://example.com",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	require.NoError(t, cache.SetLink(ctx, link, 10*time.Minute))

	require.NoError(t, cache.DeleteLink(ctx, "abc123"))

	result, err := cache.GetLink(ctx, "abc123")
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestLinkCache_TTLExpiry(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	cache := redisrepo.NewLinkCache(client)
	ctx := context.Background()

	link := &domain.Link{
		Slug:        "fleeting",
		OriginalURL: "https://example.com",
		ExpiresAt:   time.Now().Add(time.Second),
	}
	require.NoError(t, cache.SetLink(ctx, link, time.Second))

	mr.FastForward(2 * time.Second)

	result, err := cache.GetLink(ctx, "fleeting")
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestLinkCache_InvalidJSON(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	err := client.Set(ctx, "link:broken", "not-valid-json", 10*time.Minute).Err()
	require.NoError(t, err)

	cache := redisrepo.NewLinkCache(client)

	result, err := cache.GetLink(ctx, "broken")
	assert.Error(t, err)
	assert.Nil(t, result)
}

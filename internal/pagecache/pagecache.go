package pagecache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/pagecraft/pagecraft/internal/config"
	"github.com/pagecraft/pagecraft/internal/services/page"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when the page is not cached.
var ErrCacheMiss = errors.New("page cache miss")

const homepageSlug = "homepage"

// PageCache caches published pages in Redis for the public rendering path.
// Entries carry a TTL as a safety net; the authoritative invalidation comes
// from the page change notifications.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(conf *config.Config) (*PageCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.REDIS_ADDR,
		Password: conf.REDIS_PASSWORD,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &PageCache{client: client, ttl: 5 * time.Minute}, nil
}

func key(tenantID uuid.UUID, slug string) string {
	return fmt.Sprintf("page:%s:%s", tenantID, slug)
}

// GetBySlug returns the cached published page or ErrCacheMiss
func (c *PageCache) GetBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*page.Page, error) {
	data, err := c.client.Get(ctx, key(tenantID, slug)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read page cache: %w", err)
	}

	var p page.Page
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode cached page: %w", err)
	}

	return &p, nil
}

// GetHomepage returns the cached published homepage or ErrCacheMiss
func (c *PageCache) GetHomepage(ctx context.Context, tenantID uuid.UUID) (*page.Page, error) {
	return c.GetBySlug(ctx, tenantID, homepageSlug)
}

// Set caches a published page under its slug
func (c *PageCache) Set(ctx context.Context, p *page.Page) {
	c.set(ctx, key(p.TenantID, p.Slug), p)
}

// SetHomepage caches a published page under the homepage key
func (c *PageCache) SetHomepage(ctx context.Context, p *page.Page) {
	c.set(ctx, key(p.TenantID, homepageSlug), p)
}

func (c *PageCache) set(ctx context.Context, cacheKey string, p *page.Page) {
	data, err := json.Marshal(p)
	if err != nil {
		slog.WarnContext(ctx, "Failed to encode page for cache", slog.Any("error", err))
		return
	}

	if err := c.client.Set(ctx, cacheKey, data, c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "Failed to write page cache", slog.Any("error", err))
	}
}

// Invalidate drops a tenant's cached page by slug, plus the homepage entry.
// Any change may affect which page is the homepage, so both go.
func (c *PageCache) Invalidate(ctx context.Context, tenantID uuid.UUID, slug string) {
	keys := []string{key(tenantID, homepageSlug)}
	if slug != "" && slug != homepageSlug {
		keys = append(keys, key(tenantID, slug))
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		slog.WarnContext(ctx, "Failed to invalidate page cache", slog.Any("error", err))
	}
}

// Flush drops every cached page. Used after a notification gap, when
// individual invalidations may have been missed.
func (c *PageCache) Flush(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, "page:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			slog.WarnContext(ctx, "Failed to flush page cache entry", slog.Any("error", err))
		}
	}
	if err := iter.Err(); err != nil {
		slog.WarnContext(ctx, "Failed to scan page cache", slog.Any("error", err))
	}
}

// Close releases the redis connection
func (c *PageCache) Close() error {
	return c.client.Close()
}

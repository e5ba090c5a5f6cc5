package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hengyuan-pack/giftbox-site/internal/i18n"
	"github.com/hengyuan-pack/giftbox-site/pkg/logger"
	redispkg "github.com/hengyuan-pack/giftbox-site/pkg/redis"
	"github.com/redis/go-redis/v9"
)

// RedisCache shares rendered pages between server instances.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (r *RedisCache) Get(ctx context.Context, lang i18n.Lang, path string) ([]byte, bool) {
	body, err := r.client.Get(ctx, key(lang, path)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("Render cache read failed", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		}
		return nil, false
	}
	return body, true
}

func (r *RedisCache) Set(ctx context.Context, lang i18n.Lang, path string, body []byte) error {
	return r.client.Set(ctx, key(lang, path), body, r.ttl).Err()
}

func (r *RedisCache) Invalidate(ctx context.Context, paths ...string) error {
	var exact []string
	for _, path := range paths {
		if prefix, ok := strings.CutSuffix(path, "*"); ok {
			for _, lang := range languages {
				if _, err := redispkg.DeleteByPattern(ctx, r.client, escapeGlob(key(lang, prefix))+"*"); err != nil {
					return err
				}
			}
			continue
		}
		for _, lang := range languages {
			exact = append(exact, key(lang, path))
		}
	}
	if len(exact) == 0 {
		return nil
	}
	return r.client.Del(ctx, exact...).Err()
}

func (r *RedisCache) Purge(ctx context.Context) error {
	deleted, err := redispkg.DeleteByPattern(ctx, r.client, "render:*")
	if err != nil {
		return err
	}
	logger.Debug("Render cache purged", map[string]interface{}{
		"deleted": deleted,
	})
	return nil
}

// escapeGlob quotes the characters SCAN MATCH treats as patterns.
func escapeGlob(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
	return replacer.Replace(s)
}

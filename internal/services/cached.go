package services

import (
	"context"
	"time"

	"rental_backend/internal/cache"
	"rental_backend/internal/logger"
)

// cachedQuery читает ответ из кэша или выполняет load и кладет результат в кэш.
// Недоступный кэш не ломает запрос: ошибки логируются, данные берутся из БД.
func cachedQuery[T any](ctx context.Context, c cache.Cache, ttl time.Duration, namespace string, params map[string]string, load func() (T, error)) (T, error) {
	version, err := c.Version(ctx, namespace)
	if err != nil {
		logger.CtxWarn(ctx, "Cache version lookup failed", "namespace", namespace, "error", err)
		return load()
	}

	key := cache.QueryKey(namespace, version, params)
	var cached T
	hit, err := c.Get(ctx, key, &cached)
	if err != nil {
		logger.CtxWarn(ctx, "Cache read failed", "key", key, "error", err)
	}
	if hit {
		return cached, nil
	}

	result, err := load()
	if err != nil {
		return result, err
	}

	if err := c.Set(ctx, key, result, ttl); err != nil {
		logger.CtxWarn(ctx, "Cache write failed", "key", key, "error", err)
	}
	return result, nil
}

func invalidate(ctx context.Context, c cache.Cache, namespace string) {
	if err := c.Invalidate(ctx, namespace); err != nil {
		logger.CtxWarn(ctx, "Cache invalidation failed", "namespace", namespace, "error", err)
	}
}

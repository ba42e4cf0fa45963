package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Пространства ключей. Инвалидация - инкремент версии пространства,
// старые ключи доживают свой TTL.
const (
	NamespacePosts     = "posts"
	NamespaceLocations = "locations"
	NamespaceTerms     = "terms"
)

// Cache - кэш ответов для публичных списков
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Version(ctx context.Context, namespace string) (int64, error)
	Invalidate(ctx context.Context, namespace string) error
	Close() error
}

type Config struct {
	Addr     string
	Password string
	DB       int
}

// New возвращает RedisCache или NoopCache, если адрес не задан
func New(ctx context.Context, cfg Config) (Cache, error) {
	if cfg.Addr == "" {
		return NoopCache{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisCache{client: client}, nil
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, dest)
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *RedisCache) Version(ctx context.Context, namespace string) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(namespace)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(v, 10, 64)
}

func (c *RedisCache) Invalidate(ctx context.Context, namespace string) error {
	return c.client.Incr(ctx, versionKey(namespace)).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// NoopCache - кэш выключен, всегда промах
type NoopCache struct{}

func (NoopCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (NoopCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (NoopCache) Version(context.Context, string) (int64, error) { return 0, nil }
func (NoopCache) Invalidate(context.Context, string) error { return nil }
func (NoopCache) Close() error { return nil }

func versionKey(namespace string) string {
	return "rental:ver:" + namespace
}

// QueryKey строит ключ вида rental:<namespace>:v<version>:<md5 отсортированных параметров>
func QueryKey(namespace string, version int64, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for i, k := range keys {
		if i > 0 {
			builder.WriteString(":")
		}
		builder.WriteString(k)
		builder.WriteString("=")
		builder.WriteString(params[k])
	}

	hash := md5.Sum([]byte(builder.String()))
	return fmt.Sprintf("rental:%s:v%d:%s", namespace, version, hex.EncodeToString(hash[:]))
}

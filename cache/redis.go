package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ivan-nizamov/qrfolio/qrcode"
)

var (
	ErrEmptyConnectionURL = errors.New("empty redis connection URL")
	ErrParseConnectionURL = errors.New("failed to parse redis connection string")
	ErrRedisNotReady      = errors.New("redis is not ready")
)

// DefaultTTL is how long Redis keeps a matrix when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// Redis stores matrices in Redis in their binary encoding.
type Redis struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
	log    *zap.Logger
}

var _ Store = (*Redis)(nil)

// RedisOption configures a Redis store.
type RedisOption func(*Redis)

// WithPrefix namespaces keys.
func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) { r.prefix = prefix }
}

// WithTTL sets the entry lifetime. Zero keeps entries forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) { r.ttl = ttl }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) RedisOption {
	return func(r *Redis) { r.log = log }
}

// NewRedis wraps client.
func NewRedis(client redis.Cmdable, opts ...RedisOption) *Redis {
	r := &Redis{client: client, prefix: "qrfolio:matrix:", ttl: DefaultTTL, log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	return r
}

// Connect parses a redis:// or rediss:// URL and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, ErrEmptyConnectionURL
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseConnectionURL, err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", ErrRedisNotReady, err)
	}
	return client, nil
}

func (r *Redis) Get(ctx context.Context, key string) (*qrcode.Matrix, bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	m := new(qrcode.Matrix)
	if err := m.UnmarshalBinary(data); err != nil {
		r.log.Warn("dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		_ = r.client.Del(ctx, r.prefix+key).Err()
		return nil, false, nil
	}
	return m, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, m *qrcode.Matrix) error {
	data, err := m.MarshalBinary()
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/kochabx/apiclient/log"
	"github.com/kochabx/apiclient/store"
)

var _ store.KV = (*Client)(nil)

// Client Redis 键值存储
type Client struct {
	client  redis.UniversalClient
	config  *Config
	logger  *log.Logger
	tracing []redisotel.TracingOption
	traced  bool
}

// Option 客户端配置选项
type Option func(*Client)

// WithLogger 设置日志，默认 log.G
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithUniversalClient 使用已有的 redis 客户端，不再根据 Config 创建
func WithUniversalClient(uc redis.UniversalClient) Option {
	return func(c *Client) {
		c.client = uc
	}
}

// WithTracing 使用 redisotel 为每条命令创建 OpenTelemetry span，
// 导出方式由全局 TracerProvider 决定
func WithTracing(opts ...redisotel.TracingOption) Option {
	return func(c *Client) {
		c.traced = true
		c.tracing = append(c.tracing, opts...)
	}
}

// New 创建新的 Redis 客户端并执行一次 Ping
func New(ctx context.Context, cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{config: cfg, logger: log.G}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:        cfg.Addrs,
			MasterName:   cfg.MasterName,
			Username:     cfg.Username,
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			TLSConfig:    cfg.TLSConfig,
		})
	}
	c.client.AddHook(NewDebugHook(c.logger))
	if c.traced {
		if err := redisotel.InstrumentTracing(c.client, c.tracing...); err != nil {
			_ = c.client.Close()
			return nil, err
		}
	}

	if err := c.Ping(ctx); err != nil {
		_ = c.client.Close()
		return nil, err
	}

	c.logger.Debug().Str("mode", cfg.mode()).Strs("addrs", cfg.Addrs).Msg("redis client created")
	return c, nil
}

func (c *Client) key(k string) string {
	return c.config.Prefix + k
}

// Get 读取 key，不存在时返回 store.ErrNotFound
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	v, err := c.client.Get(ctx, c.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", store.ErrNotFound
	}
	return v, err
}

// Set 写入 key，不过期
func (c *Client) Set(ctx context.Context, key, value string) error {
	return c.client.Set(ctx, c.key(key), value, 0).Err()
}

// Delete 删除 key
func (c *Client) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}

// Ping 测试连接
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// UniversalClient 获取底层 redis.UniversalClient
func (c *Client) UniversalClient() redis.UniversalClient {
	return c.client
}

// Close 关闭客户端
func (c *Client) Close() error {
	err := c.client.Close()
	c.logger.Debug().Msg("redis client closed")
	return err
}

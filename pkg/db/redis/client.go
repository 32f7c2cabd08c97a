package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"blocknote/pkg/logger"
	"blocknote/pkg/resilience"
)

const (
	LogConnecting   = "connecting to Redis"
	LogConnected    = "successfully connected to Redis"
	ErrConnectRedis = "failed to connect to Redis"
	ErrCloseRedis   = "failed to close Redis connection"
)

// Client владеет соединением с Redis.
type Client struct {
	client *redis.Client
}

// NewClient создает клиент и проверяет соединение командой PING.
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	log := logger.Log(ctx).With(zap.String("address", cfg.Address()))
	log.Info(ctx, LogConnecting)

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	retryConfig := resilience.DefaultRetryConfig()
	retryConfig.MaxAttempts = cfg.ConnectAttempts
	err := resilience.NewRetry("redis", retryConfig).Execute(ctx, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
		return rdb.Ping(pingCtx).Err()
	})
	if err != nil {
		_ = rdb.Close()
		log.Error(ctx, ErrConnectRedis, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrConnectRedis, err)
	}

	log.Info(ctx, LogConnected)
	return &Client{client: rdb}, nil
}

// Raw возвращает клиент go-redis.
func (c *Client) Raw() *redis.Client {
	return c.client
}

// Close закрывает соединение.
func (c *Client) Close() error {
	if err := c.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrCloseRedis, err)
	}
	return nil
}

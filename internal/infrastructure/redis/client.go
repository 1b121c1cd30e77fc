package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ConnectOptions bounds the startup connection retry.
type ConnectOptions struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultConnectOptions returns the retry bounds used by the server.
func DefaultConnectOptions() ConnectOptions {
	return ConnectOptions{
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		MaxElapsedTime:  15 * time.Second,
	}
}

// NewClient creates a new Redis client, retrying the initial ping with
// exponential backoff.
func NewClient(ctx context.Context, redisURL string, opts ConnectOptions, logger zerolog.Logger) (*redis.Client, error) {
	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(redisOpts)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = opts.InitialInterval
	b.MaxInterval = opts.MaxInterval
	b.MaxElapsedTime = opts.MaxElapsedTime

	attempt := 0
	err = backoff.Retry(func() error {
		attempt++
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Int("attempt", attempt).Msg("redis not reachable, retrying")
			return err
		}
		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

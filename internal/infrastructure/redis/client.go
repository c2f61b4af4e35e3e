
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ClientName identifies dairyledger connections in CLIENT LIST.
const ClientName = "dairyledger"

// NewClient parses redisURL and returns a client that has answered a PING.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if opts.ClientName == "" {
		opts.ClientName = ClientName
	}

	client := redis.NewClient(opts)

	// Verify connection
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
)

// ChannelName is the Redis channel carrying a task's events.
func ChannelName(taskID string) string {
	return "task:" + taskID
}

// RedisPublisher publishes events with PUBLISH so that other API instances
// and workers can relay them.
type RedisPublisher struct {
	pool *redis.Pool
}

// NewRedisPool creates a connection pool for addr
func NewRedisPool(addr string) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     4,
		IdleTimeout: 240 * time.Second,
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialContext(ctx, "tcp", addr)
		},
	}
}

// NewRedisPublisher creates a publisher on top of pool
func NewRedisPublisher(pool *redis.Pool) *RedisPublisher {
	return &RedisPublisher{pool: pool}
}

func (p *RedisPublisher) Publish(ctx context.Context, taskID string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	conn, err := p.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to get redis connection: %w", err)
	}
	defer conn.Close()

	if _, err := redis.Int(conn.Do("PUBLISH", ChannelName(taskID), payload)); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", ChannelName(taskID), err)
	}
	return nil
}

// Close releases the pool
func (p *RedisPublisher) Close() error {
	return p.pool.Close()
}

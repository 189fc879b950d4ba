// Package redis stores session markers in Redis so they survive restarts and
// are shared between API replicas.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/ewilliams-labs/aestheticify/internal/core/ports"
)

const keyPrefix = "vibe_created"

// Markers implements ports.SessionMarkers on top of a Redis client.
type Markers struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.SessionMarkers = (*Markers)(nil)

// Connect opens a client and verifies the connection with PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", addr, err)
	}
	return client, nil
}

// NewMarkers returns markers that expire after ttl. A zero ttl keeps them forever.
func NewMarkers(client *redis.Client, ttl time.Duration) *Markers {
	return &Markers{client: client, ttl: ttl}
}

func markerKey(sessionID, artifactID string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, sessionID, artifactID)
}

func (m *Markers) Mark(ctx context.Context, sessionID, artifactID string) error {
	if err := m.client.Set(ctx, markerKey(sessionID, artifactID), "1", m.ttl).Err(); err != nil {
		return fmt.Errorf("redis: mark %s: %w", artifactID, err)
	}
	return nil
}

func (m *Markers) Has(ctx context.Context, sessionID, artifactID string) (bool, error) {
	n, err := m.client.Exists(ctx, markerKey(sessionID, artifactID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis: check %s: %w", artifactID, err)
	}
	return n > 0, nil
}

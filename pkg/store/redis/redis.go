// Package redis provides a Redis-backed layout store for deployments
// where several clients share one layout surface.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/plurapay/planviz/pkg/store"
)

const keyPrefix = "planviz:layout:"

// LayoutStore implements store.LayoutStore on top of a Redis client.
type LayoutStore struct {
	client *redis.Client
}

// NewLayoutStore wraps an existing Redis client.
func NewLayoutStore(client *redis.Client) *LayoutStore {
	return &LayoutStore{client: client}
}

func makeKey(instanceID string) string {
	return keyPrefix + instanceID
}

// Load returns the stored record for instanceID, or nil when absent.
func (s *LayoutStore) Load(ctx context.Context, instanceID string) (*store.Record, error) {
	data, err := s.client.Get(ctx, makeKey(instanceID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to GET layout %s: %w", instanceID, err)
	}

	var rec store.Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		log.Printf("Discarding corrupt layout record for %s: %v", instanceID, err)
		return nil, nil
	}
	return &rec, nil
}

// Save replaces the record for instanceID.
func (s *LayoutStore) Save(ctx context.Context, instanceID string, rec store.Record) error {
	if rec.LastUpdated == 0 {
		rec.LastUpdated = time.Now().UnixMilli()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal layout record: %w", err)
	}
	if err := s.client.Set(ctx, makeKey(instanceID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to SET layout %s: %w", instanceID, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *LayoutStore) Close() error {
	return s.client.Close()
}

// Package session persists the per-user slice of state — the identity record
// and the mood log — as whole-value JSON snapshots in Redis. Stories and
// connections are deliberately not here; they live and die with the process.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"atlas/api/internal/atlas"
)

// The two logical keys mirror the browser client's localStorage entries.
const (
	identityKey = "atlas_user"
	moodKey     = "atlas_mood_history"
)

// RedisStore snapshots identity and mood log to Redis. Every save overwrites
// the whole value; there is no merging and no partial write.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreWithClient creates a store from an existing Redis client.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// SaveIdentity overwrites the identity snapshot.
func (s *RedisStore) SaveIdentity(ctx context.Context, identity atlas.Identity) error {
	payload, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	if err := s.client.Set(ctx, identityKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	return nil
}

// LoadIdentity returns the persisted identity, or nil when none is stored.
// A snapshot that no longer parses is treated as absent, never as an error.
func (s *RedisStore) LoadIdentity(ctx context.Context) (*atlas.Identity, error) {
	payload, err := s.client.Get(ctx, identityKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load identity: %w", err)
	}

	var identity atlas.Identity
	if err := json.Unmarshal([]byte(payload), &identity); err != nil {
		log.Printf("session: discarding malformed identity snapshot: %v", err)
		return nil, nil
	}
	if identity.Alias == "" {
		return nil, nil
	}
	return &identity, nil
}

// ClearIdentity removes the identity snapshot.
func (s *RedisStore) ClearIdentity(ctx context.Context) error {
	if err := s.client.Del(ctx, identityKey).Err(); err != nil {
		return fmt.Errorf("clear identity: %w", err)
	}
	return nil
}

// SaveMoodLog overwrites the mood log snapshot with the full list.
func (s *RedisStore) SaveMoodLog(ctx context.Context, entries []atlas.MoodEntry) error {
	if entries == nil {
		entries = []atlas.MoodEntry{}
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal mood log: %w", err)
	}
	if err := s.client.Set(ctx, moodKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("save mood log: %w", err)
	}
	return nil
}

// LoadMoodLog returns the persisted mood log, newest first as saved.
// Malformed snapshots degrade to an empty log.
func (s *RedisStore) LoadMoodLog(ctx context.Context) ([]atlas.MoodEntry, error) {
	payload, err := s.client.Get(ctx, moodKey).Result()
	if err == redis.Nil {
		return []atlas.MoodEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load mood log: %w", err)
	}

	var entries []atlas.MoodEntry
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		log.Printf("session: discarding malformed mood log snapshot: %v", err)
		return []atlas.MoodEntry{}, nil
	}
	return entries, nil
}

// ClearMoodLog removes the mood log snapshot.
func (s *RedisStore) ClearMoodLog(ctx context.Context) error {
	if err := s.client.Del(ctx, moodKey).Err(); err != nil {
		return fmt.Errorf("clear mood log: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks if Redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

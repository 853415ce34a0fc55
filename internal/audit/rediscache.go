package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBackend is the local fallback tier: a single bounded JSON array of
// entries under one well-known key.
type RedisBackend struct {
	client *redis.Client
	key    string
	limit  int
}

// NewRedisBackend builds the fallback backend.
func NewRedisBackend(client *redis.Client, key string, limit int) *RedisBackend {
	if key == "" {
		key = "moderation:decision_log"
	}
	if limit <= 0 {
		limit = 400
	}
	return &RedisBackend{client: client, key: key, limit: limit}
}

// Load reads the cached log. An absent key or undecodable value is an empty
// history, not an error.
func (b *RedisBackend) Load(ctx context.Context) ([]Entry, error) {
	if b.client == nil {
		return nil, nil
	}

	raw, err := b.client.Get(ctx, b.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("read decision cache: %w", err)
	}
	return decodeEntries(raw), nil
}

// Append rewrites the cached array with the new entry, keeping only the most
// recent entries up to the configured limit.
func (b *RedisBackend) Append(ctx context.Context, entry Entry) error {
	if b.client == nil {
		return errors.New("decision cache client not configured")
	}

	var entries []Entry
	raw, err := b.client.Get(ctx, b.key).Bytes()
	if err == nil {
		entries = decodeEntries(raw)
	} else if !errors.Is(err, redis.Nil) {
		return fmt.Errorf("read decision cache: %w", err)
	}

	entries = TrimEntries(append(entries, entry), b.limit)

	encoded, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode decision cache: %w", err)
	}
	if err := b.client.Set(ctx, b.key, encoded, 0).Err(); err != nil {
		return fmt.Errorf("write decision cache: %w", err)
	}
	return nil
}

// TrimEntries keeps the most recent limit entries, preserving order.
func TrimEntries(entries []Entry, limit int) []Entry {
	if limit <= 0 || len(entries) <= limit {
		return entries
	}
	return entries[len(entries)-limit:]
}

func decodeEntries(raw []byte) []Entry {
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		// Corrupt cache content is treated as empty.
		return nil
	}
	return entries
}

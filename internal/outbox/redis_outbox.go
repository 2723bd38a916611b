package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dias221467/Travel_Planner/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultKey = "notifications:outbox"

// Entry is a notification waiting for another delivery attempt.
type Entry struct {
	ID           string              `json:"id"`
	Attempts     int                 `json:"attempts"`
	QueuedAt     time.Time           `json:"queued_at"`
	Notification models.Notification `json:"notification"`
}

// RedisOutbox keeps undelivered notifications in a Redis list so any
// instance can retry them later.
type RedisOutbox struct {
	client *redis.Client
	key    string
}

// NewRedisOutbox creates an outbox stored under key (DefaultKey when empty).
func NewRedisOutbox(client *redis.Client, key string) *RedisOutbox {
	if key == "" {
		key = DefaultKey
	}
	return &RedisOutbox{client: client, key: key}
}

// Push queues a notification for its first retry.
func (o *RedisOutbox) Push(ctx context.Context, n *models.Notification) error {
	return o.Requeue(ctx, Entry{
		ID:           uuid.NewString(),
		QueuedAt:     time.Now().UTC(),
		Notification: *n,
	})
}

// Requeue appends an entry to the tail of the list.
func (o *RedisOutbox) Requeue(ctx context.Context, e Entry) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode outbox entry: %v", err)
	}
	if err := o.client.RPush(ctx, o.key, payload).Err(); err != nil {
		return fmt.Errorf("failed to queue outbox entry: %v", err)
	}
	return nil
}

// Pop removes up to max entries from the head of the list. Entries that
// cannot be decoded are discarded.
func (o *RedisOutbox) Pop(ctx context.Context, max int) ([]Entry, error) {
	var entries []Entry
	for len(entries) < max {
		raw, err := o.client.LPop(ctx, o.key).Result()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return entries, fmt.Errorf("failed to pop outbox entry: %v", err)
		}

		var e Entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Len returns the number of queued entries.
func (o *RedisOutbox) Len(ctx context.Context) (int64, error) {
	return o.client.LLen(ctx, o.key).Result()
}

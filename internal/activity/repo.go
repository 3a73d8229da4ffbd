package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	feedKeyPrefix = "activity:feed:"     // per-user list: activity:feed:{user_id}
	feedTTL       = 30 * 24 * time.Hour  // feeds expire after a month of inactivity
	feedMaxLen    = 200
	defaultLimit  = 50
)

// FeedRepo stores per-user activity feeds in Redis lists, newest first.
type FeedRepo struct {
	client *redis.Client
}

func NewFeedRepo(client *redis.Client) *FeedRepo {
	return &FeedRepo{client: client}
}

func feedKey(userID string) string {
	return feedKeyPrefix + userID
}

// Push prepends an entry to the user's feed, re-caps its length and
// refreshes the TTL.
func (r *FeedRepo) Push(ctx context.Context, e Entry) error {
	if e.UserID == "" {
		return errors.New("user id required")
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	key := feedKey(e.UserID)
	pipe := r.client.Pipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, feedMaxLen-1)
	pipe.Expire(ctx, key, feedTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// List returns up to limit entries for a user, newest first. Corrupt
// entries are skipped rather than failing the whole feed.
func (r *FeedRepo) List(ctx context.Context, userID string, limit int64) ([]Entry, error) {
	if limit <= 0 || limit > feedMaxLen {
		limit = defaultLimit
	}

	raw, err := r.client.LRange(ctx, feedKey(userID), 0, limit-1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Sweep walks all feed keys and trims each back to the cap. Run from the
// nightly scheduler.
func (r *FeedRepo) Sweep(ctx context.Context) (int, error) {
	var swept int
	iter := r.client.Scan(ctx, 0, feedKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.LTrim(ctx, iter.Val(), 0, feedMaxLen-1).Err(); err != nil {
			return swept, err
		}
		swept++
	}
	return swept, iter.Err()
}

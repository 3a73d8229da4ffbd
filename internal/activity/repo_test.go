package activity

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.Ping(context.Background()).Err())
	return client, mr
}

func TestFeedRepo_PushAndList(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewFeedRepo(client)
	ctx := context.Background()

	t.Run("newest first with generated fields", func(t *testing.T) {
		for i := 1; i <= 3; i++ {
			err := repo.Push(ctx, Entry{
				UserID:    "user-1",
				ProjectID: fmt.Sprintf("proj-%d", i),
				Action:    "created",
				Title:     fmt.Sprintf("Plot %d", i),
			})
			require.NoError(t, err)
		}

		entries, err := repo.List(ctx, "user-1", 10)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "proj-3", entries[0].ProjectID)
		assert.Equal(t, "proj-1", entries[2].ProjectID)
		assert.NotEmpty(t, entries[0].ID)
		assert.False(t, entries[0].At.IsZero())
	})

	t.Run("feeds are per user", func(t *testing.T) {
		require.NoError(t, repo.Push(ctx, Entry{UserID: "user-2", ProjectID: "p", Action: "deleted"}))

		entries, err := repo.List(ctx, "user-2", 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "deleted", entries[0].Action)
	})

	t.Run("missing user id rejected", func(t *testing.T) {
		assert.Error(t, repo.Push(ctx, Entry{ProjectID: "p", Action: "created"}))
	})

	t.Run("limit applies", func(t *testing.T) {
		entries, err := repo.List(ctx, "user-1", 2)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("empty feed is empty slice", func(t *testing.T) {
		entries, err := repo.List(ctx, "user-without-activity", 10)
		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Len(t, entries, 0)
	})

	t.Run("corrupt entries skipped", func(t *testing.T) {
		_, err := mr.Lpush(feedKey("user-1"), "{not json")
		require.NoError(t, err)

		entries, err := repo.List(ctx, "user-1", 10)
		require.NoError(t, err)
		assert.Len(t, entries, 3)
	})
}

func TestFeedRepo_Cap(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewFeedRepo(client)
	ctx := context.Background()

	for i := 0; i < feedMaxLen+25; i++ {
		err := repo.Push(ctx, Entry{UserID: "busy-user", ProjectID: fmt.Sprintf("p-%d", i), Action: "updated"})
		require.NoError(t, err)
	}

	length, err := client.LLen(ctx, feedKey("busy-user")).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(feedMaxLen), length)

	// newest entry survives the trim
	entries, err := repo.List(ctx, "busy-user", 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, fmt.Sprintf("p-%d", feedMaxLen+24), entries[0].ProjectID)
}

func TestFeedRepo_TTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewFeedRepo(client)

	require.NoError(t, repo.Push(context.Background(), Entry{UserID: "user-1", ProjectID: "p", Action: "created"}))
	assert.Equal(t, feedTTL, mr.TTL(feedKey("user-1")))
}

func TestFeedRepo_Sweep(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewFeedRepo(client)
	ctx := context.Background()

	// oversized feed written outside Push, as if the cap had changed
	for i := 0; i < feedMaxLen+50; i++ {
		_, err := mr.Lpush(feedKey("user-1"), fmt.Sprintf(`{"id":"e-%d","userId":"user-1"}`, i))
		require.NoError(t, err)
	}
	require.NoError(t, repo.Push(ctx, Entry{UserID: "user-2", ProjectID: "p", Action: "created"}))
	require.NoError(t, mr.Set("unrelated:key", "untouched"))

	swept, err := repo.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, swept)

	length, err := client.LLen(ctx, feedKey("user-1")).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(feedMaxLen), length)

	val, err := mr.Get("unrelated:key")
	require.NoError(t, err)
	assert.Equal(t, "untouched", val)
}

func TestRecorder_SwallowsFailures(t *testing.T) {
	client, mr := setupTestRedis(t)
	rec := NewRecorder(NewFeedRepo(client))

	mr.Close()

	// must not panic or propagate once Redis is gone
	rec.Record(context.Background(), "user-1", "proj-1", "created", "Plot")
}

func TestEntryTimestampsRoundTrip(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewFeedRepo(client)
	ctx := context.Background()

	at := time.Date(2026, 5, 1, 8, 30, 0, 0, time.UTC)
	require.NoError(t, repo.Push(ctx, Entry{ID: "fixed", UserID: "user-1", ProjectID: "p", Action: "created", At: at}))

	entries, err := repo.List(ctx, "user-1", 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "fixed", entries[0].ID)
	assert.True(t, entries[0].At.Equal(at))
}

package redis

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/exam-prep/internal/domain/entities"
)

func TestBoardKey(t *testing.T) {
	at := time.Date(2024, time.December, 30, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, "leaderboard:jee:all", boardKey("JEE", entities.PeriodAllTime, at))
	assert.Equal(t, "leaderboard:jee:week:2025-01", boardKey("jee", entities.PeriodWeek, at))
	assert.Equal(t, "leaderboard:general:day:2024-12-30", boardKey("", entities.PeriodDay, at))
	assert.Equal(t, "leaderboard:neet:all", boardKey("neet", "month", at))
}

func TestLeaderboard_Redis(t *testing.T) {
	addr := os.Getenv("EXAMPREP_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("EXAMPREP_TEST_REDIS_ADDR is not set")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, ClientConfig{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	exam := "test-" + uuid.NewString()
	board := NewLeaderboard(client)
	now := time.Now()
	idA, idB := exam+"-a", exam+"-b"

	require.NoError(t, board.Upsert(ctx, idA, entities.LeaderboardEntry{Name: "A", XP: 120, ExamType: exam, UpdatedAt: now}))
	require.NoError(t, board.Upsert(ctx, idB, entities.LeaderboardEntry{Name: "B", XP: 300, ExamType: exam, UpdatedAt: now}))
	require.NoError(t, board.Upsert(ctx, idA, entities.LeaderboardEntry{Name: "A", XP: 150, ExamType: exam, UpdatedAt: now}))

	top, err := board.Query(ctx, exam, entities.PeriodAllTime, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, idB, top[0].Identity)
	assert.Equal(t, 1, top[0].Rank)
	assert.Equal(t, "A", top[1].Name)
	assert.Equal(t, 150, top[1].XP)

	day, err := board.Query(ctx, exam, entities.PeriodDay, 10)
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, 150, day[1].XP)

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "leaderboard:"+exam+":*").Result()
		keys = append(keys, entryKey(idA), entryKey(idB))
		_ = client.Del(ctx, keys...).Err()
	})
}

func TestLeaderboard_RedisUpsertOrdering(t *testing.T) {
	addr := os.Getenv("EXAMPREP_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("EXAMPREP_TEST_REDIS_ADDR is not set")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, ClientConfig{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	exam := "test-" + uuid.NewString()
	board := NewLeaderboard(client)
	id := exam + "-a"
	now := time.Now()

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "leaderboard:"+exam+":*").Result()
		keys = append(keys, entryKey(id))
		_ = client.Del(ctx, keys...).Err()
	})

	require.NoError(t, board.Upsert(ctx, id, entities.LeaderboardEntry{Name: "A", XP: 20, ExamType: exam, UpdatedAt: now}))
	// An older snapshot arriving late must not roll the entry back.
	require.NoError(t, board.Upsert(ctx, id, entities.LeaderboardEntry{Name: "A", XP: 10, ExamType: exam, UpdatedAt: now.Add(-time.Second)}))

	top, err := board.Query(ctx, exam, entities.PeriodAllTime, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 20, top[0].XP)

	var wg sync.WaitGroup
	for i := 1; i <= 10; i++ {
		wg.Add(1)
		go func(xp int) {
			defer wg.Done()
			_ = board.Upsert(ctx, id, entities.LeaderboardEntry{Name: "A", XP: 20 + xp, ExamType: exam, UpdatedAt: now.Add(time.Duration(xp) * time.Second)})
		}(i)
	}
	wg.Wait()

	day, err := board.Query(ctx, exam, entities.PeriodDay, 10)
	require.NoError(t, err)
	require.Len(t, day, 1)

	all, err := board.Query(ctx, exam, entities.PeriodAllTime, 10)
	require.NoError(t, err)
	// Every accepted gain is counted once, so the day board never exceeds total XP.
	assert.LessOrEqual(t, day[0].XP, all[0].XP)
}

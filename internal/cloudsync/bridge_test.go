package cloudsync

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/exam-prep/internal/domain/entities"
	"github.com/aliskhannn/exam-prep/internal/storage"
)

const testDebounce = 20 * time.Millisecond

type recordingRemote struct {
	*MemoryRemote

	mu     sync.Mutex
	pushed []Document
	err    error
}

func newRecordingRemote() *recordingRemote {
	return &recordingRemote{MemoryRemote: NewMemoryRemote()}
}

func (r *recordingRemote) Write(ctx context.Context, identity string, doc Document, merge bool) error {
	r.mu.Lock()
	r.pushed = append(r.pushed, doc)
	err := r.err
	r.mu.Unlock()
	if err != nil {
		return err
	}
	return r.MemoryRemote.Write(ctx, identity, doc, merge)
}

func (r *recordingRemote) pushes() []Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Document(nil), r.pushed...)
}

func newTestBridge(remote Remote) (*Bridge, *storage.Store) {
	store := storage.New(storage.NewMemoryBackend(), "", nil)
	return New(store, remote, Options{Debounce: testDebounce}, nil), store
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestBridge_DebounceCoalescesWrites(t *testing.T) {
	remote := newRecordingRemote()
	b, store := newTestBridge(remote)
	b.InitSync("user-1")

	for i := 1; i <= 5; i++ {
		store.Set(storage.KeyGamification, entities.GamificationState{XP: i * 10, Level: 1})
	}

	require.Eventually(t, func() bool { return len(remote.pushes()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testDebounce)

	pushes := remote.pushes()
	require.Len(t, pushes, 1)
	state := decode[entities.GamificationState](t, pushes[0][storage.KeyGamification])
	assert.Equal(t, 50, state.XP)
}

func TestBridge_PushCarriesOnlyWhitelistedKeys(t *testing.T) {
	remote := newRecordingRemote()
	b, store := newTestBridge(remote)
	b.InitSync("user-1")

	store.Set(storage.KeySyncMigrated, true)
	store.Set("scratch", "value")
	store.Set(storage.KeyDarkMode, true)
	b.Flush()

	pushes := remote.pushes()
	require.Len(t, pushes, 1)
	assert.Contains(t, pushes[0], storage.KeyDarkMode)
	assert.NotContains(t, pushes[0], storage.KeySyncMigrated)
	assert.NotContains(t, pushes[0], "scratch")
}

func TestBridge_NoPushWithoutIdentity(t *testing.T) {
	remote := newRecordingRemote()
	_, store := newTestBridge(remote)

	store.Set(storage.KeyDarkMode, true)
	time.Sleep(3 * testDebounce)

	assert.Empty(t, remote.pushes())
}

func TestBridge_StopSyncCancelsPendingPush(t *testing.T) {
	remote := newRecordingRemote()
	b, store := newTestBridge(remote)
	b.InitSync("user-1")

	store.Set(storage.KeyDarkMode, true)
	b.StopSync()
	time.Sleep(3 * testDebounce)

	assert.Empty(t, remote.pushes())
	_, ok := b.Identity()
	assert.False(t, ok)
}

func TestBridge_PushFailureIsSwallowed(t *testing.T) {
	remote := newRecordingRemote()
	remote.err = errors.New("network down")
	b, store := newTestBridge(remote)
	b.InitSync("user-1")

	assert.NotPanics(t, func() {
		store.Set(storage.KeyDarkMode, true)
		b.Flush()
	})
	assert.Len(t, remote.pushes(), 1)
	assert.True(t, storage.Get(store, storage.KeyDarkMode, false))
}

func TestBridge_PullFromRemoteOverwritesLocal(t *testing.T) {
	remote := newRecordingRemote()
	require.NoError(t, remote.MemoryRemote.Write(context.Background(), "user-1", Document{
		storage.KeyDarkMode:     json.RawMessage(`true`),
		storage.KeyUserSettings: json.RawMessage(`{"name":"Remote","examType":"jee"}`),
		"foreign":               json.RawMessage(`1`),
	}, false))

	b, store := newTestBridge(remote)
	store.Set(storage.KeyUserSettings, entities.UserSettings{Name: "Local", ExamType: "neet"})

	require.NoError(t, b.PullFromRemote(context.Background(), "user-1"))

	settings := storage.Get(store, storage.KeyUserSettings, entities.UserSettings{})
	assert.Equal(t, "Remote", settings.Name)
	assert.True(t, storage.Get(store, storage.KeyDarkMode, false))
	assert.False(t, store.Has("foreign"))
	assert.Empty(t, remote.pushes(), "pulled values must not be pushed back")
}

func TestBridge_PullWithoutRemoteDocument(t *testing.T) {
	b, store := newTestBridge(newRecordingRemote())
	store.Set(storage.KeyDarkMode, true)

	require.NoError(t, b.PullFromRemote(context.Background(), "nobody"))
	assert.True(t, storage.Get(store, storage.KeyDarkMode, false))
}

func TestBridge_DisabledRemote(t *testing.T) {
	b, store := newTestBridge(nil)
	b.InitSync("user-1")

	assert.NotPanics(t, func() { store.Set(storage.KeyDarkMode, true) })
	assert.False(t, b.Enabled())
	assert.ErrorIs(t, b.PullFromRemote(context.Background(), "user-1"), ErrDisabled)
	assert.ErrorIs(t, b.MigrateOnFirstLogin(context.Background(), "user-1"), ErrDisabled)
}

func TestBridge_MigrateUploadsWhenRemoteIsEmpty(t *testing.T) {
	remote := newRecordingRemote()
	b, store := newTestBridge(remote)
	store.Set(storage.KeyGamification, entities.GamificationState{XP: 30, Level: 1})
	store.Set(storage.KeyDarkMode, true)

	require.NoError(t, b.MigrateOnFirstLogin(context.Background(), "user-1"))

	doc, found, err := remote.Read(context.Background(), "user-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Contains(t, doc, storage.KeyGamification)
	assert.Contains(t, doc, storage.KeyDarkMode)
	assert.NotContains(t, doc, storage.KeySyncMigrated)
	assert.True(t, b.Migrated())
}

func TestBridge_MigrateMergesWithRemote(t *testing.T) {
	remote := newRecordingRemote()
	remoteState := entities.GamificationState{
		XP:             80,
		Level:          1,
		Streak:         5,
		LongestStreak:  5,
		LastActiveDate: "2024-03-09",
		Achievements:   []entities.Achievement{{ID: "B", UnlockedAt: "2024-03-01"}, {ID: "A", Title: "remote"}},
	}
	remoteRaw, err := json.Marshal(remoteState)
	require.NoError(t, err)
	require.NoError(t, remote.MemoryRemote.Write(context.Background(), "user-1", Document{
		storage.KeyGamification:    remoteRaw,
		storage.KeyDarkMode:        json.RawMessage(`true`),
		storage.KeyUserSettings:    json.RawMessage(`{"name":"Remote","examType":"jee"}`),
		storage.KeyMockTestResults: json.RawMessage(`[{"testId":"remote-test"}]`),
	}, false))

	b, store := newTestBridge(remote)
	store.Set(storage.KeyGamification, entities.GamificationState{
		XP:             100,
		Level:          2,
		Streak:         2,
		LongestStreak:  2,
		LastActiveDate: "2024-03-10",
		Achievements:   []entities.Achievement{{ID: "A", Title: "local"}},
	})
	store.Set(storage.KeyUserSettings, entities.UserSettings{Name: "Local", ExamType: "neet"})

	require.NoError(t, b.MigrateOnFirstLogin(context.Background(), "user-1"))

	merged := storage.Get(store, storage.KeyGamification, entities.GamificationState{})
	assert.Equal(t, 100, merged.XP)
	assert.Equal(t, 2, merged.Level)
	assert.Equal(t, 5, merged.Streak)
	assert.Equal(t, "2024-03-10", merged.LastActiveDate)
	require.Len(t, merged.Achievements, 2)
	assert.Equal(t, "A", merged.Achievements[0].ID)
	assert.Equal(t, "local", merged.Achievements[0].Title)
	assert.Equal(t, "B", merged.Achievements[1].ID)

	assert.Equal(t, "Local", storage.Get(store, storage.KeyUserSettings, entities.UserSettings{}).Name)
	assert.True(t, storage.Get(store, storage.KeyDarkMode, false))
	assert.True(t, store.Has(storage.KeyMockTestResults))

	doc, _, err := remote.Read(context.Background(), "user-1")
	require.NoError(t, err)
	remoteMerged := decode[entities.GamificationState](t, doc[storage.KeyGamification])
	assert.Equal(t, merged.XP, remoteMerged.XP)
	assert.Equal(t, merged.Streak, remoteMerged.Streak)
	assert.Equal(t, "Remote", decode[entities.UserSettings](t, doc[storage.KeyUserSettings]).Name)
}

func TestBridge_MigratePullsEveryRemoteKey(t *testing.T) {
	remote := newRecordingRemote()
	require.NoError(t, remote.MemoryRemote.Write(context.Background(), "user-1", Document{
		storage.KeyGamification: json.RawMessage(`{"xp":10,"level":1}`),
		"exam-countdown":        json.RawMessage(`{"date":"2024-05-05"}`),
		storage.KeySyncMigrated: json.RawMessage(`true`),
	}, false))

	b, store := newTestBridge(remote)
	store.Set("draft-answers", []string{"q1"})

	require.NoError(t, b.MigrateOnFirstLogin(context.Background(), "user-1"))

	assert.True(t, store.Has("exam-countdown"))

	doc, _, err := remote.Read(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Contains(t, doc, "draft-answers")

	pushes := remote.pushes()
	require.Len(t, pushes, 1)
	assert.NotContains(t, pushes[0], "exam-countdown")
	assert.NotContains(t, pushes[0], storage.KeySyncMigrated)
}

func TestBridge_FlushWaitsForFiredTimer(t *testing.T) {
	remote := newRecordingRemote()
	store := storage.New(storage.NewMemoryBackend(), "", nil)
	b := New(store, remote, Options{Debounce: time.Millisecond}, nil)
	b.InitSync("user-1")

	for i := 1; i <= 50; i++ {
		store.Set(storage.KeyDarkMode, i%2 == 0)
		// Land Flush around the moment the debounce timer fires.
		time.Sleep(time.Millisecond)
		b.Flush()

		require.Len(t, remote.pushes(), i)
	}
}

func TestBridge_MigrateRunsOnce(t *testing.T) {
	remote := newRecordingRemote()
	b, store := newTestBridge(remote)
	store.Set(storage.KeyDarkMode, true)

	require.NoError(t, b.MigrateOnFirstLogin(context.Background(), "user-1"))
	require.NoError(t, b.MigrateOnFirstLogin(context.Background(), "user-1"))

	assert.Len(t, remote.pushes(), 1)
}

func TestBridge_MigrateFailureLeavesFlagUnset(t *testing.T) {
	remote := newRecordingRemote()
	remote.err = errors.New("permission denied")
	b, _ := newTestBridge(remote)

	err := b.MigrateOnFirstLogin(context.Background(), "user-1")

	assert.Error(t, err)
	assert.False(t, b.Migrated())
}

func TestMergeGamification(t *testing.T) {
	local := entities.GamificationState{XP: 100, Streak: 2, Achievements: []entities.Achievement{{ID: "A"}}}
	remote := entities.GamificationState{XP: 80, Streak: 5, Achievements: []entities.Achievement{{ID: "B"}}}

	merged := MergeGamification(local, remote)

	assert.Equal(t, 100, merged.XP)
	assert.Equal(t, 5, merged.Streak)
	assert.Equal(t, 5, merged.LongestStreak)
	assert.Equal(t, 2, merged.Level)
	require.Len(t, merged.Achievements, 2)
	assert.Equal(t, "A", merged.Achievements[0].ID)
	assert.Equal(t, "B", merged.Achievements[1].ID)
}

package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/exam-prep/internal/cloudsync"
	"github.com/aliskhannn/exam-prep/internal/service"
	"github.com/aliskhannn/exam-prep/internal/storage"
)

type brokenRemote struct{}

func (brokenRemote) Read(context.Context, string) (cloudsync.Document, bool, error) {
	return nil, false, errors.New("unreachable")
}

func (brokenRemote) Write(context.Context, string, cloudsync.Document, bool) error {
	return errors.New("unreachable")
}

func fixedClock() service.Clock {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func testConfig(backend storage.Backend, namespace string, remote cloudsync.Remote) DeviceConfig {
	return DeviceConfig{
		Backend:     backend,
		Namespace:   namespace,
		Remote:      remote,
		SyncOptions: cloudsync.Options{Debounce: 10 * time.Millisecond},
		Clock:       fixedClock(),
	}
}

func TestDevice_StateFollowsUserAcrossDevices(t *testing.T) {
	ctx := context.Background()
	remote := cloudsync.NewMemoryRemote()

	phone := NewDevice(testConfig(storage.NewMemoryBackend(), "phone:", remote))
	require.NoError(t, phone.SignIn(ctx, "tg:1"))
	for i := 0; i < 3; i++ {
		phone.Practice.AnswerQuestion(service.Answer{Correct: true, TimeSpent: 45})
	}
	phone.Close()

	laptop := NewDevice(testConfig(storage.NewMemoryBackend(), "laptop:", remote))
	laptop.Practice.AnswerQuestion(service.Answer{Correct: false, TimeSpent: 45})
	require.NoError(t, laptop.SignIn(ctx, "tg:1"))

	state := laptop.Gamification.State()
	assert.Equal(t, 30, state.XP)
	assert.True(t, laptop.SignedIn())
	assert.True(t, laptop.Bridge.Migrated())
	assert.Len(t, laptop.Progress.QuestionHistory(), 1, "local history is kept")
}

func TestDevice_SecondSignInPulls(t *testing.T) {
	ctx := context.Background()
	remote := cloudsync.NewMemoryRemote()
	d := NewDevice(testConfig(storage.NewMemoryBackend(), "", remote))
	require.NoError(t, d.SignIn(ctx, "tg:1"))
	d.SignOut()
	assert.False(t, d.SignedIn())

	require.NoError(t, remote.Write(ctx, "tg:1", cloudsync.Document{
		storage.KeyDarkMode: []byte(`true`),
	}, true))

	require.NoError(t, d.SignIn(ctx, "tg:1"))
	assert.True(t, d.Settings.DarkMode())
}

func TestDevice_SignInFailureStaysLocal(t *testing.T) {
	d := NewDevice(testConfig(storage.NewMemoryBackend(), "", brokenRemote{}))

	err := d.SignIn(context.Background(), "tg:1")

	assert.Error(t, err)
	assert.False(t, d.SignedIn())
	out := d.Practice.AnswerQuestion(service.Answer{Correct: true, TimeSpent: 45})
	assert.Equal(t, 10, out.State.XP)
}

func TestDevice_SignInWithoutRemote(t *testing.T) {
	d := NewDevice(testConfig(storage.NewMemoryBackend(), "", nil))

	require.NoError(t, d.SignIn(context.Background(), "tg:1"))
	assert.True(t, d.SignedIn())
}

func TestRegistry_NamespacesAreIsolated(t *testing.T) {
	backend := storage.NewMemoryBackend()
	r := NewRegistry(testConfig(backend, "examprep:", nil))
	ctx := context.Background()

	a := r.Open(ctx, 4)
	b := r.Open(ctx, 42)
	assert.Same(t, a, r.Open(ctx, 4))

	a.Practice.AnswerQuestion(service.Answer{Correct: true, TimeSpent: 45})
	b.Reset.ResetAll()
	a.Store.Clear()
	b.Practice.AnswerQuestion(service.Answer{Correct: true, TimeSpent: 45})

	assert.Zero(t, a.Gamification.State().XP)
	assert.Equal(t, 10, b.Gamification.State().XP)
	assert.Equal(t, "examprep:42:", r.Namespace(42))
	assert.Len(t, r.ActivityPruners(), 2)

	r.Close()
}

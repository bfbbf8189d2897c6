package service

import (
	"sync"
	"time"

	"github.com/aliskhannn/exam-prep/internal/repository"
	"github.com/aliskhannn/exam-prep/internal/storage"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) AddDays(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.AddDate(0, 0, n)
}

func at(date string, hour int) time.Time {
	t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		panic(err)
	}
	return t.Add(time.Duration(hour) * time.Hour)
}

// testDevice wires the services over one in-memory store.
type testDevice struct {
	store        *storage.Store
	clock        *fakeClock
	progress     *ProgressService
	gamification *GamificationService
	plans        *StudyPlanService
	settings     *SettingsService
	practice     *PracticeService
}

func newTestDevice(now time.Time) *testDevice {
	store := storage.New(storage.NewMemoryBackend(), "", nil)
	clock := newFakeClock(now)

	progress := NewProgressService(repository.NewProgressRepository(store), clock.Now, nil)
	gamification := NewGamificationService(repository.NewGamificationRepository(store), progress, clock.Now, nil)

	return &testDevice{
		store:        store,
		clock:        clock,
		progress:     progress,
		gamification: gamification,
		plans:        NewStudyPlanService(repository.NewStudyPlanRepository(store), clock.Now, nil),
		settings:     NewSettingsService(repository.NewSettingsRepository(store)),
		practice:     NewPracticeService(progress, gamification, clock.Now),
	}
}

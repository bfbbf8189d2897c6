package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/exam-prep/internal/domain/entities"
)

var ErrLeaderboardUnavailable = errors.New("leaderboard is not configured")

const defaultLeaderboardTimeout = 5 * time.Second

// LeaderboardService publishes gamification snapshots and reads rankings.
// Publishing never blocks the caller and failures are only logged. Snapshots are
// delivered to the board one at a time in publish order.
type LeaderboardService struct {
	board    Leaderboard
	identity IdentitySource
	settings SettingsReader
	timeout  time.Duration
	logger   *zap.Logger

	mu       sync.Mutex
	queue    []pendingEntry
	draining bool
	wg       sync.WaitGroup
}

type pendingEntry struct {
	identity string
	entry    entities.LeaderboardEntry
}

// NewLeaderboardService creates a new LeaderboardService. board may be nil, in which
// case publishing is skipped and queries fail with ErrLeaderboardUnavailable.
func NewLeaderboardService(
	board Leaderboard,
	identity IdentitySource,
	settings SettingsReader,
	timeout time.Duration,
	logger *zap.Logger,
) *LeaderboardService {
	if timeout <= 0 {
		timeout = defaultLeaderboardTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeaderboardService{
		board:    board,
		identity: identity,
		settings: settings,
		timeout:  timeout,
		logger:   logger,
	}
}

// Publish upserts the leaderboard entry for the active identity in the background.
func (s *LeaderboardService) Publish(state entities.GamificationState, at time.Time) {
	if s == nil || s.board == nil || s.identity == nil {
		return
	}
	identity, ok := s.identity.Identity()
	if !ok {
		return
	}

	settings := entities.NewUserSettings()
	if s.settings != nil {
		settings = s.settings.Settings()
	}

	entry := entities.LeaderboardEntry{
		Name:      settings.Name,
		XP:        state.XP,
		Level:     state.Level,
		Streak:    state.Streak,
		ExamType:  settings.ExamType,
		UpdatedAt: at,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.wg.Add(1)
	s.queue = append(s.queue, pendingEntry{identity: identity, entry: entry})
	if !s.draining {
		s.draining = true
		go s.drain()
	}
}

// drain upserts queued entries in order until the queue is empty.
func (s *LeaderboardService) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.draining = false
			s.mu.Unlock()
			return
		}
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.upsert(next)
		s.wg.Done()
	}
}

func (s *LeaderboardService) upsert(p pendingEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.board.Upsert(ctx, p.identity, p.entry); err != nil {
		s.logger.Warn("failed to update leaderboard",
			zap.String("identity", p.identity),
			zap.Error(err),
		)
	}
}

// Wait blocks until every in-flight publish has finished.
func (s *LeaderboardService) Wait() {
	if s == nil {
		return
	}
	s.wg.Wait()
}

// Top returns the best entries of examType for period.
func (s *LeaderboardService) Top(ctx context.Context, examType, period string, limit int) ([]entities.RankedEntry, error) {
	if s == nil || s.board == nil {
		return nil, ErrLeaderboardUnavailable
	}
	switch period {
	case entities.PeriodAllTime, entities.PeriodWeek, entities.PeriodDay:
	default:
		period = entities.PeriodAllTime
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.board.Query(ctx, examType, period, limit)
}

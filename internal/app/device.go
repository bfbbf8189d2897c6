package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/exam-prep/internal/cloudsync"
	"github.com/aliskhannn/exam-prep/internal/repository"
	"github.com/aliskhannn/exam-prep/internal/service"
	"github.com/aliskhannn/exam-prep/internal/storage"
)

// Device is the complete progress core of one user: a namespaced store, the
// services on top of it and the sync bridge mirroring it.
type Device struct {
	Store        *storage.Store
	Bridge       *cloudsync.Bridge
	Progress     *service.ProgressService
	Gamification *service.GamificationService
	Plans        *service.StudyPlanService
	Settings     *service.SettingsService
	Practice     *service.PracticeService
	Reset        *service.ResetService
	Leaderboard  *service.LeaderboardService

	logger *zap.Logger
}

// DeviceConfig carries the collaborators shared by every device.
type DeviceConfig struct {
	Backend            storage.Backend
	Namespace          string
	Remote             cloudsync.Remote
	SyncOptions        cloudsync.Options
	Leaderboard        service.Leaderboard
	LeaderboardTimeout time.Duration
	Clock              service.Clock
	Logger             *zap.Logger
}

// NewDevice wires the core services over cfg.Backend under cfg.Namespace.
func NewDevice(cfg DeviceConfig) *Device {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("namespace", cfg.Namespace))

	store := storage.New(cfg.Backend, cfg.Namespace, logger)
	bridge := cloudsync.New(store, cfg.Remote, cfg.SyncOptions, logger)

	settings := service.NewSettingsService(repository.NewSettingsRepository(store))
	progress := service.NewProgressService(repository.NewProgressRepository(store), cfg.Clock, logger)
	gamification := service.NewGamificationService(repository.NewGamificationRepository(store), progress, cfg.Clock, logger)
	leaderboard := service.NewLeaderboardService(cfg.Leaderboard, bridge, settings, cfg.LeaderboardTimeout, logger)
	reset := service.NewResetService(store, cfg.Clock, logger)

	if cfg.Leaderboard != nil {
		gamification.SetPublisher(leaderboard)
		reset.SetPublisher(leaderboard)
	}

	return &Device{
		Store:        store,
		Bridge:       bridge,
		Progress:     progress,
		Gamification: gamification,
		Plans:        service.NewStudyPlanService(repository.NewStudyPlanRepository(store), cfg.Clock, logger),
		Settings:     settings,
		Practice:     service.NewPracticeService(progress, gamification, cfg.Clock),
		Reset:        reset,
		Leaderboard:  leaderboard,
		logger:       logger,
	}
}

// SignIn attaches the device to identity. The first sign-in of a device merges local
// and remote state, later ones pull the remote copy. When that step fails the device
// stays local-only and the error is returned; the next sign-in retries.
func (d *Device) SignIn(ctx context.Context, identity string) error {
	if d.Bridge.Enabled() {
		var err error
		if d.Bridge.Migrated() {
			err = d.Bridge.PullFromRemote(ctx, identity)
		} else {
			err = d.Bridge.MigrateOnFirstLogin(ctx, identity)
		}
		if err != nil {
			d.logger.Error("failed to reconcile with remote, staying local-only",
				zap.String("identity", identity),
				zap.Error(err),
			)
			return err
		}
	}

	d.Bridge.InitSync(identity)
	d.logger.Info("signed in", zap.String("identity", identity))
	return nil
}

// SignOut stops mirroring. Local data stays on the device.
func (d *Device) SignOut() {
	d.Bridge.StopSync()
	d.logger.Info("signed out")
}

// SignedIn reports whether the device currently mirrors to an identity.
func (d *Device) SignedIn() bool {
	_, ok := d.Bridge.Identity()
	return ok
}

// Close flushes pending remote work.
func (d *Device) Close() {
	d.Bridge.Flush()
	d.Leaderboard.Wait()
}

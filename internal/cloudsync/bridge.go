package cloudsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/exam-prep/internal/domain/entities"
	"github.com/aliskhannn/exam-prep/internal/storage"
)

// ErrDisabled is returned by remote operations when no remote is configured.
var ErrDisabled = errors.New("cloud sync is disabled")

const (
	DefaultDebounce = 500 * time.Millisecond
	DefaultTimeout  = 10 * time.Second
)

// SyncedKeys is the fixed set of logical keys mirrored to the remote document.
var SyncedKeys = []string{
	storage.KeyGamification,
	storage.KeyQuestionHistory,
	storage.KeyDailyActivities,
	storage.KeyMockTestResults,
	storage.KeyUserSettings,
	storage.KeyDarkMode,
	storage.KeyCertificates,
	storage.KeyStudyPlan,
	storage.KeyStudyPlanDays,
	storage.KeyNotificationSettings,
}

// IsSynced reports whether key belongs to the mirrored set.
func IsSynced(key string) bool {
	return slices.Contains(SyncedKeys, key)
}

// Options tunes the bridge.
type Options struct {
	Debounce time.Duration
	Timeout  time.Duration
}

// Bridge mirrors the local store of one device to a remote document.
// Pushes are debounced and best-effort: failures are logged, never returned.
type Bridge struct {
	store    *storage.Store
	remote   Remote
	debounce time.Duration
	timeout  time.Duration
	logger   *zap.Logger

	mu       sync.Mutex
	identity string
	timer    *time.Timer
	pending  string

	// applying suppresses change signals caused by the bridge's own writes.
	applying atomic.Bool
	inflight sync.WaitGroup
}

// New creates a bridge for store and subscribes it to store changes.
// A nil remote yields a bridge that never leaves the device.
func New(store *storage.Store, remote Remote, opts Options, logger *zap.Logger) *Bridge {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	b := &Bridge{
		store:    store,
		remote:   remote,
		debounce: opts.Debounce,
		timeout:  opts.Timeout,
		logger:   logger,
	}
	store.Subscribe(b.onChange)
	return b
}

// Enabled reports whether a remote is configured.
func (b *Bridge) Enabled() bool {
	return b.remote != nil
}

// InitSync activates mirroring for identity.
func (b *Bridge) InitSync(identity string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.identity = identity
}

// StopSync deactivates mirroring and drops a pending push.
// A push that already started is not interrupted.
func (b *Bridge) StopSync() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.identity = ""
	b.cancelPendingLocked()
}

// Identity returns the identity mirroring is active for.
func (b *Bridge) Identity() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.identity, b.identity != ""
}

// RequestSync schedules a push of the whitelisted keys. Requests arriving within the
// debounce window replace each other, so only the last one runs. An empty identity
// targets the active one; without an active identity the call is a no-op.
func (b *Bridge) RequestSync(identity string) {
	if b.remote == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if identity == "" {
		identity = b.identity
	}
	if identity == "" {
		return
	}

	b.cancelPendingLocked()
	b.pending = identity

	// Every scheduled timer holds one inflight slot until its push ran or it was
	// cancelled, so Flush can wait for a timer that fired but has not pushed yet.
	b.inflight.Add(1)

	var timer *time.Timer
	timer = time.AfterFunc(b.debounce, func() {
		defer b.inflight.Done()

		b.mu.Lock()
		if b.timer != timer {
			b.mu.Unlock()
			return
		}
		b.timer = nil
		id := b.pending
		b.pending = ""
		b.mu.Unlock()

		b.push(id)
	})
	b.timer = timer
}

// Flush runs a pending push immediately and waits for every in-flight push.
func (b *Bridge) Flush() {
	b.mu.Lock()
	id := ""
	// A timer that already fired pushes on its own and is waited for below.
	if b.timer != nil && b.timer.Stop() {
		id = b.pending
		b.timer = nil
		b.pending = ""
	}
	b.mu.Unlock()

	if id != "" {
		b.push(id)
		b.inflight.Done()
	}
	b.inflight.Wait()
}

func (b *Bridge) cancelPendingLocked() {
	if b.timer != nil {
		// A stopped timer never runs its callback, so it releases its slot here.
		// One that already fired sees the cleared field and releases its own.
		if b.timer.Stop() {
			b.inflight.Done()
		}
		b.timer = nil
	}
	b.pending = ""
}

func (b *Bridge) onChange(key string) {
	if b.applying.Load() || !IsSynced(key) {
		return
	}
	b.RequestSync("")
}

// Snapshot returns the current encoded value of every whitelisted key present locally.
func (b *Bridge) Snapshot() Document {
	doc := make(Document, len(SyncedKeys))
	for _, key := range SyncedKeys {
		if raw, ok := b.store.Raw(key); ok {
			doc[key] = raw
		}
	}
	return doc
}

func (b *Bridge) push(identity string) {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	doc := b.Snapshot()
	if err := b.remote.Write(ctx, identity, doc, true); err != nil {
		b.logger.Warn("failed to push local state",
			zap.String("identity", identity),
			zap.Error(err),
		)
		return
	}

	b.logger.Debug("local state pushed",
		zap.String("identity", identity),
		zap.Int("keys", len(doc)),
	)
}

// PullFromRemote overwrites every whitelisted local key that the remote document holds.
func (b *Bridge) PullFromRemote(ctx context.Context, identity string) error {
	if b.remote == nil {
		return ErrDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	doc, found, err := b.remote.Read(ctx, identity)
	if err != nil {
		return fmt.Errorf("read remote document: %w", err)
	}
	if !found {
		return nil
	}

	pulled := 0
	b.apply(func() {
		for _, key := range SyncedKeys {
			raw, ok := doc[key]
			if !ok || !json.Valid(raw) {
				continue
			}
			b.store.SetRaw(key, raw)
			pulled++
		}
	})

	b.logger.Info("remote state pulled",
		zap.String("identity", identity),
		zap.Int("keys", pulled),
	)
	return nil
}

// Migrated reports whether the one-time migration already ran on this device.
func (b *Bridge) Migrated() bool {
	return storage.Get(b.store, storage.KeySyncMigrated, false)
}

// MigrateOnFirstLogin reconciles local and remote state the first time the device
// signs in. Without a remote document every local key is uploaded. Otherwise the
// gamification records are merged, every remote key missing locally is pulled in
// and every local key missing remotely is uploaded.
func (b *Bridge) MigrateOnFirstLogin(ctx context.Context, identity string) error {
	if b.remote == nil {
		return ErrDisabled
	}
	if b.Migrated() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	remoteDoc, found, err := b.remote.Read(ctx, identity)
	if err != nil {
		return fmt.Errorf("read remote document: %w", err)
	}

	if !found {
		if err := b.remote.Write(ctx, identity, b.localDocument(), true); err != nil {
			return fmt.Errorf("upload local state: %w", err)
		}
	} else if err := b.mergeInto(ctx, identity, remoteDoc); err != nil {
		return err
	}

	b.apply(func() {
		b.store.Set(storage.KeySyncMigrated, true)
	})

	b.logger.Info("first login migration finished",
		zap.String("identity", identity),
		zap.Bool("remote_found", found),
	)
	return nil
}

func (b *Bridge) mergeInto(ctx context.Context, identity string, remoteDoc Document) error {
	local := storage.Get(b.store, storage.KeyGamification, entities.NewGamificationState())
	local.Normalize()

	merged := local
	if raw, ok := remoteDoc[storage.KeyGamification]; ok {
		var remote entities.GamificationState
		if err := json.Unmarshal(raw, &remote); err != nil {
			b.logger.Warn("ignoring undecodable remote gamification",
				zap.String("identity", identity),
				zap.Error(err),
			)
		} else {
			remote.Normalize()
			merged = MergeGamification(local, remote)
		}
	}

	encoded, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("encode merged gamification: %w", err)
	}

	upload := Document{storage.KeyGamification: encoded}

	b.apply(func() {
		b.store.SetRaw(storage.KeyGamification, encoded)

		for key, raw := range remoteDoc {
			if key == storage.KeyGamification || key == storage.KeySyncMigrated {
				continue
			}
			if !b.store.Has(key) && json.Valid(raw) {
				b.store.SetRaw(key, raw)
			}
		}
	})

	for key, raw := range b.localDocument() {
		if key == storage.KeyGamification {
			continue
		}
		if _, ok := remoteDoc[key]; !ok {
			upload[key] = raw
		}
	}

	if err := b.remote.Write(ctx, identity, upload, true); err != nil {
		return fmt.Errorf("write merged state: %w", err)
	}
	return nil
}

// localDocument collects every key under the namespace except the migration flag.
func (b *Bridge) localDocument() Document {
	doc := make(Document)
	for _, key := range b.store.Keys() {
		if key == storage.KeySyncMigrated {
			continue
		}
		if raw, ok := b.store.Raw(key); ok {
			doc[key] = raw
		}
	}
	return doc
}

func (b *Bridge) apply(fn func()) {
	b.applying.Store(true)
	defer b.applying.Store(false)
	fn()
}

package app

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/aliskhannn/exam-prep/internal/service"
	"github.com/aliskhannn/exam-prep/internal/storage"
)

// Registry keeps one Device per Telegram user, all sharing one physical backend.
type Registry struct {
	base   DeviceConfig
	logger *zap.Logger

	mu      sync.Mutex
	devices map[int64]*Device
}

// NewRegistry creates a registry. base.Namespace is the prefix every user
// namespace is derived from.
func NewRegistry(base DeviceConfig) *Registry {
	if base.Namespace == "" {
		base.Namespace = storage.DefaultNamespace
	}
	logger := base.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		base:    base,
		logger:  logger,
		devices: make(map[int64]*Device),
	}
}

// Identity returns the remote identity of a Telegram user.
func Identity(userID int64) string {
	return "tg:" + strconv.FormatInt(userID, 10)
}

// Namespace returns the store namespace of a Telegram user.
func (r *Registry) Namespace(userID int64) string {
	return fmt.Sprintf("%s%d:", r.base.Namespace, userID)
}

// Open returns the device of userID, creating and signing it in on first use.
func (r *Registry) Open(ctx context.Context, userID int64) *Device {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d, ok := r.devices[userID]; ok {
		return d
	}

	cfg := r.base
	cfg.Namespace = r.Namespace(userID)
	d := NewDevice(cfg)
	r.devices[userID] = d

	// Errors are logged by the device; it keeps working locally.
	_ = d.SignIn(ctx, Identity(userID))

	return d
}

// ActivityPruners implements service.PrunerSource.
func (r *Registry) ActivityPruners() []service.ActivityPruner {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]service.ActivityPruner, 0, len(r.devices))
	for _, d := range r.devices {
		out = append(out, d.Progress)
	}
	return out
}

// Close flushes every open device.
func (r *Registry) Close() {
	r.mu.Lock()
	devices := make([]*Device, 0, len(r.devices))
	for _, d := range r.devices {
		devices = append(devices, d)
	}
	r.mu.Unlock()

	for _, d := range devices {
		d.Close()
	}
	r.logger.Info("devices flushed", zap.Int("count", len(devices)))
}

package storage

import (
	"encoding/json"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// DefaultNamespace prefixes every key the app owns in the physical storage.
const DefaultNamespace = "examprep:"

// Logical keys of the on-device state.
const (
	KeyGamification         = "gamification"
	KeyQuestionHistory      = "question-history"
	KeyDailyActivities      = "daily-activities"
	KeyMockTestResults      = "mock-test-results"
	KeyUserSettings         = "user-settings"
	KeyDarkMode             = "dark-mode"
	KeyCertificates         = "certificates"
	KeyStudyPlan            = "study-plan"
	KeyStudyPlanDays        = "study-plan-days"
	KeyNotificationSettings = "notification-settings"
	KeySyncMigrated         = "sync-migrated"
)

// Backend is the physical medium shared with data the app does not own.
type Backend interface {
	Load(key string) ([]byte, bool, error)
	Save(key string, value []byte) error
	Delete(key string) error
	Keys(prefix string) ([]string, error)
}

// ChangeFunc is called after a key under the namespace was written or removed.
type ChangeFunc func(key string)

// Store is the namespaced JSON key-value store. Reads never fail: a missing or
// undecodable value yields the caller's fallback. Write failures are logged and
// swallowed so that in-memory state keeps flowing to the caller.
type Store struct {
	backend   Backend
	namespace string
	logger    *zap.Logger

	mu        sync.RWMutex
	listeners []ChangeFunc
}

// New creates a Store over backend. An empty namespace selects DefaultNamespace.
func New(backend Backend, namespace string, logger *zap.Logger) *Store {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		backend:   backend,
		namespace: namespace,
		logger:    logger,
	}
}

// Namespace returns the key prefix of the store.
func (s *Store) Namespace() string {
	return s.namespace
}

// Subscribe registers fn for change notifications.
func (s *Store) Subscribe(fn ChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Get decodes the value under key, or returns fallback.
func Get[T any](s *Store, key string, fallback T) T {
	raw, ok := s.Raw(key)
	if !ok {
		return fallback
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.logger.Debug("discarding undecodable value",
			zap.String("key", key),
			zap.Error(err),
		)
		return fallback
	}
	return v
}

// Raw returns the encoded value under key.
func (s *Store) Raw(key string) (json.RawMessage, bool) {
	data, ok, err := s.backend.Load(s.namespace + key)
	if err != nil {
		s.logger.Warn("failed to read key",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, false
	}
	if !ok || !json.Valid(data) {
		return nil, false
	}
	return data, true
}

// Has reports whether key holds a decodable value.
func (s *Store) Has(key string) bool {
	_, ok := s.Raw(key)
	return ok
}

// Set encodes value and stores it under key, then notifies subscribers.
func (s *Store) Set(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("failed to encode value",
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}
	s.SetRaw(key, data)
}

// SetRaw stores an already encoded value under key, then notifies subscribers.
func (s *Store) SetRaw(key string, data json.RawMessage) {
	if err := s.backend.Save(s.namespace+key, data); err != nil {
		s.logger.Error("failed to persist value",
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}
	s.notify(key)
}

// Remove deletes key.
func (s *Store) Remove(key string) {
	if err := s.backend.Delete(s.namespace + key); err != nil {
		s.logger.Error("failed to remove value",
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}
	s.notify(key)
}

// Keys lists the logical keys currently stored under the namespace.
func (s *Store) Keys() []string {
	full, err := s.backend.Keys(s.namespace)
	if err != nil {
		s.logger.Warn("failed to list keys", zap.Error(err))
		return nil
	}

	keys := make([]string, 0, len(full))
	for _, k := range full {
		keys = append(keys, strings.TrimPrefix(k, s.namespace))
	}
	return keys
}

// Clear removes every key under the namespace and leaves other data untouched.
func (s *Store) Clear() {
	for _, key := range s.Keys() {
		s.Remove(key)
	}
}

func (s *Store) notify(key string) {
	s.mu.RLock()
	listeners := make([]ChangeFunc, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(key)
	}
}

package repository

import (
	"github.com/aliskhannn/exam-prep/internal/domain/entities"
	"github.com/aliskhannn/exam-prep/internal/storage"
)

// SettingsRepository persists user settings and the dark mode flag.
type SettingsRepository struct {
	store *storage.Store
}

// NewSettingsRepository creates a new SettingsRepository over store.
func NewSettingsRepository(store *storage.Store) *SettingsRepository {
	return &SettingsRepository{store: store}
}

// Get returns stored settings, or defaults when none were saved yet.
func (r *SettingsRepository) Get() (entities.UserSettings, bool) {
	if !r.store.Has(storage.KeyUserSettings) {
		return entities.NewUserSettings(), false
	}
	return storage.Get(r.store, storage.KeyUserSettings, entities.NewUserSettings()), true
}

// Save replaces the stored settings.
func (r *SettingsRepository) Save(settings entities.UserSettings) {
	r.store.Set(storage.KeyUserSettings, settings)
}

// DarkMode returns the stored dark mode flag.
func (r *SettingsRepository) DarkMode() bool {
	return storage.Get(r.store, storage.KeyDarkMode, false)
}

// SetDarkMode stores the dark mode flag.
func (r *SettingsRepository) SetDarkMode(enabled bool) {
	r.store.Set(storage.KeyDarkMode, enabled)
}

package repository

import (
	"github.com/aliskhannn/exam-prep/internal/domain/entities"
	"github.com/aliskhannn/exam-prep/internal/storage"
)

// GamificationRepository persists the singleton gamification record.
type GamificationRepository struct {
	store *storage.Store
}

// NewGamificationRepository creates a new GamificationRepository over store.
func NewGamificationRepository(store *storage.Store) *GamificationRepository {
	return &GamificationRepository{store: store}
}

// Get returns the stored state, normalized so that level always matches xp.
func (r *GamificationRepository) Get() entities.GamificationState {
	state := storage.Get(r.store, storage.KeyGamification, entities.NewGamificationState())
	state.Normalize()
	return state
}

// Save replaces the stored state.
func (r *GamificationRepository) Save(state entities.GamificationState) {
	r.store.Set(storage.KeyGamification, state)
}

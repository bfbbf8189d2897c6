package repository

import (
	"github.com/aliskhannn/exam-prep/internal/domain/entities"
	"github.com/aliskhannn/exam-prep/internal/storage"
)

// ProgressRepository persists question history, daily aggregates and mock tests.
type ProgressRepository struct {
	store *storage.Store
}

// NewProgressRepository creates a new ProgressRepository over store.
func NewProgressRepository(store *storage.Store) *ProgressRepository {
	return &ProgressRepository{store: store}
}

// QuestionHistory returns the stored question results, oldest first.
func (r *ProgressRepository) QuestionHistory() []entities.QuestionResult {
	return storage.Get(r.store, storage.KeyQuestionHistory, []entities.QuestionResult{})
}

// SaveQuestionHistory replaces the question history.
func (r *ProgressRepository) SaveQuestionHistory(history []entities.QuestionResult) {
	r.store.Set(storage.KeyQuestionHistory, history)
}

// DailyActivities returns the stored daily aggregates.
func (r *ProgressRepository) DailyActivities() []entities.DailyActivity {
	return storage.Get(r.store, storage.KeyDailyActivities, []entities.DailyActivity{})
}

// SaveDailyActivities replaces the daily aggregates.
func (r *ProgressRepository) SaveDailyActivities(activities []entities.DailyActivity) {
	r.store.Set(storage.KeyDailyActivities, activities)
}

// MockTestResults returns every recorded mock test, oldest first.
func (r *ProgressRepository) MockTestResults() []entities.MockTestResult {
	return storage.Get(r.store, storage.KeyMockTestResults, []entities.MockTestResult{})
}

// SaveMockTestResults replaces the mock test history.
func (r *ProgressRepository) SaveMockTestResults(results []entities.MockTestResult) {
	r.store.Set(storage.KeyMockTestResults, results)
}

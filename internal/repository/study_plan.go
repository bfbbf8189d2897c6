package repository

import (
	"github.com/aliskhannn/exam-prep/internal/domain/entities"
	"github.com/aliskhannn/exam-prep/internal/storage"
)

// StudyPlanRepository persists the active plan and its day schedule.
type StudyPlanRepository struct {
	store *storage.Store
}

// NewStudyPlanRepository creates a new StudyPlanRepository over store.
func NewStudyPlanRepository(store *storage.Store) *StudyPlanRepository {
	return &StudyPlanRepository{store: store}
}

// Plan returns the active plan or nil.
func (r *StudyPlanRepository) Plan() *entities.StudyPlanConfig {
	return storage.Get[*entities.StudyPlanConfig](r.store, storage.KeyStudyPlan, nil)
}

// Days returns the schedule of the active plan.
func (r *StudyPlanRepository) Days() []entities.StudyPlanDay {
	return storage.Get(r.store, storage.KeyStudyPlanDays, []entities.StudyPlanDay{})
}

// Save replaces plan and schedule.
func (r *StudyPlanRepository) Save(plan *entities.StudyPlanConfig, days []entities.StudyPlanDay) {
	r.store.Set(storage.KeyStudyPlan, plan)
	r.store.Set(storage.KeyStudyPlanDays, days)
}

// Delete resets plan and schedule to empty values. The keys are overwritten rather than
// removed so that the next push clears them on the remote copy as well.
func (r *StudyPlanRepository) Delete() {
	r.store.Set(storage.KeyStudyPlan, nil)
	r.store.Set(storage.KeyStudyPlanDays, []entities.StudyPlanDay{})
}

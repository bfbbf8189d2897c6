package service

import (
	"go.uber.org/zap"

	"github.com/aliskhannn/exam-prep/internal/domain/entities"
	"github.com/aliskhannn/exam-prep/internal/storage"
)

// KeyWriter is the part of the local store the reset needs.
type KeyWriter interface {
	Set(key string, value any)
}

// ResetService wipes the learning progress of a device.
type ResetService struct {
	store     KeyWriter
	publisher Publisher
	clock     Clock
	logger    *zap.Logger
}

func NewResetService(store KeyWriter, clock Clock, logger *zap.Logger) *ResetService {
	if clock == nil {
		clock = LocalClock(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResetService{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// SetPublisher wires the leaderboard publisher after construction.
func (s *ResetService) SetPublisher(p Publisher) {
	s.publisher = p
}

// ResetAll overwrites every progress key with its empty value. Settings, dark mode
// and the migration flag survive. Keys are written instead of removed so that the
// next push replaces the remote copy and a later pull cannot bring old data back.
func (s *ResetService) ResetAll() {
	state := entities.NewGamificationState()

	s.store.Set(storage.KeyGamification, state)
	s.store.Set(storage.KeyQuestionHistory, []entities.QuestionResult{})
	s.store.Set(storage.KeyDailyActivities, []entities.DailyActivity{})
	s.store.Set(storage.KeyMockTestResults, []entities.MockTestResult{})
	s.store.Set(storage.KeyCertificates, []any{})
	s.store.Set(storage.KeyStudyPlan, nil)
	s.store.Set(storage.KeyStudyPlanDays, []entities.StudyPlanDay{})

	if s.publisher != nil {
		s.publisher.Publish(state, s.clock())
	}

	s.logger.Info("progress reset")
}

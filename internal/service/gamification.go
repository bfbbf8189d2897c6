package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/exam-prep/internal/domain/entities"
)

// Publisher receives a snapshot after every XP change.
type Publisher interface {
	Publish(state entities.GamificationState, at time.Time)
}

// AnswerOutcome is the result of one gamification update.
type AnswerOutcome struct {
	State           entities.GamificationState
	XPGained        int
	LeveledUp       bool
	NewAchievements []entities.Achievement
}

// GamificationService owns XP, level, streak and achievements.
type GamificationService struct {
	repository GamificationRepository
	counter    AnswerCounter
	publisher  Publisher
	clock      Clock
	logger     *zap.Logger
}

func NewGamificationService(
	repository GamificationRepository,
	counter AnswerCounter,
	clock Clock,
	logger *zap.Logger,
) *GamificationService {
	if clock == nil {
		clock = LocalClock(time.UTC)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GamificationService{
		repository: repository,
		counter:    counter,
		clock:      clock,
		logger:     logger,
	}
}

// SetPublisher wires the leaderboard publisher after construction.
func (s *GamificationService) SetPublisher(p Publisher) {
	s.publisher = p
}

// State returns the current gamification state.
func (s *GamificationService) State() entities.GamificationState {
	return s.repository.Get()
}

// XPForNextLevel reports the progress inside the current level.
func (s *GamificationService) XPForNextLevel() entities.LevelProgress {
	return entities.XPForNextLevel(s.repository.Get())
}

// RecordAnswer applies one answered question to the gamification state.
func (s *GamificationService) RecordAnswer(correct bool, timeSpent float64) AnswerOutcome {
	now := s.clock()
	today := entities.DateKey(now)
	yesterday := entities.AddDays(now, -1)

	state := s.repository.Get()
	state.TouchStreak(today, yesterday)

	reward := entities.AnswerReward(correct, state.Streak)
	leveledUp := state.AddXP(reward)
	if correct {
		state.Points++
	}

	total := 0
	if s.counter != nil {
		total = s.counter.TotalAnswered()
	}

	unlocked := unlockAchievements(&state, answerRules, answerContext{
		correct:       correct,
		timeSpent:     entities.ClampSeconds(timeSpent),
		totalAnswered: total,
		hour:          now.Hour(),
	}, today)

	s.repository.Save(state)
	s.publish(state, now)

	if leveledUp {
		s.logger.Debug("level up", zap.Int("level", state.Level), zap.Int("xp", state.XP))
	}

	return AnswerOutcome{
		State:           state,
		XPGained:        reward,
		LeveledUp:       leveledUp,
		NewAchievements: unlocked,
	}
}

// RecordMockTestBonus grants the mock test bonus. The streak is left untouched.
func (s *GamificationService) RecordMockTestBonus(percentage float64) AnswerOutcome {
	now := s.clock()
	today := entities.DateKey(now)

	state := s.repository.Get()
	leveledUp := state.AddXP(entities.XPMockTestBonus)

	var unlocked []entities.Achievement
	if percentage == entities.PerfectMockScore {
		if def, ok := entities.LookupAchievement(entities.AchievementPerfectTest); ok {
			if a, ok := state.Unlock(def, today); ok {
				unlocked = append(unlocked, a)
			}
		}
	}

	s.repository.Save(state)
	s.publish(state, now)

	return AnswerOutcome{
		State:           state,
		XPGained:        entities.XPMockTestBonus,
		LeveledUp:       leveledUp,
		NewAchievements: unlocked,
	}
}

func (s *GamificationService) publish(state entities.GamificationState, at time.Time) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(state, at)
}

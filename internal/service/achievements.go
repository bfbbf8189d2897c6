package service

import "github.com/aliskhannn/exam-prep/internal/domain/entities"

// answerContext is everything an achievement rule may look at.
type answerContext struct {
	state         entities.GamificationState
	correct       bool
	timeSpent     float64
	totalAnswered int
	hour          int
}

type achievementRule struct {
	id   string
	test func(c answerContext) bool
}

// answerRules are evaluated in order after every recorded answer; the order is the unlock order.
var answerRules = []achievementRule{
	{entities.AchievementFirstQuestion, func(c answerContext) bool { return true }},
	{entities.AchievementStreak3, streakAtLeast(3)},
	{entities.AchievementStreak7, streakAtLeast(7)},
	{entities.AchievementStreak30, streakAtLeast(30)},
	{entities.AchievementStreak100, streakAtLeast(100)},
	{entities.AchievementLevel5, levelAtLeast(5)},
	{entities.AchievementLevel10, levelAtLeast(10)},
	{entities.AchievementQuestions100, answeredAtLeast(100)},
	{entities.AchievementQuestions500, answeredAtLeast(500)},
	{entities.AchievementSpeedDemon, func(c answerContext) bool {
		return c.correct && c.timeSpent > 0 && c.timeSpent < 30
	}},
	{entities.AchievementNightOwl, func(c answerContext) bool { return c.hour >= 22 }},
	{entities.AchievementEarlyBird, func(c answerContext) bool { return c.hour < 7 }},
}

func streakAtLeast(n int) func(answerContext) bool {
	return func(c answerContext) bool { return c.state.Streak >= n }
}

func levelAtLeast(n int) func(answerContext) bool {
	return func(c answerContext) bool { return c.state.Level >= n }
}

func answeredAtLeast(n int) func(answerContext) bool {
	return func(c answerContext) bool { return c.totalAnswered >= n }
}

// unlockAchievements appends every satisfied, not yet unlocked achievement to state
// and returns the new ones.
func unlockAchievements(state *entities.GamificationState, rules []achievementRule, c answerContext, today string) []entities.Achievement {
	var unlocked []entities.Achievement
	for _, rule := range rules {
		if state.HasAchievement(rule.id) {
			continue
		}
		c.state = *state
		if !rule.test(c) {
			continue
		}
		def, ok := entities.LookupAchievement(rule.id)
		if !ok {
			continue
		}
		if a, ok := state.Unlock(def, today); ok {
			unlocked = append(unlocked, a)
		}
	}
	return unlocked
}

package entities

// Reward schedule shared by the gamification engine and the daily activity aggregates.
const (
	XPCorrect        = 10  // reward for a correct answer
	XPWrong          = 2   // reward for an attempted but wrong answer
	XPStreakBonus    = 5   // added to every answer while streak >= StreakBonusFrom
	StreakBonusFrom  = 3   // minimal streak that earns the bonus
	XPPerLevel       = 100 // experience needed per level
	XPMockTestBonus  = 50  // flat bonus for finishing a mock test
	PerfectMockScore = 100 // percentage that unlocks the perfect-test achievement
)

// GamificationState is the per-user XP, level, streak and achievement record.
type GamificationState struct {
	XP             int           `json:"xp"`
	Level          int           `json:"level"`
	Streak         int           `json:"streak"`
	LongestStreak  int           `json:"longestStreak"`
	Points         int           `json:"points"`         // number of correct answers
	LastActiveDate string        `json:"lastActiveDate"` // DateLayout, "" before the first answer
	Achievements   []Achievement `json:"achievements"`   // unlock order
}

// NewGamificationState returns the state of a user who has never answered.
func NewGamificationState() GamificationState {
	return GamificationState{
		Level:        1,
		Achievements: []Achievement{},
	}
}

// LevelForXP derives the level from cumulative xp.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// AnswerReward returns the XP earned by one answer at the given streak.
func AnswerReward(correct bool, streak int) int {
	reward := XPWrong
	if correct {
		reward = XPCorrect
	}
	if streak >= StreakBonusFrom {
		reward += XPStreakBonus
	}
	return reward
}

// BaseAnswerReward is the reward without the streak bonus, as tracked in DailyActivity.XPEarned.
func BaseAnswerReward(correct bool) int {
	return AnswerReward(correct, 0)
}

// Normalize repairs a decoded state so that level always matches xp and
// the streak high-water mark holds. Stored levels are never trusted.
func (g *GamificationState) Normalize() {
	if g.XP < 0 {
		g.XP = 0
	}
	if g.Streak < 0 {
		g.Streak = 0
	}
	if g.Points < 0 {
		g.Points = 0
	}
	g.Level = LevelForXP(g.XP)
	if g.LongestStreak < g.Streak {
		g.LongestStreak = g.Streak
	}
	if g.Achievements == nil {
		g.Achievements = []Achievement{}
	}
}

// TouchStreak advances the daily streak for activity on today.
// Repeated calls on the same day are no-ops.
func (g *GamificationState) TouchStreak(today, yesterday string) {
	if g.LastActiveDate != today {
		if g.LastActiveDate == yesterday {
			g.Streak++
		} else {
			g.Streak = 1
		}
		g.LastActiveDate = today
	}

	if g.Streak > g.LongestStreak {
		g.LongestStreak = g.Streak
	}
}

// AddXP adds xp and recomputes the level. It reports whether a new level was reached.
func (g *GamificationState) AddXP(amount int) bool {
	previous := g.Level
	g.XP += amount
	g.Level = LevelForXP(g.XP)
	return g.Level > previous
}

// HasAchievement reports whether id is already unlocked.
func (g GamificationState) HasAchievement(id string) bool {
	for _, a := range g.Achievements {
		if a.ID == id {
			return true
		}
	}
	return false
}

// Unlock appends a to the unlocked list stamped with date.
// It returns false and leaves the state untouched when the id is already present.
func (g *GamificationState) Unlock(a Achievement, date string) (Achievement, bool) {
	if g.HasAchievement(a.ID) {
		return Achievement{}, false
	}
	a.UnlockedAt = date
	g.Achievements = append(g.Achievements, a)
	return a, true
}

// LevelProgress is the XP position inside the current level.
type LevelProgress struct {
	Current int `json:"current"`
	Needed  int `json:"needed"`
}

// XPForNextLevel returns how far the user is into the current level.
func XPForNextLevel(g GamificationState) LevelProgress {
	return LevelProgress{
		Current: g.XP - (g.Level-1)*XPPerLevel,
		Needed:  XPPerLevel,
	}
}

package entities

// Achievement is a one-time badge. Only unlocked achievements carry UnlockedAt.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	UnlockedAt  string `json:"unlockedAt,omitempty"`
}

// Achievement ids. They are persisted and synced, so never rename them.
const (
	AchievementFirstQuestion = "first_question"
	AchievementStreak3       = "streak_3"
	AchievementStreak7       = "streak_7"
	AchievementStreak30      = "streak_30"
	AchievementStreak100     = "streak_100"
	AchievementLevel5        = "level_5"
	AchievementLevel10       = "level_10"
	AchievementQuestions100  = "questions_100"
	AchievementQuestions500  = "questions_500"
	AchievementSpeedDemon    = "speed_demon"
	AchievementNightOwl      = "night_owl"
	AchievementEarlyBird     = "early_bird"
	AchievementPerfectTest   = "perfect_test"
)

var achievementCatalog = []Achievement{
	{ID: AchievementFirstQuestion, Title: "First Step", Description: "Answer your first question", Icon: "footprints"},
	{ID: AchievementStreak3, Title: "On a Roll", Description: "Practice 3 days in a row", Icon: "flame"},
	{ID: AchievementStreak7, Title: "Week Warrior", Description: "Practice 7 days in a row", Icon: "flame"},
	{ID: AchievementStreak30, Title: "Monthly Master", Description: "Practice 30 days in a row", Icon: "calendar"},
	{ID: AchievementStreak100, Title: "Centurion", Description: "Practice 100 days in a row", Icon: "crown"},
	{ID: AchievementLevel5, Title: "Rising Star", Description: "Reach level 5", Icon: "star"},
	{ID: AchievementLevel10, Title: "Scholar", Description: "Reach level 10", Icon: "graduation-cap"},
	{ID: AchievementQuestions100, Title: "Century", Description: "Answer 100 questions", Icon: "target"},
	{ID: AchievementQuestions500, Title: "Question Machine", Description: "Answer 500 questions", Icon: "zap"},
	{ID: AchievementSpeedDemon, Title: "Speed Demon", Description: "Answer correctly in under 30 seconds", Icon: "timer"},
	{ID: AchievementNightOwl, Title: "Night Owl", Description: "Practice after 10 PM", Icon: "moon"},
	{ID: AchievementEarlyBird, Title: "Early Bird", Description: "Practice before 7 AM", Icon: "sunrise"},
	{ID: AchievementPerfectTest, Title: "Perfectionist", Description: "Score 100% on a mock test", Icon: "trophy"},
}

// AchievementCatalog returns every achievement that can be unlocked, in display order.
func AchievementCatalog() []Achievement {
	out := make([]Achievement, len(achievementCatalog))
	copy(out, achievementCatalog)
	return out
}

// LookupAchievement returns the catalog entry for id.
func LookupAchievement(id string) (Achievement, bool) {
	for _, a := range achievementCatalog {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

package entities

import "time"

// Leaderboard periods.
const (
	PeriodAllTime = "all"
	PeriodWeek    = "week"
	PeriodDay     = "day"
)

// DefaultExamType is used until the user picks an exam.
const DefaultExamType = "general"

// UserSettings stores the profile fields shown on the leaderboard.
type UserSettings struct {
	Name     string `json:"name"`
	ExamType string `json:"examType"`
}

// NewUserSettings returns settings with default values.
func NewUserSettings() UserSettings {
	return UserSettings{
		Name:     "Student",
		ExamType: DefaultExamType,
	}
}

// LeaderboardEntry is the public snapshot of a user published after every XP change.
type LeaderboardEntry struct {
	Name      string    `json:"name"`
	XP        int       `json:"xp"`
	Level     int       `json:"level"`
	Streak    int       `json:"streak"`
	ExamType  string    `json:"examType"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RankedEntry is a leaderboard row returned by a query.
type RankedEntry struct {
	LeaderboardEntry
	Identity string `json:"identity"`
	Rank     int    `json:"rank"`
}

package service

import (
	"context"
	"time"

	"github.com/aliskhannn/exam-prep/internal/domain/entities"
)

type GamificationRepository interface {
	Get() entities.GamificationState
	Save(state entities.GamificationState)
}

type ProgressRepository interface {
	QuestionHistory() []entities.QuestionResult
	SaveQuestionHistory(history []entities.QuestionResult)
	DailyActivities() []entities.DailyActivity
	SaveDailyActivities(activities []entities.DailyActivity)
	MockTestResults() []entities.MockTestResult
	SaveMockTestResults(results []entities.MockTestResult)
}

type StudyPlanRepository interface {
	Plan() *entities.StudyPlanConfig
	Days() []entities.StudyPlanDay
	Save(plan *entities.StudyPlanConfig, days []entities.StudyPlanDay)
	Delete()
}

type SettingsRepository interface {
	Get() (entities.UserSettings, bool)
	Save(settings entities.UserSettings)
	DarkMode() bool
	SetDarkMode(enabled bool)
}

// AnswerCounter reports how many answers the progress log holds.
type AnswerCounter interface {
	TotalAnswered() int
}

// SettingsReader provides the profile fields published to the leaderboard.
type SettingsReader interface {
	Settings() entities.UserSettings
}

// IdentitySource reports the identity that remote side effects are attributed to.
type IdentitySource interface {
	Identity() (string, bool)
}

// Leaderboard is the remote ranking collaborator.
type Leaderboard interface {
	Upsert(ctx context.Context, identity string, entry entities.LeaderboardEntry) error
	Query(ctx context.Context, examType, period string, limit int) ([]entities.RankedEntry, error)
}

// Clock returns the current time in the user's location.
type Clock func() time.Time

// LocalClock returns a Clock reporting wall time in loc.
func LocalClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return func() time.Time {
		return time.Now().In(loc)
	}
}

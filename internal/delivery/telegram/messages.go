// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/exam-prep/internal/domain/entities"
	"github.com/aliskhannn/exam-prep/internal/service"
)

// Error messages.
const (
	msgInternalError      = "Something went wrong. Please try again later."
	msgUnknownCommand     = "Unknown command. Send /help to see what I can do."
	msgUseCommands        = "I only understand commands. Send /help to see them."
	msgUseAnswer          = "Usage: /answer correct|wrong [seconds] [subject] [topic]\nExample: /answer correct 42 Physics Optics"
	msgUseNewPlan         = "Usage: /newplan Subject: topic, topic=score; Subject: topic\nExample: /newplan Physics: Optics=40, Waves; Chemistry: Bonding"
	msgUseDone            = "Usage: /done <day> [answered correct minutes]\nExample: /done 3 25 20 45"
	msgUsePlanDay         = "Plan days go from 1 to 60. Example: /plan 12"
	msgUseName            = "Usage: /name <display name>"
	msgNoPlan             = "You have no active study plan. Create one with /newplan."
	msgPlanDeleted        = "Study plan deleted."
	msgPlanDayNotFound    = "That day is not part of your plan."
	msgLeaderboardOff     = "The leaderboard is not available right now."
	msgLeaderboardEmpty   = "Nobody is on this leaderboard yet. Answer a question to be the first!"
	msgMockTestStarted    = "⏱ Mock test started. Send your answers with /answer and finish with /mocktest finish."
	msgMockTestRunning    = "A mock test is already running. Finish it with /mocktest finish or drop it with /mocktest cancel."
	msgMockTestNone       = "No mock test is running. Start one with /mocktest."
	msgMockTestEmpty      = "The mock test had no answers, nothing was saved."
	msgMockTestCancelled  = "Mock test cancelled."
	msgResetConfirm       = "This erases your XP, streak, achievements, history and study plan. Your name and theme stay. Continue?"
	msgResetDone          = "All progress has been reset."
	msgResetCancelled     = "Reset cancelled."
	msgLoggedOut          = "Sync stopped. Your progress stays on this device. Send /start to sign in again."
	msgSyncUnavailable    = "Cloud sync is unavailable right now, your progress is kept locally."
	msgChooseExam         = "Which exam are you preparing for?"
	msgDarkModeOn         = "🌙 Dark mode enabled."
	msgDarkModeOff        = "☀️ Dark mode disabled."
	msgAchievementsHeader = "Achievements"
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

// buildWelcomeMessage greets the user after /start.
func buildWelcomeMessage(settings entities.UserSettings, state entities.GamificationState, synced bool) string {
	var sb strings.Builder

	sb.WriteString(bold(fmt.Sprintf("Welcome, %s!", settings.Name)))
	sb.WriteString("\n\n")
	sb.WriteString(md("Track your exam preparation: log answers, keep your streak alive, earn XP and unlock achievements."))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("Exam: %s · Level %d · %d XP · 🔥 %d", strings.ToUpper(settings.ExamType), state.Level, state.XP, state.Streak)))
	sb.WriteString("\n")
	if synced {
		sb.WriteString(italic("☁️ Progress is synced across your devices."))
	} else {
		sb.WriteString(italic("📱 Progress is stored on this device only."))
	}
	sb.WriteString("\n\n")
	sb.WriteString(md("Send /help for the list of commands."))

	return sb.String()
}

func buildHelpMessage() string {
	lines := []string{
		"/answer correct|wrong [seconds] [subject] [topic] — log an answer",
		"/stats — level, streak and recent activity",
		"/achievements — unlocked and locked badges",
		"/mocktest [finish|cancel] — run a mock test",
		"/newplan Subject: topics; … — create a 60-day study plan",
		"/plan [day] — show today's or a given plan day",
		"/done <day> [answered correct minutes] — complete a plan day",
		"/deleteplan — delete the study plan",
		"/leaderboard [day|week|all] — compare with other students",
		"/exam [type] — choose your exam",
		"/name <name> — change your display name",
		"/darkmode — toggle dark mode",
		"/reset — erase all progress",
		"/logout — stop syncing this device",
	}

	var sb strings.Builder
	sb.WriteString(bold("Commands"))
	sb.WriteString("\n\n")
	for _, l := range lines {
		sb.WriteString(md(l))
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatAnswerOutcome describes the reward of one answer.
func formatAnswerOutcome(correct bool, outcome service.AnswerOutcome) string {
	var sb strings.Builder

	if correct {
		sb.WriteString(bold("✅ Correct!"))
	} else {
		sb.WriteString(bold("❌ Wrong."))
	}
	sb.WriteString(md(fmt.Sprintf(" +%d XP", outcome.XPGained)))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("Level %d · %d XP · 🔥 %d", outcome.State.Level, outcome.State.XP, outcome.State.Streak)))

	sb.WriteString(formatRewards(outcome))
	return sb.String()
}

// formatRewards lists level-ups and new achievements, if any.
func formatRewards(outcome service.AnswerOutcome) string {
	var sb strings.Builder
	if outcome.LeveledUp {
		sb.WriteString("\n\n")
		sb.WriteString(bold(fmt.Sprintf("🎉 Level up! You reached level %d.", outcome.State.Level)))
	}
	for _, a := range outcome.NewAchievements {
		sb.WriteString("\n")
		sb.WriteString(md("🏅 Achievement unlocked: "))
		sb.WriteString(bold(a.Title))
		sb.WriteString(md(" — " + a.Description))
	}
	return sb.String()
}

// buildStatsMessage renders the progress dashboard.
func buildStatsMessage(
	settings entities.UserSettings,
	state entities.GamificationState,
	level entities.LevelProgress,
	recent []entities.DailyActivity,
	totalAnswered int,
) string {
	var sb strings.Builder

	sb.WriteString(bold(fmt.Sprintf("📊 %s · %s", settings.Name, strings.ToUpper(settings.ExamType))))
	sb.WriteString("\n\n")

	sb.WriteString(md(fmt.Sprintf("Level %d  %s  %d/%d XP", state.Level, buildProgressBar(level.Current, level.Needed, 10), level.Current, level.Needed)))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("Total XP: %d", state.XP)))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("🔥 Streak: %d (best %d)", state.Streak, state.LongestStreak)))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("Answered: %d · Correct: %d", totalAnswered, state.Points)))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("Achievements: %d/%d", len(state.Achievements), len(entities.AchievementCatalog()))))

	if len(recent) > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(bold("Last 7 days"))
		sb.WriteString("\n")

		answered, correct := 0, 0
		for _, d := range recent {
			answered += d.QuestionsAnswered
			correct += d.CorrectAnswers
			sb.WriteString(md(fmt.Sprintf("%s  %3d questions  %3d XP", d.Date, d.QuestionsAnswered, d.XPEarned)))
			sb.WriteString("\n")
		}
		sb.WriteString(md(fmt.Sprintf("Accuracy: %.0f%%", entities.ScorePercentage(correct, answered))))
	}

	return sb.String()
}

// buildAchievementsMessage lists the catalog, unlocked badges first in unlock order.
func buildAchievementsMessage(state entities.GamificationState) string {
	var sb strings.Builder

	sb.WriteString(bold(fmt.Sprintf("🏅 %s %d/%d", msgAchievementsHeader, len(state.Achievements), len(entities.AchievementCatalog()))))
	sb.WriteString("\n\n")

	for _, a := range state.Achievements {
		sb.WriteString(md("✅ "))
		sb.WriteString(bold(a.Title))
		sb.WriteString(md(fmt.Sprintf(" — %s (%s)", a.Description, a.UnlockedAt)))
		sb.WriteString("\n")
	}
	for _, a := range entities.AchievementCatalog() {
		if state.HasAchievement(a.ID) {
			continue
		}
		sb.WriteString(md(fmt.Sprintf("🔒 %s — %s", a.Title, a.Description)))
		sb.WriteString("\n")
	}

	return sb.String()
}

func buildMockTestAnswerMessage(count int, correct bool) string {
	mark := "❌"
	if correct {
		mark = "✅"
	}
	return md(fmt.Sprintf("%s Answer %d recorded.", mark, count))
}

// buildMockTestResultMessage summarises a finished mock test.
func buildMockTestResultMessage(result entities.MockTestResult, outcome service.AnswerOutcome) string {
	var sb strings.Builder

	sb.WriteString(bold("🏁 Mock test finished"))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("Score: %d/%d (%.0f%%)", result.Score, result.MaxScore, result.Percentage)))
	sb.WriteString("\n")
	sb.WriteString(md(buildProgressBar(result.Score, result.MaxScore, 10)))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("Time: %s", formatDuration(result.TimeUsed))))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("Bonus: +%d XP · Level %d · %d XP", outcome.XPGained, outcome.State.Level, outcome.State.XP)))

	sb.WriteString(formatRewards(outcome))
	return sb.String()
}

// formatDuration renders seconds as m:ss.
func formatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func difficultyLabel(d entities.Difficulty) string {
	switch d {
	case entities.DifficultyEasy:
		return "easy"
	case entities.DifficultyMedium:
		return "medium"
	case entities.DifficultyHard:
		return "hard"
	default:
		return "mixed"
	}
}

// buildPlanCreatedMessage confirms a new plan and shows its first day.
func buildPlanCreatedMessage(plan *entities.StudyPlanConfig, first entities.StudyPlanDay) string {
	var sb strings.Builder

	sb.WriteString(bold("🗓 Study plan created"))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("%d days starting %s · %d questions a day", plan.TotalDays, plan.StartDate, service.DailyQuota(plan.ExamType))))
	sb.WriteString("\n")
	if len(plan.WeakTopics) > 0 {
		sb.WriteString(md(fmt.Sprintf("Weak topics to focus on: %d", len(plan.WeakTopics))))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(buildPlanDayMessage(plan, first))

	return sb.String()
}

// buildPlanDayMessage renders the targets of one plan day.
func buildPlanDayMessage(plan *entities.StudyPlanConfig, day entities.StudyPlanDay) string {
	var sb strings.Builder

	status := ""
	if day.Completed {
		status = " ✅"
	}
	sb.WriteString(bold(fmt.Sprintf("Day %d/%d · %s%s", day.DayNumber, plan.TotalDays, day.Date, status)))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("Plan progress %s %d/%d", buildProgressBar(plan.CompletedDays, plan.TotalDays, 10), plan.CompletedDays, plan.TotalDays)))
	sb.WriteString("\n\n")

	if len(day.Targets) == 0 {
		sb.WriteString(md("No targets for this day."))
		sb.WriteString("\n")
	}
	for _, t := range day.Targets {
		sb.WriteString(md(fmt.Sprintf("• %s — %s: %d questions (%s)", t.Subject, t.Topic, t.QuestionCount, difficultyLabel(t.Difficulty))))
		sb.WriteString("\n")
	}

	if r := day.ActualResults; r != nil {
		sb.WriteString("\n")
		sb.WriteString(md(fmt.Sprintf("Done: %d/%d answered, %d correct, %d min", r.QuestionsAnswered, day.TotalQuestions(), r.CorrectAnswers, r.TimeSpent)))
		sb.WriteString("\n")
	}

	return sb.String()
}

// buildLeaderboardMessage renders ranked entries, marking the caller's row.
func buildLeaderboardMessage(entries []entities.RankedEntry, examType, period, self string) string {
	var sb strings.Builder

	sb.WriteString(bold(fmt.Sprintf("🏆 %s leaderboard · %s", strings.ToUpper(examType), periodLabel(period))))
	sb.WriteString("\n\n")

	if len(entries) == 0 {
		sb.WriteString(md(msgLeaderboardEmpty))
		return sb.String()
	}

	for _, e := range entries {
		line := fmt.Sprintf("%d. %s — %d XP · lvl %d · 🔥 %d", e.Rank, e.Name, e.XP, e.Level, e.Streak)
		if e.Identity == self {
			sb.WriteString(bold(line))
		} else {
			sb.WriteString(md(line))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func periodLabel(period string) string {
	switch period {
	case entities.PeriodDay:
		return "today"
	case entities.PeriodWeek:
		return "this week"
	default:
		return "all time"
	}
}

// buildProgressBar creates an ASCII progress bar.
func buildProgressBar(current, total, length int) string {
	if total <= 0 {
		return fmt.Sprintf("[%s]", strings.Repeat("░", length))
	}

	filled := int(float64(current) / float64(total) * float64(length))
	filled = max(0, min(filled, length))

	empty := length - filled
	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return fmt.Sprintf("[%s]", bar)
}

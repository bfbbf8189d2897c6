package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/exam-prep/internal/domain/entities"
)

// examChoices are the exam types offered as buttons. Any other type can be set with /exam.
var examChoices = []struct {
	Type  string
	Label string
}{
	{"jee", "📐 JEE"},
	{"neet", "🧬 NEET"},
	{entities.DefaultExamType, "📚 General"},
}

// buildResetKeyboard asks the user to confirm a full reset.
func buildResetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Yes, erase everything", buildResetConfirmCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("« Cancel", buildResetCancelCallback()),
		),
	)
}

// buildExamKeyboard offers the known exam types.
func buildExamKeyboard() tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(examChoices))
	for _, c := range examChoices {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(c.Label, buildExamCallback(c.Type)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// buildLeaderboardKeyboard switches between leaderboard periods.
func buildLeaderboardKeyboard(current string) tgbotapi.InlineKeyboardMarkup {
	periods := []struct {
		period string
		label  string
	}{
		{entities.PeriodDay, "Today"},
		{entities.PeriodWeek, "This week"},
		{entities.PeriodAllTime, "All time"},
	}

	row := make([]tgbotapi.InlineKeyboardButton, 0, len(periods))
	for _, p := range periods {
		label := p.label
		if p.period == current {
			label = "• " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, buildLeaderboardCallback(p.period)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// buildStatsKeyboard refreshes the stats screen.
func buildStatsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", buildStatsCallback()),
			tgbotapi.NewInlineKeyboardButtonData("🏆 Leaderboard", buildLeaderboardCallback(entities.PeriodWeek)),
		),
	)
}

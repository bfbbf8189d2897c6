package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/exam-prep/internal/service"
)

type Handler struct {
	bot      *tgbotapi.BotAPI
	logger   *zap.Logger
	devices  DeviceProvider
	sessions MockTestSessions
	clock    service.Clock
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	devices DeviceProvider,
	sessions MockTestSessions,
	clock service.Clock,
) *Handler {
	if clock == nil {
		clock = service.LocalClock(time.UTC)
	}
	return &Handler{
		bot:      bot,
		logger:   logger,
		devices:  devices,
		sessions: sessions,
		clock:    clock,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	if !update.Message.IsCommand() {
		h.send(newMessage(chatID, md(msgUseCommands)))
		return
	}

	args := update.Message.CommandArguments()

	var fn HandlerFunc
	switch update.Message.Command() {
	case "start":
		fn = h.handleStart(userID, update.Message.From.FirstName)
	case "answer":
		fn = h.handleAnswer(userID, args)
	case "stats":
		fn = h.handleStats(userID)
	case "achievements":
		fn = h.handleAchievements(userID)
	case "mocktest":
		fn = h.handleMockTest(userID, args)
	case "plan":
		fn = h.handlePlan(userID, args)
	case "newplan":
		fn = h.handleNewPlan(userID, args)
	case "done":
		fn = h.handleDone(userID, args)
	case "deleteplan":
		fn = h.handleDeletePlan(userID)
	case "leaderboard":
		fn = h.handleLeaderboard(userID, args)
	case "exam":
		fn = h.handleExam(userID, args)
	case "name":
		fn = h.handleName(userID, args)
	case "darkmode":
		fn = h.handleDarkMode(userID)
	case "reset":
		fn = h.handleReset()
	case "logout":
		fn = h.handleLogout(userID)
	case "help":
		fn = h.handleHelp()
	default:
		h.send(newMessage(chatID, md(msgUnknownCommand)))
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

func (h *Handler) sendError(chatID int64, err string) {
	h.send(newMessage(chatID, md(err)))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}

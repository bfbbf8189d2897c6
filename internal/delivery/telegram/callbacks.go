package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/exam-prep/internal/domain/entities"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	defer h.answerCallback(cb.ID, "")

	if cb.Message == nil || cb.From == nil {
		return
	}

	userID := cb.From.ID
	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID

	data := decodeCallback(cb.Data)

	var fn HandlerFunc
	switch data.Action {
	case actionReset:
		fn = h.handleResetCallback(userID, msgID, data)
	case actionExam:
		fn = h.handleExamCallback(userID, msgID, data)
	case actionLeaderboard:
		fn = h.handleLeaderboardCallback(userID, msgID, data)
	case actionStats:
		fn = h.handleStatsCallback(userID, msgID)
	default:
		h.logger.Warn("unknown callback action",
			zap.String("data", cb.Data),
		)
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

// answerCallback removes the loading indicator of the pressed button.
func (h *Handler) answerCallback(callbackID, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}

func (h *Handler) handleResetCallback(userID int64, msgID int, data callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		switch data.param(0) {
		case resetConfirm:
			device := h.devices.Open(ctx, userID)
			device.Reset.ResetAll()
			h.sessions.Finish(userID)

			h.logger.Info("progress reset", zap.Int64("user_id", userID))
			h.send(newEdit(chatID, msgID, md(msgResetDone)))
		default:
			h.send(newEdit(chatID, msgID, md(msgResetCancelled)))
		}
		return nil
	}
}

func (h *Handler) handleExamCallback(userID int64, msgID int, data callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		device := h.devices.Open(ctx, userID)
		if err := device.Settings.UpdateExamType(data.param(0)); err != nil {
			return newUserError(msgChooseExam)
		}
		h.send(newEdit(chatID, msgID, examSetMessage(device.Settings.Settings().ExamType)))
		return nil
	}
}

func (h *Handler) handleLeaderboardCallback(userID int64, msgID int, data callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		period := data.param(0)
		switch period {
		case entities.PeriodAllTime, entities.PeriodWeek, entities.PeriodDay:
		default:
			period = entities.PeriodWeek
		}

		text, err := h.renderLeaderboard(ctx, userID, period)
		if err != nil {
			var ue userError
			if errors.As(err, &ue) {
				h.send(newEdit(chatID, msgID, md(ue.text)))
				return nil
			}
			return err
		}

		kb := buildLeaderboardKeyboard(period)
		edit := newEdit(chatID, msgID, text)
		edit.ReplyMarkup = &kb
		h.send(edit)
		return nil
	}
}

func (h *Handler) handleStatsCallback(userID int64, msgID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		kb := buildStatsKeyboard()
		edit := newEdit(chatID, msgID, h.renderStats(ctx, userID))
		edit.ReplyMarkup = &kb
		h.send(edit)
		return nil
	}
}

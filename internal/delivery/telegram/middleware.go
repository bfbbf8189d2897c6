package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// userError is an error whose text is safe to show to the user.
type userError struct {
	text string
}

func (e userError) Error() string {
	return e.text
}

func newUserError(text string) error {
	return userError{text: text}
}

func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		var ue userError
		if errors.As(err, &ue) {
			h.sendError(chatID, ue.text)
			return nil
		}

		h.logger.Error("handle error",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		h.sendError(chatID, msgInternalError)
		return nil
	}
}

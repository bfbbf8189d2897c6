package telegram

import (
	"context"
	"time"

	"github.com/aliskhannn/exam-prep/internal/app"
	"github.com/aliskhannn/exam-prep/internal/domain/entities"
	"github.com/aliskhannn/exam-prep/internal/storage"
)

// DeviceProvider returns the progress core of a Telegram user.
type DeviceProvider interface {
	Open(ctx context.Context, userID int64) *app.Device
}

// MockTestSessions keeps mock tests that are in progress.
type MockTestSessions interface {
	Start(userID int64, at time.Time)
	Add(userID int64, answer entities.QuestionResult) (int, bool)
	Get(userID int64) (storage.MockTestSession, bool)
	Finish(userID int64) (storage.MockTestSession, bool)
}

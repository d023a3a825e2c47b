package testutil

import (
	"time"

	"remindbot/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// FixedClock returns a clock frozen at t
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// NewTestReminder creates a test reminder
func NewTestReminder(id, chatID int64, text string, triggerAt time.Time, freq domain.Frequency) *domain.Reminder {
	return &domain.Reminder{
		ID:        id,
		ChatID:    chatID,
		Text:      text,
		TriggerAt: triggerAt,
		Frequency: freq,
		CreatedAt: triggerAt.Add(-24 * time.Hour),
	}
}

// NewTestSettings creates stored settings for a chat
func NewTestSettings(chatID int64, lang domain.Language, timezone string) *domain.UserSettings {
	return &domain.UserSettings{
		ChatID:   chatID,
		Language: lang,
		Timezone: timezone,
	}
}

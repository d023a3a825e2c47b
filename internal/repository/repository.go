package repository

import (
	"context"
	"time"

	"remindbot/internal/domain"
)

// SettingsRepository defines per-chat settings operations
type SettingsRepository interface {
	// GetSettings returns nil, nil when the chat has no settings row
	GetSettings(ctx context.Context, chatID int64) (*domain.UserSettings, error)
	UpsertLanguage(ctx context.Context, chatID int64, lang domain.Language) error
	UpsertTimezone(ctx context.Context, chatID int64, timezone string) error
}

// DraftRepository defines in-progress reminder operations
type DraftRepository interface {
	// GetDraft returns nil, nil when the chat has no draft
	GetDraft(ctx context.Context, chatID int64) (*domain.Draft, error)
	SaveDraft(ctx context.Context, draft *domain.Draft) error
	// DeleteDraft is a no-op when the chat has no draft
	DeleteDraft(ctx context.Context, chatID int64) error
}

// ReminderRepository defines committed reminder operations
type ReminderRepository interface {
	InsertReminder(ctx context.Context, r *domain.Reminder) (int64, error)
	// GetReminder returns nil, nil when the reminder does not exist
	GetReminder(ctx context.Context, id int64) (*domain.Reminder, error)
	// ListDue returns reminders with trigger_at <= now, oldest first, ties by id
	ListDue(ctx context.Context, now time.Time, limit int) ([]domain.Reminder, error)
	ListByChat(ctx context.Context, chatID int64) ([]domain.Reminder, error)
	UpdateTrigger(ctx context.Context, id int64, triggerAt time.Time) error
	DeleteReminder(ctx context.Context, id int64) error
}

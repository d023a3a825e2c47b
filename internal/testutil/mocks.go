package testutil

import (
	"context"
	"time"

	"remindbot/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockSettingsRepository is a mock for SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetSettings(ctx context.Context, chatID int64) (*domain.UserSettings, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserSettings), args.Error(1)
}

func (m *MockSettingsRepository) UpsertLanguage(ctx context.Context, chatID int64, lang domain.Language) error {
	args := m.Called(ctx, chatID, lang)
	return args.Error(0)
}

func (m *MockSettingsRepository) UpsertTimezone(ctx context.Context, chatID int64, timezone string) error {
	args := m.Called(ctx, chatID, timezone)
	return args.Error(0)
}

// MockDraftRepository is a mock for DraftRepository
type MockDraftRepository struct {
	mock.Mock
}

func (m *MockDraftRepository) GetDraft(ctx context.Context, chatID int64) (*domain.Draft, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Draft), args.Error(1)
}

func (m *MockDraftRepository) SaveDraft(ctx context.Context, draft *domain.Draft) error {
	args := m.Called(ctx, draft)
	return args.Error(0)
}

func (m *MockDraftRepository) DeleteDraft(ctx context.Context, chatID int64) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

// MockReminderRepository is a mock for ReminderRepository
type MockReminderRepository struct {
	mock.Mock
}

func (m *MockReminderRepository) InsertReminder(ctx context.Context, r *domain.Reminder) (int64, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReminderRepository) GetReminder(ctx context.Context, id int64) (*domain.Reminder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reminder), args.Error(1)
}

func (m *MockReminderRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.Reminder, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reminder), args.Error(1)
}

func (m *MockReminderRepository) ListByChat(ctx context.Context, chatID int64) ([]domain.Reminder, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reminder), args.Error(1)
}

func (m *MockReminderRepository) UpdateTrigger(ctx context.Context, id int64, triggerAt time.Time) error {
	args := m.Called(ctx, id, triggerAt)
	return args.Error(0)
}

func (m *MockReminderRepository) DeleteReminder(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

package service

import (
	"context"
	"errors"
	"fmt"

	"remindbot/internal/domain"
	"remindbot/internal/repository"
)

// ErrReminderNotFound is returned for an unknown id or one owned by another chat
var ErrReminderNotFound = errors.New("reminder not found")

// ReminderService handles committed reminders of a chat
type ReminderService struct {
	repo  repository.ReminderRepository
	locks *ChatLocks
}

// NewReminderService creates a new reminder service. Pass the lock set of
// the IntakeService so deletes never interleave with a turn of the chat.
func NewReminderService(repo repository.ReminderRepository, locks *ChatLocks) *ReminderService {
	if locks == nil {
		locks = NewChatLocks()
	}
	return &ReminderService{repo: repo, locks: locks}
}

// List returns the chat's reminders ordered by trigger time
func (s *ReminderService) List(ctx context.Context, chatID int64) ([]domain.Reminder, error) {
	return s.repo.ListByChat(ctx, chatID)
}

// Get returns a reminder owned by the chat
func (s *ReminderService) Get(ctx context.Context, chatID, id int64) (*domain.Reminder, error) {
	return ownedReminder(ctx, s.repo, chatID, id)
}

// Delete removes a reminder owned by the chat
func (s *ReminderService) Delete(ctx context.Context, chatID, id int64) error {
	unlock := s.locks.Lock(chatID)
	defer unlock()

	if _, err := ownedReminder(ctx, s.repo, chatID, id); err != nil {
		return err
	}
	return s.repo.DeleteReminder(ctx, id)
}

func ownedReminder(ctx context.Context, repo repository.ReminderRepository, chatID, id int64) (*domain.Reminder, error) {
	rem, err := repo.GetReminder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load reminder: %w", err)
	}
	if rem == nil || rem.ChatID != chatID {
		return nil, ErrReminderNotFound
	}
	return rem, nil
}

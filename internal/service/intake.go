package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"remindbot/internal/domain"
	"remindbot/internal/parser"
	"remindbot/internal/repository"

	"go.uber.org/zap"
)

// Status tells the caller which field to ask for next
type Status int

const (
	StatusNeedText Status = iota + 1
	StatusNeedDate
	StatusNeedTime
	StatusFinished
)

func (s Status) String() string {
	switch s {
	case StatusNeedText:
		return "NEED_TEXT"
	case StatusNeedDate:
		return "NEED_DATE"
	case StatusNeedTime:
		return "NEED_TIME"
	case StatusFinished:
		return "FINISHED"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result is the outcome of one intake turn
type Result struct {
	Status Status
	// Reminder is set when Status is StatusFinished
	Reminder *domain.Reminder
	Settings domain.UserSettings
	Location *time.Location
}

// IntakeService collects a reminder from a chat one input at a time
type IntakeService struct {
	drafts    repository.DraftRepository
	reminders repository.ReminderRepository
	settings  *SettingsService
	locks     *ChatLocks
	now       func() time.Time
	logger    *zap.Logger
}

// NewIntakeService creates a new intake service. A nil lock set gets a
// private one; a nil clock means time.Now.
func NewIntakeService(
	drafts repository.DraftRepository,
	reminders repository.ReminderRepository,
	settings *SettingsService,
	locks *ChatLocks,
	now func() time.Time,
	logger *zap.Logger,
) *IntakeService {
	if locks == nil {
		locks = NewChatLocks()
	}
	if now == nil {
		now = time.Now
	}
	return &IntakeService{
		drafts:    drafts,
		reminders: reminders,
		settings:  settings,
		locks:     locks,
		now:       now,
		logger:    logger,
	}
}

// Advance feeds one free-text message or calendar selection into the chat's draft
func (s *IntakeService) Advance(ctx context.Context, chatID int64, in domain.Input) (Result, error) {
	unlock := s.locks.Lock(chatID)
	defer unlock()

	return s.advance(ctx, chatID, in)
}

// ChooseFrequency starts a recurring reminder, replacing any draft
func (s *IntakeService) ChooseFrequency(ctx context.Context, chatID int64, freq domain.Frequency) (Result, error) {
	if !freq.Recurring() {
		return Result{}, fmt.Errorf("%w: %s", domain.ErrNotRecurring, freq)
	}

	unlock := s.locks.Lock(chatID)
	defer unlock()

	res, err := s.newResult(ctx, chatID)
	if err != nil {
		return Result{}, err
	}

	draft := &domain.Draft{ChatID: chatID, State: domain.StateAwaitingText, Frequency: freq}
	if err := s.drafts.SaveDraft(ctx, draft); err != nil {
		return Result{}, fmt.Errorf("failed to save draft: %w", err)
	}

	res.Status = StatusNeedText
	return res, nil
}

// Cancel drops the chat's draft. Cancelling without a draft is a no-op.
func (s *IntakeService) Cancel(ctx context.Context, chatID int64) error {
	unlock := s.locks.Lock(chatID)
	defer unlock()

	if err := s.drafts.DeleteDraft(ctx, chatID); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

// Move restarts intake with an existing reminder's text. A one-off reminder
// is removed first; a recurring series is kept and gains a one-off copy.
func (s *IntakeService) Move(ctx context.Context, chatID, reminderID int64) (Result, error) {
	unlock := s.locks.Lock(chatID)
	defer unlock()

	rem, err := ownedReminder(ctx, s.reminders, chatID, reminderID)
	if err != nil {
		return Result{}, err
	}

	if err := s.drafts.DeleteDraft(ctx, chatID); err != nil {
		return Result{}, fmt.Errorf("failed to delete draft: %w", err)
	}
	if !rem.Frequency.Recurring() {
		if err := s.reminders.DeleteReminder(ctx, rem.ID); err != nil {
			return Result{}, fmt.Errorf("failed to delete reminder: %w", err)
		}
	}

	return s.advance(ctx, chatID, domain.TextInput(rem.Text))
}

func (s *IntakeService) newResult(ctx context.Context, chatID int64) (Result, error) {
	settings, loc, err := s.settings.Resolve(ctx, chatID)
	if err != nil {
		return Result{}, err
	}
	return Result{Settings: settings, Location: loc}, nil
}

func (s *IntakeService) advance(ctx context.Context, chatID int64, in domain.Input) (Result, error) {
	res, err := s.newResult(ctx, chatID)
	if err != nil {
		return Result{}, err
	}

	draft, err := s.loadDraft(ctx, chatID)
	if err != nil {
		return Result{}, err
	}

	t := turn{
		chatID: chatID,
		in:     in,
		text:   strings.TrimSpace(in.Text),
		vocab:  parser.VocabularyFor(res.Settings.Language),
		loc:    res.Location,
		now:    s.now().UTC(),
	}

	if draft == nil {
		return s.onNoDraft(ctx, res, t)
	}

	switch draft.State {
	case domain.StateAwaitingText:
		return s.onAwaitingText(ctx, res, t, draft)
	case domain.StateAwaitingDate:
		return s.onAwaitingDate(ctx, res, t, draft)
	case domain.StateAwaitingTime:
		return s.onAwaitingTime(ctx, res, t, draft)
	}
	return Result{}, fmt.Errorf("%w: unknown state %q", domain.ErrInvalidDraft, draft.State)
}

type turn struct {
	chatID int64
	in     domain.Input
	text   string
	vocab  *parser.Vocabulary
	loc    *time.Location
	now    time.Time
}

// loadDraft discards a stored draft that contradicts its own state
func (s *IntakeService) loadDraft(ctx context.Context, chatID int64) (*domain.Draft, error) {
	draft, err := s.drafts.GetDraft(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	if draft == nil {
		return nil, nil
	}
	if verr := draft.Validate(); verr != nil {
		s.logger.Warn("Discarding inconsistent draft", zap.Int64("chat_id", chatID), zap.Error(verr))
		if err := s.drafts.DeleteDraft(ctx, chatID); err != nil {
			return nil, fmt.Errorf("failed to delete draft: %w", err)
		}
		return nil, verr
	}
	return draft, nil
}

func (s *IntakeService) onNoDraft(ctx context.Context, res Result, t turn) (Result, error) {
	if t.in.Date != nil || t.text == "" {
		res.Status = StatusNeedText
		return res, nil
	}

	if full, ok := parser.ParseFullReminder(t.text, t.vocab, t.loc, t.now); ok {
		rem := &domain.Reminder{
			ChatID:    t.chatID,
			Text:      full.Text,
			TriggerAt: full.TriggerAt,
			Frequency: full.Frequency,
		}
		return s.commit(ctx, res, rem, false)
	}

	draft := &domain.Draft{
		ChatID:    t.chatID,
		State:     domain.StateAwaitingDate,
		Text:      t.text,
		Frequency: domain.FrequencyNone,
	}
	return s.save(ctx, res, draft, StatusNeedDate)
}

func (s *IntakeService) onAwaitingText(ctx context.Context, res Result, t turn, draft *domain.Draft) (Result, error) {
	if t.in.Date != nil || t.text == "" {
		res.Status = StatusNeedText
		return res, nil
	}

	draft.Text = t.text
	draft.State = domain.StateAwaitingDate
	return s.save(ctx, res, draft, StatusNeedDate)
}

func (s *IntakeService) onAwaitingDate(ctx context.Context, res Result, t turn, draft *domain.Draft) (Result, error) {
	date, ok := parser.ParseDate(t.in, t.vocab, t.loc, t.now)
	if !ok {
		s.logger.Debug("Date not recognised", zap.Int64("chat_id", t.chatID), zap.String("input", t.text))
		res.Status = StatusNeedDate
		return res, nil
	}

	draft.Date = date
	draft.State = domain.StateAwaitingTime
	return s.save(ctx, res, draft, StatusNeedTime)
}

func (s *IntakeService) onAwaitingTime(ctx context.Context, res Result, t turn, draft *domain.Draft) (Result, error) {
	trigger, ok := triggerFor(draft.Date, t)
	if !ok {
		s.logger.Debug("Time not accepted", zap.Int64("chat_id", t.chatID), zap.String("input", t.text))
		res.Status = StatusNeedTime
		return res, nil
	}

	rem := &domain.Reminder{
		ChatID:    t.chatID,
		Text:      draft.Text,
		TriggerAt: trigger,
		Frequency: draft.Frequency,
	}
	return s.commit(ctx, res, rem, true)
}

// triggerFor combines the draft date with the typed clock time. A time that
// does not parse and one that is not in the future are the same miss.
func triggerFor(date domain.Date, t turn) (time.Time, bool) {
	if t.in.Date != nil {
		return time.Time{}, false
	}
	clock, ok := parser.ParseClockTime(t.text)
	if !ok {
		return time.Time{}, false
	}
	trigger := domain.ToUTC(date.Wall(clock), t.loc)
	if !trigger.After(t.now) {
		return time.Time{}, false
	}
	return trigger, true
}

func (s *IntakeService) save(ctx context.Context, res Result, draft *domain.Draft, status Status) (Result, error) {
	if err := s.drafts.SaveDraft(ctx, draft); err != nil {
		return Result{}, fmt.Errorf("failed to save draft: %w", err)
	}
	res.Status = status
	return res, nil
}

func (s *IntakeService) commit(ctx context.Context, res Result, rem *domain.Reminder, clearDraft bool) (Result, error) {
	id, err := s.reminders.InsertReminder(ctx, rem)
	if err != nil {
		return Result{}, fmt.Errorf("failed to insert reminder: %w", err)
	}
	rem.ID = id

	if clearDraft {
		if err := s.drafts.DeleteDraft(ctx, rem.ChatID); err != nil {
			return Result{}, fmt.Errorf("failed to delete draft: %w", err)
		}
	}

	s.logger.Info("Reminder created",
		zap.Int64("chat_id", rem.ChatID),
		zap.Int64("reminder_id", rem.ID),
		zap.Time("trigger_at", rem.TriggerAt),
		zap.String("frequency", string(rem.Frequency)),
	)

	res.Status = StatusFinished
	res.Reminder = rem
	return res, nil
}

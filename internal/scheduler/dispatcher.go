// Package scheduler delivers due reminders and reschedules recurring ones.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"remindbot/internal/domain"
	"remindbot/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrRecipientUnreachable is returned by a Sender when the chat can no longer
// receive messages. The reminder is retired instead of retried.
var ErrRecipientUnreachable = errors.New("recipient unreachable")

// Delivery is one due reminder prepared for its chat
type Delivery struct {
	ReminderID int64
	ChatID     int64
	Text       string
	Frequency  domain.Frequency
	Language   domain.Language
	// LocalTime is the trigger instant in the chat's zone
	LocalTime time.Time
}

// Sender delivers a reminder through the chat transport
type Sender interface {
	Deliver(ctx context.Context, d Delivery) error
}

// SettingsResolver supplies the language and zone of a chat
type SettingsResolver interface {
	Resolve(ctx context.Context, chatID int64) (domain.UserSettings, *time.Location, error)
}

// ChatLocker serialises work on one chat's reminders
type ChatLocker interface {
	Lock(chatID int64) func()
}

// Config tunes the dispatch loop
type Config struct {
	Interval time.Duration
	// Rate is the number of sends per second; zero disables throttling
	Rate  float64
	Batch int
	Now   func() time.Time
	// Locks, when set, is held per reminder from re-read to reschedule
	Locks ChatLocker
}

// Report summarises one wake
type Report struct {
	WakeID      string
	Skipped     bool
	Due         int
	Delivered   int
	Rescheduled int
	Deleted     int
	Retired     int
	// Stale counts reminders deleted or moved between listing and delivery
	Stale  int
	Failed int
}

// Dispatcher periodically delivers due reminders
type Dispatcher struct {
	reminders repository.ReminderRepository
	settings  SettingsResolver
	sender    Sender
	limiter   *rate.Limiter
	interval  time.Duration
	batch     int
	now       func() time.Time
	locks     ChatLocker
	running   atomic.Bool
	logger    *zap.Logger
}

// New creates a new Dispatcher
func New(reminders repository.ReminderRepository, settings SettingsResolver, sender Sender, cfg Config, logger *zap.Logger) *Dispatcher {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Second
	}
	if cfg.Batch <= 0 {
		cfg.Batch = 100
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	return &Dispatcher{
		reminders: reminders,
		settings:  settings,
		sender:    sender,
		limiter:   rate.NewLimiter(limit, 1),
		interval:  cfg.Interval,
		batch:     cfg.Batch,
		now:       cfg.Now,
		locks:     cfg.Locks,
		logger:    logger,
	}
}

// Run wakes every interval until ctx is cancelled
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info("Dispatcher started", zap.Duration("interval", d.interval))

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Dispatcher stopping")
			return nil
		case <-ticker.C:
			if _, err := d.RunOnce(ctx); err != nil && ctx.Err() == nil {
				d.logger.Error("Dispatch wake failed", zap.Error(err))
			}
		}
	}
}

// RunOnce performs a single wake. A wake that starts while another is still
// running is skipped.
func (d *Dispatcher) RunOnce(ctx context.Context) (Report, error) {
	if !d.running.CompareAndSwap(false, true) {
		d.logger.Debug("Previous wake still running, skipping")
		return Report{Skipped: true}, nil
	}
	defer d.running.Store(false)

	report := Report{WakeID: uuid.NewString()}
	log := d.logger.With(zap.String("wake_id", report.WakeID))
	now := d.now().UTC()

	due, err := d.reminders.ListDue(ctx, now, d.batch)
	if err != nil {
		return report, fmt.Errorf("failed to list due reminders: %w", err)
	}
	report.Due = len(due)

	for _, rem := range due {
		if ctx.Err() != nil {
			break
		}
		d.dispatch(ctx, log, rem, &report)
	}

	if report.Due > 0 {
		log.Info("Dispatch wake finished",
			zap.Int("due", report.Due),
			zap.Int("delivered", report.Delivered),
			zap.Int("rescheduled", report.Rescheduled),
			zap.Int("deleted", report.Deleted),
			zap.Int("retired", report.Retired),
			zap.Int("stale", report.Stale),
			zap.Int("failed", report.Failed),
		)
	}
	return report, nil
}

// dispatch handles one reminder. Failures are counted and logged; they never
// stop the rest of the wake.
func (d *Dispatcher) dispatch(ctx context.Context, log *zap.Logger, rem domain.Reminder, report *Report) {
	log = log.With(zap.Int64("reminder_id", rem.ID), zap.Int64("chat_id", rem.ChatID))

	settings, loc, err := d.settings.Resolve(ctx, rem.ChatID)
	if err != nil {
		log.Error("Failed to resolve settings", zap.Error(err))
		report.Failed++
		return
	}

	if err := d.limiter.Wait(ctx); err != nil {
		report.Failed++
		return
	}

	if d.locks != nil {
		unlock := d.locks.Lock(rem.ChatID)
		defer unlock()

		current, err := d.reminders.GetReminder(ctx, rem.ID)
		if err != nil {
			log.Error("Failed to reload reminder", zap.Error(err))
			report.Failed++
			return
		}
		if current == nil || !current.TriggerAt.Equal(rem.TriggerAt) {
			log.Debug("Reminder changed since listing, skipping")
			report.Stale++
			return
		}
		rem = *current
	}

	err = d.sender.Deliver(ctx, Delivery{
		ReminderID: rem.ID,
		ChatID:     rem.ChatID,
		Text:       rem.Text,
		Frequency:  rem.Frequency,
		Language:   settings.Language,
		LocalTime:  domain.ToLocal(rem.TriggerAt, loc),
	})
	switch {
	case errors.Is(err, ErrRecipientUnreachable):
		log.Warn("Recipient unreachable, retiring reminder", zap.Error(err))
		if err := d.reminders.DeleteReminder(ctx, rem.ID); err != nil {
			log.Error("Failed to retire reminder", zap.Error(err))
			report.Failed++
			return
		}
		report.Retired++
		return
	case err != nil:
		log.Error("Failed to deliver reminder", zap.Error(err))
		report.Failed++
		return
	}
	report.Delivered++

	if !rem.Frequency.Recurring() {
		if err := d.reminders.DeleteReminder(ctx, rem.ID); err != nil {
			log.Error("Failed to delete delivered reminder", zap.Error(err))
			report.Failed++
			return
		}
		report.Deleted++
		return
	}

	next, err := domain.Advance(rem, loc)
	if err != nil {
		log.Error("Failed to advance reminder", zap.Error(err))
		report.Failed++
		return
	}
	if err := d.reminders.UpdateTrigger(ctx, rem.ID, next); err != nil {
		log.Error("Failed to reschedule reminder", zap.Error(err))
		report.Failed++
		return
	}
	log.Debug("Reminder rescheduled", zap.Time("next", next))
	report.Rescheduled++
}

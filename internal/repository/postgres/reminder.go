package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"remindbot/internal/domain"
)

const reminderColumns = `id, chat_id, text, trigger_at, frequency, created_at`

// ReminderRepo implements repository.ReminderRepository
type ReminderRepo struct {
	db *sql.DB
}

// NewReminderRepo creates a new reminder repository
func NewReminderRepo(db *sql.DB) *ReminderRepo {
	return &ReminderRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReminder(row rowScanner) (*domain.Reminder, error) {
	var (
		rem       domain.Reminder
		frequency sql.NullString
	)
	if err := row.Scan(&rem.ID, &rem.ChatID, &rem.Text, &rem.TriggerAt, &frequency, &rem.CreatedAt); err != nil {
		return nil, err
	}
	f, err := fromNullFrequency(frequency)
	if err != nil {
		return nil, err
	}
	rem.Frequency = f
	rem.TriggerAt = rem.TriggerAt.UTC()
	return &rem, nil
}

// InsertReminder stores a committed reminder and returns its id
func (r *ReminderRepo) InsertReminder(ctx context.Context, rem *domain.Reminder) (int64, error) {
	if rem == nil {
		return 0, errors.New("nil reminder")
	}
	query := `
		INSERT INTO reminders (chat_id, text, trigger_at, frequency)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		rem.ChatID, rem.Text, rem.TriggerAt.UTC(), toNullFrequency(rem.Frequency),
	).Scan(&id)
	return id, err
}

// GetReminder returns a reminder by id
func (r *ReminderRepo) GetReminder(ctx context.Context, id int64) (*domain.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE id = $1`
	rem, err := scanReminder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rem, err
}

// ListDue returns reminders whose trigger is not after now, oldest first
func (r *ReminderRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE trigger_at <= $1
		ORDER BY trigger_at ASC, id ASC
		LIMIT $2
	`
	return r.list(ctx, query, now.UTC(), limit)
}

// ListByChat returns all reminders of a chat ordered by trigger time
func (r *ReminderRepo) ListByChat(ctx context.Context, chatID int64) ([]domain.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE chat_id = $1
		ORDER BY trigger_at ASC, id ASC
	`
	return r.list(ctx, query, chatID)
}

func (r *ReminderRepo) list(ctx context.Context, query string, args ...any) ([]domain.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []domain.Reminder
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, *rem)
	}

	return reminders, rows.Err()
}

// UpdateTrigger moves a reminder to a new trigger instant
func (r *ReminderRepo) UpdateTrigger(ctx context.Context, id int64, triggerAt time.Time) error {
	query := `UPDATE reminders SET trigger_at = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, triggerAt.UTC())
	return err
}

// DeleteReminder removes a reminder; missing ids are ignored
func (r *ReminderRepo) DeleteReminder(ctx context.Context, id int64) error {
	query := `DELETE FROM reminders WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

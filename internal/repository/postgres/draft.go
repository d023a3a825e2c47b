package postgres

import (
	"context"
	"database/sql"
	"errors"

	"remindbot/internal/domain"
)

// DraftRepo implements repository.DraftRepository
type DraftRepo struct {
	db *sql.DB
}

// NewDraftRepo creates a new draft repository
func NewDraftRepo(db *sql.DB) *DraftRepo {
	return &DraftRepo{db: db}
}

// GetDraft returns the in-progress reminder of a chat
func (r *DraftRepo) GetDraft(ctx context.Context, chatID int64) (*domain.Draft, error) {
	var (
		state     string
		text      sql.NullString
		date      sql.NullTime
		frequency sql.NullString
	)
	query := `SELECT state, text, date, frequency FROM drafts WHERE chat_id = $1`
	err := r.db.QueryRowContext(ctx, query, chatID).Scan(&state, &text, &date, &frequency)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	f, err := fromNullFrequency(frequency)
	if err != nil {
		return nil, err
	}

	return &domain.Draft{
		ChatID:    chatID,
		State:     domain.DraftState(state),
		Text:      text.String,
		Date:      fromNullDate(date),
		Frequency: f,
	}, nil
}

// SaveDraft inserts or replaces the draft of a chat
func (r *DraftRepo) SaveDraft(ctx context.Context, draft *domain.Draft) error {
	if draft == nil {
		return errors.New("nil draft")
	}
	query := `
		INSERT INTO drafts (chat_id, state, text, date, frequency, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (chat_id)
		DO UPDATE SET
			state      = EXCLUDED.state,
			text       = EXCLUDED.text,
			date       = EXCLUDED.date,
			frequency  = EXCLUDED.frequency,
			updated_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query,
		draft.ChatID,
		string(draft.State),
		toNullString(draft.Text),
		toNullDate(draft.Date),
		toNullFrequency(draft.Frequency),
	)
	return err
}

// DeleteDraft removes the draft of a chat if there is one
func (r *DraftRepo) DeleteDraft(ctx context.Context, chatID int64) error {
	query := `DELETE FROM drafts WHERE chat_id = $1`
	_, err := r.db.ExecContext(ctx, query, chatID)
	return err
}

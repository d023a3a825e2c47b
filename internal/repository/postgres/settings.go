package postgres

import (
	"context"
	"database/sql"

	"remindbot/internal/domain"
)

// SettingsRepo implements repository.SettingsRepository
type SettingsRepo struct {
	db *sql.DB
}

// NewSettingsRepo creates a new settings repository
func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// GetSettings returns the stored settings of a chat
func (r *SettingsRepo) GetSettings(ctx context.Context, chatID int64) (*domain.UserSettings, error) {
	var language, timezone sql.NullString
	query := `SELECT language, timezone FROM user_settings WHERE chat_id = $1`
	err := r.db.QueryRowContext(ctx, query, chatID).Scan(&language, &timezone)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &domain.UserSettings{
		ChatID:   chatID,
		Language: domain.Language(language.String),
		Timezone: timezone.String,
	}, nil
}

// UpsertLanguage stores the chat language
func (r *SettingsRepo) UpsertLanguage(ctx context.Context, chatID int64, lang domain.Language) error {
	query := `
		INSERT INTO user_settings (chat_id, language)
		VALUES ($1, $2)
		ON CONFLICT (chat_id)
		DO UPDATE SET language = EXCLUDED.language
	`
	_, err := r.db.ExecContext(ctx, query, chatID, string(lang))
	return err
}

// UpsertTimezone stores the chat timezone
func (r *SettingsRepo) UpsertTimezone(ctx context.Context, chatID int64, timezone string) error {
	query := `
		INSERT INTO user_settings (chat_id, timezone)
		VALUES ($1, $2)
		ON CONFLICT (chat_id)
		DO UPDATE SET timezone = EXCLUDED.timezone
	`
	_, err := r.db.ExecContext(ctx, query, chatID, timezone)
	return err
}

package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remindbot/internal/domain"
)

func TestSettingsRepo_GetSettings(t *testing.T) {
	tests := []struct {
		name          string
		chatID        int64
		mockRows      *sqlmock.Rows
		mockError     error
		expected      *domain.UserSettings
		expectedError bool
	}{
		{
			name:     "both set",
			chatID:   1,
			mockRows: sqlmock.NewRows([]string{"language", "timezone"}).AddRow("RUS", "Europe/Moscow"),
			expected: &domain.UserSettings{ChatID: 1, Language: domain.LanguageRussian, Timezone: "Europe/Moscow"},
		},
		{
			name:     "language only",
			chatID:   2,
			mockRows: sqlmock.NewRows([]string{"language", "timezone"}).AddRow("ENG", nil),
			expected: &domain.UserSettings{ChatID: 2, Language: domain.LanguageEnglish},
		},
		{
			name:      "absent",
			chatID:    3,
			mockError: errNoRows,
			expected:  nil,
		},
		{
			name:          "database error",
			chatID:        4,
			mockError:     errors.New("connection reset"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewSettingsRepo(db)

			expect := mock.ExpectQuery("SELECT language, timezone FROM user_settings WHERE chat_id = \\$1").
				WithArgs(tt.chatID)
			if tt.mockError != nil {
				expect.WillReturnError(tt.mockError)
			} else {
				expect.WillReturnRows(tt.mockRows)
			}

			settings, err := repo.GetSettings(context.Background(), tt.chatID)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, settings)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSettingsRepo_UpsertLanguage(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSettingsRepo(db)

	mock.ExpectExec("INSERT INTO user_settings \\(chat_id, language\\)").
		WithArgs(int64(42), "RUS").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpsertLanguage(context.Background(), 42, domain.LanguageRussian)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsRepo_UpsertTimezone(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSettingsRepo(db)

	mock.ExpectExec("INSERT INTO user_settings \\(chat_id, timezone\\)").
		WithArgs(int64(42), "Asia/Tokyo").
		WillReturnError(errors.New("boom"))

	err = repo.UpsertTimezone(context.Background(), 42, "Asia/Tokyo")

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

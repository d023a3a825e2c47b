package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"remindbot/internal/domain"
	"remindbot/internal/repository"

	"go.uber.org/zap"
)

// ErrInvalidSetting is returned for an unknown language or timezone
var ErrInvalidSetting = errors.New("invalid setting")

// SettingsService resolves per-chat language and timezone
type SettingsService struct {
	repo       repository.SettingsRepository
	defaults   domain.UserSettings
	defaultLoc *time.Location
	logger     *zap.Logger
}

// NewSettingsService creates a new settings service. An unloadable default
// timezone degrades to UTC.
func NewSettingsService(repo repository.SettingsRepository, defaults domain.UserSettings, logger *zap.Logger) *SettingsService {
	if _, ok := domain.ParseLanguage(string(defaults.Language)); !ok {
		logger.Warn("Unknown default language, using English", zap.String("language", string(defaults.Language)))
		defaults.Language = domain.LanguageEnglish
	}
	loc, err := domain.LoadZone(defaults.Timezone)
	if err != nil {
		logger.Warn("Unknown default timezone, using UTC", zap.String("timezone", defaults.Timezone), zap.Error(err))
		defaults.Timezone = "UTC"
	}
	return &SettingsService{
		repo:       repo,
		defaults:   defaults,
		defaultLoc: loc,
		logger:     logger,
	}
}

// Defaults returns the settings used when a chat has none stored
func (s *SettingsService) Defaults() domain.UserSettings {
	return s.defaults
}

// Resolve returns the effective settings and zone of a chat. Missing or
// unusable stored values fall back to the defaults.
func (s *SettingsService) Resolve(ctx context.Context, chatID int64) (domain.UserSettings, *time.Location, error) {
	stored, err := s.repo.GetSettings(ctx, chatID)
	if err != nil {
		return domain.UserSettings{}, nil, fmt.Errorf("failed to load settings: %w", err)
	}

	settings := domain.UserSettings{ChatID: chatID}
	if stored != nil {
		settings = *stored
	}
	settings = settings.Resolved(s.defaults)

	if _, ok := domain.ParseLanguage(string(settings.Language)); !ok {
		settings.Language = s.defaults.Language
	}

	loc, err := domain.LoadZone(settings.Timezone)
	if err != nil {
		s.logger.Warn("Stored timezone is unusable, using default",
			zap.Int64("chat_id", chatID),
			zap.String("timezone", settings.Timezone),
			zap.Error(err),
		)
		settings.Timezone = s.defaults.Timezone
		loc = s.defaultLoc
	}

	return settings, loc, nil
}

// SetLanguage stores the chat language
func (s *SettingsService) SetLanguage(ctx context.Context, chatID int64, value string) (domain.Language, error) {
	lang, ok := domain.ParseLanguage(value)
	if !ok {
		return "", fmt.Errorf("%w: language %q", ErrInvalidSetting, value)
	}
	if err := s.repo.UpsertLanguage(ctx, chatID, lang); err != nil {
		return "", fmt.Errorf("failed to store language: %w", err)
	}
	return lang, nil
}

// SetTimezone stores the chat timezone
func (s *SettingsService) SetTimezone(ctx context.Context, chatID int64, value string) (*time.Location, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: empty timezone", ErrInvalidSetting)
	}
	loc, err := domain.LoadZone(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSetting, err)
	}
	if err := s.repo.UpsertTimezone(ctx, chatID, value); err != nil {
		return nil, fmt.Errorf("failed to store timezone: %w", err)
	}
	return loc, nil
}

// TimezoneChoices lists the fixed-offset zones offered in the picker,
// from UTC-12 to UTC+14.
func TimezoneChoices() []string {
	zones := make([]string, 0, 27)
	for offset := -12; offset <= 14; offset++ {
		switch {
		case offset == 0:
			zones = append(zones, "Etc/GMT")
		case offset < 0:
			// Etc/GMT signs are inverted
			zones = append(zones, fmt.Sprintf("Etc/GMT+%d", -offset))
		default:
			zones = append(zones, fmt.Sprintf("Etc/GMT-%d", offset))
		}
	}
	return zones
}

package domain

import "strings"

// Language identifies one of the bundled locales
type Language string

const (
	LanguageEnglish Language = "ENG"
	LanguageRussian Language = "RUS"
)

// Languages lists the bundled locales in menu order
var Languages = []Language{LanguageEnglish, LanguageRussian}

// ParseLanguage matches a language code case-insensitively
func ParseLanguage(s string) (Language, bool) {
	for _, l := range Languages {
		if strings.EqualFold(string(l), strings.TrimSpace(s)) {
			return l, true
		}
	}
	return "", false
}

// UserSettings holds per-chat parameters. Empty fields mean "use the default".
type UserSettings struct {
	ChatID   int64
	Language Language
	Timezone string
}

// Resolved returns a copy with empty fields replaced by the given defaults
func (s UserSettings) Resolved(defaults UserSettings) UserSettings {
	if s.Language == "" {
		s.Language = defaults.Language
	}
	if s.Timezone == "" {
		s.Timezone = defaults.Timezone
	}
	return s
}

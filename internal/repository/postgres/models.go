package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"remindbot/internal/domain"
)

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func toNullDate(d domain.Date) sql.NullTime {
	if d.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC), Valid: true}
}

func fromNullDate(nt sql.NullTime) domain.Date {
	if !nt.Valid {
		return domain.Date{}
	}
	return domain.DateOf(nt.Time)
}

// NONE is stored as NULL
func toNullFrequency(f domain.Frequency) sql.NullString {
	if !f.Recurring() {
		return sql.NullString{}
	}
	return sql.NullString{String: string(f), Valid: true}
}

func fromNullFrequency(ns sql.NullString) (domain.Frequency, error) {
	f, ok := domain.ParseFrequency(ns.String)
	if !ok {
		return "", fmt.Errorf("unknown frequency %q", ns.String)
	}
	return f, nil
}

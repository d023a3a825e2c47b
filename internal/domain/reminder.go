package domain

import (
	"strings"
	"time"
)

// Frequency is the recurrence period of a reminder
type Frequency string

const (
	FrequencyNone    Frequency = "NONE"
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
)

// Frequencies lists the recurring frequencies in menu order
var Frequencies = []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly}

// ParseFrequency accepts the stored names; an empty string is FrequencyNone
func ParseFrequency(s string) (Frequency, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return FrequencyNone, true
	}
	switch f := Frequency(s); f {
	case FrequencyNone, FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return f, true
	}
	return "", false
}

// Recurring reports whether the reminder survives delivery
func (f Frequency) Recurring() bool {
	return f == FrequencyDaily || f == FrequencyWeekly || f == FrequencyMonthly
}

// Reminder is a committed reminder. TriggerAt is always UTC.
type Reminder struct {
	ID        int64
	ChatID    int64
	Text      string
	TriggerAt time.Time
	Frequency Frequency
	CreatedAt time.Time
}

package parser

import (
	"strconv"
	"strings"
	"time"

	"remindbot/internal/domain"
)

// ParseClockTime parses "H", "H:M" or "H M" into an offset from midnight.
// Hours must be 0-23 and minutes 0-59; anything else reports false.
func ParseClockTime(input string) (time.Duration, bool) {
	s := strings.TrimSpace(input)
	var parts []string
	if strings.Contains(s, ":") {
		parts = strings.Split(s, ":")
	} else {
		parts = strings.Fields(s)
	}
	if len(parts) == 0 || len(parts) > 2 {
		return 0, false
	}

	hours, ok := atoiRange(parts[0], 0, 23)
	if !ok {
		return 0, false
	}
	minutes := 0
	if len(parts) == 2 {
		if minutes, ok = atoiRange(parts[1], 0, 59); !ok {
			return 0, false
		}
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, true
}

// ParseDate resolves the date step of the intake flow. Text must be a
// relative-day keyword; a calendar pick is accepted as is unless it lies
// before today in loc.
func ParseDate(in domain.Input, vocab *Vocabulary, loc *time.Location, now time.Time) (domain.Date, bool) {
	today := domain.Today(now, loc)
	if in.Date != nil {
		if in.Date.Before(today) {
			return domain.Date{}, false
		}
		return *in.Date, true
	}

	word := lower(in.Text)
	if offset, ok := stepDays[word]; ok {
		return today.AddDays(offset), true
	}
	if vocab != nil {
		if offset, ok := vocab.RelativeDays[word]; ok {
			return today.AddDays(offset), true
		}
	}
	return domain.Date{}, false
}

func atoiRange(s string, lo, hi int) (int, bool) {
	s = strings.TrimSpace(s)
	if !isAllDigits(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, false
	}
	return n, true
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

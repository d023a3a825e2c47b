package parser

import (
	"strings"
	"time"

	"remindbot/internal/domain"
)

// FullReminder is the result of parsing a whole reminder in one line
type FullReminder struct {
	TriggerAt time.Time
	Frequency domain.Frequency
	Text      string
}

// ParseFullReminder parses "<title> [date] <separator> <time> [recurrence]",
// e.g. "call mom tomorrow at 9:30" or "gym monday at 7 weekly". The line is
// consumed from the right. It reports false when the line has no separator,
// the time or date does not parse, the title is empty or the instant is not
// strictly after now; the caller then falls back to the step-by-step flow.
func ParseFullReminder(input string, vocab *Vocabulary, loc *time.Location, now time.Time) (FullReminder, bool) {
	if vocab == nil {
		vocab = english
	}
	words := strings.Fields(input)

	sep := -1
	for i := len(words) - 1; i > 0; i-- {
		if lower(words[i]) == vocab.Separator {
			sep = i
			break
		}
	}
	if sep < 1 || sep == len(words)-1 {
		return FullReminder{}, false
	}

	frequency := domain.FrequencyNone
	tail := words[sep+1:]
	if f, ok := vocab.Recurrence[lower(tail[len(tail)-1])]; ok && len(tail) > 1 {
		frequency = f
		tail = tail[:len(tail)-1]
	}

	clock, ok := ParseClockTime(strings.Join(tail, " "))
	if !ok {
		return FullReminder{}, false
	}

	head := words[:sep]
	if frequency == domain.FrequencyNone {
		if f, ok := vocab.Recurrence[lower(head[len(head)-1])]; ok {
			frequency = f
			head = head[:len(head)-1]
		}
	}

	day, head, ok := resolveDay(head, vocab, domain.Today(now, loc))
	if !ok {
		return FullReminder{}, false
	}

	title := strings.Join(head, " ")
	if title == "" {
		return FullReminder{}, false
	}

	triggerAt := domain.ToUTC(day.Wall(clock), loc)
	if !triggerAt.After(now.UTC()) {
		return FullReminder{}, false
	}

	return FullReminder{TriggerAt: triggerAt, Frequency: frequency, Text: title}, true
}

// resolveDay consumes a trailing date expression from head. Without one the
// day is today and head is returned unchanged.
func resolveDay(head []string, vocab *Vocabulary, today domain.Date) (domain.Date, []string, bool) {
	if len(head) == 0 {
		return today, head, true
	}
	last := lower(head[len(head)-1])
	rest := head[:len(head)-1]

	if offset, ok := vocab.RelativeDays[last]; ok {
		return today.AddDays(offset), dropPreposition(rest, vocab), true
	}

	if target, ok := vocab.Weekdays[last]; ok {
		current := today.Weekday()
		offset := target - current
		if current > target {
			offset = 7 - current + target
		}
		return today.AddDays(offset), dropPreposition(rest, vocab), true
	}

	// <day> <month>
	if month, ok := vocab.Months[last]; ok {
		if len(rest) == 0 {
			return domain.Date{}, nil, false
		}
		n, ok := atoiRange(rest[len(rest)-1], 1, 31)
		if !ok {
			return domain.Date{}, nil, false
		}
		day, ok := dayOfMonth(today, month, n)
		if !ok {
			return domain.Date{}, nil, false
		}
		return day, dropPreposition(rest[:len(rest)-1], vocab), true
	}

	if len(last) <= 2 && isAllDigits(last) {
		n, _ := atoiRange(last, 0, 99)

		// <month> <day>
		if len(rest) > 0 {
			if month, ok := vocab.Months[lower(rest[len(rest)-1])]; ok {
				day, ok := dayOfMonth(today, month, n)
				if !ok {
					return domain.Date{}, nil, false
				}
				return day, dropPreposition(rest[:len(rest)-1], vocab), true
			}
		}

		day, ok := domain.NewDate(today.Year, today.Month, n)
		if !ok {
			return domain.Date{}, nil, false
		}
		return day, rest, true
	}

	return today, head, true
}

// dayOfMonth resolves day n of month, rolling to next year for a month
// already behind today
func dayOfMonth(today domain.Date, month time.Month, n int) (domain.Date, bool) {
	year := today.Year
	if month < today.Month {
		year++
	}
	return domain.NewDate(year, month, n)
}

func dropPreposition(words []string, vocab *Vocabulary) []string {
	if len(words) > 0 && vocab.isPreposition(lower(words[len(words)-1])) {
		return words[:len(words)-1]
	}
	return words
}

// Package parser turns free-form reminder text into days, clock times and
// absolute instants.
package parser

import (
	"strings"
	"time"

	"remindbot/internal/domain"
)

// Vocabulary is the set of words one language uses in reminder text.
// Separator introduces the time of day ("call mom tomorrow at 9") and
// Weekdays are indexed from Monday = 0.
type Vocabulary struct {
	Separator    string
	Recurrence   map[string]domain.Frequency
	RelativeDays map[string]int
	Weekdays     map[string]int
	Months       map[string]time.Month
	Prepositions []string
}

// stepDays are accepted by ParseDate regardless of the chat language
var stepDays = map[string]int{
	"today":         0,
	"tomorrow":      1,
	"aftertomorrow": 2,
}

var english = &Vocabulary{
	Separator: "at",
	Recurrence: map[string]domain.Frequency{
		"daily":   domain.FrequencyDaily,
		"weekly":  domain.FrequencyWeekly,
		"monthly": domain.FrequencyMonthly,
	},
	RelativeDays: stepDays,
	Weekdays: map[string]int{
		"monday": 0, "mon": 0,
		"tuesday": 1, "tue": 1, "tues": 1,
		"wednesday": 2, "wed": 2,
		"thursday": 3, "thu": 3, "thurs": 3,
		"friday": 4, "fri": 4,
		"saturday": 5, "sat": 5,
		"sunday": 6, "sun": 6,
	},
	Months: map[string]time.Month{
		"january": time.January, "jan": time.January,
		"february": time.February, "feb": time.February,
		"march": time.March, "mar": time.March,
		"april": time.April, "apr": time.April,
		"may":  time.May,
		"june": time.June, "jun": time.June,
		"july": time.July, "jul": time.July,
		"august": time.August, "aug": time.August,
		"september": time.September, "sep": time.September, "sept": time.September,
		"october": time.October, "oct": time.October,
		"november": time.November, "nov": time.November,
		"december": time.December, "dec": time.December,
	},
	Prepositions: []string{"on", "at"},
}

var russian = &Vocabulary{
	Separator: "в",
	Recurrence: map[string]domain.Frequency{
		"ежедневно":   domain.FrequencyDaily,
		"еженедельно": domain.FrequencyWeekly,
		"ежемесячно":  domain.FrequencyMonthly,
	},
	RelativeDays: map[string]int{
		"сегодня":     0,
		"завтра":      1,
		"послезавтра": 2,
	},
	Weekdays: map[string]int{
		"понедельник": 0, "пн": 0,
		"вторник": 1, "вт": 1,
		"среда": 2, "среду": 2, "ср": 2,
		"четверг": 3, "чт": 3,
		"пятница": 4, "пятницу": 4, "пт": 4,
		"суббота": 5, "субботу": 5, "сб": 5,
		"воскресенье": 6, "вс": 6,
	},
	Months: map[string]time.Month{
		"января":   time.January,
		"февраля":  time.February,
		"марта":    time.March,
		"апреля":   time.April,
		"мая":      time.May,
		"июня":     time.June,
		"июля":     time.July,
		"августа":  time.August,
		"сентября": time.September,
		"октября":  time.October,
		"ноября":   time.November,
		"декабря":  time.December,
	},
	Prepositions: []string{"в", "во"},
}

// VocabularyFor returns the vocabulary of lang, English when unknown
func VocabularyFor(lang domain.Language) *Vocabulary {
	if lang == domain.LanguageRussian {
		return russian
	}
	return english
}

func (v *Vocabulary) isPreposition(word string) bool {
	for _, p := range v.Prepositions {
		if word == p {
			return true
		}
	}
	return false
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

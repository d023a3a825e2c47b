package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"remindbot/internal/domain"

	tele "gopkg.in/telebot.v3"
)

// Action is a parsed inline button payload. The set of variants is closed.
type Action interface {
	unique() string
	payload() []string
}

// NewReminder starts a one-off reminder or opens the frequency picker
type NewReminder struct {
	Recurring bool
}

// SettingsRoot opens the settings menu
type SettingsRoot struct{}

// SettingName selects what a SettingsAction changes
type SettingName string

const (
	SettingLanguage SettingName = "LANG"
	SettingTimezone SettingName = "TIMEZONE"
)

// SettingsAction opens a picker when Value is empty, otherwise applies Value
type SettingsAction struct {
	Name  SettingName
	Value string
}

// ReminderList shows the chat's reminders
type ReminderList struct{}

// ReminderDetail shows one reminder with its actions
type ReminderDetail struct {
	ID int64
}

// RecurrenceChoice picks the frequency of a recurring reminder
type RecurrenceChoice struct {
	Frequency domain.Frequency
}

// NavKind is what a calendar button does
type NavKind string

const (
	NavIgnore    NavKind = "ignore"
	NavDay       NavKind = "day"
	NavPrevMonth NavKind = "prev"
	NavNextMonth NavKind = "next"
)

// CalendarNav is a calendar button. Day is zero for month navigation.
type CalendarNav struct {
	Kind  NavKind
	Year  int
	Month time.Month
	Day   int
}

// Move re-enters a reminder's text into intake
type Move struct {
	ID int64
}

// Delete removes a reminder
type Delete struct {
	ID int64
}

const (
	uniqueNew      = "new"
	uniqueSettings = "settings"
	uniqueSetting  = "setting"
	uniqueList     = "list"
	uniqueReminder = "reminder"
	uniqueRecur    = "recur"
	uniqueCalendar = "cal"
	uniqueMove     = "move"
	uniqueDelete   = "del"
)

func (a NewReminder) unique() string { return uniqueNew }
func (a NewReminder) payload() []string {
	if a.Recurring {
		return []string{"recurring"}
	}
	return nil
}

func (SettingsRoot) unique() string    { return uniqueSettings }
func (SettingsRoot) payload() []string { return nil }

func (a SettingsAction) unique() string { return uniqueSetting }
func (a SettingsAction) payload() []string {
	if a.Value == "" {
		return []string{string(a.Name)}
	}
	return []string{string(a.Name), a.Value}
}

func (ReminderList) unique() string    { return uniqueList }
func (ReminderList) payload() []string { return nil }

func (a ReminderDetail) unique() string    { return uniqueReminder }
func (a ReminderDetail) payload() []string { return []string{strconv.FormatInt(a.ID, 10)} }

func (a RecurrenceChoice) unique() string    { return uniqueRecur }
func (a RecurrenceChoice) payload() []string { return []string{string(a.Frequency)} }

func (a CalendarNav) unique() string { return uniqueCalendar }
func (a CalendarNav) payload() []string {
	if a.Kind == NavIgnore {
		return []string{string(NavIgnore)}
	}
	return []string{string(a.Kind), strconv.Itoa(a.Year), strconv.Itoa(int(a.Month)), strconv.Itoa(a.Day)}
}

func (a Move) unique() string    { return uniqueMove }
func (a Move) payload() []string { return []string{strconv.FormatInt(a.ID, 10)} }

func (a Delete) unique() string    { return uniqueDelete }
func (a Delete) payload() []string { return []string{strconv.FormatInt(a.ID, 10)} }

// button builds an inline button carrying a
func button(markup *tele.ReplyMarkup, text string, a Action) tele.Btn {
	return markup.Data(text, a.unique(), a.payload()...)
}

// splitCallback returns the unique and payload of a callback. Telebot only
// splits them when a handler is registered for the unique itself.
func splitCallback(cb *tele.Callback) (string, string) {
	data := cleanCallbackData(cb.Data)
	if cb.Unique != "" {
		return cb.Unique, data
	}
	unique, payload, _ := strings.Cut(data, "|")
	return unique, payload
}

// ParseAction decodes a callback into its Action
func ParseAction(unique, data string) (Action, error) {
	var parts []string
	if data != "" {
		parts = strings.Split(data, "|")
	}

	switch unique {
	case uniqueNew:
		return NewReminder{Recurring: len(parts) > 0 && parts[0] == "recurring"}, nil

	case uniqueSettings:
		return SettingsRoot{}, nil

	case uniqueSetting:
		if len(parts) == 0 || len(parts) > 2 {
			return nil, fmt.Errorf("setting: want 1 or 2 fields, got %d", len(parts))
		}
		name := SettingName(parts[0])
		if name != SettingLanguage && name != SettingTimezone {
			return nil, fmt.Errorf("setting: unknown name %q", parts[0])
		}
		a := SettingsAction{Name: name}
		if len(parts) == 2 {
			a.Value = parts[1]
		}
		return a, nil

	case uniqueList:
		return ReminderList{}, nil

	case uniqueReminder, uniqueMove, uniqueDelete:
		if len(parts) != 1 {
			return nil, fmt.Errorf("%s: want 1 field, got %d", unique, len(parts))
		}
		id, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: bad id: %w", unique, err)
		}
		switch unique {
		case uniqueReminder:
			return ReminderDetail{ID: id}, nil
		case uniqueMove:
			return Move{ID: id}, nil
		}
		return Delete{ID: id}, nil

	case uniqueRecur:
		if len(parts) != 1 {
			return nil, fmt.Errorf("recur: want 1 field, got %d", len(parts))
		}
		f, ok := domain.ParseFrequency(parts[0])
		if !ok || !f.Recurring() {
			return nil, fmt.Errorf("recur: bad frequency %q", parts[0])
		}
		return RecurrenceChoice{Frequency: f}, nil

	case uniqueCalendar:
		return parseCalendarNav(parts)
	}

	return nil, fmt.Errorf("unknown callback %q", unique)
}

func parseCalendarNav(parts []string) (Action, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("cal: empty payload")
	}
	kind := NavKind(parts[0])
	switch kind {
	case NavIgnore:
		return CalendarNav{Kind: NavIgnore}, nil
	case NavDay, NavPrevMonth, NavNextMonth:
	default:
		return nil, fmt.Errorf("cal: unknown kind %q", parts[0])
	}
	if len(parts) != 4 {
		return nil, fmt.Errorf("cal: want 4 fields, got %d", len(parts))
	}

	nums := make([]int, 3)
	for i, p := range parts[1:] {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("cal: bad number %q: %w", p, err)
		}
		nums[i] = n
	}
	nav := CalendarNav{Kind: kind, Year: nums[0], Month: time.Month(nums[1]), Day: nums[2]}

	if nav.Month < time.January || nav.Month > time.December {
		return nil, fmt.Errorf("cal: bad month %d", nums[1])
	}
	if kind == NavDay {
		if _, ok := domain.NewDate(nav.Year, nav.Month, nav.Day); !ok {
			return nil, fmt.Errorf("cal: bad date %d-%d-%d", nav.Year, nav.Month, nav.Day)
		}
	}
	return nav, nil
}

// Date returns the selected day of a NavDay action
func (a CalendarNav) Date() domain.Date {
	return domain.Date{Year: a.Year, Month: a.Month, Day: a.Day}
}

package domain

import (
	"errors"
	"time"
)

// ErrNotRecurring is returned by Advance for one-off reminders
var ErrNotRecurring = errors.New("reminder is not recurring")

// Advance returns the trigger instant one period after r.TriggerAt.
// The period is applied to the wall clock in loc, so a daily 09:00 reminder
// stays at 09:00 local time across DST changes. Monthly steps clamp the day:
// see Date.AddMonths.
func Advance(r Reminder, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	local := ToLocal(r.TriggerAt, loc)
	day := DateOf(local)
	clock := time.Duration(local.Hour())*time.Hour +
		time.Duration(local.Minute())*time.Minute +
		time.Duration(local.Second())*time.Second

	switch r.Frequency {
	case FrequencyDaily:
		day = day.AddDays(1)
	case FrequencyWeekly:
		day = day.AddDays(7)
	case FrequencyMonthly:
		day = day.AddMonths(1)
	default:
		return time.Time{}, ErrNotRecurring
	}
	return ToUTC(day.Wall(clock), loc), nil
}

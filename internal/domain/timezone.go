package domain

import (
	"fmt"
	"strings"
	"time"
)

// LoadZone resolves an IANA zone name. On failure it returns UTC and an error.
func LoadZone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "UTC" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// ToUTC interprets the clock fields of wall (its location is ignored) as a
// wall-clock time in loc and returns the matching UTC instant.
//
// When the wall clock occurs twice (clocks turned back) the earliest instant
// wins. When it does not occur at all (clocks turned forward) the result is
// what time.Date normalises it to.
func ToUTC(wall time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, mo, d := wall.Date()
	h, mi, s := wall.Clock()
	ns := wall.Nanosecond()
	naive := time.Date(y, mo, d, h, mi, s, ns, time.UTC)
	guess := time.Date(y, mo, d, h, mi, s, ns, loc)

	var best time.Time
	for _, probe := range []time.Time{guess.Add(-12 * time.Hour), guess, guess.Add(12 * time.Hour)} {
		_, offset := probe.Zone()
		candidate := naive.Add(-time.Duration(offset) * time.Second)
		if !sameWall(candidate.In(loc), naive) {
			continue
		}
		if best.IsZero() || candidate.Before(best) {
			best = candidate
		}
	}
	if best.IsZero() {
		return guess.UTC()
	}
	return best.UTC()
}

// ToLocal renders a UTC instant in loc
func ToLocal(instant time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return instant.In(loc)
}

// Convert localizes the wall clock in from and re-renders it in to
func Convert(wall time.Time, from, to *time.Location) time.Time {
	return ToLocal(ToUTC(wall, from), to)
}

// Today returns the calendar day of now in loc
func Today(now time.Time, loc *time.Location) Date {
	return DateOf(ToLocal(now, loc))
}

func sameWall(t, naive time.Time) bool {
	return t.Year() == naive.Year() && t.Month() == naive.Month() && t.Day() == naive.Day() &&
		t.Hour() == naive.Hour() && t.Minute() == naive.Minute() && t.Second() == naive.Second()
}

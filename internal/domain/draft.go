package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidDraft is returned when a stored draft does not match its state
var ErrInvalidDraft = errors.New("invalid draft")

// DraftState is the explicit step of the intake conversation
type DraftState string

const (
	// StateAwaitingText: a recurrence template was chosen, the title is still missing
	StateAwaitingText DraftState = "awaiting_text"
	StateAwaitingDate DraftState = "awaiting_date"
	StateAwaitingTime DraftState = "awaiting_time"
)

// Draft is the in-progress reminder of one chat
type Draft struct {
	ChatID    int64
	State     DraftState
	Text      string
	Date      Date
	Frequency Frequency
}

// Validate checks that the filled fields agree with State
func (d *Draft) Validate() error {
	if d.Frequency == "" {
		d.Frequency = FrequencyNone
	}
	switch d.State {
	case StateAwaitingText:
		if d.Text != "" || !d.Date.IsZero() || !d.Frequency.Recurring() {
			return fmt.Errorf("%w: %s with text/date or without frequency", ErrInvalidDraft, d.State)
		}
	case StateAwaitingDate:
		if d.Text == "" || !d.Date.IsZero() {
			return fmt.Errorf("%w: %s needs text and no date", ErrInvalidDraft, d.State)
		}
	case StateAwaitingTime:
		if d.Text == "" || d.Date.IsZero() {
			return fmt.Errorf("%w: %s needs text and date", ErrInvalidDraft, d.State)
		}
	default:
		return fmt.Errorf("%w: unknown state %q", ErrInvalidDraft, d.State)
	}
	return nil
}

// Input is one intake turn: free text, or a day picked on the calendar
type Input struct {
	Text string
	Date *Date
}

// TextInput wraps free text as an Input
func TextInput(text string) Input {
	return Input{Text: text}
}

// DateInput wraps a calendar selection as an Input
func DateInput(d Date) Input {
	return Input{Date: &d}
}

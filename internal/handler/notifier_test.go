package handler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"remindbot/internal/domain"
	"remindbot/internal/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

type fakeSender struct {
	to     tele.Recipient
	what   interface{}
	markup *tele.ReplyMarkup
	err    error
}

func (f *fakeSender) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	f.to = to
	f.what = what
	for _, o := range opts {
		if m, ok := o.(*tele.ReplyMarkup); ok {
			f.markup = m
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &tele.Message{}, nil
}

var testDelivery = scheduler.Delivery{
	ReminderID: 12,
	ChatID:     555,
	Text:       "Water plants",
	Frequency:  domain.FrequencyWeekly,
	Language:   domain.LanguageEnglish,
	LocalTime:  time.Date(2025, 3, 13, 9, 30, 0, 0, time.UTC),
}

func TestNotifier_Deliver(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifier(sender, testCatalog(t))

	err := n.Deliver(context.Background(), testDelivery)

	require.NoError(t, err)
	assert.Equal(t, "555", sender.to.Recipient())
	assert.Equal(t, "🔔 Water plants\n13.03.2025 09:30", sender.what)
	require.NotNil(t, sender.markup)
	btn := sender.markup.InlineKeyboard[0][0]
	assert.Equal(t, "Snooze", btn.Text)
	assert.Equal(t, "move", btn.Unique)
	assert.Equal(t, "12", btn.Data)
}

func TestNotifier_Deliver_Errors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		unreachable bool
	}{
		{name: "blocked", err: tele.ErrBlockedByUser, unreachable: true},
		{name: "deactivated", err: tele.ErrUserIsDeactivated, unreachable: true},
		{name: "chat not found wrapped", err: fmt.Errorf("telebot: %w", tele.ErrChatNotFound), unreachable: true},
		{name: "kicked", err: tele.ErrKickedFromGroup, unreachable: true},
		{name: "network", err: errors.New("connection reset"), unreachable: false},
		{name: "server error", err: tele.ErrInternal, unreachable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNotifier(&fakeSender{err: tt.err}, testCatalog(t))

			err := n.Deliver(context.Background(), testDelivery)

			require.Error(t, err)
			assert.Equal(t, tt.unreachable, errors.Is(err, scheduler.ErrRecipientUnreachable))
		})
	}
}

func TestNotifier_Deliver_CancelledContext(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifier(sender, testCatalog(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := n.Deliver(ctx, testDelivery)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, sender.to)
}

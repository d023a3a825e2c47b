package handler

import (
	"context"
	"errors"
	"fmt"

	"remindbot/internal/locale"
	"remindbot/internal/scheduler"

	tele "gopkg.in/telebot.v3"
)

// messageSender is the part of *tele.Bot the notifier needs
type messageSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Notifier delivers due reminders with a snooze button.
// It implements scheduler.Sender.
type Notifier struct {
	bot     messageSender
	catalog *locale.Catalog
}

// NewNotifier creates a new notifier
func NewNotifier(bot messageSender, catalog *locale.Catalog) *Notifier {
	return &Notifier{bot: bot, catalog: catalog}
}

// unreachable lists the API errors after which the chat will never receive messages
var unreachable = []error{
	tele.ErrBlockedByUser,
	tele.ErrUserIsDeactivated,
	tele.ErrChatNotFound,
	tele.ErrKickedFromGroup,
	tele.ErrKickedFromSuperGroup,
	tele.ErrNotStartedByUser,
}

// Deliver sends one due reminder
func (n *Notifier) Deliver(ctx context.Context, d scheduler.Delivery) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	text := n.catalog.F(d.Language, "reminderDue", d.Text, d.LocalTime.Format(timeLayout))
	markup := snoozeMarkup(d.ReminderID, d.Language, n.catalog)

	_, err := n.bot.Send(tele.ChatID(d.ChatID), text, markup)
	if err == nil {
		return nil
	}
	for _, target := range unreachable {
		if errors.Is(err, target) {
			return fmt.Errorf("%w: %v", scheduler.ErrRecipientUnreachable, err)
		}
	}
	return err
}

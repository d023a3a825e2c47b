package handler

import (
	"errors"
	"strings"
	"unicode"

	"remindbot/internal/domain"
	"remindbot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, chatID int64) error {
	if err == nil {
		return nil
	}

	// If message is not modified, it was already edited by another callback
	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("chat_id", chatID),
			zap.String("callback_id", c.Callback().ID),
		)
		_ = c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("chat_id", chatID),
		zap.String("callback_id", c.Callback().ID),
	)
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// handleCallback handles ALL callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	unique, data := splitCallback(callback)
	action, err := ParseAction(unique, data)
	if err != nil {
		h.logger.Warn("Unhandled callback",
			zap.Error(err),
			zap.String("unique", unique),
			zap.String("data", data),
			zap.Int64("user_id", c.Sender().ID),
		)
		return c.Respond()
	}

	h.logger.Debug("Processing callback",
		zap.String("unique", unique),
		zap.String("data", data),
		zap.Int64("user_id", c.Sender().ID),
	)

	switch a := action.(type) {
	case NewReminder:
		return h.onNewReminder(c, a)
	case RecurrenceChoice:
		return h.onRecurrenceChoice(c, a)
	case SettingsRoot:
		return h.onSettingsRoot(c)
	case SettingsAction:
		return h.onSettingsAction(c, a)
	case ReminderList:
		return h.onReminderList(c)
	case ReminderDetail:
		return h.onReminderDetail(c, a)
	case CalendarNav:
		return h.onCalendarNav(c, a)
	case Move:
		return h.onMove(c, a)
	case Delete:
		return h.onDelete(c, a)
	}
	return c.Respond()
}

// reply acknowledges the callback and sends a new message
func (h *Handler) reply(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if err := c.Respond(); err != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(err))
	}
	if markup == nil {
		return c.Send(text)
	}
	return c.Send(text, markup)
}

func (h *Handler) onNewReminder(c tele.Context, a NewReminder) error {
	ctx, cancel := requestContext()
	defer cancel()

	chatID := chatOf(c)
	lang, _ := h.language(ctx, chatID)

	if a.Recurring {
		return h.reply(c, h.catalog.T(lang, "chooseFrequency"), frequencyMarkup(lang, h.catalog))
	}

	// a fresh one-off reminder must not continue an old draft
	if err := h.intake.Cancel(ctx, chatID); err != nil {
		h.logger.Error("Failed to clear draft", zap.Error(err), zap.Int64("chat_id", chatID))
		return h.reply(c, h.catalog.T(lang, "error"), nil)
	}
	return h.reply(c, h.catalog.T(lang, "setTitle"), nil)
}

func (h *Handler) onRecurrenceChoice(c tele.Context, a RecurrenceChoice) error {
	ctx, cancel := requestContext()
	defer cancel()

	chatID := chatOf(c)
	res, err := h.intake.ChooseFrequency(ctx, chatID, a.Frequency)
	if err != nil {
		h.logger.Error("Failed to start recurring reminder", zap.Error(err), zap.Int64("chat_id", chatID))
		lang, _ := h.language(ctx, chatID)
		return h.reply(c, h.catalog.T(lang, "error"), nil)
	}
	text, markup := h.prompt(res)
	return h.reply(c, text, markup)
}

func (h *Handler) onSettingsRoot(c tele.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	lang, _ := h.language(ctx, chatOf(c))
	return h.reply(c, h.catalog.T(lang, "settingsTitle"), settingsMarkup(lang, h.catalog))
}

func (h *Handler) onSettingsAction(c tele.Context, a SettingsAction) error {
	ctx, cancel := requestContext()
	defer cancel()

	chatID := chatOf(c)
	lang, _ := h.language(ctx, chatID)

	if a.Value == "" {
		if a.Name == SettingLanguage {
			return h.reply(c, h.catalog.T(lang, "chooseLanguage"), languageMarkup())
		}
		return h.reply(c, h.catalog.T(lang, "chooseTimezone"), timezoneMarkup())
	}

	var (
		err error
		key string
	)
	switch a.Name {
	case SettingLanguage:
		var newLang domain.Language
		newLang, err = h.settings.SetLanguage(ctx, chatID, a.Value)
		if err == nil {
			lang = newLang
		}
		key = "languageChanged"
	case SettingTimezone:
		_, err = h.settings.SetTimezone(ctx, chatID, a.Value)
		key = "timezoneChanged"
	}

	switch {
	case errors.Is(err, service.ErrInvalidSetting):
		h.logger.Warn("Rejected setting", zap.Error(err), zap.Int64("chat_id", chatID))
		return h.reply(c, h.catalog.T(lang, "settingInvalid"), nil)
	case err != nil:
		h.logger.Error("Failed to store setting", zap.Error(err), zap.Int64("chat_id", chatID))
		return h.reply(c, h.catalog.T(lang, "error"), nil)
	}

	h.logger.Info("Setting changed",
		zap.Int64("chat_id", chatID),
		zap.String("name", string(a.Name)),
		zap.String("value", a.Value),
	)
	return h.reply(c, h.catalog.T(lang, key), mainMenuMarkup(lang, h.catalog))
}

func (h *Handler) onReminderList(c tele.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	chatID := chatOf(c)
	lang, loc := h.language(ctx, chatID)

	list, err := h.reminders.List(ctx, chatID)
	if err != nil {
		h.logger.Error("Failed to list reminders", zap.Error(err), zap.Int64("chat_id", chatID))
		return h.reply(c, h.catalog.T(lang, "error"), nil)
	}
	if len(list) == 0 {
		return h.reply(c, h.catalog.T(lang, "listEmpty"), mainMenuMarkup(lang, h.catalog))
	}
	return h.reply(c, h.catalog.T(lang, "listTitle"), listMarkup(list, loc, lang, h.catalog))
}

func (h *Handler) onReminderDetail(c tele.Context, a ReminderDetail) error {
	ctx, cancel := requestContext()
	defer cancel()

	chatID := chatOf(c)
	lang, loc := h.language(ctx, chatID)

	rem, err := h.reminders.Get(ctx, chatID, a.ID)
	switch {
	case errors.Is(err, service.ErrReminderNotFound):
		return h.reply(c, h.catalog.T(lang, "remNotFound"), mainMenuMarkup(lang, h.catalog))
	case err != nil:
		h.logger.Error("Failed to load reminder", zap.Error(err), zap.Int64("reminder_id", a.ID))
		return h.reply(c, h.catalog.T(lang, "error"), nil)
	}
	return h.reply(c, reminderLabel(*rem, loc, lang, h.catalog), detailMarkup(rem.ID, lang, h.catalog))
}

func (h *Handler) onMove(c tele.Context, a Move) error {
	ctx, cancel := requestContext()
	defer cancel()

	chatID := chatOf(c)
	res, err := h.intake.Move(ctx, chatID, a.ID)
	if err != nil {
		lang, _ := h.language(ctx, chatID)
		if errors.Is(err, service.ErrReminderNotFound) {
			return h.reply(c, h.catalog.T(lang, "remNotFound"), mainMenuMarkup(lang, h.catalog))
		}
		h.logger.Error("Failed to move reminder", zap.Error(err), zap.Int64("reminder_id", a.ID))
		return h.reply(c, h.catalog.T(lang, "error"), nil)
	}
	text, markup := h.prompt(res)
	return h.reply(c, text, markup)
}

func (h *Handler) onDelete(c tele.Context, a Delete) error {
	ctx, cancel := requestContext()
	defer cancel()

	chatID := chatOf(c)
	lang, _ := h.language(ctx, chatID)

	err := h.reminders.Delete(ctx, chatID, a.ID)
	switch {
	case errors.Is(err, service.ErrReminderNotFound):
		return h.reply(c, h.catalog.T(lang, "remNotFound"), mainMenuMarkup(lang, h.catalog))
	case err != nil:
		h.logger.Error("Failed to delete reminder", zap.Error(err), zap.Int64("reminder_id", a.ID))
		return h.reply(c, h.catalog.T(lang, "error"), nil)
	}

	h.logger.Info("Reminder deleted", zap.Int64("chat_id", chatID), zap.Int64("reminder_id", a.ID))
	return h.reply(c, h.catalog.T(lang, "remDeleted"), mainMenuMarkup(lang, h.catalog))
}

func (h *Handler) onCalendarNav(c tele.Context, a CalendarNav) error {
	ctx, cancel := requestContext()
	defer cancel()

	chatID := chatOf(c)

	switch a.Kind {
	case NavIgnore:
		return c.Respond()

	case NavPrevMonth, NavNextMonth:
		delta := 1
		if a.Kind == NavPrevMonth {
			delta = -1
		}
		year, month := shiftMonth(a.Year, a.Month, delta)
		lang, loc := h.language(ctx, chatID)
		today := domain.Today(h.now(), loc)

		// telebot rewrites button data on send, so each send gets its own markup
		if err := c.Edit(calendarMarkup(year, month, today, lang, h.catalog)); err != nil {
			if handleErr := h.handleEditError(err, c, chatID); handleErr == nil {
				return nil // Message was already modified, just acknowledged
			}
			return c.Send(h.catalog.T(lang, "setDate"), calendarMarkup(year, month, today, lang, h.catalog))
		}
		return c.Respond()
	}

	res, err := h.intake.Advance(ctx, chatID, domain.DateInput(a.Date()))
	if err != nil {
		h.logger.Error("Failed to advance intake", zap.Error(err), zap.Int64("chat_id", chatID))
		lang, _ := h.language(ctx, chatID)
		return h.reply(c, h.catalog.T(lang, "error"), nil)
	}
	text, markup := h.prompt(res)
	return h.reply(c, text, markup)
}

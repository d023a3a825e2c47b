package handler

import (
	"context"
	"strings"
	"time"

	"remindbot/internal/domain"
	"remindbot/internal/locale"
	"remindbot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler manages all bot interactions
type Handler struct {
	bot       *tele.Bot
	intake    *service.IntakeService
	settings  *service.SettingsService
	reminders *service.ReminderService
	catalog   *locale.Catalog
	now       func() time.Time
	logger    *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	intake *service.IntakeService,
	settings *service.SettingsService,
	reminders *service.ReminderService,
	catalog *locale.Catalog,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:       bot,
		intake:    intake,
		settings:  settings,
		reminders: reminders,
		catalog:   catalog,
		now:       time.Now,
		logger:    logger,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/menu", h.handleMenu)
	h.bot.Handle("/cancel", h.handleCancel)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// All inline buttons are routed through ParseAction
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// requestContext bounds the persistence work of one update
func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// language resolves the chat language, falling back to the default on error
func (h *Handler) language(ctx context.Context, chatID int64) (domain.Language, *time.Location) {
	settings, loc, err := h.settings.Resolve(ctx, chatID)
	if err != nil {
		h.logger.Error("Failed to resolve settings", zap.Error(err), zap.Int64("chat_id", chatID))
		defaults := h.settings.Defaults()
		loc, _ = domain.LoadZone(defaults.Timezone)
		return defaults.Language, loc
	}
	return settings.Language, loc
}

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	chatID := chatOf(c)
	h.logger.Info("User started bot",
		zap.Int64("chat_id", chatID),
		zap.String("username", c.Sender().Username),
	)

	lang, _ := h.language(ctx, chatID)
	return c.Send(h.catalog.T(lang, "greeting"), mainMenuMarkup(lang, h.catalog))
}

// handleMenu handles /menu command and the localized "Menu" text
func (h *Handler) handleMenu(c tele.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	lang, _ := h.language(ctx, chatOf(c))
	return c.Send(h.catalog.T(lang, "menu"), mainMenuMarkup(lang, h.catalog))
}

// handleCancel drops the draft; repeating it is harmless
func (h *Handler) handleCancel(c tele.Context) error {
	ctx, cancel := requestContext()
	defer cancel()

	chatID := chatOf(c)
	lang, _ := h.language(ctx, chatID)

	if err := h.intake.Cancel(ctx, chatID); err != nil {
		h.logger.Error("Failed to cancel draft", zap.Error(err), zap.Int64("chat_id", chatID))
		return c.Send(h.catalog.T(lang, "error"))
	}
	return c.Send(h.catalog.T(lang, "cancelled"), mainMenuMarkup(lang, h.catalog))
}

// handleText feeds free text into the intake flow
func (h *Handler) handleText(c tele.Context) error {
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	ctx, cancel := requestContext()
	defer cancel()

	chatID := chatOf(c)
	lang, _ := h.language(ctx, chatID)

	switch {
	case strings.EqualFold(text, h.catalog.T(lang, "cancelWord")):
		return h.handleCancel(c)
	case strings.EqualFold(text, h.catalog.T(lang, "menuWord")):
		return h.handleMenu(c)
	}

	res, err := h.intake.Advance(ctx, chatID, domain.TextInput(text))
	if err != nil {
		h.logger.Error("Failed to advance intake", zap.Error(err), zap.Int64("chat_id", chatID))
		return c.Send(h.catalog.T(lang, "error"))
	}
	return h.sendPrompt(c, res)
}

func (h *Handler) sendPrompt(c tele.Context, res service.Result) error {
	text, markup := h.prompt(res)
	if markup == nil {
		return c.Send(text)
	}
	return c.Send(text, markup)
}

// prompt picks the copy and keyboard for an intake result
func (h *Handler) prompt(res service.Result) (string, *tele.ReplyMarkup) {
	lang := res.Settings.Language

	switch res.Status {
	case service.StatusNeedText:
		return h.catalog.T(lang, "setTitle"), nil
	case service.StatusNeedDate:
		today := domain.Today(h.now(), res.Location)
		return h.catalog.T(lang, "setDate"), calendarMarkup(today.Year, today.Month, today, lang, h.catalog)
	case service.StatusNeedTime:
		return h.catalog.T(lang, "setTime"), nil
	case service.StatusFinished:
		label := reminderLabel(*res.Reminder, res.Location, lang, h.catalog)
		return h.catalog.F(lang, "remSaved", label), mainMenuMarkup(lang, h.catalog)
	}

	h.logger.Warn("Unexpected intake status", zap.Stringer("status", res.Status))
	return h.catalog.T(lang, "menu"), mainMenuMarkup(lang, h.catalog)
}

// chatOf returns the chat an update belongs to
func chatOf(c tele.Context) int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	return c.Sender().ID
}

package handler

import (
	"fmt"
	"strings"
	"time"

	"remindbot/internal/domain"
	"remindbot/internal/locale"
	"remindbot/internal/service"

	tele "gopkg.in/telebot.v3"
)

const timeLayout = "02.01.2006 15:04"

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup(lang domain.Language, catalog *locale.Catalog) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(button(menu, catalog.T(lang, "btnNewReminder"), NewReminder{})),
		menu.Row(button(menu, catalog.T(lang, "btnNewRecurring"), NewReminder{Recurring: true})),
		menu.Row(button(menu, catalog.T(lang, "btnReminderList"), ReminderList{})),
		menu.Row(button(menu, catalog.T(lang, "btnSettings"), SettingsRoot{})),
	)
	return menu
}

func frequencyMarkup(lang domain.Language, catalog *locale.Catalog) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(domain.Frequencies))
	for _, f := range domain.Frequencies {
		rows = append(rows, markup.Row(button(markup, frequencyLabel(f, lang, catalog), RecurrenceChoice{Frequency: f})))
	}
	markup.Inline(rows...)
	return markup
}

func settingsMarkup(lang domain.Language, catalog *locale.Catalog) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(button(markup, catalog.T(lang, "btnLanguage"), SettingsAction{Name: SettingLanguage})),
		markup.Row(button(markup, catalog.T(lang, "btnTimezone"), SettingsAction{Name: SettingTimezone})),
	)
	return markup
}

func languageMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(domain.Languages))
	for _, l := range domain.Languages {
		rows = append(rows, markup.Row(button(markup, string(l), SettingsAction{Name: SettingLanguage, Value: string(l)})))
	}
	markup.Inline(rows...)
	return markup
}

// timezoneMarkup lists the fixed-offset zones three per row
func timezoneMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	var row tele.Row
	for _, zone := range service.TimezoneChoices() {
		row = append(row, button(markup, strings.TrimPrefix(zone, "Etc/"), SettingsAction{Name: SettingTimezone, Value: zone}))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	markup.Inline(rows...)
	return markup
}

func listMarkup(reminders []domain.Reminder, loc *time.Location, lang domain.Language, catalog *locale.Catalog) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(reminders))
	for _, r := range reminders {
		rows = append(rows, markup.Row(button(markup, reminderLabel(r, loc, lang, catalog), ReminderDetail{ID: r.ID})))
	}
	markup.Inline(rows...)
	return markup
}

func detailMarkup(id int64, lang domain.Language, catalog *locale.Catalog) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(
		button(markup, catalog.T(lang, "btnMove"), Move{ID: id}),
		button(markup, catalog.T(lang, "btnDelete"), Delete{ID: id}),
	))
	return markup
}

func snoozeMarkup(id int64, lang domain.Language, catalog *locale.Catalog) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(button(markup, catalog.T(lang, "btnSnooze"), Move{ID: id})))
	return markup
}

func frequencyLabel(f domain.Frequency, lang domain.Language, catalog *locale.Catalog) string {
	return catalog.T(lang, "freq"+string(f))
}

// reminderLabel renders "text DD.MM.YYYY HH:MM [frequency]" in the chat zone
func reminderLabel(r domain.Reminder, loc *time.Location, lang domain.Language, catalog *locale.Catalog) string {
	label := fmt.Sprintf("%s %s", r.Text, domain.ToLocal(r.TriggerAt, loc).Format(timeLayout))
	if r.Frequency.Recurring() {
		label += " " + frequencyLabel(r.Frequency, lang, catalog)
	}
	return label
}

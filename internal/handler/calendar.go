package handler

import (
	"fmt"
	"strconv"
	"time"

	"remindbot/internal/domain"
	"remindbot/internal/locale"

	tele "gopkg.in/telebot.v3"
)

type calendarCell struct {
	Label  string
	Action CalendarNav
}

var ignoreNav = CalendarNav{Kind: NavIgnore}

// calendarGrid lays out one month: title, weekday names, weeks starting on
// Monday, navigation and the today/tomorrow/after-tomorrow shortcuts.
func calendarGrid(year int, month time.Month, today domain.Date, lang domain.Language, catalog *locale.Catalog) [][]calendarCell {
	var grid [][]calendarCell

	title := fmt.Sprintf("%s %d", catalog.T(lang, "month"+strconv.Itoa(int(month))), year)
	grid = append(grid, []calendarCell{{Label: title, Action: ignoreNav}})

	weekdays := make([]calendarCell, 7)
	for i := range weekdays {
		weekdays[i] = calendarCell{Label: catalog.T(lang, "wd"+strconv.Itoa(i)), Action: ignoreNav}
	}
	grid = append(grid, weekdays)

	first := domain.Date{Year: year, Month: month, Day: 1}
	week := make([]calendarCell, 0, 7)
	for i := 0; i < first.Weekday(); i++ {
		week = append(week, calendarCell{Label: " ", Action: ignoreNav})
	}
	for day := 1; day <= domain.DaysIn(year, month); day++ {
		week = append(week, calendarCell{
			Label:  strconv.Itoa(day),
			Action: CalendarNav{Kind: NavDay, Year: year, Month: month, Day: day},
		})
		if len(week) == 7 {
			grid = append(grid, week)
			week = make([]calendarCell, 0, 7)
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, calendarCell{Label: " ", Action: ignoreNav})
		}
		grid = append(grid, week)
	}

	grid = append(grid, []calendarCell{
		{Label: "<", Action: CalendarNav{Kind: NavPrevMonth, Year: year, Month: month, Day: 1}},
		{Label: " ", Action: ignoreNav},
		{Label: ">", Action: CalendarNav{Kind: NavNextMonth, Year: year, Month: month, Day: 1}},
	})

	shortcuts := []string{"calToday", "calTomorrow", "calAfterTomorrow"}
	row := make([]calendarCell, len(shortcuts))
	for i, key := range shortcuts {
		d := today.AddDays(i)
		row[i] = calendarCell{
			Label:  catalog.T(lang, key),
			Action: CalendarNav{Kind: NavDay, Year: d.Year, Month: d.Month, Day: d.Day},
		}
	}
	grid = append(grid, row)

	return grid
}

// shiftMonth returns the month delta months away from year/month
func shiftMonth(year int, month time.Month, delta int) (int, time.Month) {
	d := domain.Date{Year: year, Month: month, Day: 1}.AddMonths(delta)
	return d.Year, d.Month
}

func calendarMarkup(year int, month time.Month, today domain.Date, lang domain.Language, catalog *locale.Catalog) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	var rows []tele.Row
	for _, cells := range calendarGrid(year, month, today, lang, catalog) {
		row := make(tele.Row, len(cells))
		for i, cell := range cells {
			row[i] = button(markup, cell.Label, cell.Action)
		}
		rows = append(rows, row)
	}
	markup.Inline(rows...)
	return markup
}

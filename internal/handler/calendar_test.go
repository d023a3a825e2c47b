package handler

import (
	"testing"
	"time"

	"remindbot/internal/domain"
	"remindbot/internal/locale"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *locale.Catalog {
	t.Helper()
	catalog, err := locale.Load()
	require.NoError(t, err)
	return catalog
}

func TestCalendarGrid_March2025(t *testing.T) {
	today := domain.Date{Year: 2025, Month: time.March, Day: 31}
	grid := calendarGrid(2025, time.March, today, domain.LanguageEnglish, testCatalog(t))

	// title, weekdays, 6 weeks, navigation, shortcuts
	require.Len(t, grid, 10)
	assert.Equal(t, "March 2025", grid[0][0].Label)
	assert.Equal(t, "Mo", grid[1][0].Label)
	assert.Equal(t, "Su", grid[1][6].Label)

	// 1 March 2025 is a Saturday
	firstWeek := grid[2]
	require.Len(t, firstWeek, 7)
	for i := 0; i < 5; i++ {
		assert.Equal(t, NavIgnore, firstWeek[i].Action.Kind)
	}
	assert.Equal(t, "1", firstWeek[5].Label)
	assert.Equal(t, CalendarNav{Kind: NavDay, Year: 2025, Month: time.March, Day: 1}, firstWeek[5].Action)

	lastWeek := grid[7]
	assert.Equal(t, "31", lastWeek[0].Label)
	assert.Equal(t, NavIgnore, lastWeek[6].Action.Kind)

	nav := grid[8]
	assert.Equal(t, NavPrevMonth, nav[0].Action.Kind)
	assert.Equal(t, NavNextMonth, nav[2].Action.Kind)

	shortcuts := grid[9]
	require.Len(t, shortcuts, 3)
	assert.Equal(t, "today", shortcuts[0].Label)
	assert.Equal(t, domain.Date{Year: 2025, Month: time.March, Day: 31}, shortcuts[0].Action.Date())
	assert.Equal(t, domain.Date{Year: 2025, Month: time.April, Day: 1}, shortcuts[1].Action.Date())
	assert.Equal(t, domain.Date{Year: 2025, Month: time.April, Day: 2}, shortcuts[2].Action.Date())
}

func TestCalendarGrid_Russian(t *testing.T) {
	today := domain.Date{Year: 2024, Month: time.February, Day: 10}
	grid := calendarGrid(2024, time.February, today, domain.LanguageRussian, testCatalog(t))

	assert.Equal(t, "Февраль 2024", grid[0][0].Label)
	assert.Equal(t, "Пн", grid[1][0].Label)
	assert.Equal(t, "завтра", grid[len(grid)-1][1].Label)

	days := 0
	for _, row := range grid[2 : len(grid)-2] {
		for _, cell := range row {
			if cell.Action.Kind == NavDay {
				days++
			}
		}
	}
	assert.Equal(t, 29, days)
}

func TestShiftMonth(t *testing.T) {
	y, m := shiftMonth(2025, time.January, -1)
	assert.Equal(t, 2024, y)
	assert.Equal(t, time.December, m)

	y, m = shiftMonth(2025, time.December, 1)
	assert.Equal(t, 2026, y)
	assert.Equal(t, time.January, m)
}

func TestCalendarMarkup(t *testing.T) {
	today := domain.Date{Year: 2025, Month: time.March, Day: 12}
	markup := calendarMarkup(2025, time.March, today, domain.LanguageEnglish, testCatalog(t))

	require.Len(t, markup.InlineKeyboard, 10)
	cell := markup.InlineKeyboard[2][5]
	assert.Equal(t, "1", cell.Text)
	assert.Equal(t, "cal", cell.Unique)
	assert.Equal(t, "day|2025|3|1", cell.Data)
}

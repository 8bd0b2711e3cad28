package display

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/smokyabdulrahman/adhan/internal/prayer"
)

const (
	cardWidth = 62
	cellWidth = 10
)

// DayCard renders a day as a boxed card: the full date centred on top, then
// prayer names over their times. Performed prayers are grayed and the next
// pending prayer is accented.
//
//	                     Friday, 10 June 2022
//	|==============================================================|
//	|   Fajr    |   Dhuhr    |    Asr     |  Maghrib   |    Isha   |
//	| 03:00:00  |  13:10:00  |  17:25:00  |  21:20:00  |  22:55:00 |
//	|==============================================================|
func DayCard(day prayer.Day) string {
	next, hasNext := day.NextPrayer()
	prayers := day.Prayers()

	names := make([]string, len(prayers))
	times := make([]string, len(prayers))
	for i, p := range prayers {
		name := center(p.Kind.String(), cellWidth)
		clock := center(prayer.FormatClock(p.Time, "15:04:05"), cellWidth)
		switch {
		case p.Performed:
			name, clock = Gray(name), Gray(clock)
		case hasNext && p.Kind == next.Kind:
			name, clock = Accent(name), Accent(clock)
		}
		names[i], times[i] = name, clock
	}

	rule := "|" + Dim(strings.Repeat("=", cardWidth)) + "|\n"

	var sb strings.Builder
	sb.WriteString("\n" + Bold(center(day.Date.In(time.UTC).Format("Monday, 02 January 2006"), cardWidth)) + "\n")
	sb.WriteString(rule)
	sb.WriteString("|" + strings.Join(names, " | ") + "|\n")
	sb.WriteString("|" + strings.Join(times, " | ") + "|\n")
	sb.WriteString(rule)
	return sb.String()
}

// center pads s on both sides to width, putting any odd space on the right.
func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}

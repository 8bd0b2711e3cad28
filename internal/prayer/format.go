package prayer

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"cloud.google.com/go/civil"
)

// Format constants for display modes.
const (
	FormatTimeRemaining      = "time-remaining"
	FormatNextPrayerTime     = "next-prayer-time"
	FormatNameAndTime        = "name-and-time"
	FormatNameAndRemaining   = "name-and-remaining"
	FormatShortNameAndTime   = "short-name-and-time"
	FormatShortNameAndRemain = "short-name-and-remaining"
	FormatFull               = "full"
)

// Upcoming is a prayer anchored to the date it falls on.
type Upcoming struct {
	Prayer Prayer
	Date   civil.Date
}

// At returns the prayer's date and time.
func (u Upcoming) At() civil.DateTime {
	return civil.DateTime{Date: u.Date, Time: u.Prayer.Time}
}

// NextPrayer finds the first unperformed prayer of today, falling back to
// tomorrow's Fajr once today's prayers are all performed.
func NextPrayer(m Month, now civil.DateTime) (Upcoming, bool) {
	if today, ok := m.Today(now); ok {
		today.Refresh(now)
		if p, ok := today.NextPrayer(); ok {
			return Upcoming{Prayer: p, Date: today.Date}, true
		}
	}
	if tomorrow, ok := m.Tomorrow(now); ok {
		return Upcoming{Prayer: tomorrow.Fajr, Date: tomorrow.Date}, true
	}
	return Upcoming{}, false
}

// TimeRemaining returns the naive duration between now and the prayer.
func TimeRemaining(u Upcoming, now civil.DateTime) time.Duration {
	return u.At().In(time.UTC).Sub(now.In(time.UTC))
}

// FormatRemaining formats a duration as "Xh Ym" or "Ym" if less than an hour.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "0m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// FormatClock renders a time of day with a Go layout such as "15:04".
func FormatClock(t civil.Time, layout string) string {
	return civil.DateTime{Date: civil.Date{Year: 2000, Month: time.January, Day: 1}, Time: t}.In(time.UTC).Format(layout)
}

// FormatData is the data passed to custom Go templates.
type FormatData struct {
	Name      string // Full prayer name, e.g. "Asr"
	ShortName string // Abbreviated name, e.g. "A"
	Time      string // Formatted prayer time, e.g. "15:02" or "3:02 PM"
	Remaining string // Time remaining, e.g. "2h 15m"
	Hours     int
	Minutes   int
}

// FormatOutput formats an upcoming prayer for status-line display.
// timeFormat should be "15:04" for 24h or "3:04 PM" for 12h.
//
// If mode contains "{{", it is treated as a custom Go template string.
// Available template fields: .Name, .ShortName, .Time, .Remaining, .Hours, .Minutes
func FormatOutput(u Upcoming, now civil.DateTime, mode string, timeFormat string) string {
	d := TimeRemaining(u, now)
	remaining := FormatRemaining(d)
	timeStr := FormatClock(u.Prayer.Time, timeFormat)
	name := u.Prayer.Kind.String()
	short := ShortNames[u.Prayer.Kind]

	if strings.Contains(mode, "{{") {
		return formatCustom(mode, FormatData{
			Name:      name,
			ShortName: short,
			Time:      timeStr,
			Remaining: remaining,
			Hours:     int(d.Hours()),
			Minutes:   int(d.Minutes()) % 60,
		})
	}

	switch mode {
	case FormatTimeRemaining:
		return remaining
	case FormatNextPrayerTime:
		return timeStr
	case FormatNameAndRemaining:
		return fmt.Sprintf("%s %s", name, remaining)
	case FormatShortNameAndTime:
		return fmt.Sprintf("%s %s", short, timeStr)
	case FormatShortNameAndRemain:
		return fmt.Sprintf("%s %s", short, remaining)
	case FormatFull:
		return fmt.Sprintf("%s %s (%s)", name, timeStr, remaining)
	default:
		return fmt.Sprintf("%s %s", name, timeStr)
	}
}

func formatCustom(tmpl string, data FormatData) string {
	t, err := template.New("custom").Parse(tmpl)
	if err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return fmt.Sprintf("template-err: %v", err)
	}

	return buf.String()
}

package prayer

import (
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

// helper: a fixed prayer and "now" time for format tests.
func formatTestPrayer() (Upcoming, civil.DateTime) {
	date := civil.Date{Year: 2026, Month: time.February, Day: 28}
	u := Upcoming{
		Prayer: Prayer{Kind: Asr, Time: civil.Time{Hour: 15, Minute: 2}},
		Date:   date,
	}
	now := civil.DateTime{Date: date, Time: civil.Time{Hour: 12, Minute: 47}}
	return u, now
}

func TestFormatOutput_AllBuiltinModes(t *testing.T) {
	u, now := formatTestPrayer()

	tests := []struct {
		mode string
		want string
	}{
		{FormatTimeRemaining, "2h 15m"},
		{FormatNextPrayerTime, "15:02"},
		{FormatNameAndTime, "Asr 15:02"},
		{FormatNameAndRemaining, "Asr 2h 15m"},
		{FormatShortNameAndTime, "A 15:02"},
		{FormatShortNameAndRemain, "A 2h 15m"},
		{FormatFull, "Asr 15:02 (2h 15m)"},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			got := FormatOutput(u, now, tt.mode, "15:04")
			if got != tt.want {
				t.Errorf("FormatOutput(%q) = %q, want %q", tt.mode, got, tt.want)
			}
		})
	}
}

func TestFormatOutput_12HourFormat(t *testing.T) {
	u, now := formatTestPrayer()

	got := FormatOutput(u, now, FormatNameAndTime, "3:04 PM")
	if got != "Asr 3:02 PM" {
		t.Errorf("12h format = %q, want %q", got, "Asr 3:02 PM")
	}
}

func TestFormatOutput_UnknownModeDefaultsToNameAndTime(t *testing.T) {
	u, now := formatTestPrayer()

	got := FormatOutput(u, now, "nonexistent-format", "15:04")
	if got != "Asr 15:02" {
		t.Errorf("unknown mode = %q, want %q", got, "Asr 15:02")
	}
}

func TestFormatOutput_CustomTemplate(t *testing.T) {
	u, now := formatTestPrayer()

	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{"name and remaining", "{{.Name}} in {{.Remaining}}", "Asr in 2h 15m"},
		{"short name and time", "{{.ShortName}} @ {{.Time}}", "A @ 15:02"},
		{"hours and minutes fields", "{{.Hours}}h {{.Minutes}}m until {{.Name}}", "2h 15m until Asr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatOutput(u, now, tt.tmpl, "15:04")
			if got != tt.want {
				t.Errorf("custom template %q = %q, want %q", tt.tmpl, got, tt.want)
			}
		})
	}
}

func TestFormatOutput_InvalidTemplate(t *testing.T) {
	u, now := formatTestPrayer()

	got := FormatOutput(u, now, "{{.Invalid", "15:04")
	if !strings.HasPrefix(got, "template-err:") {
		t.Errorf("invalid template should return 'template-err:...', got %q", got)
	}
}

func TestFormatOutput_AcrossMidnight(t *testing.T) {
	now := civil.DateTime{
		Date: civil.Date{Year: 2026, Month: time.February, Day: 28},
		Time: civil.Time{Hour: 23, Minute: 30},
	}
	u := Upcoming{
		Prayer: Prayer{Kind: Fajr, Time: civil.Time{Hour: 5, Minute: 10}},
		Date:   civil.Date{Year: 2026, Month: time.March, Day: 1},
	}

	got := FormatOutput(u, now, FormatTimeRemaining, "15:04")
	if got != "5h 40m" {
		t.Errorf("remaining across midnight = %q, want %q", got, "5h 40m")
	}
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{-time.Minute, "0m"},
		{0, "0m"},
		{25 * time.Minute, "25m"},
		{2*time.Hour + 15*time.Minute, "2h 15m"},
	}
	for _, tt := range tests {
		if got := FormatRemaining(tt.d); got != tt.want {
			t.Errorf("FormatRemaining(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestNextPrayer(t *testing.T) {
	m := januaryMonth(civil.DateTime{})

	t.Run("mid-day picks the next unperformed prayer", func(t *testing.T) {
		now := civil.DateTime{Date: jan(15), Time: civil.Time{Hour: 13}}
		u, ok := NextPrayer(m, now)
		if !ok {
			t.Fatal("expected an upcoming prayer")
		}
		if u.Prayer.Kind != Asr || u.Date != jan(15) {
			t.Errorf("next = %s on %s, want Asr on %s", u.Prayer.Kind, u.Date, jan(15))
		}
	})

	t.Run("after isha falls back to tomorrow's fajr", func(t *testing.T) {
		now := civil.DateTime{Date: jan(15), Time: civil.Time{Hour: 23}}
		u, ok := NextPrayer(m, now)
		if !ok {
			t.Fatal("expected an upcoming prayer")
		}
		if u.Prayer.Kind != Fajr || u.Date != jan(16) {
			t.Errorf("next = %s on %s, want Fajr on %s", u.Prayer.Kind, u.Date, jan(16))
		}
	})

	t.Run("outside the month", func(t *testing.T) {
		now := civil.DateTime{Date: civil.Date{Year: 2022, Month: time.March, Day: 1}}
		if _, ok := NextPrayer(m, now); ok {
			t.Error("expected no upcoming prayer outside the month")
		}
	})
}

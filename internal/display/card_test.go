package display

import (
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func TestDayCard_Plain(t *testing.T) {
	SetEnabled(false)

	now := civil.DateTime{Date: civil.Date{Year: 2022, Month: time.June, Day: 10}, Time: civil.Time{Hour: 12}}
	day, _ := threeDays(now).Today(now)

	got := DayCard(day)
	want := "\n" +
		"                     Friday, 10 June 2022                     \n" +
		"|==============================================================|\n" +
		"|   Fajr    |   Dhuhr    |    Asr     |  Maghrib   |    Isha   |\n" +
		"| 03:00:00  |  13:10:00  |  17:25:00  |  21:20:00  |  22:55:00 |\n" +
		"|==============================================================|\n"
	if got != want {
		t.Errorf("DayCard mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestDayCard_Styles(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	now := civil.DateTime{Date: civil.Date{Year: 2022, Month: time.June, Day: 10}, Time: civil.Time{Hour: 14}}
	day, _ := threeDays(now).Today(now)

	got := DayCard(day)
	if !strings.Contains(got, Gray(center("Dhuhr", cellWidth))) {
		t.Error("performed Dhuhr should be gray")
	}
	if !strings.Contains(got, Accent(center("Asr", cellWidth))) {
		t.Error("next prayer Asr should be accented")
	}
	if strings.Contains(got, Accent(center("Isha", cellWidth))) {
		t.Error("only the next prayer should be accented")
	}
}

func TestCenter(t *testing.T) {
	tests := []struct {
		in   string
		w    int
		want string
	}{
		{"Asr", 10, "   Asr    "},
		{"Isha", 10, "   Isha   "},
		{"a very long value", 4, "a very long value"},
	}
	for _, tt := range tests {
		if got := center(tt.in, tt.w); got != tt.want {
			t.Errorf("center(%q, %d) = %q, want %q", tt.in, tt.w, got, tt.want)
		}
	}
}

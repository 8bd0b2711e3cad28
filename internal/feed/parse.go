// Package feed parses the monthly CSV timetable published by the prayer-times
// site into prayer days.
//
// The feed prints Fajr on a 24-hour clock but Dhuhr, Asr, Maghrib and Isha as
// if on a 12-hour clock with no AM/PM marker; those four are re-based to the
// afternoon by adding twelve hours.
package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/smokyabdulrahman/adhan/internal/prayer"
)

var (
	// ErrParseCSV is returned when the feed is not well-formed CSV.
	ErrParseCSV = errors.New("malformed prayer times CSV")
	// ErrParseDateTime is returned when a date or time field does not match
	// the feed's format.
	ErrParseDateTime = errors.New("invalid prayer date or time")
)

const (
	dateLayout = "Mon _2 Jan 2006"
	// columns: day, fajr, sunrise (ignored), dhuhr, asr, maghrib, isha
	columns = 7
	maxDays = 32
)

// ParseTimeOfDay parses an "H:MM" time with a one or two digit hour that may
// be space padded. When shift is set, twelve hours are added, wrapping past
// midnight.
func ParseTimeOfDay(s string, shift bool) (civil.Time, error) {
	raw := s
	s = strings.TrimLeft(s, " ")

	hourStr, minStr, ok := strings.Cut(s, ":")
	if !ok || len(hourStr) == 0 || len(hourStr) > 2 || len(minStr) != 2 {
		return civil.Time{}, fmt.Errorf("%w: time %q", ErrParseDateTime, raw)
	}

	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour < 0 || hour > 23 {
		return civil.Time{}, fmt.Errorf("%w: hour in %q", ErrParseDateTime, raw)
	}
	minute, err := strconv.Atoi(minStr)
	if err != nil || minute < 0 || minute > 59 {
		return civil.Time{}, fmt.Errorf("%w: minute in %q", ErrParseDateTime, raw)
	}

	if shift {
		hour = (hour + 12) % 24
	}

	return civil.Time{Hour: hour, Minute: minute}, nil
}

// ParseDate parses a "Mon 05 Jun" style date and places it in year. The
// weekday must agree with the resulting date.
func ParseDate(s string, year int) (civil.Date, error) {
	value := strings.TrimSpace(s) + " " + strconv.Itoa(year)

	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return civil.Date{}, fmt.Errorf("%w: date %q: %v", ErrParseDateTime, s, err)
	}

	weekday, _, _ := strings.Cut(strings.TrimSpace(s), " ")
	if t.Weekday().String()[:3] != weekday {
		return civil.Date{}, fmt.Errorf("%w: date %q is a %s in %d", ErrParseDateTime, s, t.Weekday(), year)
	}

	return civil.DateOf(t), nil
}

// Record is one row of the feed.
type Record struct {
	Day     string
	Fajr    string
	Sunrise string
	Dhuhr   string
	Asr     string
	Maghrib string
	Isha    string
}

// recordFromFields maps a raw CSV row onto a Record.
func recordFromFields(fields []string) (Record, error) {
	if len(fields) != columns {
		return Record{}, fmt.Errorf("%w: expected %d columns, got %d", ErrParseCSV, columns, len(fields))
	}
	return Record{
		Day:     fields[0],
		Fajr:    fields[1],
		Sunrise: fields[2],
		Dhuhr:   fields[3],
		Asr:     fields[4],
		Maghrib: fields[5],
		Isha:    fields[6],
	}, nil
}

// ToDay converts the record into a prayer day. The year comes from now, and
// each prayer's performed flag is computed against now.
func (r Record) ToDay(now civil.DateTime) (prayer.Day, error) {
	date, err := ParseDate(r.Day, now.Date.Year)
	if err != nil {
		return prayer.Day{}, err
	}

	fajr, err := ParseTimeOfDay(r.Fajr, false)
	if err != nil {
		return prayer.Day{}, fmt.Errorf("fajr: %w", err)
	}
	dhuhr, err := ParseTimeOfDay(r.Dhuhr, true)
	if err != nil {
		return prayer.Day{}, fmt.Errorf("dhuhr: %w", err)
	}
	asr, err := ParseTimeOfDay(r.Asr, true)
	if err != nil {
		return prayer.Day{}, fmt.Errorf("asr: %w", err)
	}
	maghrib, err := ParseTimeOfDay(r.Maghrib, true)
	if err != nil {
		return prayer.Day{}, fmt.Errorf("maghrib: %w", err)
	}
	isha, err := ParseTimeOfDay(r.Isha, true)
	if err != nil {
		return prayer.Day{}, fmt.Errorf("isha: %w", err)
	}

	return prayer.NewDay(date, fajr, dhuhr, asr, maghrib, isha, now), nil
}

// Parse reads a whole feed response. The header row is skipped and every
// following row must map to a day; the first bad row fails the whole feed.
func Parse(r io.Reader, now time.Time) (prayer.Month, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = false

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return prayer.NewMonth(nil), nil
		}
		return prayer.Month{}, fmt.Errorf("%w: header: %v", ErrParseCSV, err)
	}

	current := civil.DateTimeOf(now)
	days := make([]prayer.Day, 0, maxDays)

	for line := 2; ; line++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return prayer.Month{}, fmt.Errorf("%w: %v", ErrParseCSV, err)
		}

		rec, err := recordFromFields(fields)
		if err != nil {
			return prayer.Month{}, fmt.Errorf("row %d: %w", line, err)
		}

		day, err := rec.ToDay(current)
		if err != nil {
			return prayer.Month{}, fmt.Errorf("row %d: %w", line, err)
		}
		days = append(days, day)
	}

	return prayer.NewMonth(days), nil
}

// Package prayer holds the timetable domain model: prayers, days and months
// of naive local times as published by the prayer-times feed.
package prayer

import (
	"fmt"

	"cloud.google.com/go/civil"
)

// Prayer is a single prayer on a given day.
//
// Performed depends on the wall clock at the moment of use, so it is never
// written to the cache and is recomputed every time a month is loaded.
type Prayer struct {
	Kind      Kind       `yaml:"kind"`
	Time      civil.Time `yaml:"time"`
	Performed bool       `yaml:"-"`
}

func (p Prayer) String() string {
	return fmt.Sprintf("%s: %s", p.Kind, p.Time)
}

// Performed reports whether a prayer at (date, t) counts as performed at now.
// Earlier days are always performed, later days never are, and on the same
// day the prayer is performed once its time has been reached.
func Performed(now civil.DateTime, date civil.Date, t civil.Time) bool {
	switch {
	case date.Before(now.Date):
		return true
	case date.After(now.Date):
		return false
	default:
		return secondsOfDay(t) <= secondsOfDay(now.Time)
	}
}

func secondsOfDay(t civil.Time) int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

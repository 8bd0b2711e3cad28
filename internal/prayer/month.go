package prayer

import (
	"fmt"
	"iter"

	"cloud.google.com/go/civil"
	"gopkg.in/yaml.v3"
)

// Month is the ordered list of days returned by one feed response. Days keep
// the order the feed emitted them in. Lookups are linear scans; a month never
// has more than 31 entries.
//
// A Month is not safe for concurrent mutation.
type Month struct {
	days []Day
}

// NewMonth builds a Month from days in the given order.
func NewMonth(days []Day) Month {
	cp := make([]Day, len(days))
	copy(cp, days)
	return Month{days: cp}
}

// Len returns the number of days.
func (m Month) Len() int {
	return len(m.days)
}

// Days returns a copy of the days in order.
func (m Month) Days() []Day {
	cp := make([]Day, len(m.days))
	copy(cp, m.days)
	return cp
}

// All iterates over the days in order. The sequence can be ranged over any
// number of times.
func (m Month) All() iter.Seq[Day] {
	return func(yield func(Day) bool) {
		for _, d := range m.days {
			if !yield(d) {
				return
			}
		}
	}
}

// SelectByDate returns the day whose date equals date.
func (m Month) SelectByDate(date civil.Date) (Day, bool) {
	for _, d := range m.days {
		if d.Date == date {
			return d, true
		}
	}
	return Day{}, false
}

// Today returns the day matching now's date.
func (m Month) Today(now civil.DateTime) (Day, bool) {
	return m.SelectByOffset(now, 0)
}

// Tomorrow returns the day after now's date.
func (m Month) Tomorrow(now civil.DateTime) (Day, bool) {
	return m.SelectByOffset(now, 1)
}

// SelectByOffset returns the day offset days away from now's date.
func (m Month) SelectByOffset(now civil.DateTime, offset int) (Day, bool) {
	return m.SelectByDate(now.Date.AddDays(offset))
}

// UpdateDay replaces the day with the same date as day. It reports whether a
// day was replaced.
func (m *Month) UpdateDay(day Day) bool {
	for i := range m.days {
		if m.days[i].Date == day.Date {
			m.days[i] = day
			return true
		}
	}
	return false
}

// Reload recomputes the performed flags of every day against now.
func (m *Month) Reload(now civil.DateTime) {
	for i := range m.days {
		m.days[i].Refresh(now)
	}
}

// MarshalYAML encodes the month as a plain sequence of days.
func (m Month) MarshalYAML() (interface{}, error) {
	if m.days == nil {
		return []Day{}, nil
	}
	return m.days, nil
}

// UnmarshalYAML decodes a sequence of days. Performed flags are left unset;
// callers must Reload before use.
func (m *Month) UnmarshalYAML(value *yaml.Node) error {
	var days []Day
	if err := value.Decode(&days); err != nil {
		return err
	}
	for _, d := range days {
		for i, p := range d.Prayers() {
			if want := Kinds()[i]; p.Kind != want {
				return fmt.Errorf("day %s: %s slot holds %s", d.Date, want, p.Kind)
			}
		}
	}
	m.days = days
	return nil
}

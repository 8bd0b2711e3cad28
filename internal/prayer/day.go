package prayer

import (
	"cloud.google.com/go/civil"
)

// Day holds the five prayers of a single calendar date.
type Day struct {
	Date    civil.Date `yaml:"date"`
	Fajr    Prayer     `yaml:"fajr"`
	Dhuhr   Prayer     `yaml:"dhuhr"`
	Asr     Prayer     `yaml:"asr"`
	Maghrib Prayer     `yaml:"maghrib"`
	Isha    Prayer     `yaml:"isha"`
}

// NewDay builds a Day from the five prayer times in canonical order and
// tags each prayer with its performed status at now.
func NewDay(date civil.Date, fajr, dhuhr, asr, maghrib, isha civil.Time, now civil.DateTime) Day {
	d := Day{
		Date:    date,
		Fajr:    Prayer{Kind: Fajr, Time: fajr},
		Dhuhr:   Prayer{Kind: Dhuhr, Time: dhuhr},
		Asr:     Prayer{Kind: Asr, Time: asr},
		Maghrib: Prayer{Kind: Maghrib, Time: maghrib},
		Isha:    Prayer{Kind: Isha, Time: isha},
	}
	d.Refresh(now)
	return d
}

// Prayers returns the day's prayers in canonical order.
func (d Day) Prayers() []Prayer {
	return []Prayer{d.Fajr, d.Dhuhr, d.Asr, d.Maghrib, d.Isha}
}

// Prayer returns the prayer of the given kind.
func (d Day) Prayer(k Kind) (Prayer, bool) {
	p := d.slot(k)
	if p == nil {
		return Prayer{}, false
	}
	return *p, true
}

// SetPerformed marks the prayer of the given kind. It reports false for an
// unknown kind.
func (d *Day) SetPerformed(k Kind, performed bool) bool {
	p := d.slot(k)
	if p == nil {
		return false
	}
	p.Performed = performed
	return true
}

// NextPrayer returns the first prayer of the day that has not been performed.
func (d Day) NextPrayer() (Prayer, bool) {
	for _, p := range d.Prayers() {
		if !p.Performed {
			return p, true
		}
	}
	return Prayer{}, false
}

// Refresh recomputes every performed flag against now.
func (d *Day) Refresh(now civil.DateTime) {
	for _, k := range Kinds() {
		p := d.slot(k)
		p.Performed = Performed(now, d.Date, p.Time)
	}
}

func (d *Day) slot(k Kind) *Prayer {
	switch k {
	case Fajr:
		return &d.Fajr
	case Dhuhr:
		return &d.Dhuhr
	case Asr:
		return &d.Asr
	case Maghrib:
		return &d.Maghrib
	case Isha:
		return &d.Isha
	default:
		return nil
	}
}

package settings

import (
	"fmt"
	"sort"
)

// LatitudeMethod selects the high-latitude adjustment used by the feed.
type LatitudeMethod int

// PrayerMethod selects the organisation whose calculation the feed follows.
type PrayerMethod int

// AsrMethod selects the juristic school used for Asr.
type AsrMethod int

// The integer values are the codes sent to the feed. They are not ordinals;
// keep them in sync with the feed, never with declaration order.
const (
	OneSeventh LatitudeMethod = 3
	AngleBased LatitudeMethod = 4

	MWL  PrayerMethod = 1
	UIS  PrayerMethod = 3
	ISNA PrayerMethod = 5

	Shafi  AsrMethod = 1
	Hanafi AsrMethod = 2
)

// method tables: CLI name, wire code and a human readable description.
type methodInfo struct {
	Name        string
	Description string
}

var latitudeMethods = map[LatitudeMethod]methodInfo{
	OneSeventh: {"one-seventh", "One seventh of the night"},
	AngleBased: {"angle-based", "Angle based"},
}

var prayerMethods = map[PrayerMethod]methodInfo{
	MWL:  {"mwl", "Muslim World League"},
	UIS:  {"uis", "University of Islamic Sciences, Karachi"},
	ISNA: {"isna", "Islamic Society of North America"},
}

var asrMethods = map[AsrMethod]methodInfo{
	Shafi:  {"shafi", "Shafi'i, Maliki, Hanbali"},
	Hanafi: {"hanafi", "Hanafi"},
}

// Code returns the integer sent to the feed.
func (m LatitudeMethod) Code() int { return int(m) }

// Code returns the integer sent to the feed.
func (m PrayerMethod) Code() int { return int(m) }

// Code returns the integer sent to the feed.
func (m AsrMethod) Code() int { return int(m) }

func (m LatitudeMethod) String() string { return nameOf(latitudeMethods, m) }
func (m PrayerMethod) String() string   { return nameOf(prayerMethods, m) }
func (m AsrMethod) String() string      { return nameOf(asrMethods, m) }

// ParseLatitudeMethod parses a CLI name such as "one-seventh".
func ParseLatitudeMethod(name string) (LatitudeMethod, error) {
	return parseName(latitudeMethods, "latitude method", name)
}

// ParsePrayerMethod parses a CLI name such as "mwl".
func ParsePrayerMethod(name string) (PrayerMethod, error) {
	return parseName(prayerMethods, "prayer method", name)
}

// ParseAsrMethod parses a CLI name such as "shafi".
func ParseAsrMethod(name string) (AsrMethod, error) {
	return parseName(asrMethods, "asr method", name)
}

func (m LatitudeMethod) MarshalText() ([]byte, error) { return marshalName(latitudeMethods, m) }
func (m PrayerMethod) MarshalText() ([]byte, error)   { return marshalName(prayerMethods, m) }
func (m AsrMethod) MarshalText() ([]byte, error)      { return marshalName(asrMethods, m) }

func (m *LatitudeMethod) UnmarshalText(text []byte) error {
	v, err := ParseLatitudeMethod(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (m *PrayerMethod) UnmarshalText(text []byte) error {
	v, err := ParsePrayerMethod(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (m *AsrMethod) UnmarshalText(text []byte) error {
	v, err := ParseAsrMethod(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MethodEntry describes one selectable method for listings.
type MethodEntry struct {
	Code        int
	Name        string
	Description string
}

// LatitudeMethods lists every latitude method ordered by code.
func LatitudeMethods() []MethodEntry { return entries(latitudeMethods) }

// PrayerMethods lists every prayer calculation method ordered by code.
func PrayerMethods() []MethodEntry { return entries(prayerMethods) }

// AsrMethods lists every Asr method ordered by code.
func AsrMethods() []MethodEntry { return entries(asrMethods) }

func nameOf[M ~int](table map[M]methodInfo, m M) string {
	if info, ok := table[m]; ok {
		return info.Name
	}
	return fmt.Sprintf("unknown(%d)", int(m))
}

func parseName[M ~int](table map[M]methodInfo, kind, name string) (M, error) {
	for m, info := range table {
		if info.Name == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown %s %q", ErrInvalid, kind, name)
}

func marshalName[M ~int](table map[M]methodInfo, m M) ([]byte, error) {
	info, ok := table[m]
	if !ok {
		return nil, fmt.Errorf("%w: unknown method code %d", ErrInvalid, int(m))
	}
	return []byte(info.Name), nil
}

func entries[M ~int](table map[M]methodInfo) []MethodEntry {
	out := make([]MethodEntry, 0, len(table))
	for m, info := range table {
		out = append(out, MethodEntry{Code: int(m), Name: info.Name, Description: info.Description})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

package prayer

import "fmt"

// Kind identifies one of the five daily prayers.
type Kind int

// Kinds in canonical (chronological) order.
const (
	Fajr Kind = iota
	Dhuhr
	Asr
	Maghrib
	Isha
)

var kindNames = map[Kind]string{
	Fajr:    "Fajr",
	Dhuhr:   "Dhuhr",
	Asr:     "Asr",
	Maghrib: "Maghrib",
	Isha:    "Isha",
}

// ShortNames maps prayer kinds to single-character abbreviations.
var ShortNames = map[Kind]string{
	Fajr:    "F",
	Dhuhr:   "D",
	Asr:     "A",
	Maghrib: "M",
	Isha:    "I",
}

// Kinds returns every prayer kind in canonical order.
func Kinds() []Kind {
	return []Kind{Fajr, Dhuhr, Asr, Maghrib, Isha}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind converts a prayer name such as "Asr" into a Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown prayer name: %s", name)
}

// MarshalText encodes the kind by name so cached files stay readable.
func (k Kind) MarshalText() ([]byte, error) {
	name, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown prayer kind %d", int(k))
	}
	return []byte(name), nil
}

// UnmarshalText decodes a kind from its name.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Package settings describes how a month of prayer times is requested: the
// calculation methods, the location and the month. A Settings value doubles
// as the cache fingerprint; the cache is valid only while the stored
// fingerprint equals the current one.
package settings

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
)

// DefaultBaseURL is the prayer-times site the CSV feed is served from.
const DefaultBaseURL = "https://www.salahtimes.com"

// ErrInvalid is returned for settings that cannot produce a valid request.
var ErrInvalid = errors.New("invalid prayer settings")

var validate = validator.New()

// CalculationMethods groups the three calculation choices sent to the feed.
type CalculationMethods struct {
	Latitude     LatitudeMethod `yaml:"latitude" validate:"oneof=3 4"`
	Organisation PrayerMethod   `yaml:"organisation" validate:"oneof=1 3 5"`
	Asr          AsrMethod      `yaml:"asr" validate:"oneof=1 2"`
}

// Location is the feed's country and city path segments, e.g. "uk", "bath".
type Location struct {
	Country string `yaml:"country" validate:"required"`
	City    string `yaml:"city" validate:"required"`
}

// Settings is the full request description and cache fingerprint.
//
// AudioDownloaded is part of the fingerprint. Freshly built settings always
// carry false, and the cache compares the stored copy against
// WithAudioDownloaded(), so a cache written before the adhan audio was
// downloaded never matches and forces a re-fetch.
type Settings struct {
	Methods         CalculationMethods `yaml:"methods"`
	Location        Location           `yaml:"location"`
	AudioDownloaded bool               `yaml:"is_audio_downloaded"`
	CurrentMonth    int                `yaml:"current_month" validate:"min=1,max=12"`
}

// New builds settings for the month containing now.
func New(methods CalculationMethods, loc Location, now time.Time) Settings {
	return Settings{
		Methods:      methods,
		Location:     loc,
		CurrentMonth: int(now.Month()),
	}
}

// WithAudioDownloaded returns a copy with the audio flag set.
func (s Settings) WithAudioDownloaded() Settings {
	s.AudioDownloaded = true
	return s
}

// WithMonth returns a copy targeting month.
func (s Settings) WithMonth(month int) Settings {
	s.CurrentMonth = month
	return s
}

// Equal reports whether every field of s and other matches.
func (s Settings) Equal(other Settings) bool {
	return s == other
}

// Validate checks that the settings can be turned into a feed request.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed %q (value %v)", ErrInvalid, fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Query builds the feed URL for the calendar month containing target. The
// range runs from the first to the last day of that month.
func (s Settings) Query(base string, target civil.Date) string {
	year, month := target.Year, int(target.Month)
	last := LastDayOfMonth(year, target.Month)

	return fmt.Sprintf(
		"%s/%s/%s/csv?highlatitudemethod=%d&prayercalculationmethod=%d&asarcalculationmethod=%d&start=%d-%d-01&end=%d-%d-%d",
		strings.TrimRight(base, "/"),
		url.PathEscape(s.Location.Country),
		url.PathEscape(s.Location.City),
		s.Methods.Latitude.Code(),
		s.Methods.Organisation.Code(),
		s.Methods.Asr.Code(),
		year, month,
		year, month, last,
	)
}

// LastDayOfMonth returns the number of days in the given month, accounting
// for leap years.
func LastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// TargetDate returns the first day of month in now's year, or of now's own
// month when month is zero.
func TargetDate(now time.Time, month int) civil.Date {
	if month == 0 {
		month = int(now.Month())
	}
	return civil.Date{Year: now.Year(), Month: time.Month(month), Day: 1}
}

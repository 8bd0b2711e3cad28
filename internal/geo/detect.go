// Package geo detects the user's country and city from their public IP so
// the timetable location can be filled in automatically.
package geo

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/goccy/go-json"
)

// Location is a detected place. Country and City are already in the form the
// timetable feed expects as path segments, e.g. "uk" and "bath".
type Location struct {
	Country     string  `yaml:"country" json:"country"`
	City        string  `yaml:"city" json:"city"`
	CountryName string  `yaml:"country_name" json:"country_name"`
	CityName    string  `yaml:"city_name" json:"city_name"`
	Latitude    float64 `yaml:"latitude" json:"latitude"`
	Longitude   float64 `yaml:"longitude" json:"longitude"`
	Timezone    string  `yaml:"timezone" json:"timezone"`
}

// ipAPIResponse maps the response from ip-api.com.
type ipAPIResponse struct {
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	Timezone    string  `json:"timezone"`
}

// geoAPIURL is a variable so that tests can point it at an httptest server.
var geoAPIURL = "http://ip-api.com/json/?fields=status,message,lat,lon,city,country,countryCode,timezone"

// countrySegments maps ISO country codes to the feed's country path segment
// where it differs from the slugged country name.
var countrySegments = map[string]string{
	"GB": "uk",
	"US": "usa",
	"AE": "uae",
}

// Detect uses ip-api.com to determine the user's location from their public
// IP address. The service requires no API key.
func Detect(ctx context.Context) (Location, error) {
	client := &http.Client{Timeout: 5 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, geoAPIURL, nil)
	if err != nil {
		return Location{}, fmt.Errorf("geolocation request failed: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("geolocation API returned status %d", resp.StatusCode)
	}

	var result ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Location{}, fmt.Errorf("failed to decode geolocation response: %w", err)
	}

	if result.Status != "success" {
		return Location{}, fmt.Errorf("geolocation failed: %s", result.Message)
	}

	return Location{
		Country:     CountrySegment(result.CountryCode, result.Country),
		City:        Slug(result.City),
		CountryName: result.Country,
		CityName:    result.City,
		Latitude:    result.Lat,
		Longitude:   result.Lon,
		Timezone:    result.Timezone,
	}, nil
}

// CountrySegment returns the feed path segment for a country.
func CountrySegment(code, name string) string {
	if seg, ok := countrySegments[strings.ToUpper(code)]; ok {
		return seg
	}
	return Slug(name)
}

// Slug lower-cases s and joins its words with hyphens: "New York" becomes
// "new-york". Punctuation is dropped.
func Slug(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			pendingDash = true
		}
	}
	return b.String()
}

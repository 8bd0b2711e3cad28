package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/smokyabdulrahman/adhan/internal/settings"
)

// tempConfigPath returns a path to a config file inside a temp directory.
func tempConfigPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.json")
}

// --- Defaults ---

func TestDefaults(t *testing.T) {
	d := Defaults()

	want := Config{
		Country:        "uk",
		City:           "bath",
		LatitudeMethod: "one-seventh",
		PrayerMethod:   "mwl",
		AsrMethod:      "shafi",
		TimeFormat:     "24h",
	}
	if d != want {
		t.Errorf("Defaults() = %+v, want %+v", d, want)
	}
}

func TestDefaults_Methods(t *testing.T) {
	m, err := Defaults().Methods()
	if err != nil {
		t.Fatalf("Methods() error: %v", err)
	}
	if m.Latitude != settings.OneSeventh || m.Organisation != settings.MWL || m.Asr != settings.Shafi {
		t.Errorf("Methods() = %+v", m)
	}
}

// --- Dir and Path with XDG ---

func TestDir_XDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	want := filepath.Join("/tmp/xdg-test", "adhan")
	if got := Dir(); got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
}

func TestPath_XDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")

	want := filepath.Join("/tmp/xdg-test", "adhan", "config.json")
	if got := Path(); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestDir_Fallback(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	if got := Dir(); filepath.Base(got) != "adhan" || !filepath.IsAbs(got) {
		t.Errorf("Dir() = %q, want an absolute path ending in adhan", got)
	}
}

// --- LoadFrom ---

func TestLoadFrom_NonExistentFile(t *testing.T) {
	cfg, err := LoadFrom("/no/such/file.json")
	if err != nil {
		t.Fatalf("LoadFrom non-existent should not error, got: %v", err)
	}
	if *cfg != (Config{}) {
		t.Errorf("LoadFrom non-existent = %+v, want empty", *cfg)
	}
}

func TestLoadFrom_ValidJSON(t *testing.T) {
	path := tempConfigPath(t)
	content := `{"country": "uk", "city": "london", "prayer_method": "isna", "time_format": "12h"}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}
	if cfg.City != "london" {
		t.Errorf("City = %q, want %q", cfg.City, "london")
	}
	if cfg.PrayerMethod != "isna" {
		t.Errorf("PrayerMethod = %q, want %q", cfg.PrayerMethod, "isna")
	}
	if cfg.TimeFormat != "12h" {
		t.Errorf("TimeFormat = %q, want %q", cfg.TimeFormat, "12h")
	}
}

func TestLoadFrom_InvalidJSON(t *testing.T) {
	path := tempConfigPath(t)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if !strings.Contains(err.Error(), "invalid config file") {
		t.Errorf("error = %v, want it to mention the invalid file", err)
	}
}

// --- SaveTo / ResetAt ---

func TestSaveTo_CreatesDirectoryAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.json")
	cfg := &Config{City: "bath"}

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("saved file should end with a newline")
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("saved file is not valid JSON: %v", err)
	}
	if len(got) != 1 || got["city"] != "bath" {
		t.Errorf("saved JSON = %v, want only city", got)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := tempConfigPath(t)
	original := Defaults()
	original.OutputDevice = "hw:1,0"
	original.DocumentsDir = "/srv/adhan"

	if err := original.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}
	if *loaded != original {
		t.Errorf("round trip = %+v, want %+v", *loaded, original)
	}
}

func TestResetAt(t *testing.T) {
	path := tempConfigPath(t)
	if err := (&Config{City: "bath"}).SaveTo(path); err != nil {
		t.Fatal(err)
	}

	if err := ResetAt(path); err != nil {
		t.Fatalf("ResetAt error: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("config file should be deleted")
	}
	if err := ResetAt(path); err != nil {
		t.Errorf("ResetAt on a missing file should not error, got: %v", err)
	}
}

// --- Set / Get ---

func TestSet_Valid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"country", "usa"},
		{"city", "new-york"},
		{"latitude_method", "angle-based"},
		{"prayer_method", "uis"},
		{"asr_method", "hanafi"},
		{"output_device", "default"},
		{"documents_dir", "/tmp/docs"},
		{"cache_dir", "/tmp/cache"},
		{"time_format", "12h"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			var cfg Config
			if err := cfg.Set(tt.key, tt.value); err != nil {
				t.Fatalf("Set(%q, %q) error: %v", tt.key, tt.value, err)
			}
			got, err := cfg.Get(tt.key)
			if err != nil {
				t.Fatalf("Get(%q) error: %v", tt.key, err)
			}
			if got != tt.value {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.value)
			}
		})
	}
}

func TestSet_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"latitude_method", "middle-of-night"},
		{"prayer_method", "jafari"},
		{"asr_method", "3"},
		{"time_format", "36h"},
		{"country", "  "},
		{"city", ""},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			var cfg Config
			if err := cfg.Set(tt.key, tt.value); err == nil {
				t.Errorf("Set(%q, %q) should fail", tt.key, tt.value)
			}
		})
	}
}

func TestSet_MethodErrorWrapsInvalid(t *testing.T) {
	var cfg Config
	err := cfg.Set("prayer_method", "jafari")
	if !errors.Is(err, settings.ErrInvalid) {
		t.Errorf("error = %v, want settings.ErrInvalid", err)
	}
}

func TestSetGet_UnknownKey(t *testing.T) {
	var cfg Config
	if err := cfg.Set("latitude", "51.5"); err == nil || !strings.Contains(err.Error(), "valid keys") {
		t.Errorf("Set unknown key error = %v, want list of valid keys", err)
	}
	if _, err := cfg.Get("method"); err == nil {
		t.Error("Get unknown key should fail")
	}
}

func TestValidKeys_AllAddressable(t *testing.T) {
	var cfg Config
	for _, key := range ValidKeys {
		if _, ok := cfg.field(key); !ok {
			t.Errorf("ValidKeys entry %q has no field", key)
		}
	}
}

// --- Environment ---

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"ADHAN_CITY":          "london",
		"ADHAN_PRAYER_METHOD": "isna",
		"ADHAN_TIME_FORMAT":   "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Defaults()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv error: %v", err)
	}
	if cfg.City != "london" {
		t.Errorf("City = %q, want %q", cfg.City, "london")
	}
	if cfg.PrayerMethod != "isna" {
		t.Errorf("PrayerMethod = %q, want %q", cfg.PrayerMethod, "isna")
	}
	if cfg.TimeFormat != "24h" {
		t.Errorf("empty variable should not override, TimeFormat = %q", cfg.TimeFormat)
	}
	if cfg.Country != "uk" {
		t.Errorf("unset variable should not override, Country = %q", cfg.Country)
	}
}

func TestApplyEnv_InvalidValue(t *testing.T) {
	lookup := func(k string) (string, bool) {
		if k == "ADHAN_ASR_METHOD" {
			return "maliki", true
		}
		return "", false
	}
	cfg := Defaults()
	err := cfg.ApplyEnv(lookup)
	if err == nil || !strings.Contains(err.Error(), "ADHAN_ASR_METHOD") {
		t.Errorf("error = %v, want it to name the variable", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("ADHAN_COUNTRY=france\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ADHAN_COUNTRY", "")
	os.Unsetenv("ADHAN_COUNTRY")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv error: %v", err)
	}
	if got := os.Getenv("ADHAN_COUNTRY"); got != "france" {
		t.Errorf("ADHAN_COUNTRY = %q, want %q", got, "france")
	}
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing .env should be ignored, got: %v", err)
	}
}

// --- Derived values ---

func TestWithDefaults(t *testing.T) {
	cfg := Config{City: "london", AsrMethod: "hanafi"}.WithDefaults()

	if cfg.City != "london" || cfg.AsrMethod != "hanafi" {
		t.Errorf("set values must be kept: %+v", cfg)
	}
	if cfg.Country != "uk" || cfg.PrayerMethod != "mwl" || cfg.TimeFormat != "24h" {
		t.Errorf("unset values must be defaulted: %+v", cfg)
	}
	if cfg.OutputDevice != "" {
		t.Errorf("OutputDevice has no default, got %q", cfg.OutputDevice)
	}
}

func TestTimeLayout(t *testing.T) {
	if got := (Config{TimeFormat: "12h"}).TimeLayout(); got != "3:04 PM" {
		t.Errorf("12h layout = %q", got)
	}
	if got := (Config{}).TimeLayout(); got != "15:04" {
		t.Errorf("default layout = %q", got)
	}
}

func TestLocation(t *testing.T) {
	loc := Config{Country: "uk", City: "bath"}.Location()
	if loc != (settings.Location{Country: "uk", City: "bath"}) {
		t.Errorf("Location() = %+v", loc)
	}
}

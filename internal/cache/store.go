// Package cache persists the fetched month, the settings it was fetched with
// and the adhan audio, and decides when the cached copy can be reused.
//
// Two roots are used: the documents root holds user-facing files
// (current_month.yaml, adhan.mp3, exported timetables) and the cache root
// holds the hidden settings fingerprint and the geolocation cache.
package cache

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/civil"
	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/smokyabdulrahman/adhan/internal/geo"
	"github.com/smokyabdulrahman/adhan/internal/prayer"
	"github.com/smokyabdulrahman/adhan/internal/settings"
)

const (
	appDirName   = "adhan"
	monthFile    = "current_month.yaml"
	settingsFile = ".current_settings.yaml"
	audioFile    = "adhan.mp3"
	geoCacheFile = "geolocation.yaml"
	geoTTL       = 24 * time.Hour
)

var (
	// ErrSerialize is returned when a value cannot be encoded for the cache.
	ErrSerialize = errors.New("cache serialize failed")
	// ErrDeserialize is returned when a cache file cannot be decoded.
	ErrDeserialize = errors.New("cache deserialize failed")
	// ErrFileSystem is returned for directory and file failures.
	ErrFileSystem = errors.New("cache file system error")
)

// Store reads and writes the cache files.
type Store struct {
	documentsDir string
	cacheDir     string
	logger       zerolog.Logger
}

// geoEntry stores a detected location with the moment it was cached.
type geoEntry struct {
	Location geo.Location `yaml:"location"`
	CachedAt time.Time    `yaml:"cached_at"`
}

// DefaultDirs returns the documents and cache roots for this platform.
func DefaultDirs() (documents, cache string) {
	docs := xdg.UserDirs.Documents
	if docs == "" {
		docs = appDirName
	} else {
		docs = filepath.Join(docs, appDirName)
	}
	return docs, filepath.Join(xdg.CacheHome, appDirName)
}

// NewStore creates a Store. Empty directories fall back to DefaultDirs.
// Directories are created lazily on first write.
func NewStore(documentsDir, cacheDir string, logger zerolog.Logger) *Store {
	defDocs, defCache := DefaultDirs()
	if documentsDir == "" {
		documentsDir = defDocs
	}
	if cacheDir == "" {
		cacheDir = defCache
	}
	return &Store{documentsDir: documentsDir, cacheDir: cacheDir, logger: logger}
}

// DocumentsDir returns the documents root.
func (s *Store) DocumentsDir() string { return s.documentsDir }

// CacheDir returns the cache root.
func (s *Store) CacheDir() string { return s.cacheDir }

// MonthPath returns the path of the cached month.
func (s *Store) MonthPath() string { return filepath.Join(s.documentsDir, monthFile) }

// SettingsPath returns the path of the settings fingerprint.
func (s *Store) SettingsPath() string { return filepath.Join(s.cacheDir, settingsFile) }

// AudioPath returns the path of the adhan recording.
func (s *Store) AudioPath() string { return filepath.Join(s.documentsDir, audioFile) }

// LoadMonth reads the cached month and recomputes every performed flag
// against now.
func (s *Store) LoadMonth(now civil.DateTime) (prayer.Month, error) {
	var m prayer.Month
	if err := s.readYAML(s.MonthPath(), &m); err != nil {
		return prayer.Month{}, err
	}
	m.Reload(now)
	return m, nil
}

// SaveMonth writes the month to the documents root.
func (s *Store) SaveMonth(m prayer.Month) error {
	return s.writeYAML(s.documentsDir, monthFile, m)
}

// LoadSettings reads the stored settings fingerprint.
func (s *Store) LoadSettings() (settings.Settings, error) {
	var st settings.Settings
	if err := s.readYAML(s.SettingsPath(), &st); err != nil {
		return settings.Settings{}, err
	}
	return st, nil
}

// SaveSettings writes the settings fingerprint to the cache root.
func (s *Store) SaveSettings(st settings.Settings) error {
	return s.writeYAML(s.cacheDir, settingsFile, st)
}

// SaveAudio writes the adhan recording verbatim.
func (s *Store) SaveAudio(data []byte) error {
	return s.WriteDocument(audioFile, data)
}

// HasAudio reports whether a non-empty adhan recording is on disk.
func (s *Store) HasAudio() bool {
	info, err := os.Stat(s.AudioPath())
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}

// WriteDocument writes a raw file under the documents root.
func (s *Store) WriteDocument(name string, data []byte) error {
	return s.writeFile(s.documentsDir, name, data)
}

// LoadGeo returns the cached location if it is younger than 24 hours.
func (s *Store) LoadGeo(now time.Time) (geo.Location, bool) {
	var entry geoEntry
	if err := s.readYAML(filepath.Join(s.cacheDir, geoCacheFile), &entry); err != nil {
		return geo.Location{}, false
	}
	if now.Sub(entry.CachedAt) > geoTTL {
		return geo.Location{}, false
	}
	return entry.Location, true
}

// SaveGeo caches a detected location.
func (s *Store) SaveGeo(loc geo.Location, now time.Time) error {
	return s.writeYAML(s.cacheDir, geoCacheFile, geoEntry{Location: loc, CachedAt: now})
}

// Clear removes both roots and everything in them. Missing roots are not an
// error.
func (s *Store) Clear() error {
	for _, dir := range []string{s.documentsDir, s.cacheDir} {
		s.logger.Debug().Str("path", dir).Msg("removing directory")
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("%w: remove %s: %v", ErrFileSystem, dir, err)
		}
	}
	return nil
}

func (s *Store) readYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrFileSystem, path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w: %s: empty document", ErrDeserialize, path)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDeserialize, path, err)
	}
	return nil
}

func (s *Store) writeYAML(dir, name string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSerialize, name, err)
	}
	return s.writeFile(dir, name, data)
}

func (s *Store) writeFile(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create directory %s: %v", ErrFileSystem, dir, err)
	}

	path := filepath.Join(dir, name)
	s.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("writing file")

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrFileSystem, path, err)
	}
	return nil
}

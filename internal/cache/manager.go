package cache

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/adhan/internal/feed"
	"github.com/smokyabdulrahman/adhan/internal/prayer"
	"github.com/smokyabdulrahman/adhan/internal/settings"
)

// Fetcher downloads the remote timetable and audio.
type Fetcher interface {
	FetchMonth(ctx context.Context, s settings.Settings, target civil.Date) ([]byte, error)
	FetchAudio(ctx context.Context) ([]byte, error)
}

// Manager decides whether the cached month can be reused and re-fetches it
// when it cannot.
type Manager struct {
	store   *Store
	fetcher Fetcher
	// SkipAudio disables downloading the adhan recording on re-fetch.
	SkipAudio bool
}

// NewManager creates a Manager over store and fetcher.
func NewManager(store *Store, fetcher Fetcher) *Manager {
	return &Manager{store: store, fetcher: fetcher}
}

// Store returns the underlying store.
func (m *Manager) Store() *Store { return m.store }

// PrayerTimes returns the month for s.
//
// A non-zero month always re-fetches that month of now's year. Otherwise the
// cached month is returned when the stored fingerprint equals
// s.WithAudioDownloaded() and the month file decodes; every other case
// re-fetches the current month. Unreadable cache files count as a miss.
//
// When the fetch succeeds but persisting fails, the parsed month is returned
// together with the write error.
func (m *Manager) PrayerTimes(ctx context.Context, s settings.Settings, month int, now time.Time) (prayer.Month, error) {
	logger := zerolog.Ctx(ctx)

	if month != 0 {
		logger.Debug().Int("month", month).Msg("explicit month requested, fetching")
		return m.fetch(ctx, s.WithMonth(month), settings.TargetDate(now, month), now)
	}

	if cached, ok := m.cached(ctx, s, now); ok {
		return cached, nil
	}
	return m.fetch(ctx, s, settings.TargetDate(now, 0), now)
}

func (m *Manager) cached(ctx context.Context, s settings.Settings, now time.Time) (prayer.Month, bool) {
	logger := zerolog.Ctx(ctx)

	stored, err := m.store.LoadSettings()
	if err != nil {
		logger.Debug().Err(err).Msg("no usable settings fingerprint")
		return prayer.Month{}, false
	}
	if !stored.Equal(s.WithAudioDownloaded()) {
		logger.Debug().Msg("settings changed since last fetch")
		return prayer.Month{}, false
	}

	month, err := m.store.LoadMonth(civil.DateTimeOf(now))
	if err != nil {
		logger.Debug().Err(err).Msg("no usable cached month")
		return prayer.Month{}, false
	}

	logger.Debug().Int("days", month.Len()).Msg("using cached month")
	return month, true
}

func (m *Manager) fetch(ctx context.Context, s settings.Settings, target civil.Date, now time.Time) (prayer.Month, error) {
	if err := s.Validate(); err != nil {
		return prayer.Month{}, err
	}

	body, err := m.fetcher.FetchMonth(ctx, s, target)
	if err != nil {
		return prayer.Month{}, fmt.Errorf("fetch timetable: %w", err)
	}

	month, err := feed.Parse(bytes.NewReader(body), now)
	if err != nil {
		return prayer.Month{}, fmt.Errorf("parse timetable: %w", err)
	}

	var audio []byte
	if !m.SkipAudio && !m.store.HasAudio() {
		audio, err = m.fetcher.FetchAudio(ctx)
		if err != nil {
			return prayer.Month{}, fmt.Errorf("fetch adhan: %w", err)
		}
	}

	if err := m.persist(month, audio, s); err != nil {
		return month, err
	}
	return month, nil
}

// persist writes each artifact independently; the first failure stops the
// rest without undoing earlier writes.
func (m *Manager) persist(month prayer.Month, audio []byte, s settings.Settings) error {
	if audio != nil {
		if err := m.store.SaveAudio(audio); err != nil {
			return err
		}
	}
	if err := m.store.SaveMonth(month); err != nil {
		return err
	}
	if m.store.HasAudio() {
		s = s.WithAudioDownloaded()
	}
	return m.store.SaveSettings(s)
}

// UpdateDay replaces the cached day matching day's date and writes the month
// back. Performed flags are not part of the file, so this only refreshes the
// times on disk; performed state is always recomputed from the clock on load
// and does not survive a restart on its own.
func (m *Manager) UpdateDay(day prayer.Day, now time.Time) error {
	month, err := m.store.LoadMonth(civil.DateTimeOf(now))
	if err != nil {
		return fmt.Errorf("load timetable: %w", err)
	}
	if !month.UpdateDay(day) {
		return fmt.Errorf("no cached day for %s", day.Date)
	}
	return m.store.SaveMonth(month)
}

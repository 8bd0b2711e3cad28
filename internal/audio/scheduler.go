package audio

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/adhan/internal/prayer"
)

// Clock abstracts the wall clock so the scheduler can be driven in tests.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time { return time.Now() }

// After waits for d on the real clock.
func (RealClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// DayUpdater persists a day after one of its prayers has been played.
type DayUpdater interface {
	UpdateDay(day prayer.Day, now time.Time) error
}

// Scheduler waits for each pending prayer of a day and plays the adhan.
type Scheduler struct {
	Player    *Player
	Updater   DayUpdater
	Clock     Clock
	AudioPath string
	Out       io.Writer
	Tick      time.Duration
}

// Run plays the adhan at every prayer of day that has not been performed,
// in order, marking each performed and persisting the day afterwards. It
// returns once every prayer is performed. Cancelling ctx stops the wait
// between prayers but never an adhan that is already playing.
func (s *Scheduler) Run(ctx context.Context, day prayer.Day) error {
	logger := zerolog.Ctx(ctx)
	tick := s.Tick
	if tick <= 0 {
		tick = time.Second
	}

	for {
		next, ok := day.NextPrayer()
		if !ok {
			logger.Debug().Stringer("date", day.Date).Msg("all prayers performed")
			return nil
		}
		at := civil.DateTime{Date: day.Date, Time: next.Time}

		for {
			now := civil.DateTimeOf(s.Clock.Now())
			fmt.Fprintf(s.Out, "Time now is %02d:%02d:%02d. [%s] starts at %s\r",
				now.Time.Hour, now.Time.Minute, now.Time.Second, next.Kind, prayer.FormatClock(next.Time, "15:04"))
			if !now.Before(at) {
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-s.Clock.After(tick):
			}
		}

		logger.Info().Stringer("prayer", next.Kind).Msg("playing adhan")
		if err := s.Player.Play(s.AudioPath, next.Kind.String()); err != nil {
			return fmt.Errorf("play %s: %w", next.Kind, err)
		}

		day.SetPerformed(next.Kind, true)
		if err := s.Updater.UpdateDay(day, s.Clock.Now()); err != nil {
			return fmt.Errorf("save %s: %w", day.Date, err)
		}
	}
}

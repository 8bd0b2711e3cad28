// Package audio plays the adhan recording and schedules it at each of the
// day's prayer times.
package audio

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hajimehoshi/go-mp3"
	"github.com/hajimehoshi/oto/v2"
	"github.com/rs/zerolog"
)

// ErrAudio is returned when the recording cannot be decoded or played.
var ErrAudio = errors.New("audio playback failed")

// Backend plays one file to completion.
type Backend interface {
	Play(path string) error
}

// oto allows a single context per process, fixed to the first sample rate.
var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoRate int
	otoErr  error
)

func otoContext(sampleRate int) (*oto.Context, error) {
	otoOnce.Do(func() {
		ctx, ready, err := oto.NewContext(sampleRate, 2, oto.FormatSignedInt16LE)
		if err != nil {
			otoErr = err
			return
		}
		<-ready
		otoCtx, otoRate = ctx, sampleRate
	})
	if otoErr != nil {
		return nil, fmt.Errorf("%w: open output: %v", ErrAudio, otoErr)
	}
	if otoRate != sampleRate {
		return nil, fmt.Errorf("%w: output opened at %d Hz, file is %d Hz", ErrAudio, otoRate, sampleRate)
	}
	return otoCtx, nil
}

// OtoBackend decodes MP3 with go-mp3 and plays it on the default output.
type OtoBackend struct {
	logger zerolog.Logger
}

// NewOtoBackend returns a backend for the system's default output. A named
// device cannot be selected through oto; a non-empty device is logged and
// ignored.
func NewOtoBackend(device string, logger zerolog.Logger) *OtoBackend {
	if device != "" {
		logger.Warn().Str("device", device).Msg("output device selection is not supported, using the default device")
	}
	return &OtoBackend{logger: logger}
}

// Play blocks until the whole file has been played.
func (b *OtoBackend) Play(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrAudio, path, err)
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrAudio, path, err)
	}

	ctx, err := otoContext(dec.SampleRate())
	if err != nil {
		return err
	}

	b.logger.Debug().Str("path", path).Int("sample_rate", dec.SampleRate()).Int64("bytes", dec.Length()).Msg("playing")

	player := ctx.NewPlayer(dec)
	defer player.Close()

	player.Play()
	for player.IsPlaying() {
		time.Sleep(100 * time.Millisecond)
	}
	if err := player.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrAudio, err)
	}
	return nil
}

package audio

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"
)

// DefaultInterval is how often the player redraws its progress line.
const DefaultInterval = time.Second

// Player runs a Backend on its own goroutine and renders a progress line
// until the backend finishes.
type Player struct {
	backend  Backend
	out      io.Writer
	Interval time.Duration
}

// NewPlayer returns a Player drawing progress to out.
func NewPlayer(backend Backend, out io.Writer) *Player {
	return &Player{backend: backend, out: out, Interval: DefaultInterval}
}

// Play plays path and blocks until playback ends. label names what is
// playing in the progress line. Playback cannot be interrupted once started.
func (p *Player) Play(path, label string) error {
	var playing atomic.Bool
	playing.Store(true)

	done := make(chan error, 1)
	go func() {
		err := p.backend.Play(path)
		playing.Store(false)
		done <- err
	}()

	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	clearLine(p.out)
	for frame := 0; playing.Load(); frame++ {
		fmt.Fprintf(p.out, "%s is starting%-3s\r", label, strings.Repeat(".", frame%3+1))
		time.Sleep(interval)
	}
	clearLine(p.out)

	return <-done
}

func clearLine(w io.Writer) {
	fmt.Fprintf(w, "%-64s\r", "")
}

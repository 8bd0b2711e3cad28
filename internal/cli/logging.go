package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

func init() {
	zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
		return filepath.Base(file) + ":" + strconv.Itoa(line)
	}
}

// newLogger returns a console logger on w. An empty level means warn.
func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl := zerolog.WarnLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	return zerolog.New(out).Level(lvl).With().Timestamp().Caller().Logger(), nil
}

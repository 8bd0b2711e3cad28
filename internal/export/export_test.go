package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokyabdulrahman/adhan/internal/cache"
	"github.com/smokyabdulrahman/adhan/internal/prayer"
)

func juneDays(n int) prayer.Month {
	now := civil.DateTime{Date: civil.Date{Year: 2022, Month: time.June, Day: 1}}
	days := make([]prayer.Day, 0, n)
	for i := 1; i <= n; i++ {
		days = append(days, prayer.NewDay(
			civil.Date{Year: 2022, Month: time.June, Day: i},
			civil.Time{Hour: 2, Minute: 58},
			civil.Time{Hour: 13, Minute: 13},
			civil.Time{Hour: 17, Minute: 30},
			civil.Time{Hour: 21, Minute: 27},
			civil.Time{Hour: 23, Minute: 5},
			now,
		))
	}
	return prayer.NewMonth(days)
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, " 2:58", FormatTime(civil.Time{Hour: 2, Minute: 58}))
	assert.Equal(t, "13:05", FormatTime(civil.Time{Hour: 13, Minute: 5}))
	assert.Equal(t, "Wednesday, 01", FormatDate(civil.Date{Year: 2022, Month: time.June, Day: 1}))
	assert.Equal(t, "Jun 2022", FormatHeader(civil.Date{Year: 2022, Month: time.June, Day: 15}))
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, juneDays(3), civil.Date{Year: 2022, Month: time.June, Day: 2}))
	out := buf.String()

	assert.Contains(t, out, "<title>Adhan - Prayer Time Collector</title>")
	assert.Contains(t, out, `<link rel="stylesheet" href="current_month.css">`)
	assert.Contains(t, out, `<th class="tg-baqh">Jun 2022</th>`)
	for _, name := range []string{"Fajr", "Dhuhr", "Asr", "Maghrib", "Isha"} {
		assert.Contains(t, out, `<th class="tg-baqh">`+name+`</th>`)
	}
	assert.Contains(t, out, `<td class="tg-baqh">Friday, 03</td>`)
	assert.Contains(t, out, `<td class="tg-baqh">23:05</td>`)

	assert.Equal(t, 3, strings.Count(out, "<td class=\"tg-baqh\"> 2:58</td>"))
	assert.Equal(t, 4, strings.Count(out, "<tr>"), "one header row plus one row per day")
}

func TestRender_EmptyMonth(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, prayer.NewMonth(nil), civil.Date{Year: 2022, Month: time.June, Day: 1}))
	assert.Equal(t, 1, strings.Count(buf.String(), "<tr>"))
}

func TestGenerate_SelectsStylesheet(t *testing.T) {
	header := civil.Date{Year: 2022, Month: time.June, Day: 1}

	_, css, err := Generate(juneDays(1), header, true)
	require.NoError(t, err)
	assert.Contains(t, string(css), "background-color:#409cff")

	_, css, err = Generate(juneDays(1), header, false)
	require.NoError(t, err)
	assert.Contains(t, string(css), ".tg td {}")
	assert.NotContains(t, string(css), "background-color")
}

func TestWrite(t *testing.T) {
	root := t.TempDir()
	store := cache.NewStore(filepath.Join(root, "docs"), filepath.Join(root, "cache"), zerolog.Nop())

	htmlPath, cssPath, err := Write(store, juneDays(30), civil.Date{Year: 2022, Month: time.June, Day: 1}, true)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "docs", "current_month.html"), htmlPath)
	assert.Equal(t, filepath.Join(root, "docs", "current_month.css"), cssPath)

	html, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Equal(t, 31, strings.Count(string(html), "<tr>"))

	css, err := os.ReadFile(cssPath)
	require.NoError(t, err)
	assert.Equal(t, DefaultCSS, css)
}

func TestWrite_FileSystemError(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	store := cache.NewStore(filepath.Join(blocker, "docs"), filepath.Join(root, "cache"), zerolog.Nop())

	_, _, err := Write(store, juneDays(1), civil.Date{Year: 2022, Month: time.June, Day: 1}, false)
	assert.True(t, errors.Is(err, cache.ErrFileSystem), "got %v", err)
}

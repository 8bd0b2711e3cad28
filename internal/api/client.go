package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/smokyabdulrahman/adhan/internal/settings"
)

// DefaultAudioURL is the adhan recording played at prayer times.
const DefaultAudioURL = "https://media.sd.ma/assabile/adhan_3435370/8c052a5edec1.mp3"

// ErrNetwork is returned when a request fails or the server does not answer
// with 200 OK.
var ErrNetwork = errors.New("network request failed")

// Client downloads the monthly CSV timetable and the adhan audio.
type Client struct {
	httpClient *http.Client
	// BaseURL is the prayer-times site. Exported for testing with httptest.
	BaseURL string
	// AudioURL is the adhan MP3 location.
	AudioURL string
	// Progress receives transient "label... N KiB" updates when non-nil.
	Progress io.Writer
}

// NewClient creates a new API client with sensible defaults.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		BaseURL:  settings.DefaultBaseURL,
		AudioURL: DefaultAudioURL,
	}
}

// FetchMonth downloads the CSV timetable for the month containing target.
func (c *Client) FetchMonth(ctx context.Context, s settings.Settings, target civil.Date) ([]byte, error) {
	return c.download(ctx, s.Query(c.BaseURL, target), "Downloading times")
}

// FetchAudio downloads the adhan recording.
func (c *Client) FetchAudio(ctx context.Context) ([]byte, error) {
	return c.download(ctx, c.AudioURL, "Downloading adhan")
}

func (c *Client) download(ctx context.Context, url, label string) ([]byte, error) {
	logger := zerolog.Ctx(ctx).With().Str("url", url).Logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrNetwork, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: server returned status %d: %s", ErrNetwork, resp.StatusCode, string(body))
	}

	var body io.Reader = resp.Body
	if c.Progress != nil {
		body = &progressReader{r: resp.Body, w: c.Progress, label: label}
	}

	data, err := io.ReadAll(body)
	if c.Progress != nil {
		fmt.Fprintf(c.Progress, "%-48s\r", "")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrNetwork, err)
	}

	logger.Debug().Int("bytes", len(data)).Dur("took", time.Since(start)).Msg("download finished")
	return data, nil
}

// progressReader reports how much of a response body has been read.
type progressReader struct {
	r     io.Reader
	w     io.Writer
	label string
	read  int64
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	fmt.Fprintf(p.w, "%s... %d KiB\r", p.label, p.read/1024)
	return n, err
}

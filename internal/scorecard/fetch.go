package scorecard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// FetchTimeout bounds a single image download.
const FetchTimeout = 15 * time.Second

// MaxRedirects is how many redirects a download follows before giving up.
const MaxRedirects = 5

// Downloader retrieves an image by URL.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// HTTPDownloader downloads images with fiber's HTTP client.
type HTTPDownloader struct {
	Timeout time.Duration
}

// Download GETs url and returns the body of a 2xx response.
func (d HTTPDownloader) Download(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = FetchTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	agent := fiber.Get(url)
	agent.Timeout(timeout)
	agent.MaxRedirectsCount(MaxRedirects)
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return nil, fmt.Errorf("build image request: %w", err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("download %s: %w", url, errors.Join(errs...))
	}
	if code < 200 || code > 299 {
		return nil, fmt.Errorf("download %s: status %d", url, code)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("download %s: empty body", url)
	}
	return body, nil
}

// Package courseapi fetches full course documents (holes, tees, ratings) from the
// external golf course API.
package courseapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DefaultTimeout bounds a single fetch when the context has no earlier deadline.
const DefaultTimeout = 10 * time.Second

const maxRedirects = 5

// ErrEmptyDocument is returned when the API answers 2xx with no course data.
var ErrEmptyDocument = errors.New("empty course document")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("course api returned %d: %s", e.Code, e.Body)
}

// Fetcher is what the courses handler depends on.
type Fetcher interface {
	Fetch(ctx context.Context, apiKey, externalID string) (map[string]any, error)
}

// Client calls the API over HTTP.
type Client struct {
	baseURL string
	timeout time.Duration
}

// New returns a Client. The external id is appended to baseURL as is, so baseURL
// should end with "/".
func New(baseURL string) *Client {
	return &Client{baseURL: baseURL, timeout: DefaultTimeout}
}

// Fetch GETs baseURL+externalID with the key in the Authorization header and returns the
// decoded document.
func (c *Client) Fetch(ctx context.Context, apiKey, externalID string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch course %s: %w", externalID, err)
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	agent := fiber.Get(c.baseURL + externalID)
	agent.Set(fiber.HeaderAuthorization, apiKey)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	agent.Timeout(timeout)
	agent.MaxRedirectsCount(maxRedirects)
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return nil, fmt.Errorf("build course request: %w", err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("fetch course %s: %w", externalID, errors.Join(errs...))
	}
	if code < 200 || code > 299 {
		return nil, &StatusError{Code: code, Body: string(body)}
	}

	var doc map[string]any
	if len(body) > 0 {
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, fmt.Errorf("decode course %s: %w", externalID, err)
		}
	}
	if len(doc) == 0 {
		return nil, ErrEmptyDocument
	}
	return doc, nil
}

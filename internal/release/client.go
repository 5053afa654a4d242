package release

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/oshokin/thorium-updater/internal/logger"
	"github.com/oshokin/thorium-updater/internal/version"
)

var (
	// ErrNoReleases is returned when the feed answers with an empty list.
	ErrNoReleases = errors.New("release feed lists no releases")

	// errBadHTTPStatus is returned for any non-200 feed response.
	errBadHTTPStatus = errors.New("unexpected http status")
)

// Client fetches release metadata from the feed with a bounded retry policy.
type Client struct {
	feedURL    string
	httpClient *http.Client
	attempts   int
	delay      time.Duration
}

// NewClient returns a feed client. The attempts and delay values bound the
// retry loop; exhausting the budget is fatal for the run.
func NewClient(feedURL string, timeout time.Duration, attempts int, delay time.Duration) *Client {
	return &Client{
		feedURL:    feedURL,
		httpClient: &http.Client{Timeout: timeout},
		attempts:   attempts,
		delay:      delay,
	}
}

// Latest returns the newest published release.
//
// Feeds come in two shapes: a "list all releases" endpoint returning a JSON
// array (newest first, the first entry is taken), and a dedicated "latest"
// endpoint returning a single object. The shape is inferred from the URL.
func (c *Client) Latest(ctx context.Context) (*Release, error) {
	var lastErr error

	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			logger.InfoKV(ctx, "Retrying release feed fetch",
				"attempt", attempt, "of", c.attempts)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.delay):
			}
		}

		rel, err := c.fetchOnce(ctx)
		if err == nil {
			return rel, nil
		}

		// Empty feed and canceled context will not improve on retry.
		if errors.Is(err, ErrNoReleases) || errors.Is(err, context.Canceled) {
			return nil, err
		}

		logger.WarnKV(ctx, "Release feed fetch failed", "attempt", attempt, "error", err)
		lastErr = err
	}

	return nil, fmt.Errorf("fetch release feed failed after %d attempts: %w", c.attempts, lastErr)
}

// fetchOnce performs a single feed request and decodes the newest release.
func (c *Client) fetchOnce(ctx context.Context) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "thorium-updater/"+version.Short())

	// An optional token raises the feed's rate limit.
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s, %s: %w", c.feedURL, response.Status, errBadHTTPStatus)
	}

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	return decodeNewest(c.feedURL, data)
}

// decodeNewest picks the newest release out of the feed payload.
func decodeNewest(feedURL string, data []byte) (*Release, error) {
	if strings.HasSuffix(strings.TrimRight(feedURL, "/"), "/latest") {
		var rel Release
		if err := json.Unmarshal(data, &rel); err != nil {
			return nil, fmt.Errorf("decode latest release: %w", err)
		}

		return &rel, nil
	}

	var list []Release
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode release list: %w", err)
	}

	if len(list) == 0 {
		return nil, ErrNoReleases
	}

	// The feed lists releases newest first.
	return &list[0], nil
}

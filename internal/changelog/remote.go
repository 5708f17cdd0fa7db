package changelog

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// DefaultRemoteTimeout is the default timeout for remote changelog fetches.
const DefaultRemoteTimeout = 5 * time.Second

// FetchURL downloads and parses a changelog served at url, such as the raw
// CHANGELOG.md of another repository. The context controls timeout and
// cancellation; a zero deadline gets DefaultRemoteTimeout.
func FetchURL(ctx context.Context, url string) (*Changelog, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultRemoteTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	c, err := Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	logDebug("[changelog] debug: fetched %s (%d releases)", url, len(c.Releases))
	return c, nil
}

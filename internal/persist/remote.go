package persist

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Remote pushes snapshots to a sync endpoint with an HTTP POST. A nil or
// unconfigured Remote is never constructed; callers omit the backend instead.
type Remote struct {
	endpoint string
	client   *http.Client
}

// NewRemote creates a remote backend for the endpoint. timeout bounds each
// attempt; zero means 10 seconds.
func NewRemote(endpoint string, timeout time.Duration) (*Remote, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("remote endpoint is required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Remote{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

// Name implements Backend.
func (r *Remote) Name() string { return "remote" }

// Persist implements Backend.
func (r *Remote) Persist(ctx context.Context, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to sync session: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sync endpoint returned %s", resp.Status)
	}
	return nil
}

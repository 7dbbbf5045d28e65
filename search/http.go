package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/soontechgroup/ai-agents-sub001/errors"
)

type (
	options struct {
		client   *http.Client
		endpoint string
		now      func() time.Time
	}

	Option func(*options)
)

func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithEndpoint overrides the provider's API URL.
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		o.endpoint = endpoint
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func newOptions(endpoint string, opts []Option) *options {
	o := &options{
		client:   &http.Client{Timeout: 30 * time.Second},
		endpoint: endpoint,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func doJSON(ctx context.Context, client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		return errors.Wrapf(err, "failed to call %s", req.URL.Host)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.Errorf("API call failed: HTTP %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(errors.ErrContractViolation, "failed to decode response: %v", err)
	}

	return nil
}

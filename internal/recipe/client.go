// Package recipe looks up recipe suggestions from optional web providers and
// maps them into meals. Every lookup is best effort: a provider that fails
// contributes nothing.
package recipe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	userAgent      = "github.com/theirongolddev/tend/1.0"
)

var (
	// ErrUnauthorized indicates the provider rejected the configured credentials.
	ErrUnauthorized = errors.New("recipe: unauthorized (check API credentials)")
	// ErrRateLimited indicates the provider's rate limit or quota was hit.
	ErrRateLimited = errors.New("recipe: rate limited")
)

// get performs a GET request and returns the response body.
func get(ctx context.Context, hc *http.Client, rawURL string, header http.Header) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("recipe: creating request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	//nolint:gosec // URL is built from the configured provider base URL
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recipe: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests, http.StatusPaymentRequired:
		return nil, ErrRateLimited
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("recipe: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("recipe: reading response: %w", err)
	}
	return body, nil
}

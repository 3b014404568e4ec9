// Package clients holds thin HTTP clients for the worker's external
// collaborators: profile service, delegation service, person registry and
// feature flags. They share the same request/decode plumbing.
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type baseClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newBaseClient(baseURL, token string, timeout time.Duration) baseClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return baseClient{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// getJSON performs a GET and decodes a 200 body into dest. It returns the
// status code so callers can map 404 to a domain-level absence.
func (c *baseClient) getJSON(ctx context.Context, path string, dest any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, fmt.Errorf("GET %s returned %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return resp.StatusCode, fmt.Errorf("decode %s response: %w", path, err)
	}
	return resp.StatusCode, nil
}

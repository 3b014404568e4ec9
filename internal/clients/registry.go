package clients

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// RegistryClient looks up display names in the national person registry.
type RegistryClient struct {
	baseClient
}

func NewRegistryClient(baseURL, token string, timeout time.Duration) *RegistryClient {
	return &RegistryClient{baseClient: newBaseClient(baseURL, token, timeout)}
}

// GetFullName returns the registered full name for a national id, or empty
// when the registry has no entry.
func (c *RegistryClient) GetFullName(ctx context.Context, nationalID string) (string, error) {
	var body struct {
		FullName string `json:"fullName"`
	}
	status, err := c.getJSON(ctx, "/v1/persons/"+url.PathEscape(nationalID)+"/name", &body)
	if status == http.StatusNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return body.FullName, nil
}

package clients

import (
	"context"
	"net/url"
	"time"
)

// FeatureClient evaluates feature flags against a user context. Lookup
// failures are reported to the caller, which defaults the flag to off.
type FeatureClient struct {
	baseClient
}

func NewFeatureClient(baseURL, token string, timeout time.Duration) *FeatureClient {
	return &FeatureClient{baseClient: newBaseClient(baseURL, token, timeout)}
}

// IsEnabled evaluates flag for the given national id.
func (c *FeatureClient) IsEnabled(ctx context.Context, flag, nationalID string) (bool, error) {
	path := "/v1/flags/" + url.PathEscape(flag) + "?user=" + url.QueryEscape(nationalID)
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if _, err := c.getJSON(ctx, path, &body); err != nil {
		return false, err
	}
	return body.Enabled, nil
}

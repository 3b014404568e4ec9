package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gov-platform/notification-worker/internal/models"
)

// ContentClient fetches authored templates from the content service. It is
// the fetch-all primitive the Store caches in front of.
type ContentClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewContentClient(baseURL, token string, timeout time.Duration) *ContentClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ContentClient{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// ListTemplates returns every notification template authored for a locale.
func (c *ContentClient) ListTemplates(ctx context.Context, locale string) ([]models.Template, error) {
	path := fmt.Sprintf("%s/v1/notification-templates?locale=%s", c.baseURL, url.QueryEscape(locale))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("template service returned %d", resp.StatusCode)
	}

	var list []models.Template
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode template list: %w", err)
	}
	return list, nil
}

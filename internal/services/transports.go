package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPEmailTransport delivers rendered email messages to the platform's
// email delivery API.
type HTTPEmailTransport struct {
	endpoint    string
	apiKey      string
	fromAddress string
	fromName    string
	client      *http.Client
}

func NewHTTPEmailTransport(endpoint, apiKey, fromAddress, fromName string, timeout time.Duration) *HTTPEmailTransport {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPEmailTransport{
		endpoint:    endpoint,
		apiKey:      apiKey,
		fromAddress: fromAddress,
		fromName:    fromName,
		client:      &http.Client{Timeout: timeout},
	}
}

func (t *HTTPEmailTransport) Send(ctx context.Context, msg *EmailMessage) error {
	if msg.To == "" {
		return fmt.Errorf("email: empty recipient address")
	}
	payload := map[string]any{
		"from":    map[string]string{"address": t.fromAddress, "name": t.fromName},
		"to":      map[string]string{"address": msg.To, "name": msg.ToName},
		"subject": msg.Subject,
		"html":    msg.HTML,
	}
	return postJSON(ctx, t.client, t.endpoint, t.apiKey, payload)
}

// HTTPPushTransport delivers rendered push payloads to the mobile push
// gateway, which owns the platform-specific message format.
type HTTPPushTransport struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewHTTPPushTransport(endpoint, apiKey string, timeout time.Duration) *HTTPPushTransport {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPPushTransport{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

func (t *HTTPPushTransport) Send(ctx context.Context, payload *PushPayload) error {
	if payload.NationalID == "" {
		return fmt.Errorf("push: empty recipient id")
	}
	return postJSON(ctx, t.client, t.endpoint, t.apiKey, payload)
}

func postJSON(ctx context.Context, client *http.Client, endpoint, apiKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s returned status %d", endpoint, resp.StatusCode)
	}
	return nil
}

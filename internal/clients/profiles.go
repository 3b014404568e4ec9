package clients

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gov-platform/notification-worker/internal/models"
)

// ProfileClient resolves notification profiles from the user-profile service.
type ProfileClient struct {
	baseClient
}

func NewProfileClient(baseURL, token string, timeout time.Duration) *ProfileClient {
	return &ProfileClient{baseClient: newBaseClient(baseURL, token, timeout)}
}

// GetProfile fetches the direct profile for a national id. A missing profile
// is not an error; it returns nil.
func (c *ProfileClient) GetProfile(ctx context.Context, nationalID string) (*models.RecipientProfile, error) {
	var profile models.RecipientProfile
	status, err := c.getJSON(ctx, "/v2/users/"+url.PathEscape(nationalID)+"/notification-profile", &profile)
	if status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetActorProfile fetches the profile representing actor receiving
// notifications on behalf of target. A missing profile returns nil.
func (c *ProfileClient) GetActorProfile(ctx context.Context, targetNationalID, actorNationalID string) (*models.RecipientProfile, error) {
	path := "/v2/users/" + url.PathEscape(targetNationalID) +
		"/actor-profile?from=" + url.QueryEscape(actorNationalID)
	var profile models.RecipientProfile
	status, err := c.getJSON(ctx, path, &profile)
	if status == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

package clients

import (
	"context"
	"net/url"
	"time"

	"github.com/gov-platform/notification-worker/internal/models"
)

// DelegationClient lists active delegations from the authorization service.
type DelegationClient struct {
	baseClient
}

func NewDelegationClient(baseURL, token string, timeout time.Duration) *DelegationClient {
	return &DelegationClient{baseClient: newBaseClient(baseURL, token, timeout)}
}

// ListDelegations returns the parties holding a delegation to act for
// nationalID within the given permission scope.
func (c *DelegationClient) ListDelegations(ctx context.Context, nationalID, scope string) ([]models.Delegation, error) {
	path := "/v1/delegations?from=" + url.QueryEscape(nationalID) +
		"&scope=" + url.QueryEscape(scope)
	var delegations []models.Delegation
	if _, err := c.getJSON(ctx, path, &delegations); err != nil {
		return nil, err
	}
	return delegations, nil
}

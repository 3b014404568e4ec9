package services

import (
	"context"

	"github.com/gov-platform/notification-worker/internal/models"
)

// ProfileSource resolves notification profiles, directly or for an actor
// receiving on behalf of another party.
type ProfileSource interface {
	GetProfile(ctx context.Context, nationalID string) (*models.RecipientProfile, error)
	GetActorProfile(ctx context.Context, targetNationalID, actorNationalID string) (*models.RecipientProfile, error)
}

// RecipientResolver picks the profile a request should be delivered against.
type RecipientResolver struct {
	profiles ProfileSource
}

func NewRecipientResolver(profiles ProfileSource) *RecipientResolver {
	return &RecipientResolver{profiles: profiles}
}

// Resolve returns the profile for the request, or nil when none exists.
// Delegate copies resolve the actor profile of the delegate acting for the
// original addressee; everything else resolves the direct profile.
func (r *RecipientResolver) Resolve(ctx context.Context, req *models.NotificationRequest) (*models.RecipientProfile, error) {
	if req.OnBehalfOf != nil {
		return r.profiles.GetActorProfile(ctx, req.Recipient, req.OnBehalfOf.NationalID)
	}
	return r.profiles.GetProfile(ctx, req.Recipient)
}

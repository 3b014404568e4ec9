package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gov-platform/notification-worker/internal/models"
	"github.com/gov-platform/notification-worker/pkg/retry"
)

// Feature flags gating the optional parts of the pipeline.
const (
	FlagEmailDelivery    = "notificationsEmailDelivery"
	FlagDelegationFanout = "notificationsDelegationFanout"
)

// FeatureSource evaluates a feature flag against a user context.
type FeatureSource interface {
	IsEnabled(ctx context.Context, flag, nationalID string) (bool, error)
}

// NameSource looks up display names in the person registry.
type NameSource interface {
	GetFullName(ctx context.Context, nationalID string) (string, error)
}

// EmailDispatcher delivers the email channel. It is best-effort: every
// outcome other than a hard send failure is a silent (logged) skip, and the
// caller never fails the message on its account.
type EmailDispatcher struct {
	transport EmailSender
	flags     FeatureSource
	registry  NameSource
	retryCfg  retry.Config
	logger    *slog.Logger
}

func NewEmailDispatcher(transport EmailSender, flags FeatureSource, registry NameSource, retryCfg retry.Config, logger *slog.Logger) *EmailDispatcher {
	return &EmailDispatcher{
		transport: transport,
		flags:     flags,
		registry:  registry,
		retryCfg:  retryCfg,
		logger:    logger,
	}
}

// Dispatch sends the rendered template by email when the recipient's flag,
// address and opt-in all allow it. Returns whether a send happened.
func (d *EmailDispatcher) Dispatch(ctx context.Context, req *models.NotificationRequest, profile *models.RecipientProfile, rendered *models.Template) (bool, error) {
	enabled, err := d.flags.IsEnabled(ctx, FlagEmailDelivery, profile.NationalID)
	if err != nil {
		d.logger.Warn("email flag lookup failed, treating as disabled",
			slog.String("message_id", req.MessageID), slog.Any("error", err))
		enabled = false
	}
	if !enabled {
		d.logger.Info("email delivery disabled for recipient, skipping",
			slog.String("message_id", req.MessageID))
		return false, nil
	}

	// Both an address and the opt-in are required. The business rule is
	// documented as the stricter of two readings in the source system.
	if profile.Email == "" || !profile.EmailNotifications {
		d.logger.Info("recipient has no email address or opt-in, skipping",
			slog.String("message_id", req.MessageID))
		return false, nil
	}

	name := d.displayName(ctx, req)
	html, err := renderEmailBody(name, rendered)
	if err != nil {
		return false, fmt.Errorf("render email body: %w", err)
	}
	msg := &EmailMessage{
		To:      profile.Email,
		ToName:  name,
		Subject: rendered.NotificationTitle,
		HTML:    html,
	}

	err = retry.Do(ctx, d.retryCfg, func() error {
		return d.transport.Send(ctx, msg)
	})
	if err != nil {
		return false, fmt.Errorf("send email: %w", err)
	}
	return true, nil
}

// displayName resolves the greeting name. A delegate copy prefers the name
// carried on the request, then the registry entry of the original addressee;
// direct messages use the recipient's registry entry. Lookup failures fall
// back to no greeting.
func (d *EmailDispatcher) displayName(ctx context.Context, req *models.NotificationRequest) string {
	lookup := req.Recipient
	if req.OnBehalfOf != nil {
		if req.OnBehalfOf.Name != "" {
			return req.OnBehalfOf.Name
		}
		lookup = req.OnBehalfOf.NationalID
	}
	name, err := d.registry.GetFullName(ctx, lookup)
	if err != nil {
		d.logger.Warn("registry name lookup failed",
			slog.String("message_id", req.MessageID), slog.Any("error", err))
		return ""
	}
	return name
}

package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gov-platform/notification-worker/internal/models"
	"github.com/gov-platform/notification-worker/pkg/kennitala"
	"github.com/gov-platform/notification-worker/pkg/retry"
)

// PushDispatcher delivers the push/document channel. Push only ever goes to
// the original addressee: delegate copies and organization recipients are
// always skipped.
type PushDispatcher struct {
	transport PushSender
	retryCfg  retry.Config
	logger    *slog.Logger
}

func NewPushDispatcher(transport PushSender, retryCfg retry.Config, logger *slog.Logger) *PushDispatcher {
	return &PushDispatcher{
		transport: transport,
		retryCfg:  retryCfg,
		logger:    logger,
	}
}

// Dispatch sends the rendered template as a push notification when the
// guards allow it. Returns whether a send happened.
func (d *PushDispatcher) Dispatch(ctx context.Context, req *models.NotificationRequest, profile *models.RecipientProfile, rendered *models.Template) (bool, error) {
	if req.OnBehalfOf != nil {
		d.logger.Debug("delegate copy, skipping push",
			slog.String("message_id", req.MessageID))
		return false, nil
	}
	if kennitala.IsCompany(req.Recipient) {
		d.logger.Debug("organization recipient, skipping push",
			slog.String("message_id", req.MessageID))
		return false, nil
	}
	if !profile.DocumentNotifications {
		d.logger.Info("recipient opted out of document notifications, skipping push",
			slog.String("message_id", req.MessageID))
		return false, nil
	}

	payload := &PushPayload{
		NationalID:  req.Recipient,
		Title:       rendered.NotificationTitle,
		Body:        rendered.NotificationBody,
		DataCopy:    rendered.NotificationDataCopy,
		ClickAction: rendered.ClickAction,
		DocumentID:  req.DocumentID,
	}

	err := retry.Do(ctx, d.retryCfg, func() error {
		return d.transport.Send(ctx, payload)
	})
	if err != nil {
		return false, fmt.Errorf("send push: %w", err)
	}
	return true, nil
}

package services

import (
	"context"
	"log/slog"

	"github.com/gov-platform/notification-worker/internal/models"
)

// DelegationSource lists active delegations for a national id within a
// permission scope.
type DelegationSource interface {
	ListDelegations(ctx context.Context, nationalID, scope string) ([]models.Delegation, error)
}

// Enqueuer re-enters a request into the inbound queue. The queue assigns
// the new message id and returns it.
type Enqueuer interface {
	Enqueue(ctx context.Context, req *models.NotificationRequest) (string, error)
}

// FanoutResolver produces one delegate copy of an original request per
// active delegation. Everything here is best-effort: a delegation or
// enqueue failure is logged and never unwinds the primary dispatch that
// already happened.
type FanoutResolver struct {
	delegations DelegationSource
	registry    NameSource
	flags       FeatureSource
	queue       Enqueuer
	scope       string
	logger      *slog.Logger
}

func NewFanoutResolver(delegations DelegationSource, registry NameSource, flags FeatureSource, queue Enqueuer, scope string, logger *slog.Logger) *FanoutResolver {
	if scope == "" {
		scope = "documents"
	}
	return &FanoutResolver{
		delegations: delegations,
		registry:    registry,
		flags:       flags,
		queue:       queue,
		scope:       scope,
		logger:      logger,
	}
}

// Fanout enqueues one copy of req per delegation held against its recipient.
// Copies carry OnBehalfOf, which disables further fan-out and push delivery
// when they re-enter the pipeline. Returns how many copies were enqueued.
func (f *FanoutResolver) Fanout(ctx context.Context, req *models.NotificationRequest) int {
	if req.OnBehalfOf != nil {
		return 0
	}

	enabled, err := f.flags.IsEnabled(ctx, FlagDelegationFanout, req.Recipient)
	if err != nil {
		f.logger.Warn("fan-out flag lookup failed, skipping fan-out",
			slog.String("message_id", req.MessageID), slog.Any("error", err))
		return 0
	}
	if !enabled {
		return 0
	}

	delegations, err := f.delegations.ListDelegations(ctx, req.Recipient, f.scope)
	if err != nil {
		f.logger.Warn("delegation lookup failed, skipping fan-out",
			slog.String("message_id", req.MessageID), slog.Any("error", err))
		return 0
	}
	if len(delegations) == 0 {
		return 0
	}

	name, err := f.registry.GetFullName(ctx, req.Recipient)
	if err != nil {
		f.logger.Warn("registry name lookup failed during fan-out",
			slog.String("message_id", req.MessageID), slog.Any("error", err))
		name = ""
	}

	enqueued := 0
	for _, delegation := range delegations {
		clone := *req
		clone.MessageID = ""
		clone.Recipient = delegation.ToNationalID
		clone.OnBehalfOf = &models.OnBehalfOf{
			NationalID: req.Recipient,
			Name:       name,
			SubjectID:  delegation.SubjectID,
		}

		id, err := f.queue.Enqueue(ctx, &clone)
		if err != nil {
			f.logger.Warn("failed to enqueue delegate copy",
				slog.String("message_id", req.MessageID),
				slog.String("delegate", delegation.ToNationalID),
				slog.Any("error", err))
			continue
		}
		enqueued++
		f.logger.Info("enqueued delegate copy",
			slog.String("message_id", req.MessageID),
			slog.String("copy_message_id", id),
			slog.String("delegate", delegation.ToNationalID))
	}
	return enqueued
}

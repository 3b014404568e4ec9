package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gov-platform/notification-worker/internal/models"
	"github.com/gov-platform/notification-worker/internal/repository"
	"github.com/gov-platform/notification-worker/internal/templates"
	"github.com/gov-platform/notification-worker/pkg/metrics"
)

// Ledger is the durable idempotency store keyed by message id.
type Ledger interface {
	Exists(ctx context.Context, messageID string) (bool, error)
	Insert(ctx context.Context, messageID string) error
}

// TemplateSource resolves a single template for a locale.
type TemplateSource interface {
	GetTemplate(ctx context.Context, templateID, locale string) (*models.Template, error)
}

// Orchestrator runs the full dispatch pipeline for one dequeued request:
// quiet-hours gate, ledger dedup, recipient resolution, template render,
// concurrent email+push dispatch, single-level delegation fan-out.
type Orchestrator struct {
	gate      *QuietHours
	ledger    Ledger
	resolver  *RecipientResolver
	templates TemplateSource
	email     *EmailDispatcher
	push      *PushDispatcher
	fanout    *FanoutResolver
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewOrchestrator(
	gate *QuietHours,
	ledger Ledger,
	resolver *RecipientResolver,
	tplSource TemplateSource,
	email *EmailDispatcher,
	push *PushDispatcher,
	fanout *FanoutResolver,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		gate:      gate,
		ledger:    ledger,
		resolver:  resolver,
		templates: tplSource,
		email:     email,
		push:      push,
		fanout:    fanout,
		metrics:   m,
		logger:    logger,
	}
}

// Handle processes one request to completion. A nil return means the message
// is done (delivered, duplicate, or permanently skipped) and must be acked.
// A PermanentError means the message is unprocessable and must be dropped.
// Any other error is transient and the message should be redelivered.
func (o *Orchestrator) Handle(ctx context.Context, req *models.NotificationRequest) error {
	o.metrics.IncConsumed()
	log := o.logger.With(
		slog.String("message_id", req.MessageID),
		slog.String("template_id", req.TemplateID),
		slog.Bool("delegate_copy", req.IsDelegateCopy()))

	// No dispatch work may begin outside the allowed window.
	if err := o.gate.Wait(ctx); err != nil {
		return err
	}

	done, err := o.recordFirstSighting(ctx, req.MessageID, log)
	if err != nil {
		return err
	}
	if done {
		return nil
	}

	profile, err := o.resolver.Resolve(ctx, req)
	if err != nil {
		return fmt.Errorf("resolve recipient: %w", err)
	}
	if profile == nil {
		log.Info("no notification profile for recipient, dropping message")
		o.metrics.IncSkipped()
		return nil
	}

	tpl, err := o.templates.GetTemplate(ctx, req.TemplateID, profile.Locale)
	if err != nil {
		if errors.Is(err, templates.ErrNotFound) {
			o.metrics.IncFailed()
			return Permanent(err)
		}
		return err
	}

	rendered, err := FormatArguments(req, tpl)
	if err != nil {
		o.metrics.IncFailed()
		return err
	}

	o.dispatchChannels(ctx, req, profile, rendered, log)

	if req.OnBehalfOf == nil {
		o.metrics.AddFannedOut(o.fanout.Fanout(ctx, req))
	}
	return nil
}

// recordFirstSighting checks and writes the delivery ledger. It returns
// done=true when the message is a duplicate and should be acked untouched.
// A failing ledger write is tolerated: delivery is preferred over a strict
// record, and redelivery stays safe for recorded ids.
func (o *Orchestrator) recordFirstSighting(ctx context.Context, messageID string, log *slog.Logger) (bool, error) {
	seen, err := o.ledger.Exists(ctx, messageID)
	if err != nil {
		log.Warn("ledger lookup failed, continuing without dedup", slog.Any("error", err))
	} else if seen {
		log.Info("message already recorded, skipping redispatch")
		o.metrics.IncDuplicates()
		return true, nil
	}

	if err := o.ledger.Insert(ctx, messageID); err != nil {
		if errors.Is(err, repository.ErrDuplicateRecord) {
			log.Info("lost first-sighting race, treating as duplicate")
			o.metrics.IncDuplicates()
			return true, nil
		}
		log.Warn("failed to persist delivery record, continuing", slog.Any("error", err))
	}
	return false, nil
}

// dispatchChannels runs email and push concurrently and waits for both.
// Channel failures are logged, counted and swallowed; neither channel can
// block the other or the fan-out that follows.
func (o *Orchestrator) dispatchChannels(ctx context.Context, req *models.NotificationRequest, profile *models.RecipientProfile, rendered *models.Template, log *slog.Logger) {
	var (
		wg                  sync.WaitGroup
		emailSent, pushSent bool
		emailErr, pushErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		emailSent, emailErr = o.email.Dispatch(ctx, req, profile, rendered)
	}()
	go func() {
		defer wg.Done()
		pushSent, pushErr = o.push.Dispatch(ctx, req, profile, rendered)
	}()
	wg.Wait()

	if emailErr != nil {
		log.Error("email dispatch failed", slog.Any("error", emailErr))
		o.metrics.IncFailed()
	} else if emailSent {
		o.metrics.IncEmailSent()
	}
	if pushErr != nil {
		log.Error("push dispatch failed", slog.Any("error", pushErr))
		o.metrics.IncFailed()
	} else if pushSent {
		o.metrics.IncPushSent()
	}
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/gov-platform/notification-worker/internal/models"
	"github.com/gov-platform/notification-worker/pkg/logger"
	"github.com/gov-platform/notification-worker/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPushDispatcher(transport *fakePushSender) *PushDispatcher {
	return NewPushDispatcher(transport, retry.Config{MaxAttempts: 1}, logger.Nop())
}

func pushProfile() *models.RecipientProfile {
	return &models.RecipientProfile{
		NationalID:            personID,
		DocumentNotifications: true,
	}
}

func TestPushDispatchSendsPayload(t *testing.T) {
	transport := &fakePushSender{}
	d := newPushDispatcher(transport)

	rendered := &models.Template{
		NotificationTitle:    "Nýtt skjal",
		NotificationBody:     "Þú hefur fengið nýtt skjal",
		NotificationDataCopy: "Skjal í pósthólfi",
		ClickAction:          "https://service.example/documents/doc-1",
	}
	sent, err := d.Dispatch(context.Background(), newRequest("msg-1"), pushProfile(), rendered)
	require.NoError(t, err)
	require.True(t, sent)

	payload := transport.sent[0]
	assert.Equal(t, personID, payload.NationalID)
	assert.Equal(t, "Nýtt skjal", payload.Title)
	assert.Equal(t, "Skjal í pósthólfi", payload.DataCopy)
	assert.Equal(t, "doc-1", payload.DocumentID)
}

func TestPushDispatchSkipsDelegateCopies(t *testing.T) {
	transport := &fakePushSender{}
	d := newPushDispatcher(transport)

	req := newRequest("msg-1")
	req.Recipient = delegateID
	req.OnBehalfOf = &models.OnBehalfOf{NationalID: personID}

	sent, err := d.Dispatch(context.Background(), req, pushProfile(), renderedTemplate())
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Zero(t, transport.sentCount())
}

func TestPushDispatchSkipsOrganizations(t *testing.T) {
	transport := &fakePushSender{}
	d := newPushDispatcher(transport)

	req := newRequest("msg-1")
	req.Recipient = companyID
	profile := pushProfile()
	profile.NationalID = companyID

	sent, err := d.Dispatch(context.Background(), req, profile, renderedTemplate())
	require.NoError(t, err)
	assert.False(t, sent, "organizations never receive push, opt-ins notwithstanding")
	assert.Zero(t, transport.sentCount())
}

func TestPushDispatchSkipsOptedOutRecipients(t *testing.T) {
	transport := &fakePushSender{}
	d := newPushDispatcher(transport)

	profile := pushProfile()
	profile.DocumentNotifications = false

	sent, err := d.Dispatch(context.Background(), newRequest("msg-1"), profile, renderedTemplate())
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Zero(t, transport.sentCount())
}

func TestPushDispatchReportsSendFailure(t *testing.T) {
	transport := &fakePushSender{err: errors.New("gateway unavailable")}
	d := newPushDispatcher(transport)

	sent, err := d.Dispatch(context.Background(), newRequest("msg-1"), pushProfile(), renderedTemplate())
	require.Error(t, err)
	assert.False(t, sent)
}

package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/gov-platform/notification-worker/internal/models"
	"github.com/gov-platform/notification-worker/internal/repository"
)

type fakeLedger struct {
	mu        sync.Mutex
	records   map[string]bool
	existsErr error
	insertErr error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{records: map[string]bool{}}
}

func (l *fakeLedger) Exists(_ context.Context, messageID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.existsErr != nil {
		return false, l.existsErr
	}
	return l.records[messageID], nil
}

func (l *fakeLedger) Insert(_ context.Context, messageID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.insertErr != nil {
		return l.insertErr
	}
	if l.records[messageID] {
		return repository.ErrDuplicateRecord
	}
	l.records[messageID] = true
	return nil
}

type fakeProfiles struct {
	profiles   map[string]*models.RecipientProfile
	actor      *models.RecipientProfile
	err        error
	actorCalls [][2]string
}

func (p *fakeProfiles) GetProfile(_ context.Context, nationalID string) (*models.RecipientProfile, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.profiles[nationalID], nil
}

func (p *fakeProfiles) GetActorProfile(_ context.Context, target, actor string) (*models.RecipientProfile, error) {
	p.actorCalls = append(p.actorCalls, [2]string{target, actor})
	if p.err != nil {
		return nil, p.err
	}
	return p.actor, nil
}

type fakeTemplateSource struct {
	tpl   *models.Template
	err   error
	calls int
}

func (s *fakeTemplateSource) GetTemplate(_ context.Context, templateID, locale string) (*models.Template, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.tpl, nil
}

type fakeEmailSender struct {
	mu   sync.Mutex
	sent []*EmailMessage
	err  error
}

func (s *fakeEmailSender) Send(_ context.Context, msg *EmailMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *fakeEmailSender) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type fakePushSender struct {
	mu   sync.Mutex
	sent []*PushPayload
	err  error
}

func (s *fakePushSender) Send(_ context.Context, payload *PushPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, payload)
	return nil
}

func (s *fakePushSender) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

type fakeFlags struct {
	enabled map[string]bool
	err     error
}

func (f *fakeFlags) IsEnabled(_ context.Context, flag, _ string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.enabled[flag], nil
}

type fakeRegistry struct {
	names map[string]string
	err   error
}

func (r *fakeRegistry) GetFullName(_ context.Context, nationalID string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.names[nationalID], nil
}

type fakeDelegations struct {
	list []models.Delegation
	err  error
}

func (d *fakeDelegations) ListDelegations(_ context.Context, _, _ string) ([]models.Delegation, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.list, nil
}

type fakeQueue struct {
	enqueued []*models.NotificationRequest
	err      error
}

func (q *fakeQueue) Enqueue(_ context.Context, req *models.NotificationRequest) (string, error) {
	if q.err != nil {
		return "", q.err
	}
	req.MessageID = fmt.Sprintf("copy-%d", len(q.enqueued)+1)
	q.enqueued = append(q.enqueued, req)
	return req.MessageID, nil
}

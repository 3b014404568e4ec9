package models

// Arg is one positional rendering argument carried on a request. The key is
// informational for producers and audit logs; rendering consumes values in
// order, not by key.
type Arg struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// OnBehalfOf marks a request as a delegate copy: the delegate identified by
// the enclosing request's Recipient receives the notification on behalf of
// NationalID. Delegate copies never fan out again and never receive push.
type OnBehalfOf struct {
	NationalID string `json:"nationalId"`
	Name       string `json:"name"`
	SubjectID  string `json:"subjectId"`
}

// NotificationRequest is the payload enqueued by the notifications API and
// consumed once per delivery attempt by the worker.
type NotificationRequest struct {
	MessageID    string      `json:"messageId"`
	TemplateID   string      `json:"templateId"`
	Recipient    string      `json:"recipient"`
	Organization string      `json:"organization,omitempty"`
	DocumentID   string      `json:"documentId,omitempty"`
	Args         []Arg       `json:"args"`
	OnBehalfOf   *OnBehalfOf `json:"onBehalfOf,omitempty"`
}

// IsDelegateCopy reports whether the request was generated by delegation
// fan-out rather than enqueued directly.
func (r *NotificationRequest) IsDelegateCopy() bool {
	return r.OnBehalfOf != nil
}

package services

import "context"

// EmailMessage is the fully rendered message handed to the email transport.
type EmailMessage struct {
	To      string `json:"to"`
	ToName  string `json:"toName,omitempty"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// PushPayload is the fully rendered payload handed to the push transport.
type PushPayload struct {
	NationalID  string `json:"nationalId"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	DataCopy    string `json:"dataCopy,omitempty"`
	ClickAction string `json:"clickAction,omitempty"`
	DocumentID  string `json:"documentId,omitempty"`
}

// EmailSender is the outbound email capability.
type EmailSender interface {
	Send(ctx context.Context, msg *EmailMessage) error
}

// PushSender is the outbound push capability.
type PushSender interface {
	Send(ctx context.Context, payload *PushPayload) error
}

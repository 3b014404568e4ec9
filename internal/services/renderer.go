package services

import (
	"fmt"
	"strings"

	"github.com/gov-platform/notification-worker/internal/models"
)

// ArgumentMarker is the placeholder token authored templates carry. Each of
// the four text fields holds at most one marker.
const ArgumentMarker = "{{arg}}"

// FormatArguments substitutes request arguments into a template.
//
// Substitution is positional: the title, body, data-copy and click-action
// fields are scanned in that fixed order, and each field containing the
// marker consumes the next unconsumed request argument. Producers depend on
// this ordering, so it must not be replaced with key-based lookup.
//
// The template is shallow-copied first; the cached template is never
// mutated. An argument-count mismatch is a permanent validation failure.
func FormatArguments(req *models.NotificationRequest, tpl *models.Template) (*models.Template, error) {
	if len(tpl.Args) != len(req.Args) {
		return nil, Permanent(fmt.Errorf(
			"template %s expects %d arguments, message %s carries %d",
			tpl.TemplateID, len(tpl.Args), req.MessageID, len(req.Args)))
	}

	rendered := *tpl
	remaining := req.Args
	for _, field := range []*string{
		&rendered.NotificationTitle,
		&rendered.NotificationBody,
		&rendered.NotificationDataCopy,
		&rendered.ClickAction,
	} {
		if len(remaining) == 0 {
			break
		}
		if !strings.Contains(*field, ArgumentMarker) {
			continue
		}
		*field = strings.Replace(*field, ArgumentMarker, remaining[0].Value, 1)
		remaining = remaining[1:]
	}
	return &rendered, nil
}

package services

import (
	"html/template"
	"strings"

	"github.com/gov-platform/notification-worker/internal/models"
)

// emailBodyData feeds the structured HTML body: logo, greeting, title, copy,
// optional call-to-action button, footer disclaimer.
type emailBodyData struct {
	LogoURL     string
	Greeting    string
	Title       string
	Copy        string
	ActionURL   string
	ActionLabel string
	Footer      string
}

const (
	emailLogoURL     = "https://assets.island.example/email/logo.png"
	emailActionLabel = "Skoða nánar"
	emailFooter      = "Þú ert að fá þennan tölvupóst því þú ert skráð(ur) fyrir tilkynningum á þjónustusíðu. Ekki svara þessum pósti."
)

var emailBodyTmpl = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
  <body style="margin:0;padding:0;background-color:#f8f5fa;font-family:Arial,sans-serif;">
    <table role="presentation" width="100%" cellpadding="0" cellspacing="0">
      <tr><td align="center" style="padding:24px;">
        <table role="presentation" width="600" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;">
          <tr><td style="padding:32px;">
            <img src="{{.LogoURL}}" alt="" height="40" style="display:block;margin-bottom:24px;"/>
            {{if .Greeting}}<p style="font-size:16px;color:#00003c;">{{.Greeting}}</p>{{end}}
            <h1 style="font-size:22px;color:#00003c;margin:16px 0;">{{.Title}}</h1>
            <p style="font-size:16px;color:#00003c;line-height:1.5;">{{.Copy}}</p>
            {{if .ActionURL}}
            <table role="presentation" cellpadding="0" cellspacing="0" style="margin:24px 0;">
              <tr><td style="background-color:#0061ff;border-radius:8px;">
                <a href="{{.ActionURL}}" style="display:inline-block;padding:12px 24px;font-size:16px;color:#ffffff;text-decoration:none;">{{.ActionLabel}}</a>
              </td></tr>
            </table>
            {{end}}
            <p style="font-size:12px;color:#6a6a7c;margin-top:32px;">{{.Footer}}</p>
          </td></tr>
        </table>
      </td></tr>
    </table>
  </body>
</html>`))

// renderEmailBody renders the structured HTML body for a rendered template
// and an optional recipient display name.
func renderEmailBody(fullName string, rendered *models.Template) (string, error) {
	data := emailBodyData{
		LogoURL:     emailLogoURL,
		Title:       rendered.NotificationTitle,
		Copy:        rendered.NotificationBody,
		ActionURL:   rendered.ClickAction,
		ActionLabel: emailActionLabel,
		Footer:      emailFooter,
	}
	if fullName != "" {
		data.Greeting = "Hæ, " + fullName
	}

	var out strings.Builder
	if err := emailBodyTmpl.Execute(&out, data); err != nil {
		return "", err
	}
	return out.String(), nil
}

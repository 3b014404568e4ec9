package models

// Template is an externally authored notification template, read-only to the
// worker. Each of the four text fields may carry at most one argument marker.
type Template struct {
	TemplateID           string   `json:"templateId"`
	NotificationTitle    string   `json:"notificationTitle"`
	NotificationBody     string   `json:"notificationBody"`
	NotificationDataCopy string   `json:"notificationDataCopy,omitempty"`
	ClickAction          string   `json:"clickAction,omitempty"`
	Args                 []string `json:"args"`
}

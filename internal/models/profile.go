package models

// RecipientProfile is the contact/opt-in view of a recipient, resolved per
// request from the profile service and never persisted by the worker.
type RecipientProfile struct {
	NationalID            string `json:"nationalId"`
	Email                 string `json:"email,omitempty"`
	DocumentNotifications bool   `json:"documentNotifications"`
	EmailNotifications    bool   `json:"emailNotifications"`
	Locale                string `json:"locale,omitempty"`
}

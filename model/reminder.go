package model

// ReminderPayload is the notification body handed to the push transport.
type ReminderPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon,omitempty"`
	Badge string `json:"badge,omitempty"`
	Tag   string `json:"tag"`
}

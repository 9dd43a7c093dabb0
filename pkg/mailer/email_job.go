package mailer

import (
	"errors"
	"strings"
)

var ErrNoRecipient = errors.New("email job has no recipient")

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (+Data) or Subject with Text/HTML must be set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "welcome"
	Data     map[string]any `json:"data,omitempty"`
}

// Normalize fills To from Data["Email"] when missing and mirrors it back so
// templates can always reference .Email.
func (j *EmailJob) Normalize() error {
	if j.Data == nil {
		j.Data = map[string]any{}
	}
	j.To = strings.TrimSpace(j.To)
	if j.To == "" {
		if e, ok := j.Data["Email"].(string); ok {
			j.To = strings.TrimSpace(e)
		}
	}
	if j.To == "" {
		return ErrNoRecipient
	}
	if e, ok := j.Data["Email"].(string); !ok || strings.TrimSpace(e) == "" {
		j.Data["Email"] = j.To
	}
	return nil
}

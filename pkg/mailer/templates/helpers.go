package templates

import (
	"strings"
	"time"
)

type Option func(*EmailData)

func WithYearOfBirth(y int) Option { return func(d *EmailData) { d.YearOfBirth = y } }
func WithSupportURL(url string) Option {
	return func(d *EmailData) { d.SupportURL = strings.TrimSpace(url) }
}
func WithJoinedAt(t time.Time) Option { return func(d *EmailData) { d.JoinedAt = t.UTC() } }

// NewEmailData fills the recipient and application fields and applies opts.
func NewEmailData(name, email, appName string, opts ...Option) EmailData {
	d := EmailData{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		AppName:  appName,
		JoinedAt: time.Now().UTC(),
	}
	for _, o := range opts {
		o(&d)
	}
	return d
}

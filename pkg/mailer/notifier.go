package mailer

import (
	"context"

	"github.com/oksasatya/bookshelf-api/internal/domain/entity"
	mailtpl "github.com/oksasatya/bookshelf-api/pkg/mailer/templates"
)

// Publisher puts a JSON message on the email queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueNotifier turns account events into email jobs for the worker.
type QueueNotifier struct {
	Pub        Publisher
	AppName    string
	SupportURL string
}

func NewQueueNotifier(pub Publisher, appName string) *QueueNotifier {
	return &QueueNotifier{Pub: pub, AppName: appName}
}

// NotifySignup queues the welcome email for u.
func (n *QueueNotifier) NotifySignup(ctx context.Context, u *entity.User) error {
	data := mailtpl.NewEmailData(u.Name, u.Email, n.AppName,
		mailtpl.WithYearOfBirth(u.YearOfBirth),
		mailtpl.WithJoinedAt(u.CreatedAt),
		mailtpl.WithSupportURL(n.SupportURL),
	)
	return n.Pub.PublishJSON(ctx, EmailJob{
		To:       u.Email,
		Template: mailtpl.Welcome,
		Data:     mailtpl.ToMap(data),
	})
}

package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/foliocms/folio/internal/content/messages"
	"github.com/foliocms/folio/internal/mailer"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// SendEmailHandler processes TaskTypeSendEmail tasks through the injected
// mailer.
func SendEmailHandler(m mailer.Mailer) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SendEmailPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		return m.Send(payload.To, payload.Subject, payload.Body)
	}
}

// ContactNotifier enqueues owner notifications for contact-form submissions.
// It implements messages.Notifier.
type ContactNotifier struct {
	client *asynq.Client
	inbox  string
}

// NewContactNotifier constructs a ContactNotifier.
func NewContactNotifier(client *asynq.Client, inbox string) *ContactNotifier {
	return &ContactNotifier{client: client, inbox: inbox}
}

// NotifyContactMessage queues a mail:send task for the stored message.
func (n *ContactNotifier) NotifyContactMessage(ctx context.Context, m messages.Message) error {
	subject := m.Subject
	if subject == "" {
		subject = "New contact message"
	}
	task, err := NewSendEmailTask(SendEmailPayload{
		To:      n.inbox,
		Subject: fmt.Sprintf("[folio] %s", subject),
		Body:    fmt.Sprintf("From: %s <%s>\n\n%s", m.Name, m.Email, m.Body),
	})
	if err != nil {
		return err
	}
	_, err = n.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

var _ messages.Notifier = (*ContactNotifier)(nil)

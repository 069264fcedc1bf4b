package messages

import "context"

// Notifier delivers an owner notification for a stored message. The
// asynq-backed implementation lives in the jobs package; tests substitute a
// fake. It is an explicit dependency, never a package-level singleton.
type Notifier interface {
	NotifyContactMessage(ctx context.Context, m Message) error
}

// Service stores submissions and fans out the notification.
type Service struct {
	repo     Repository
	notifier Notifier
}

// NewService constructs a Service.
func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Submit stores the message and enqueues the notification. A notification
// failure does not fail the submission; the message is already persisted.
func (s *Service) Submit(ctx context.Context, m Message) (Message, error) {
	created, err := s.repo.Create(ctx, m)
	if err != nil {
		return Message{}, err
	}
	if s.notifier != nil {
		if nerr := s.notifier.NotifyContactMessage(ctx, created); nerr != nil {
			return created, nerr
		}
	}
	return created, nil
}

// List returns every stored message, newest first.
func (s *Service) List(ctx context.Context) ([]Message, error) {
	return s.repo.List(ctx)
}

// MarkRead flags a message as handled.
func (s *Service) MarkRead(ctx context.Context, id int64) (Message, error) {
	return s.repo.MarkRead(ctx, id)
}

// Delete removes a message; deleting a missing message succeeds.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

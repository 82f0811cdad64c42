package service

import (
	"context"
	"log/slog"

	"github.com/mandeell/Mandel-Blog-Complete/internal/middleware"
	"github.com/mandeell/Mandel-Blog-Complete/internal/notifications"
	"github.com/mandeell/Mandel-Blog-Complete/internal/observability"
)

// ContactNotifier delivers contact submissions.
type ContactNotifier interface {
	SendContact(ctx context.Context, c notifications.Contact) error
}

type ContactService struct {
	notifier ContactNotifier
}

func NewContactService(notifier ContactNotifier) *ContactService {
	return &ContactService{notifier: notifier}
}

// Submit sends the message inline. Delivery is best effort: the error is
// logged here and returned only so the caller can pick the flash message.
func (s *ContactService) Submit(ctx context.Context, c notifications.Contact) error {
	err := s.notifier.SendContact(ctx, c)
	if err != nil {
		observability.ContactMessages.WithLabelValues("failed").Inc()
		observability.RecordErrorInContext(ctx, err)
		middleware.Logger.ErrorContext(ctx, "contact email failed",
			slog.String("error", err.Error()),
		)
		return err
	}
	observability.ContactMessages.WithLabelValues("sent").Inc()
	return nil
}

// Package notifications delivers outbound messages (contact form email).
package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mandeell/Mandel-Blog-Complete/internal/models"
	"github.com/mandeell/Mandel-Blog-Complete/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ContactSubject is the subject line of every contact form email.
const ContactSubject = "Blog Contact Form"

// DefaultSendTimeout bounds a single delivery attempt.
const DefaultSendTimeout = 20 * time.Second

// Message is one plain-text email.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	Body    string
}

// Sender delivers a single message. Implementations must honor ctx cancellation.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Contact is a validated contact form submission.
type Contact struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// Body renders the submission in the plain-text layout the inbox expects.
func (c Contact) Body() string {
	return fmt.Sprintf("Name: %s\nEmail: %s\nPhone Number: %s\nMessage: %s", c.Name, c.Email, c.Phone, c.Message)
}

// Notifier sends contact submissions to the site owner.
type Notifier struct {
	sender  Sender
	to      string
	timeout time.Duration
}

// NewNotifier creates a Notifier delivering to recipient through sender.
func NewNotifier(sender Sender, recipient string, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	return &Notifier{
		sender:  sender,
		to:      strings.ToLower(strings.TrimSpace(recipient)),
		timeout: timeout,
	}
}

// SendContact delivers c synchronously. Every failure wraps models.ErrNotificationFailed.
func (n *Notifier) SendContact(ctx context.Context, c Contact) error {
	if n == nil || n.sender == nil || n.to == "" {
		return fmt.Errorf("%w: mail delivery is not configured", models.ErrNotificationFailed)
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	ctx, span := observability.StartSpan(ctx, "notifications.SendContact", trace.SpanKindClient,
		attribute.String("mail.subject", ContactSubject),
	)

	err := n.sender.Send(ctx, Message{
		To:      n.to,
		ReplyTo: strings.ToLower(strings.TrimSpace(c.Email)),
		Subject: ContactSubject,
		Body:    c.Body(),
	})
	observability.EndSpan(span, err)
	if err != nil {
		if errors.Is(err, models.ErrNotificationFailed) {
			return err
		}
		return fmt.Errorf("%w: %v", models.ErrNotificationFailed, err)
	}
	return nil
}

package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mandeell/Mandel-Blog-Complete/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent     []Message
	err      error
	deadline bool
}

func (s *recordingSender) Send(ctx context.Context, msg Message) error {
	_, s.deadline = ctx.Deadline()
	s.sent = append(s.sent, msg)
	return s.err
}

func TestContact_Body(t *testing.T) {
	t.Parallel()
	c := Contact{Name: "Ada", Email: "ada@example.com", Phone: "08012345678", Message: "Hello there"}
	assert.Equal(t, "Name: Ada\nEmail: ada@example.com\nPhone Number: 08012345678\nMessage: Hello there", c.Body())
}

func TestNotifier_SendContact(t *testing.T) {
	sender := &recordingSender{}
	n := NewNotifier(sender, " Owner@Example.COM ", time.Second)

	err := n.SendContact(context.Background(), Contact{Name: "Ada", Email: "Ada@Example.com", Phone: "08012345678", Message: "Hi"})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "owner@example.com", msg.To)
	assert.Equal(t, "ada@example.com", msg.ReplyTo)
	assert.Equal(t, ContactSubject, msg.Subject)
	assert.Contains(t, msg.Body, "Phone Number: 08012345678")
	assert.True(t, sender.deadline, "delivery must be time-bounded")
}

func TestNotifier_SendContact_Failures(t *testing.T) {
	t.Run("transport error is wrapped", func(t *testing.T) {
		n := NewNotifier(&recordingSender{err: errors.New("535 auth failed")}, "owner@example.com", 0)
		err := n.SendContact(context.Background(), Contact{Email: "a@b.c"})
		assert.ErrorIs(t, err, models.ErrNotificationFailed)
		assert.Contains(t, err.Error(), "535 auth failed")
	})

	t.Run("missing recipient", func(t *testing.T) {
		sender := &recordingSender{}
		n := NewNotifier(sender, "", 0)
		assert.ErrorIs(t, n.SendContact(context.Background(), Contact{}), models.ErrNotificationFailed)
		assert.Empty(t, sender.sent)
	})

	t.Run("nil notifier", func(t *testing.T) {
		var n *Notifier
		assert.ErrorIs(t, n.SendContact(context.Background(), Contact{}), models.ErrNotificationFailed)
	})
}

func TestSMTPSender_RejectsBadConfigWithoutDialing(t *testing.T) {
	t.Run("empty host", func(t *testing.T) {
		s := NewSMTPSender(SMTPConfig{Username: "blog@example.com", Password: "x"})
		err := s.Send(context.Background(), Message{To: "owner@example.com", Subject: "s", Body: "b"})
		assert.Error(t, err)
	})

	t.Run("invalid sender address", func(t *testing.T) {
		s := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 465})
		err := s.Send(context.Background(), Message{To: "owner@example.com"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid sender address")
	})
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mandeell/Mandel-Blog-Complete/internal/models"
	"github.com/mandeell/Mandel-Blog-Complete/internal/notifications"
	"github.com/mandeell/Mandel-Blog-Complete/internal/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type notifierStub struct {
	sendFn func(context.Context, notifications.Contact) error
}

func (n *notifierStub) SendContact(ctx context.Context, c notifications.Contact) error {
	return n.sendFn(ctx, c)
}

func TestContactService_Submit(t *testing.T) {
	sent := testutil.ToFloat64(observability.ContactMessages.WithLabelValues("sent"))
	failed := testutil.ToFloat64(observability.ContactMessages.WithLabelValues("failed"))

	var got notifications.Contact
	ok := NewContactService(&notifierStub{sendFn: func(_ context.Context, c notifications.Contact) error {
		got = c
		return nil
	}})
	assert.NoError(t, ok.Submit(context.Background(), notifications.Contact{Name: "Ada"}))
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, sent+1, testutil.ToFloat64(observability.ContactMessages.WithLabelValues("sent")))

	bad := NewContactService(&notifierStub{sendFn: func(_ context.Context, _ notifications.Contact) error {
		return errors.Join(models.ErrNotificationFailed, errors.New("timeout"))
	}})
	err := bad.Submit(context.Background(), notifications.Contact{Name: "Ada"})
	assert.ErrorIs(t, err, models.ErrNotificationFailed)
	assert.Equal(t, failed+1, testutil.ToFloat64(observability.ContactMessages.WithLabelValues("failed")))
}

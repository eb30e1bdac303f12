package mailer_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/BMMUGOMBA/terminal-pulse/internal/clients/mailer"
	"github.com/BMMUGOMBA/terminal-pulse/internal/entity"
)

func TestClient_SendLockoutNotice(t *testing.T) {
	t.Parallel()

	var (
		from string
		to   []string
		body bytes.Buffer
	)

	sender := gomail.SendFunc(func(f string, recipients []string, msg io.WriterTo) error {
		from = f
		to = recipients

		_, err := msg.WriteTo(&body)

		return err
	})

	c := mailer.NewWithSender(sender, "noreply@pulse.local", "support@pulse.local")

	err := c.SendLockoutNotice(context.Background(), entity.Event{
		Type:       entity.EventAccountLocked,
		Workspace:  "default",
		Subject:    "4",
		Message:    "merchant <owner@centralmarket.local>",
		OccurredAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Equal(t, "noreply@pulse.local", from)
	require.Equal(t, []string{"support@pulse.local"}, to)
	require.Contains(t, body.String(), "Subject: Terminal Pulse: account locked")
}

func TestClient_SendLockoutNoticeError(t *testing.T) {
	t.Parallel()

	sender := gomail.SendFunc(func(string, []string, io.WriterTo) error {
		return errors.New("smtp down")
	})

	c := mailer.NewWithSender(sender, "noreply@pulse.local", "support@pulse.local")

	err := c.SendLockoutNotice(context.Background(), entity.Event{Type: entity.EventAccountLocked})
	require.ErrorContains(t, err, "smtp down")
}

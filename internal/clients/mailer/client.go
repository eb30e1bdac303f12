package mailer

import (
	"context"
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/BMMUGOMBA/terminal-pulse/internal/entity"
	"github.com/BMMUGOMBA/terminal-pulse/pkg/config"
)

const lockoutSubject = "Terminal Pulse: account locked"

// Client mails lockout notices to the support mailbox.
type Client struct {
	from   string
	to     string
	dialer *gomail.Dialer
	sender gomail.Sender
}

func New(cfg config.Mailer) *Client {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)

	dialer.TLSConfig = &tls.Config{
		ServerName: cfg.Host,
		MinVersion: tls.VersionTLS12,
	}

	return &Client{
		from:   cfg.From,
		to:     cfg.SupportEmail,
		dialer: dialer,
	}
}

// NewWithSender delivers through sender instead of dialing SMTP.
func NewWithSender(sender gomail.Sender, from, to string) *Client {
	return &Client{
		from:   from,
		to:     to,
		sender: sender,
	}
}

func (c *Client) SendLockoutNotice(ctx context.Context, event entity.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage(
		gomail.SetCharset("UTF-8"),
		gomail.SetEncoding(gomail.Base64),
	)

	msg.SetHeader("From", c.from)
	msg.SetHeader("To", c.to)
	msg.SetHeader("Subject", lockoutSubject)
	msg.SetBody("text/plain", fmt.Sprintf(
		"The account %s (id %s) in workspace %s was locked after repeated failed logins at %s.\n\n"+
			"Unlock it from the user administration page once the owner has been verified.",
		event.Message, event.Subject, event.Workspace, event.OccurredAt.Format("2006-01-02 15:04:05 MST"),
	))

	var err error
	if c.sender != nil {
		err = gomail.Send(c.sender, msg)
	} else {
		err = c.dialer.DialAndSend(msg)
	}

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

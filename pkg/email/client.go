package email

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/mail.v2"
)

type Client struct {
	dialer *mail.Dialer
	from   string
}

func NewClient(smtpHost string, smtpPort int, username, password, from string, timeout time.Duration) *Client {
	dialer := mail.NewDialer(smtpHost, smtpPort, username, password)
	if timeout > 0 {
		dialer.Timeout = timeout
	}

	return &Client{
		dialer: dialer,
		from:   from,
	}
}

// SendEmail sends a plain text email.
//
// ctx is only checked before dialing. Once the SMTP session starts it runs to its
// terminal reply, bounded by the dialer timeout, so an accepted message is never
// reported as failed.
func (c *Client) SendEmail(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	message := mail.NewMessage()

	message.SetHeader("From", c.from)
	message.SetHeader("To", to)
	message.SetHeader("Subject", subject)

	message.SetBody("text/plain", body)

	if err := c.dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

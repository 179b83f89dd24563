package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

// SMTPConfig configures the SMTP mailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer delivers email through a plain SMTP relay.
type SMTPMailer struct {
	config *SMTPConfig
}

// NewSMTPMailer creates an SMTP-backed mailer.
func NewSMTPMailer(config *SMTPConfig) *SMTPMailer {
	return &SMTPMailer{config: config}
}

// Name returns the provider name.
func (m *SMTPMailer) Name() string {
	return "smtp"
}

// Send delivers the message over SMTP. A fresh connection is dialed per
// message, OTP volume does not justify a persistent connection.
func (m *SMTPMailer) Send(ctx context.Context, msg *Message) error {
	message := gomail.NewMsg()
	if err := message.From(m.config.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := message.To(msg.To); err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}
	message.Subject(msg.Subject)
	message.SetBodyString(gomail.TypeTextHTML, msg.HTML)

	client, err := gomail.NewClient(m.config.Host,
		gomail.WithPort(m.config.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.config.Username),
		gomail.WithPassword(m.config.Password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}

	return nil
}

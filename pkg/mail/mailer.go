// Package mail provides transactional email delivery with provider failover.
package mail

import (
	"context"
	"fmt"
	"html"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers email messages.
type Mailer interface {
	// Send delivers the message. It blocks until the provider accepts
	// or rejects the message.
	Send(ctx context.Context, msg *Message) error

	// Name identifies the provider for logging.
	Name() string
}

// OTPSubject is the subject line for verification code emails.
const OTPSubject = "Your verification code"

// OTPMessage builds the verification code email for the given recipient.
func OTPMessage(to, name, code string) *Message {
	body := fmt.Sprintf(`
      <div style="font-family: Inter, Arial, sans-serif; line-height: 1.6;">
        <h2>Hi %s,</h2>
        <p>Your one-time passcode is:</p>
        <div style="font-size: 28px; font-weight: 700; letter-spacing: 4px; padding: 12px 16px; background: #0f172a; color: #e2e8f0; width: fit-content; border-radius: 10px;">%s</div>
        <p>This code expires in 5 minutes.</p>
        <p style="color:#64748b">Requested for gireesh.ai chat access.</p>
      </div>
    `, html.EscapeString(name), html.EscapeString(code))

	return &Message{
		To:      to,
		Subject: OTPSubject,
		HTML:    body,
	}
}

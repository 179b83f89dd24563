package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/kart-io/logger"
)

// FailoverMailer tries each configured mailer in order and returns the
// first success. Delivery fails only when every provider fails.
type FailoverMailer struct {
	mailers []Mailer

	// OnFailover, when set, is called each time a provider fails and the
	// next one is tried.
	OnFailover func()
}

// NewFailoverMailer creates a failover chain. Nil entries are skipped.
func NewFailoverMailer(mailers ...Mailer) (*FailoverMailer, error) {
	chain := make([]Mailer, 0, len(mailers))
	for _, m := range mailers {
		if m != nil {
			chain = append(chain, m)
		}
	}
	if len(chain) == 0 {
		return nil, errors.New("no mail providers configured")
	}
	return &FailoverMailer{mailers: chain}, nil
}

// Name returns the provider name.
func (m *FailoverMailer) Name() string {
	return "failover"
}

// Send tries each provider in order.
func (m *FailoverMailer) Send(ctx context.Context, msg *Message) error {
	var lastErr error
	for _, mailer := range m.mailers {
		err := mailer.Send(ctx, msg)
		if err == nil {
			return nil
		}
		lastErr = err
		logger.Warnw("Mail provider failed, trying next",
			"provider", mailer.Name(),
			"error", err,
		)
		if m.OnFailover != nil {
			m.OnFailover()
		}
	}
	return fmt.Errorf("all mail providers failed: %w", lastErr)
}

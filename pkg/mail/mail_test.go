package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMailer struct {
	name string
	err  error
	sent []*Message
}

func (s *stubMailer) Send(_ context.Context, msg *Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *stubMailer) Name() string { return s.name }

func TestOTPMessage(t *testing.T) {
	msg := OTPMessage("user@example.com", "Gireesh", "123456")

	assert.Equal(t, "user@example.com", msg.To)
	assert.Equal(t, "Your verification code", msg.Subject)
	assert.Contains(t, msg.HTML, "Hi Gireesh,")
	assert.Contains(t, msg.HTML, "123456")
	assert.Contains(t, msg.HTML, "This code expires in 5 minutes.")
}

func TestOTPMessageEscapesName(t *testing.T) {
	msg := OTPMessage("user@example.com", "<script>alert(1)</script>", "123456")

	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.HTML, "&lt;script&gt;")
}

func TestFailoverMailerFirstSuccess(t *testing.T) {
	primary := &stubMailer{name: "primary"}
	backup := &stubMailer{name: "backup"}

	m, err := NewFailoverMailer(primary, backup)
	require.NoError(t, err)

	msg := OTPMessage("user@example.com", "Test", "000000")
	require.NoError(t, m.Send(context.Background(), msg))

	assert.Len(t, primary.sent, 1)
	assert.Empty(t, backup.sent)
}

func TestFailoverMailerFallsBack(t *testing.T) {
	primary := &stubMailer{name: "primary", err: errors.New("provider down")}
	backup := &stubMailer{name: "backup"}

	m, err := NewFailoverMailer(primary, backup)
	require.NoError(t, err)

	msg := OTPMessage("user@example.com", "Test", "000000")
	require.NoError(t, m.Send(context.Background(), msg))

	assert.Len(t, backup.sent, 1)
}

func TestFailoverMailerAllFail(t *testing.T) {
	primary := &stubMailer{name: "primary", err: errors.New("provider down")}
	backup := &stubMailer{name: "backup", err: errors.New("relay refused")}

	m, err := NewFailoverMailer(primary, backup)
	require.NoError(t, err)

	err = m.Send(context.Background(), OTPMessage("user@example.com", "Test", "000000"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all mail providers failed")
}

func TestFailoverMailerSkipsNil(t *testing.T) {
	backup := &stubMailer{name: "backup"}

	m, err := NewFailoverMailer(nil, backup)
	require.NoError(t, err)
	require.NoError(t, m.Send(context.Background(), OTPMessage("a@b.c", "T", "111111")))

	_, err = NewFailoverMailer(nil, nil)
	assert.Error(t, err)
}

package biz

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gireesh-ai/portfolio/internal/model"
	"github.com/gireesh-ai/portfolio/internal/portfolio/store"
	"github.com/gireesh-ai/portfolio/pkg/mail"
	pkgerrors "github.com/gireesh-ai/portfolio/pkg/utils/errors"
)

type memOTPStore struct {
	codes  map[string]*model.OTPCode
	putErr error
}

func newMemOTPStore() *memOTPStore {
	return &memOTPStore{codes: make(map[string]*model.OTPCode)}
}

func (m *memOTPStore) Put(_ context.Context, code *model.OTPCode) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.codes[code.Email] = code
	return nil
}

func (m *memOTPStore) Consume(_ context.Context, email, code string) (*model.OTPCode, error) {
	stored, ok := m.codes[email]
	if !ok || stored.Code != code {
		return nil, store.ErrOTPNotFound
	}
	delete(m.codes, email)
	return stored, nil
}

type recordingMailer struct {
	sent []*mail.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg *mail.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) Name() string { return "recording" }

func TestOTPSendAndVerify(t *testing.T) {
	st := newMemOTPStore()
	mailer := &recordingMailer{}
	svc := NewOTPService(st, mailer, nil)

	err := svc.Send(context.Background(), "User@Example.COM", "Alice")
	require.NoError(t, err)

	// stored under the lowercased email
	stored, ok := st.codes["user@example.com"]
	require.True(t, ok)
	assert.Regexp(t, `^\d{6}$`, stored.Code)
	assert.Equal(t, "Alice", stored.Name)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, mail.OTPSubject, mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].HTML, stored.Code)

	name, err := svc.Verify(context.Background(), "user@example.com", stored.Code)
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)
}

func TestOTPVerifyIsOneShot(t *testing.T) {
	st := newMemOTPStore()
	svc := NewOTPService(st, &recordingMailer{}, nil)

	require.NoError(t, svc.Send(context.Background(), "a@b.c", "A"))
	code := st.codes["a@b.c"].Code

	_, err := svc.Verify(context.Background(), "a@b.c", code)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), "a@b.c", code)
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidOTP)
}

func TestOTPVerifyWrongCode(t *testing.T) {
	st := newMemOTPStore()
	svc := NewOTPService(st, &recordingMailer{}, nil)

	require.NoError(t, svc.Send(context.Background(), "a@b.c", "A"))

	code := st.codes["a@b.c"].Code

	_, err := svc.Verify(context.Background(), "a@b.c", "000000")
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidOTP)

	// a wrong attempt does not burn the real code
	name, err := svc.Verify(context.Background(), "a@b.c", code)
	require.NoError(t, err)
	assert.Equal(t, "A", name)
}

func TestOTPVerifyExpired(t *testing.T) {
	st := newMemOTPStore()
	svc := NewOTPService(st, &recordingMailer{}, &OTPConfig{TTL: 5 * time.Minute})

	require.NoError(t, svc.Send(context.Background(), "a@b.c", "A"))
	code := st.codes["a@b.c"].Code

	svc.now = func() time.Time { return time.Now().Add(6 * time.Minute) }

	_, err := svc.Verify(context.Background(), "a@b.c", code)
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidOTP)
}

func TestOTPVerifyUnknownEmail(t *testing.T) {
	svc := NewOTPService(newMemOTPStore(), &recordingMailer{}, nil)

	_, err := svc.Verify(context.Background(), "nobody@example.com", "123456")
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidOTP)
}

func TestOTPSendStoreFailure(t *testing.T) {
	st := newMemOTPStore()
	st.putErr = errors.New("db down")
	mailer := &recordingMailer{}
	svc := NewOTPService(st, mailer, nil)

	err := svc.Send(context.Background(), "a@b.c", "A")
	assert.ErrorIs(t, err, pkgerrors.ErrOTPStoreFailed)
	// store failed, nothing was mailed
	assert.Empty(t, mailer.sent)
}

func TestOTPSendMailFailure(t *testing.T) {
	st := newMemOTPStore()
	svc := NewOTPService(st, &recordingMailer{err: errors.New("smtp down")}, nil)

	err := svc.Send(context.Background(), "a@b.c", "A")
	assert.ErrorIs(t, err, pkgerrors.ErrMailDelivery)
	// code is stored even when delivery fails, it just expires unused
	assert.Contains(t, st.codes, "a@b.c")
}

func TestGenerateOTP(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 200; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		require.True(t, pattern.MatchString(code), "code %q is not six digits", code)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

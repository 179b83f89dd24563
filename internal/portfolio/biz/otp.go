package biz

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/kart-io/logger"

	"github.com/gireesh-ai/portfolio/internal/model"
	"github.com/gireesh-ai/portfolio/internal/portfolio/metrics"
	"github.com/gireesh-ai/portfolio/internal/portfolio/store"
	"github.com/gireesh-ai/portfolio/pkg/mail"
	"github.com/gireesh-ai/portfolio/pkg/utils/errors"
)

// OTPConfig configures the verification flow.
type OTPConfig struct {
	// TTL is how long a code stays valid.
	TTL time.Duration
}

// OTPService issues and verifies one-time passcodes.
type OTPService struct {
	store  store.OTPStore
	mailer mail.Mailer
	config *OTPConfig
	// now is swappable for expiry tests
	now func() time.Time
}

// NewOTPService creates the OTP service.
func NewOTPService(otpStore store.OTPStore, mailer mail.Mailer, config *OTPConfig) *OTPService {
	if config == nil {
		config = &OTPConfig{TTL: 5 * time.Minute}
	}
	if config.TTL <= 0 {
		config.TTL = 5 * time.Minute
	}
	return &OTPService{
		store:  otpStore,
		mailer: mailer,
		config: config,
		now:    time.Now,
	}
}

// Send generates a fresh code for the email, stores it and delivers it.
// The code is stored before delivery, matching the
// store-then-send order of the flow: a failed delivery leaves a code
// that simply expires.
func (s *OTPService) Send(ctx context.Context, email, name string) (err error) {
	defer func() { metrics.Get().RecordOTPSend(err) }()

	email = strings.ToLower(strings.TrimSpace(email))

	code, err := GenerateOTP()
	if err != nil {
		return errors.ErrInternal.WithCause(err)
	}

	record := &model.OTPCode{
		Email:     email,
		Code:      code,
		Name:      name,
		ExpiresAt: s.now().Add(s.config.TTL),
	}
	if err := s.store.Put(ctx, record); err != nil {
		return errors.ErrOTPStoreFailed.WithCause(err)
	}

	msg := mail.OTPMessage(email, name, code)
	if err := s.mailer.Send(ctx, msg); err != nil {
		return errors.ErrMailDelivery.WithCause(err)
	}

	logger.Infow("OTP sent", "email", email)
	return nil
}

// Verify atomically consumes the stored code and checks it. Every failure
// mode (missing, expired, mismatch, replay) returns the same uniform
// error so callers cannot probe which part failed. On success the stored
// name is returned.
func (s *OTPService) Verify(ctx context.Context, email, code string) (name string, err error) {
	defer func() { metrics.Get().RecordOTPVerify(err) }()

	email = strings.ToLower(strings.TrimSpace(email))

	stored, err := s.store.Consume(ctx, email, strings.TrimSpace(code))
	if err != nil {
		if err != store.ErrOTPNotFound {
			logger.Warnw("OTP consume failed", "email", email, "error", err)
		}
		return "", errors.ErrInvalidOTP
	}

	if stored.Expired(s.now()) {
		return "", errors.ErrInvalidOTP
	}

	logger.Infow("OTP verified", "email", email)
	return stored.Name, nil
}

// GenerateOTP returns a uniformly random six-digit code as a string.
func GenerateOTP() (string, error) {
	// 900000 possible values, [100000, 999999]
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

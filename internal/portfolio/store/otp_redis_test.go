package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gireesh-ai/portfolio/internal/model"
)

func newTestRedis(t *testing.T) *goredis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
}

func TestRedisOTPStorePutAndConsume(t *testing.T) {
	s := NewRedisOTPStore(newTestRedis(t), "portfolio:otp:")

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, &model.OTPCode{
		Email:     "user@example.com",
		Code:      "123456",
		Name:      "Visitor",
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}))

	got, err := s.Consume(ctx, "user@example.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, "123456", got.Code)
	assert.Equal(t, "Visitor", got.Name)

	_, err = s.Consume(ctx, "user@example.com", "123456")
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestRedisOTPStoreRejectsExpiredPut(t *testing.T) {
	s := NewRedisOTPStore(newTestRedis(t), "portfolio:otp:")

	err := s.Put(context.Background(), &model.OTPCode{
		Email:     "user@example.com",
		Code:      "123456",
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	assert.Error(t, err)
}

func TestRedisOTPStorePutReplacesExistingCode(t *testing.T) {
	s := NewRedisOTPStore(newTestRedis(t), "portfolio:otp:")

	ctx := context.Background()
	expires := time.Now().Add(5 * time.Minute)
	require.NoError(t, s.Put(ctx, &model.OTPCode{Email: "user@example.com", Code: "111111", ExpiresAt: expires}))
	require.NoError(t, s.Put(ctx, &model.OTPCode{Email: "user@example.com", Code: "222222", ExpiresAt: expires}))

	got, err := s.Consume(ctx, "user@example.com", "222222")
	require.NoError(t, err)
	assert.Equal(t, "222222", got.Code)
}

func TestRedisOTPStoreWrongGuessKeepsCode(t *testing.T) {
	s := NewRedisOTPStore(newTestRedis(t), "portfolio:otp:")

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, &model.OTPCode{
		Email:     "user@example.com",
		Code:      "123456",
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}))

	_, err := s.Consume(ctx, "user@example.com", "000000")
	require.ErrorIs(t, err, ErrOTPNotFound)

	// the real code is still redeemable after the failed guess
	got, err := s.Consume(ctx, "user@example.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, "123456", got.Code)
}

package store

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gireesh-ai/portfolio/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestPostgresOTPStorePutAndConsume(t *testing.T) {
	s, err := NewPostgresOTPStore(newTestDB(t))
	require.NoError(t, err)

	ctx := context.Background()
	code := &model.OTPCode{
		Email:     "user@example.com",
		Code:      "123456",
		Name:      "Visitor",
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}
	require.NoError(t, s.Put(ctx, code))

	got, err := s.Consume(ctx, "user@example.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, "123456", got.Code)
	assert.Equal(t, "Visitor", got.Name)
}

func TestPostgresOTPStoreConsumeIsOneShot(t *testing.T) {
	s, err := NewPostgresOTPStore(newTestDB(t))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, &model.OTPCode{
		Email:     "user@example.com",
		Code:      "654321",
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}))

	_, err = s.Consume(ctx, "user@example.com", "654321")
	require.NoError(t, err)

	_, err = s.Consume(ctx, "user@example.com", "654321")
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestPostgresOTPStorePutReplacesExistingCode(t *testing.T) {
	s, err := NewPostgresOTPStore(newTestDB(t))
	require.NoError(t, err)

	ctx := context.Background()
	expires := time.Now().Add(5 * time.Minute)
	require.NoError(t, s.Put(ctx, &model.OTPCode{Email: "user@example.com", Code: "111111", ExpiresAt: expires}))
	require.NoError(t, s.Put(ctx, &model.OTPCode{Email: "user@example.com", Code: "222222", ExpiresAt: expires}))

	got, err := s.Consume(ctx, "user@example.com", "222222")
	require.NoError(t, err)
	assert.Equal(t, "222222", got.Code)
}

func TestPostgresOTPStoreConsumeMissing(t *testing.T) {
	s, err := NewPostgresOTPStore(newTestDB(t))
	require.NoError(t, err)

	_, err = s.Consume(context.Background(), "nobody@example.com", "123456")
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestPostgresResumeStoreCreate(t *testing.T) {
	db := newTestDB(t)
	s, err := NewPostgresResumeStore(db)
	require.NoError(t, err)

	req := &model.ResumeRequest{Name: "Jane Doe", Email: "jane@example.com"}
	require.NoError(t, s.Create(context.Background(), req))
	assert.NotZero(t, req.ID)

	var count int64
	require.NoError(t, db.Model(&model.ResumeRequest{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPostgresOTPStoreWrongGuessKeepsCode(t *testing.T) {
	s, err := NewPostgresOTPStore(newTestDB(t))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, &model.OTPCode{
		Email:     "user@example.com",
		Code:      "123456",
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}))

	_, err = s.Consume(ctx, "user@example.com", "000000")
	require.ErrorIs(t, err, ErrOTPNotFound)

	// the real code is still redeemable after the failed guess
	got, err := s.Consume(ctx, "user@example.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, "123456", got.Code)
}

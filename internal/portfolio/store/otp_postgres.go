package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gireesh-ai/portfolio/internal/model"
)

// PostgresOTPStore persists OTP codes in a relational table.
type PostgresOTPStore struct {
	db *gorm.DB
}

// NewPostgresOTPStore creates a Postgres-backed OTP store and migrates
// its table.
func NewPostgresOTPStore(db *gorm.DB) (*PostgresOTPStore, error) {
	if err := db.AutoMigrate(&model.OTPCode{}); err != nil {
		return nil, fmt.Errorf("failed to migrate otp table: %w", err)
	}
	return &PostgresOTPStore{db: db}, nil
}

// Put upserts the code keyed by email.
func (s *PostgresOTPStore) Put(ctx context.Context, code *model.OTPCode) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			UpdateAll: true,
		}).
		Create(code).Error
	if err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	return nil
}

// Consume deletes and returns the stored code in a single statement, so
// a code can never be redeemed twice. The code match is part of the
// DELETE predicate: a wrong guess deletes nothing.
func (s *PostgresOTPStore) Consume(ctx context.Context, email, code string) (*model.OTPCode, error) {
	var codes []model.OTPCode
	err := s.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("email = ? AND code = ?", email, code).
		Delete(&codes).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOTPNotFound
		}
		return nil, fmt.Errorf("failed to consume otp: %w", err)
	}
	if len(codes) == 0 {
		return nil, ErrOTPNotFound
	}
	return &codes[0], nil
}

var _ OTPStore = (*PostgresOTPStore)(nil)

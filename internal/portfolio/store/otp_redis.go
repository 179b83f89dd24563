package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/gireesh-ai/portfolio/internal/model"
	"github.com/gireesh-ai/portfolio/pkg/utils/json"
)

// RedisOTPStore persists OTP codes in Redis. The key TTL matches the
// code expiry, so Redis garbage collects stale codes on its own.
type RedisOTPStore struct {
	client    *goredis.Client
	keyPrefix string
}

// NewRedisOTPStore creates a Redis-backed OTP store.
func NewRedisOTPStore(client *goredis.Client, keyPrefix string) *RedisOTPStore {
	return &RedisOTPStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Put stores the code under the email key, overwriting any previous one.
func (s *RedisOTPStore) Put(ctx context.Context, code *model.OTPCode) error {
	payload, err := json.Marshal(code)
	if err != nil {
		return fmt.Errorf("failed to marshal otp: %w", err)
	}

	ttl := time.Until(code.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("otp already expired")
	}

	if err := s.client.Set(ctx, s.key(code.Email), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}
	return nil
}

// consumeScript deletes the key only when the stored code matches the
// presented one. GETDEL is unconditional, so the compare runs server
// side to keep consume atomic without wiping the code on a wrong guess.
var consumeScript = goredis.NewScript(`
local payload = redis.call("GET", KEYS[1])
if not payload then
	return false
end
if cjson.decode(payload)["code"] ~= ARGV[1] then
	return false
end
redis.call("DEL", KEYS[1])
return payload
`)

// Consume removes and returns the stored code when it matches, so a
// code can never be redeemed twice. A wrong guess leaves it in place.
func (s *RedisOTPStore) Consume(ctx context.Context, email, code string) (*model.OTPCode, error) {
	payload, err := consumeScript.Run(ctx, s.client, []string{s.key(email)}, code).Text()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrOTPNotFound
		}
		return nil, fmt.Errorf("failed to consume otp: %w", err)
	}

	var stored model.OTPCode
	if err := json.Unmarshal([]byte(payload), &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal otp: %w", err)
	}
	return &stored, nil
}

func (s *RedisOTPStore) key(email string) string {
	return s.keyPrefix + email
}

var _ OTPStore = (*RedisOTPStore)(nil)

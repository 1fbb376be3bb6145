package security

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"see-eat-backend/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LoginTrackerConfig holds configuration for login tracking
type LoginTrackerConfig struct {
	MaxAttempts   int           // Maximum failed attempts before block (default: 5)
	AttemptWindow time.Duration // Time window for tracking attempts (default: 15min)
	BlockDuration time.Duration // How long to block after max attempts (default: 15min)
	UseIPTracking bool          // Also track by IP address (default: true)
}

// DefaultLoginTrackerConfig returns sensible defaults
func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
		UseIPTracking: true,
	}
}

// LoginTracker counts failed sign-ins per email and IP and blocks both for a
// while once the limit is reached. A tracker without a Redis client allows
// everything.
type LoginTracker struct {
	config LoginTrackerConfig
	client *goredis.Client
}

func NewLoginTracker(client *goredis.Client, config LoginTrackerConfig) *LoginTracker {
	return &LoginTracker{config: config, client: client}
}

// Redis key patterns
const (
	failLoginUserPrefix    = "fail:login:user:"
	failLoginIPPrefix      = "fail:login:ip:"
	blockedLoginUserPrefix = "blocked:login:user:"
	blockedLoginIPPrefix   = "blocked:login:ip:"
)

// INCR, and EXPIRE on the first hit so the window starts at the first failure.
var incrWithTTL = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (lt *LoginTracker) enabled() bool {
	return lt != nil && lt.client != nil
}

// IsBlocked reports whether the email or IP is currently blocked.
func (lt *LoginTracker) IsBlocked(ctx context.Context, email, ip string) (bool, error) {
	if !lt.enabled() {
		return false, nil
	}

	keys := []string{blockedLoginUserPrefix + normalizeEmail(email)}
	if lt.config.UseIPTracking && ip != "" {
		keys = append(keys, blockedLoginIPPrefix+ip)
	}
	n, err := lt.client.Exists(ctx, keys...).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check login block: %w", err)
	}
	return n > 0, nil
}

// RecordFailedAttempt counts one failure and blocks once MaxAttempts is reached.
// Returns (blocked, currentAttempts, error)
func (lt *LoginTracker) RecordFailedAttempt(ctx context.Context, email, ip string) (bool, int, error) {
	if !lt.enabled() {
		return false, 0, nil
	}
	email = normalizeEmail(email)
	ttlSeconds := int(lt.config.AttemptWindow.Seconds())

	userCount, err := incrWithTTL.Run(ctx, lt.client, []string{failLoginUserPrefix + email}, ttlSeconds).Int()
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment user counter: %w", err)
	}

	if lt.config.UseIPTracking && ip != "" {
		_ = incrWithTTL.Run(ctx, lt.client, []string{failLoginIPPrefix + ip}, ttlSeconds).Err() // Best effort
	}

	logger.Log.Warn("Sign-in failed",
		zap.String("email", email),
		zap.String("client_ip", ip),
		zap.Int("attempts", userCount),
	)

	if userCount < lt.config.MaxAttempts {
		return false, userCount, nil
	}
	if err := lt.createBlock(ctx, email, ip); err != nil {
		return true, userCount, err
	}
	return true, userCount, nil
}

func (lt *LoginTracker) createBlock(ctx context.Context, email, ip string) error {
	if err := lt.client.Set(ctx, blockedLoginUserPrefix+email, "1", lt.config.BlockDuration).Err(); err != nil {
		return fmt.Errorf("failed to set user block: %w", err)
	}
	if lt.config.UseIPTracking && ip != "" {
		if err := lt.client.Set(ctx, blockedLoginIPPrefix+ip, "1", lt.config.BlockDuration).Err(); err != nil {
			// User is already blocked.
			logger.Log.Warn("Failed to set IP block", zap.Error(err))
		}
	}

	logger.Log.Warn("Sign-in blocked",
		zap.String("email", email),
		zap.String("client_ip", ip),
		zap.Duration("duration", lt.config.BlockDuration),
	)
	return nil
}

// ClearAttempts clears failed login attempts on successful login
func (lt *LoginTracker) ClearAttempts(ctx context.Context, email, ip string) error {
	if !lt.enabled() {
		return nil
	}
	keys := []string{failLoginUserPrefix + normalizeEmail(email)}
	if lt.config.UseIPTracking && ip != "" {
		keys = append(keys, failLoginIPPrefix+ip)
	}
	if err := lt.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear login attempts: %w", err)
	}
	return nil
}

// GetBlockTTL returns how long until the email's block expires.
// Returns (duration, blocked, error)
func (lt *LoginTracker) GetBlockTTL(ctx context.Context, email string) (time.Duration, bool, error) {
	if !lt.enabled() {
		return 0, false, nil
	}
	ttl, err := lt.client.TTL(ctx, blockedLoginUserPrefix+normalizeEmail(email)).Result()
	if errors.Is(err, goredis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get block TTL: %w", err)
	}
	if ttl < 0 {
		return 0, false, nil // Not blocked
	}
	return ttl, true, nil
}

package bridge

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/lawnchairsociety/questabletractor/internal/config"
)

// ErrUnauthorized is returned when a hello carries the wrong token.
var ErrUnauthorized = errors.New("unauthorized")

// HashToken hashes a bridge token for the token_hash config setting.
func HashToken(token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("token must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash token: %w", err)
	}
	return string(hash), nil
}

// CheckToken compares a presented token with the configured hash. An empty
// hash accepts any token.
func CheckToken(hash, token string) error {
	if hash == "" {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)); err != nil {
		return ErrUnauthorized
	}
	return nil
}

// HelloRateLimiter tracks failed hello attempts and enforces lockouts.
type HelloRateLimiter struct {
	mu                sync.Mutex
	attempts          map[string]*attemptInfo
	maxAttempts       int
	lockoutSeconds    int
	maxLockoutSeconds int
	cleanupInterval   time.Duration
	stopCleanup       chan struct{}
	stopOnce          sync.Once
}

type attemptInfo struct {
	failedAttempts int
	lockedUntil    time.Time
	lockoutCount   int // Number of times locked out (for exponential backoff)
}

// NewHelloRateLimiter creates a new rate limiter with the given config.
func NewHelloRateLimiter(cfg config.RateLimitConfig) *HelloRateLimiter {
	rl := &HelloRateLimiter{
		attempts:          make(map[string]*attemptInfo),
		maxAttempts:       cfg.MaxAttempts,
		lockoutSeconds:    cfg.LockoutSeconds,
		maxLockoutSeconds: cfg.MaxLockoutSeconds,
		cleanupInterval:   5 * time.Minute,
		stopCleanup:       make(chan struct{}),
	}

	// Use sensible defaults if not configured
	if rl.maxAttempts == 0 {
		rl.maxAttempts = 5
	}
	if rl.lockoutSeconds == 0 {
		rl.lockoutSeconds = 30
	}
	if rl.maxLockoutSeconds == 0 {
		rl.maxLockoutSeconds = 300
	}

	go rl.cleanupLoop()

	return rl
}

// Stop stops the cleanup goroutine.
func (rl *HelloRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleanup) })
}

// IsLocked checks if the given IP is currently locked out.
func (rl *HelloRateLimiter) IsLocked(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	info, exists := rl.attempts[ip]
	if !exists {
		return false, 0
	}
	if time.Now().Before(info.lockedUntil) {
		return true, time.Until(info.lockedUntil)
	}
	return false, 0
}

// RecordFailure records a failed hello for the given IP.
// Returns true if the IP is now locked out, along with the lockout duration.
func (rl *HelloRateLimiter) RecordFailure(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	info, exists := rl.attempts[ip]
	if !exists {
		info = &attemptInfo{}
		rl.attempts[ip] = info
	}

	if time.Now().Before(info.lockedUntil) {
		return true, time.Until(info.lockedUntil)
	}

	info.failedAttempts++
	if info.failedAttempts < rl.maxAttempts {
		return false, 0
	}

	info.lockoutCount++
	// Exponential backoff: double the lockout each time, up to max
	lockoutDuration := time.Duration(rl.lockoutSeconds) * time.Second
	maxDuration := time.Duration(rl.maxLockoutSeconds) * time.Second
	for i := 1; i < info.lockoutCount; i++ {
		if lockoutDuration >= maxDuration/2 {
			lockoutDuration = maxDuration
			break
		}
		lockoutDuration *= 2
	}
	if lockoutDuration > maxDuration {
		lockoutDuration = maxDuration
	}
	info.lockedUntil = time.Now().Add(lockoutDuration)
	info.failedAttempts = 0
	return true, lockoutDuration
}

// RecordSuccess clears the failure count for an IP.
func (rl *HelloRateLimiter) RecordSuccess(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.attempts, ip)
}

// GetAttempts returns the current failed attempt count for an IP.
func (rl *HelloRateLimiter) GetAttempts(ip string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if info, exists := rl.attempts[ip]; exists {
		return info.failedAttempts
	}
	return 0
}

func (rl *HelloRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCleanup:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

// cleanup removes entries that have been unlocked for a while and have no
// recent failures.
func (rl *HelloRateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, info := range rl.attempts {
		if info.lockedUntil.Before(cutoff) && info.failedAttempts == 0 {
			delete(rl.attempts, ip)
		}
	}
}

package auth

import (
	"sync"
	"time"

	"github.com/bookfriends/server/internal/config"
)

// LoginLimiter counts failed logins per client IP and phone number and locks
// the pair out once the limit is reached inside the window.
type LoginLimiter struct {
	mu       sync.Mutex
	attempts map[string]*loginAttempts
	now      func() time.Time

	maxAttempts int
	window      time.Duration
	lockout     time.Duration
}

type loginAttempts struct {
	failures    int
	windowStart time.Time
	lockedUntil time.Time
}

// NewLoginLimiter builds a limiter from the auth settings. Zero values fall
// back to 5 attempts per 15 minutes and a 30 minute lockout.
func NewLoginLimiter(cfg config.Auth) *LoginLimiter {
	l := &LoginLimiter{
		attempts:    make(map[string]*loginAttempts),
		now:         time.Now,
		maxAttempts: cfg.MaxLoginAttempts,
		window:      cfg.RateLimitWindow,
		lockout:     cfg.LockoutDuration,
	}
	if l.maxAttempts <= 0 {
		l.maxAttempts = 5
	}
	if l.window <= 0 {
		l.window = 15 * time.Minute
	}
	if l.lockout <= 0 {
		l.lockout = 30 * time.Minute
	}
	return l
}

func limiterKey(ip, phone string) string {
	return ip + "|" + phone
}

// Allow reports whether a login attempt may proceed, and if not, how long
// the caller has to wait.
func (l *LoginLimiter) Allow(ip, phone string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.attempts[limiterKey(ip, phone)]
	if !ok {
		return true, 0
	}

	now := l.now()
	if now.Before(rec.lockedUntil) {
		return false, rec.lockedUntil.Sub(now)
	}
	return true, 0
}

// RecordFailure registers a failed attempt. It returns true when this
// attempt triggered a lockout.
func (l *LoginLimiter) RecordFailure(ip, phone string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	key := limiterKey(ip, phone)
	rec, ok := l.attempts[key]
	if !ok || now.Sub(rec.windowStart) > l.window {
		rec = &loginAttempts{windowStart: now}
		l.attempts[key] = rec
	}

	rec.failures++
	if rec.failures >= l.maxAttempts {
		rec.lockedUntil = now.Add(l.lockout)
		return true
	}
	return false
}

// RecordSuccess forgets earlier failures for the pair.
func (l *LoginLimiter) RecordSuccess(ip, phone string) {
	l.mu.Lock()
	delete(l.attempts, limiterKey(ip, phone))
	l.mu.Unlock()
}

// Prune drops records whose window and lockout have both passed.
func (l *LoginLimiter) Prune() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, rec := range l.attempts {
		if now.Sub(rec.windowStart) > l.window && !now.Before(rec.lockedUntil) {
			delete(l.attempts, key)
			removed++
		}
	}
	return removed
}

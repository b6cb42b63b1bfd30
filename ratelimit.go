package portodash

import (
	"sync"
	"time"
)

// DefaultCooldown is how long the resolver stays away from live providers
// after a rate-limit signal.
const DefaultCooldown = time.Hour

// RateLimitState is the process-wide record of a provider rate-limit cooldown.
// It is mutated only by the resolver and read by interactive surfaces for
// display. It survives across resolution calls within a session but not across
// process restarts.
type RateLimitState struct {
	mu           sync.Mutex
	blockedUntil time.Time
	lastError    string
	lastAttempt  time.Time
}

// Blocked reports whether live fetching is currently suspended. An elapsed
// cooldown clears the state.
func (s *RateLimitState) Blocked(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.blockedUntil.IsZero() {
		return false
	}
	if !now.Before(s.blockedUntil) {
		s.blockedUntil = time.Time{}
		s.lastError = ""
		return false
	}
	return true
}

// Trip arms the cooldown until now+cooldown and records the provider message.
func (s *RateLimitState) Trip(now time.Time, cooldown time.Duration, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blockedUntil = now.Add(cooldown)
	s.lastError = message
}

// BlockedUntil returns the end of the current cooldown (zero when not blocked)
// and the message that armed it.
func (s *RateLimitState) BlockedUntil() (time.Time, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blockedUntil, s.lastError
}

// noteAttempt records the time of the latest live-fetch attempt.
func (s *RateLimitState) noteAttempt(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAttempt = now
}

// LastAttempt returns the time of the latest live-fetch attempt. Callers that
// want a minimum interval between live fetches simply avoid resolving again
// before their cooldown window has elapsed.
func (s *RateLimitState) LastAttempt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAttempt
}

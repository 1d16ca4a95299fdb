package resilience

import "time"

// Zero fields in a CircuitBreakerConfig fall back to these values. The open
// timeout covers one short Riot quota window.
const (
	defaultFailureThreshold = 5
	defaultOpenTimeout      = 10 * time.Second
	defaultHalfOpenMaxReq   = 2
)

type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

// WithDefaults fills unset or invalid fields. Enabled is left untouched.
func (c CircuitBreakerConfig) WithDefaults() CircuitBreakerConfig {
	if c.FailureThreshold < 1 {
		c.FailureThreshold = defaultFailureThreshold
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = defaultOpenTimeout
	}
	if c.HalfOpenMaxReq < 1 {
		c.HalfOpenMaxReq = defaultHalfOpenMaxReq
	}
	return c
}

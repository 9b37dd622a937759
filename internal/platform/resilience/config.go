package resilience

import "time"

// CircuitBreakerConfig carries breaker tuning shared by external clients.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenMaxReq:   2,
	}
}

func (c CircuitBreakerConfig) Normalize() CircuitBreakerConfig {
	def := DefaultCircuitBreakerConfig()
	if c.FailureThreshold < 1 {
		c.FailureThreshold = def.FailureThreshold
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = def.OpenTimeout
	}
	if c.HalfOpenMaxReq < 1 {
		c.HalfOpenMaxReq = def.HalfOpenMaxReq
	}

	return c
}

func (c CircuitBreakerConfig) NewBreaker() *CircuitBreaker {
	n := c.Normalize()
	return NewCircuitBreaker(n.FailureThreshold, n.OpenTimeout, n.HalfOpenMaxReq)
}

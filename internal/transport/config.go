package transport

import (
	"math"
	"math/rand"
	"time"
)

// BackoffConfig defines retry backoff behavior for transmit attempts.
type BackoffConfig struct {
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
	Jitter       bool
	// ByteAirtime is the time one encoded byte spends on air. Retry delays
	// never drop below the air time of the frame being retried.
	ByteAirtime time.Duration
}

// Config defines transmit/receive defaults.
type Config struct {
	// Node labels logs and metrics.
	Node string
	// MaxTxAttempts bounds driver transmit attempts per datagram.
	MaxTxAttempts int
	Backoff       BackoffConfig
	// TrackerCapacity bounds the replay tracker; zero uses the session
	// default.
	TrackerCapacity int
	// DropReplays discards duplicate and stale sequence numbers.
	DropReplays bool
}

func DefaultConfig() Config {
	return Config{
		Node:          "longfi",
		MaxTxAttempts: 3,
		Backoff: BackoffConfig{
			InitialDelay: 20 * time.Millisecond,
			Multiplier:   2.0,
			MaxDelay:     500 * time.Millisecond,
			Jitter:       true,
			ByteAirtime:  500 * time.Microsecond,
		},
		DropReplays: true,
	}
}

// Airtime is how long a frame of frameLen bytes occupies the channel.
func (b BackoffConfig) Airtime(frameLen int) time.Duration {
	if b.ByteAirtime <= 0 || frameLen <= 0 {
		return 0
	}
	return b.ByteAirtime * time.Duration(frameLen)
}

// NextBackoffDelay returns the wait after failed attempt N (1-based) of a
// frame of frameLen bytes. The exponential delay is capped at MaxDelay and
// then floored at the frame's air time, so a long frame on a slow link can
// wait longer than MaxDelay.
func NextBackoffDelay(cfg BackoffConfig, attempt, frameLen int, rng *rand.Rand) time.Duration {
	floor := cfg.Airtime(frameLen)
	if cfg.InitialDelay <= 0 {
		return floor
	}

	mult := math.Max(cfg.Multiplier, 1.0)
	delay := float64(cfg.InitialDelay)
	if attempt > 1 {
		delay *= math.Pow(mult, float64(attempt-1))
	}
	if cfg.MaxDelay > 0 {
		delay = math.Min(delay, float64(cfg.MaxDelay))
	}
	if cfg.Jitter {
		scale := 0.5
		if rng != nil {
			scale += rng.Float64()
		}
		delay *= scale
	}
	return max(time.Duration(delay), floor)
}

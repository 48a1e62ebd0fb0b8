package session

import "time"

// Config holds session configuration.
type Config struct {
	// Lifetime is the sliding session lifetime; continued use renews it.
	Lifetime time.Duration `env:"SESSION_LIFETIME" envDefault:"720h"`

	// ActivityUpdateThreshold is the minimum time between activity writes,
	// so every request does not cost a storage update.
	ActivityUpdateThreshold time.Duration `env:"SESSION_ACTIVITY_UPDATE_THRESHOLD" envDefault:"5m"`
}

// DefaultConfig returns default session configuration: 30 days sliding.
func DefaultConfig() Config {
	return Config{
		Lifetime:                30 * 24 * time.Hour,
		ActivityUpdateThreshold: 5 * time.Minute,
	}
}

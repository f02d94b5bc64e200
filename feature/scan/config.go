package scan

import "time"

// Config holds tunables for the scan reconciliation core.
type Config struct {
	// ReceivingDOTWidth is the DOT fragment width matched on import notes.
	ReceivingDOTWidth int `mapstructure:"receiving_dot_width" default:"2"`
	// RegistrationDOTWidth is the DOT fragment width matched on export notes.
	RegistrationDOTWidth int `mapstructure:"registration_dot_width" default:"4"`
	// MaxUpdateRetries bounds how often a guarded increment is retried
	// after losing the version swap.
	MaxUpdateRetries int `mapstructure:"max_update_retries" default:"5"`
	// SessionTTL is how long a seeded scan session stays valid before it
	// is reseeded from the server.
	SessionTTL time.Duration `mapstructure:"session_ttl" default:"15m"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		ReceivingDOTWidth:    2,
		RegistrationDOTWidth: 4,
		MaxUpdateRetries:     5,
		SessionTTL:           15 * time.Minute,
	}
}

// withDefaults fills zero values so a partially filled Config stays usable.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.ReceivingDOTWidth <= 0 {
		c.ReceivingDOTWidth = def.ReceivingDOTWidth
	}
	if c.RegistrationDOTWidth <= 0 {
		c.RegistrationDOTWidth = def.RegistrationDOTWidth
	}
	if c.MaxUpdateRetries <= 0 {
		c.MaxUpdateRetries = def.MaxUpdateRetries
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = def.SessionTTL
	}
	return c
}

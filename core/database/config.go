package database

import "time"

// Config holds configuration for the library catalog database.
type Config struct {
	// Host is the database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port.
	Port int `mapstructure:"port" default:"3306" validate:"gte=0,lte=65535"`
	// User is the database user.
	User string `mapstructure:"user" default:"root"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database name.
	Name string `mapstructure:"name" default:"doc_composer"`
	// TimeoutSeconds bounds connection setup, reads and writes.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30" validate:"gte=0"`
	// MaxOpenConns caps concurrent catalog connections. Catalog reads are
	// one query per snapshot, so a handful is plenty.
	MaxOpenConns int `mapstructure:"max_open_conns" default:"4" validate:"gte=0"`
	// MaxIdleConns is the number of connections kept warm between reloads.
	MaxIdleConns int `mapstructure:"max_idle_conns" default:"2" validate:"gte=0"`
	// ConnMaxLifetimeMinutes recycles connections older than this. Zero keeps them forever.
	ConnMaxLifetimeMinutes int `mapstructure:"conn_max_lifetime_minutes" default:"30" validate:"gte=0"`
}

// Timeout returns the I/O timeout, falling back to 30 seconds when unset.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ConnMaxLifetime returns the connection lifetime as a duration.
func (c Config) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeMinutes) * time.Minute
}

package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080" validate:"required,numeric"`
	// ApiKey is the secret key required to access the API.
	// An empty key leaves the API open.
	ApiKey string `mapstructure:"api_key" default:""`
}

// Address returns the listen address for the configured port.
func (c Config) Address() string {
	return ":" + c.Port
}

// Protected reports whether requests must carry the API key.
func (c Config) Protected() bool {
	return c.ApiKey != ""
}

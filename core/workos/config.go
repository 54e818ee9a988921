package workos

import "time"

// Config provides environment-based configuration for the provider client.
type Config struct {
	ClientID     string        `env:"WORKOS_CLIENT_ID" envDefault:""`
	APIKey       string        `env:"WORKOS_API_KEY" envDefault:""`
	APIHostname  string        `env:"WORKOS_API_HOSTNAME" envDefault:"api.workos.com"`
	APIHTTPS     bool          `env:"WORKOS_API_HTTPS" envDefault:"true"`
	APIPort      int           `env:"WORKOS_API_PORT" envDefault:"0"`
	Timeout      time.Duration `env:"WORKOS_API_TIMEOUT" envDefault:"10s"`
	RetryMax     int           `env:"WORKOS_API_RETRY_MAX" envDefault:"2"`
	RetryWaitMin time.Duration `env:"WORKOS_API_RETRY_WAIT_MIN" envDefault:"100ms"`
	RetryWaitMax time.Duration `env:"WORKOS_API_RETRY_WAIT_MAX" envDefault:"1s"`
}

// DefaultConfig returns a Config pointing at the production API.
func DefaultConfig() Config {
	return Config{
		APIHostname:  "api.workos.com",
		APIHTTPS:     true,
		Timeout:      10 * time.Second,
		RetryMax:     2,
		RetryWaitMin: 100 * time.Millisecond,
		RetryWaitMax: time.Second,
	}
}

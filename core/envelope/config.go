package envelope

// Config provides environment-based configuration for the codec.
// Password seals new envelopes; PreviousPasswords only open existing ones.
type Config struct {
	Password          string   `env:"WORKOS_COOKIE_PASSWORD" envDefault:""`
	PreviousPasswords []string `env:"WORKOS_COOKIE_PREVIOUS_PASSWORDS" envSeparator:","`
}

// NewFromConfig creates a Codec from configuration.
func NewFromConfig(cfg Config, opts ...Option) (*Codec, error) {
	passwords := make([]string, 0, 1+len(cfg.PreviousPasswords))
	passwords = append(passwords, cfg.Password)
	passwords = append(passwords, cfg.PreviousPasswords...)

	return New(passwords, opts...)
}

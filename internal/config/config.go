package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings shared by the CLI and the gateway.
//
// Units: HTTPTimeout is a time.Duration (e.g. 15*time.Second).
// RetryAttempts counts retries after the first try, for idempotent reads only.
type Config struct {
	APIBaseURL        string
	GatewayAddr       string
	HTTPTimeout       time.Duration
	RetryAttempts     int
	SessionFile       string
	GoogleClientID    string
	GoogleRedirectURI string
	AppleClientID     string
	AppleRedirectURI  string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000/api"
	c.GatewayAddr = ":8080"
	c.HTTPTimeout = 15 * time.Second
	c.RetryAttempts = 2
	c.SessionFile = defaultSessionFile()
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a .env file, a JSON file, environment variables and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseDotenv(cfg)
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

func defaultSessionFile() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "session.json"
	}
	return filepath.Join(base, "nutriscan", "session.json")
}

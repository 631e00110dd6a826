package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseDotenv loads a .env file from the working directory into the process
// environment. A missing file is not an error; the environment layer simply
// sees whatever was already set.
func parseDotenv(cfg *Config) {
	_ = godotenv.Load()
}

// parseEnv overlays Config with values from environment variables.
//
// Recognized variables:
//
//	NUTRISCAN_API_URL             backend base URL
//	NUTRISCAN_GATEWAY_ADDR        gateway listen address
//	NUTRISCAN_HTTP_TIMEOUT        Go duration string, e.g. "15s"
//	NUTRISCAN_RETRY_ATTEMPTS      integer retry budget for reads
//	NUTRISCAN_SESSION_FILE        session file path
//	NUTRISCAN_GOOGLE_CLIENT_ID    OAuth client id (Google)
//	NUTRISCAN_GOOGLE_REDIRECT_URI OAuth redirect (Google)
//	NUTRISCAN_APPLE_CLIENT_ID     OAuth client id (Apple)
//	NUTRISCAN_APPLE_REDIRECT_URI  OAuth redirect (Apple)
func parseEnv(cfg *Config) {
	if v := os.Getenv("NUTRISCAN_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("NUTRISCAN_GATEWAY_ADDR"); v != "" {
		cfg.GatewayAddr = v
	}
	if v := os.Getenv("NUTRISCAN_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTPTimeout = d
		}
	}
	if v := os.Getenv("NUTRISCAN_RETRY_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.RetryAttempts = n
		}
	}
	if v := os.Getenv("NUTRISCAN_SESSION_FILE"); v != "" {
		cfg.SessionFile = v
	}
	if v := os.Getenv("NUTRISCAN_GOOGLE_CLIENT_ID"); v != "" {
		cfg.GoogleClientID = v
	}
	if v := os.Getenv("NUTRISCAN_GOOGLE_REDIRECT_URI"); v != "" {
		cfg.GoogleRedirectURI = v
	}
	if v := os.Getenv("NUTRISCAN_APPLE_CLIENT_ID"); v != "" {
		cfg.AppleClientID = v
	}
	if v := os.Getenv("NUTRISCAN_APPLE_REDIRECT_URI"); v != "" {
		cfg.AppleRedirectURI = v
	}
}

package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/nutriscan/nutriscan/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations are
// given as strings like "15s". Zero values mean "not set" and leave the
// corresponding Config field untouched.
type JsonConfig struct {
	APIBaseURL        string `json:"api_base_url"`
	GatewayAddr       string `json:"gateway_addr"`
	HTTPTimeout       string `json:"http_timeout"`
	RetryAttempts     *int   `json:"retry_attempts"`
	SessionFile       string `json:"session_file"`
	GoogleClientID    string `json:"google_client_id"`
	GoogleRedirectURI string `json:"google_redirect_uri"`
	AppleClientID     string `json:"apple_client_id"`
	AppleRedirectURI  string `json:"apple_redirect_uri"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags; when absent, nothing is loaded.
// Read or unmarshal errors panic, matching the fail-fast posture of startup
// configuration.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.GatewayAddr != "" {
		cfg.GatewayAddr = jc.GatewayAddr
	}
	if jc.HTTPTimeout != "" {
		d, err := time.ParseDuration(jc.HTTPTimeout)
		if err != nil {
			panic(err)
		}
		cfg.HTTPTimeout = d
	}
	if jc.RetryAttempts != nil && *jc.RetryAttempts >= 0 {
		cfg.RetryAttempts = *jc.RetryAttempts
	}
	if jc.SessionFile != "" {
		cfg.SessionFile = jc.SessionFile
	}
	if jc.GoogleClientID != "" {
		cfg.GoogleClientID = jc.GoogleClientID
	}
	if jc.GoogleRedirectURI != "" {
		cfg.GoogleRedirectURI = jc.GoogleRedirectURI
	}
	if jc.AppleClientID != "" {
		cfg.AppleClientID = jc.AppleClientID
	}
	if jc.AppleRedirectURI != "" {
		cfg.AppleRedirectURI = jc.AppleRedirectURI
	}
}

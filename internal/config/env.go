package config

import "os"

// parseEnv overlays Config with values from environment variables. Only
// variables that are set override the current values; secrets are expected
// to arrive this way in deployment.
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("VERISAFE_BASE_URL"); ok {
		config.VerisafeBaseURL = v
	}
	if v, ok := os.LookupEnv("VERISAFE_API_SECRET"); ok {
		config.VerisafeAPISecret = v
	}
	if v, ok := os.LookupEnv("GOOGLE_CLIENT_ID"); ok {
		config.GoogleClientID = v
	}
	if v, ok := os.LookupEnv("GOOGLE_CLIENT_SECRET"); ok {
		config.GoogleClientSecret = v
	}
}

package config

import (
	"os"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with environment variables, loading a local
// .env file first when one exists. Missing variables leave the current
// values untouched.
//
// Recognized variables:
//
//	ZENTEST_SERVER_ADDR  address and port of the backend server
//	ZENTEST_APP_ID       workspace identifier shared by all clients
func parseEnv(cfg *Config) {
	// A missing .env is the normal case, not an error.
	_ = godotenv.Load()

	if v, ok := os.LookupEnv("ZENTEST_SERVER_ADDR"); ok {
		cfg.ServerEndpointAddr = v
	}
	if v, ok := os.LookupEnv("ZENTEST_APP_ID"); ok {
		cfg.AppID = v
	}
}

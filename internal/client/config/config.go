package config

import "time"

// Config holds runtime settings for the ZenTest CLI.
//
// An empty ServerEndpointAddr means the client is unconfigured: only the
// local preview workspace is available and sign-in is disabled.
type Config struct {
	ServerEndpointAddr string
	AppID              string
	RunInitDelay       time.Duration
	RunStepDelay       time.Duration
	RunPassRate        float64
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = ""
	c.AppID = "zentest-compact-shared"
	c.RunInitDelay = 600 * time.Millisecond
	c.RunStepDelay = 400 * time.Millisecond
	c.RunPassRate = 0.85
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment (including a .env file if present), an optional
// JSON file, and command-line flags. Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

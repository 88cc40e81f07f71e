package config

import (
	"encoding/json"
	"os"

	"github.com/zentesthq/zentest/internal/flagx"
	"github.com/zentesthq/zentest/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies
// on timex.Duration so JSON can specify delays either as strings like
// "400ms" or as integer nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	AppID              string         `json:"app_id"`
	RunInitDelay       timex.Duration `json:"run_init_delay"`
	RunStepDelay       timex.Duration `json:"run_step_delay"`
	RunPassRate        *float64       `json:"run_pass_rate"`
}

// parseJson overlays Config with values loaded from a JSON file selected
// via the -c or -config flags. No flag means no JSON is loaded. Read or
// unmarshal errors panic; the caller decides whether to recover.
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

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.AppID != "" {
		cfg.AppID = jc.AppID
	}
	if jc.RunInitDelay != 0 {
		cfg.RunInitDelay = jc.RunInitDelay.Std()
	}
	if jc.RunStepDelay != 0 {
		cfg.RunStepDelay = jc.RunStepDelay.Std()
	}
	if jc.RunPassRate != nil {
		cfg.RunPassRate = *jc.RunPassRate
	}
}

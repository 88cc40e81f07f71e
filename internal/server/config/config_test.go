package config

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zentesthq/zentest/internal/timex"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":3100", c.EndpointAddr)
	assert.Equal(t, "zentest.db", c.DatabaseDSN)
	assert.Equal(t, 24*time.Hour, c.AccessTokenValidityDuration)
}

func TestParseFlags(t *testing.T) {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"cmd", "-a", ":9090", "-d", "/tmp/z.db", "-t", "2"}

	var c Config
	c.LoadDefaults()
	require.NotPanics(t, func() { parseFlags(&c) })

	assert.Equal(t, ":9090", c.EndpointAddr)
	assert.Equal(t, "/tmp/z.db", c.DatabaseDSN)
	assert.Equal(t, 2*time.Hour, c.AccessTokenValidityDuration)
}

func TestParseJson(t *testing.T) {
	jc := JsonConfig{
		EndpointAddr:                ":4000",
		AccessTokenValidityDuration: timex.Duration(time.Hour),
	}
	data, err := json.Marshal(jc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "server.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"cmd", "-config", path}

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, ":4000", c.EndpointAddr)
	assert.Equal(t, time.Hour, c.AccessTokenValidityDuration)
	// untouched fields keep defaults
	assert.Equal(t, "zentest.db", c.DatabaseDSN)
}

package config

import (
	"flag"
	"os"

	"github.com/zentesthq/zentest/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string    address and port of the backend server (default from Config)
//	-app string  workspace identifier shared by all clients
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-app"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.AppID, "app", cfg.AppID, "workspace identifier")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}

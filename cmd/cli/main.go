package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/zentesthq/zentest/internal/buildinfo"
	"github.com/zentesthq/zentest/internal/client/cli"
	"github.com/zentesthq/zentest/internal/client/config"
	"github.com/zentesthq/zentest/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewJSON(os.Stderr, slog.LevelWarn)

	app := cli.NewApp(cfg, logger)
	app.Run(ctx)

}

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/nibaldox/dureza-relativa/internal/app"
	"github.com/nibaldox/dureza-relativa/internal/config"
	"github.com/nibaldox/dureza-relativa/internal/infrastructure"
	"github.com/nibaldox/dureza-relativa/pkg/contracts"
)

func main() {
	configFile := flag.String("config", "", "configuration file (defaults to DUREZA_CONFIG_FILE or config.yaml)")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.ReadBuildInfo())
		return
	}

	var cfg *config.Config
	var err error
	if *configFile != "" {
		cfg, err = config.LoadFile(*configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	// Create application instance
	application, err := app.NewApplication(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		infrastructure.CloseLogFile()
		os.Exit(1)
	}
}

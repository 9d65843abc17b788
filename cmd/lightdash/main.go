package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/lightdash/internal/app"
	"github.com/dokzlo13/lightdash/internal/config"
)

func main() {
	// Support both -c and --config for config path
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file (samples and defaults when empty)")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	once := flag.Bool("once", false, "Render, run the script, print the widget tree and exit")
	flag.Parse()

	// Load configuration
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}

	// Setup logging
	setupLogging(cfg.Log.Level, cfg.Log.UseJSON, cfg.Log.Colors)

	log.Info().Str("config", configPath).Msg("Starting lightdash")

	application := app.New(cfg)

	// Create context that cancels on shutdown signal
	ctx := app.SignalContext()

	if *once {
		err := application.Once(ctx, os.Stdout)
		if stopErr := application.Stop(); stopErr != nil {
			log.Error().Err(stopErr).Msg("Error during shutdown")
		}
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to render dashboard")
		}
		return
	}

	// Start the application
	if err := application.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	// Wait for shutdown
	application.Wait()

	// Graceful shutdown
	if err := application.Stop(); err != nil {
		log.Error().Err(err).Msg("Error during shutdown")
	}
}

func setupLogging(level string, useJSON bool, colors bool) {
	// ISO 8601 format with timezone
	zerolog.TimeFieldFormat = time.RFC3339

	if useJSON {
		// JSON output for production
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		// Text output (with optional colors)
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
			NoColor:    !colors,
		})
	}

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

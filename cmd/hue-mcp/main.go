package main

import (
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/warshanks/hue-mcp/internal/app"
	"github.com/warshanks/hue-mcp/internal/config"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	// Support both -c and --config for config path
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file (optional)")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	transport := flag.String("transport", "", "MCP transport: stdio, sse, or http (overrides config)")
	host := flag.String("host", "", "Host to bind HTTP-based transports to (overrides config)")
	port := flag.Int("port", 0, "Port for HTTP-based transports (overrides config)")
	logLevel := flag.String("log-level", "", "Logging level: debug, info, warn, error (overrides config)")
	pair := flag.Bool("pair", false, "Force pairing with the bridge even if credentials exist")
	flag.Parse()

	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Flag overrides
	if *transport != "" {
		cfg.Server.Transport = *transport
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	cfg.Hue.ForcePair = *pair

	setupLogging(cfg.Log.GetLevel(), cfg.Log.UseJSON, cfg.Log.Colors)

	log.Info().Str("version", Version).Msg("Starting hue-mcp")

	// Create context that cancels on shutdown signal
	ctx := app.SignalContext()

	// Create application; this connects to (and if needed pairs with) the
	// bridge before any client can reach the server.
	application, err := app.New(ctx, cfg, Version)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	application.Start(ctx)

	// Wait for shutdown
	application.Wait()

	if err := application.Stop(); err != nil {
		log.Error().Err(err).Msg("Error during shutdown")
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func setupLogging(level string, useJSON bool, colors bool) {
	// ISO 8601 format with timezone
	zerolog.TimeFieldFormat = time.RFC3339

	if useJSON {
		// JSON output for production
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		// Text output on stderr; stdout belongs to the stdio transport
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

package app

import (
	"context"
	"fmt"

	"github.com/amimof/huego"
	"github.com/rs/zerolog/log"

	"github.com/warshanks/hue-mcp/internal/config"
	"github.com/warshanks/hue-mcp/internal/db"
	"github.com/warshanks/hue-mcp/internal/hue"
	"github.com/warshanks/hue-mcp/internal/ledger"
	"github.com/warshanks/hue-mcp/internal/mcpserver"
)

// Services is a container for all application services. It manages
// initialization order and dependencies.
type Services struct {
	cfg *config.Config

	DB     *db.DB
	Ledger *ledger.Ledger
	Hue    *hue.Service
	MCP    *mcpserver.Server
}

// NewServices creates all services with proper dependency injection. This
// includes connecting to the bridge: pairing runs here when no usable
// credentials exist, so serving never starts against an unreachable bridge.
func NewServices(ctx context.Context, cfg *config.Config, version string) (*Services, error) {
	s := &Services{cfg: cfg}

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	s.DB = database

	s.Ledger = ledger.New(database.DB)

	bridge, err := connectBridge(ctx, cfg)
	if err != nil {
		s.Close()
		return nil, err
	}

	s.Hue = hue.NewService(hue.WithTimeout(bridge, cfg.Hue.Timeout.Duration()), hue.Options{
		RateLimitRPS: cfg.Hue.RateLimitRPS,
		CacheTTL:     cfg.Cache.TTL.Duration(),
	})
	if err := s.Hue.Connect(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to connect to Hue bridge: %w", err)
	}

	s.MCP = mcpserver.New(version, s.Hue, s.Ledger)

	return s, nil
}

// connectBridge resolves bridge credentials and returns a connected client.
// Resolution order: YAML config, saved credentials file, interactive
// pairing (link button).
func connectBridge(ctx context.Context, cfg *config.Config) (*hue.Client, error) {
	host := cfg.Hue.Bridge
	token := cfg.Hue.Token

	if (host == "" || token == "") && !cfg.Hue.ForcePair {
		creds, err := config.LoadCredentials(cfg.Credentials.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load credentials: %w", err)
		}
		if creds != nil {
			if host == "" {
				host = creds.BridgeIP
			}
			if token == "" {
				token = creds.Username
			}
			log.Info().Str("path", cfg.Credentials.Path).Msg("Loaded saved bridge credentials")
		}
	}

	if host == "" || token == "" || cfg.Hue.ForcePair {
		pairedHost, pairedToken, err := hue.Pair(ctx, hue.PairingOptions{
			BridgeIP: host,
			AppName:  cfg.Hue.AppName,
			Timeout:  cfg.Hue.PairingTimeout.Duration(),
			Interval: cfg.Hue.PairingInterval.Duration(),
		})
		if err != nil {
			return nil, fmt.Errorf("pairing failed: %w", err)
		}
		host, token = pairedHost, pairedToken

		creds := &config.Credentials{BridgeIP: host, Username: token}
		if err := config.SaveCredentials(cfg.Credentials.Path, creds); err != nil {
			log.Warn().Err(err).Str("path", cfg.Credentials.Path).Msg("Failed to save credentials")
		} else {
			log.Info().Str("path", cfg.Credentials.Path).Msg("Saved bridge credentials")
		}
	}

	return hue.NewClient(huego.New(host, token)), nil
}

// Close releases all resources in reverse initialization order.
func (s *Services) Close() error {
	var firstErr error
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
			firstErr = err
		}
		s.DB = nil
	}
	return firstErr
}

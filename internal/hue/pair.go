package hue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amimof/huego"
	"github.com/rs/zerolog/log"
)

// PairingOptions configures the one-time link-button pairing flow.
type PairingOptions struct {
	BridgeIP string // empty = discover on the local network
	AppName  string // device type registered on the bridge
	Timeout  time.Duration
	Interval time.Duration // poll interval while waiting for the button
}

// Pair discovers the bridge (unless an IP is given) and polls CreateUser
// until the link button is pressed or the timeout expires. Returns the
// bridge address and the issued username.
func Pair(ctx context.Context, opts PairingOptions) (host, username string, err error) {
	host = opts.BridgeIP
	if host == "" {
		log.Info().Msg("No bridge address configured, starting discovery")
		bridge, err := huego.DiscoverContext(ctx)
		if err != nil {
			return "", "", fmt.Errorf("bridge discovery failed: %w", err)
		}
		host = bridge.Host
		log.Info().Str("bridge", host).Msg("Discovered Hue bridge")
	}

	interval := opts.Interval
	if interval == 0 {
		interval = 2 * time.Second
	}

	pairCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		pairCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	log.Info().Str("bridge", host).Msg("Press the link button on the bridge to pair")

	bridge := huego.New(host, "")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		user, err := bridge.CreateUserContext(pairCtx, opts.AppName)
		if err == nil {
			log.Info().Str("bridge", host).Msg("Paired with Hue bridge")
			return host, user, nil
		}
		if !isLinkButtonError(err) {
			return "", "", fmt.Errorf("pairing failed: %w", err)
		}

		select {
		case <-pairCtx.Done():
			return "", "", fmt.Errorf("link button was not pressed in time: %w", ErrNotPaired)
		case <-ticker.C:
		}
	}
}

// isLinkButtonError reports whether the bridge rejected CreateUser because
// the link button has not been pressed yet (error type 101).
func isLinkButtonError(err error) bool {
	var apiErr *huego.APIError
	return errors.As(err, &apiErr) && apiErr.Type == apiErrLinkButtonOff
}

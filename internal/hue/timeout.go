package hue

import (
	"context"
	"time"

	"github.com/amimof/huego"
)

// timeoutBridge wraps a BridgeAPI and bounds every call with a deadline.
type timeoutBridge struct {
	api     BridgeAPI
	timeout time.Duration
}

// WithTimeout returns a BridgeAPI whose calls are cancelled after timeout.
// A zero timeout returns api unchanged.
func WithTimeout(api BridgeAPI, timeout time.Duration) BridgeAPI {
	if timeout <= 0 {
		return api
	}
	return &timeoutBridge{api: api, timeout: timeout}
}

func (t *timeoutBridge) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, t.timeout)
}

func (t *timeoutBridge) GetLightsContext(ctx context.Context) ([]huego.Light, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.api.GetLightsContext(ctx)
}

func (t *timeoutBridge) SetLightStateContext(ctx context.Context, id int, state StateUpdate) (*huego.Response, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.api.SetLightStateContext(ctx, id, state)
}

func (t *timeoutBridge) GetGroupsContext(ctx context.Context) ([]huego.Group, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.api.GetGroupsContext(ctx)
}

func (t *timeoutBridge) GetGroupContext(ctx context.Context, id int) (*huego.Group, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.api.GetGroupContext(ctx, id)
}

func (t *timeoutBridge) SetGroupStateContext(ctx context.Context, id int, state StateUpdate) (*huego.Response, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.api.SetGroupStateContext(ctx, id, state)
}

func (t *timeoutBridge) GetScenesContext(ctx context.Context) ([]huego.Scene, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.api.GetScenesContext(ctx)
}

func (t *timeoutBridge) RecallSceneContext(ctx context.Context, id string, groupID int) (*huego.Response, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.api.RecallSceneContext(ctx, id, groupID)
}

func (t *timeoutBridge) CreateGroupContext(ctx context.Context, g huego.Group) (*huego.Response, error) {
	ctx, cancel := t.ctx(ctx)
	defer cancel()
	return t.api.CreateGroupContext(ctx, g)
}

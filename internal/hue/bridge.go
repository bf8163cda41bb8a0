package hue

import (
	"context"
	"errors"
	"fmt"

	"github.com/amimof/huego"
)

// BridgeAPI is the subset of bridge operations this server uses. Client
// implements it against a real bridge; tests substitute a fake.
type BridgeAPI interface {
	GetLightsContext(ctx context.Context) ([]huego.Light, error)
	SetLightStateContext(ctx context.Context, i int, s StateUpdate) (*huego.Response, error)
	GetGroupsContext(ctx context.Context) ([]huego.Group, error)
	GetGroupContext(ctx context.Context, i int) (*huego.Group, error)
	SetGroupStateContext(ctx context.Context, i int, s StateUpdate) (*huego.Response, error)
	GetScenesContext(ctx context.Context) ([]huego.Scene, error)
	RecallSceneContext(ctx context.Context, id string, gid int) (*huego.Response, error)
	CreateGroupContext(ctx context.Context, g huego.Group) (*huego.Response, error)
}

// StateUpdate is the state payload written to lights and groups. On and Bri
// are pointers so "unset" is distinguishable from a zero value: huego.State
// marshals bri with omitempty, which silently drops brightness 0 from the
// request body. Unset fields are omitted from the wire, matching how the
// bridge treats partial state writes.
type StateUpdate struct {
	On     *bool     `json:"on,omitempty"`
	Bri    *uint8    `json:"bri,omitempty"`
	Ct     uint16    `json:"ct,omitempty"`
	Xy     []float32 `json:"xy,omitempty"`
	Alert  string    `json:"alert,omitempty"`
	Effect string    `json:"effect,omitempty"`
}

// Bool returns a pointer for StateUpdate.On.
func Bool(v bool) *bool { return &v }

// Uint8 returns a pointer for StateUpdate.Bri.
func Uint8(v uint8) *uint8 { return &v }

// Sentinel errors surfaced to tool handlers, which turn them into
// user-facing messages.
var (
	ErrNotPaired      = errors.New("not paired with the bridge: press the link button and re-run pairing")
	ErrLightNotFound  = errors.New("light not found")
	ErrGroupNotFound  = errors.New("group not found")
	ErrSceneNotFound  = errors.New("scene not found")
	ErrNoColorSupport = errors.New("light does not support color")
	ErrNoCtSupport    = errors.New("light does not support color temperature")
)

// InvalidLightsError reports every light ID in a request that does not
// exist on the bridge.
type InvalidLightsError struct {
	IDs []int
}

func (e *InvalidLightsError) Error() string {
	return fmt.Sprintf("invalid light IDs: %v", e.IDs)
}

// Unwrap lets callers match the error with errors.Is(err, ErrLightNotFound).
func (e *InvalidLightsError) Unwrap() error { return ErrLightNotFound }

// Hue v1 API error types we care about.
const (
	apiErrUnauthorized  = 1
	apiErrNotAvailable  = 3
	apiErrLinkButtonOff = 101
)

// classify maps huego API errors onto package sentinels where a friendlier
// message helps; notFound is the sentinel for the resource being addressed.
func classify(err, notFound error) error {
	var apiErr *huego.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.Type {
	case apiErrUnauthorized:
		return ErrNotPaired
	case apiErrNotAvailable:
		return notFound
	default:
		return err
	}
}

// SupportsColor reports whether a light can take xy color state. Lights
// without color hardware never report xy coordinates.
func SupportsColor(l *huego.Light) bool {
	return l.State != nil && len(l.State.Xy) > 0
}

// SupportsCt reports whether a light can take color temperature state.
func SupportsCt(l *huego.Light) bool {
	return l.State != nil && l.State.Ct > 0
}

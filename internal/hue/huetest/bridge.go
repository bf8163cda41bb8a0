// Package huetest provides an in-memory Hue bridge fake for tests.
package huetest

import (
	"context"
	"strconv"
	"sync"

	"github.com/amimof/huego"

	"github.com/warshanks/hue-mcp/internal/hue"
)

// FakeBridge implements hue.BridgeAPI against in-memory state and records
// every state write for assertions.
type FakeBridge struct {
	mu     sync.Mutex
	lights map[int]*huego.Light
	groups map[int]*huego.Group
	scenes []huego.Scene

	lightStates map[int][]hue.StateUpdate
	groupStates map[int][]hue.StateUpdate
	recalled    []string // "<sceneID>@<groupID>"

	nextGroupID int
	err         error // when set, every call fails with it
}

// New returns an empty fake bridge.
func New() *FakeBridge {
	return &FakeBridge{
		lights:      make(map[int]*huego.Light),
		groups:      make(map[int]*huego.Group),
		lightStates: make(map[int][]hue.StateUpdate),
		groupStates: make(map[int][]hue.StateUpdate),
		nextGroupID: 10,
	}
}

// AddLight registers a light. The state is copied.
func (f *FakeBridge) AddLight(id int, name string, state huego.State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := state
	f.lights[id] = &huego.Light{ID: id, Name: name, Type: "Extended color light", State: &st}
}

// AddGroup registers a group.
func (f *FakeBridge) AddGroup(id int, name string, lights []string, anyOn bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groups[id] = &huego.Group{
		ID:         id,
		Name:       name,
		Type:       "Room",
		Lights:     lights,
		State:      &huego.State{},
		GroupState: &huego.GroupState{AnyOn: anyOn, AllOn: anyOn},
	}
}

// AddScene registers a scene.
func (f *FakeBridge) AddScene(id, name, group string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scenes = append(f.scenes, huego.Scene{ID: id, Name: name, Group: group, Type: "GroupScene"})
}

// Fail makes every subsequent call return err.
func (f *FakeBridge) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func notAvailable() error {
	return &huego.APIError{Type: 3, Description: "resource not available"}
}

func (f *FakeBridge) GetLightsContext(ctx context.Context) ([]huego.Light, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]huego.Light, 0, len(f.lights))
	for _, l := range f.lights {
		out = append(out, *l)
	}
	return out, nil
}

func (f *FakeBridge) SetLightStateContext(ctx context.Context, i int, l hue.StateUpdate) (*huego.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.lights[i]; !ok {
		return nil, notAvailable()
	}
	f.lightStates[i] = append(f.lightStates[i], l)
	return &huego.Response{Success: map[string]interface{}{}}, nil
}

func (f *FakeBridge) GetGroupsContext(ctx context.Context) ([]huego.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]huego.Group, 0, len(f.groups))
	for _, g := range f.groups {
		out = append(out, *g)
	}
	return out, nil
}

func (f *FakeBridge) GetGroupContext(ctx context.Context, i int) (*huego.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	g, ok := f.groups[i]
	if !ok {
		return nil, notAvailable()
	}
	cp := *g
	return &cp, nil
}

func (f *FakeBridge) SetGroupStateContext(ctx context.Context, i int, l hue.StateUpdate) (*huego.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.groups[i]; !ok {
		return nil, notAvailable()
	}
	f.groupStates[i] = append(f.groupStates[i], l)
	return &huego.Response{Success: map[string]interface{}{}}, nil
}

func (f *FakeBridge) GetScenesContext(ctx context.Context) ([]huego.Scene, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]huego.Scene, len(f.scenes))
	copy(out, f.scenes)
	return out, nil
}

func (f *FakeBridge) RecallSceneContext(ctx context.Context, id string, gid int) (*huego.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.groups[gid]; !ok {
		return nil, notAvailable()
	}
	f.recalled = append(f.recalled, id+"@"+strconv.Itoa(gid))
	return &huego.Response{Success: map[string]interface{}{}}, nil
}

func (f *FakeBridge) CreateGroupContext(ctx context.Context, g huego.Group) (*huego.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	id := f.nextGroupID
	f.nextGroupID++
	cp := g
	cp.ID = id
	f.groups[id] = &cp
	return &huego.Response{Success: map[string]interface{}{"id": strconv.Itoa(id)}}, nil
}

// LastLightState returns the most recent state written to a light, or nil.
func (f *FakeBridge) LastLightState(id int) *hue.StateUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	states := f.lightStates[id]
	if len(states) == 0 {
		return nil
	}
	return &states[len(states)-1]
}

// LastGroupState returns the most recent state written to a group, or nil.
func (f *FakeBridge) LastGroupState(id int) *hue.StateUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	states := f.groupStates[id]
	if len(states) == 0 {
		return nil
	}
	return &states[len(states)-1]
}

// LightWrites returns the number of state writes a light has received.
func (f *FakeBridge) LightWrites(id int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.lightStates[id])
}

// GroupWrites returns the number of state writes a group has received.
func (f *FakeBridge) GroupWrites(id int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.groupStates[id])
}

// Recalled returns recorded scene recalls as "<sceneID>@<groupID>".
func (f *FakeBridge) Recalled() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.recalled))
	copy(out, f.recalled)
	return out
}

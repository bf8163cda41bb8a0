// Package hue wraps the huego bridge client with the pieces this server
// needs: link-button pairing, a TTL light cache, a scene index, and a rate
// limiter in front of every bridge call (Hue bridges degrade above roughly
// 10 requests per second).
package hue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/amimof/huego"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Options configures a Service.
type Options struct {
	RateLimitRPS float64
	CacheTTL     time.Duration
}

// Service provides validated, rate-limited access to the Hue bridge.
type Service struct {
	api     BridgeAPI
	limiter *rate.Limiter
	lights  *LightCache
	scenes  *SceneIndex
}

// NewService creates a Service over an existing bridge connection.
func NewService(api BridgeAPI, opts Options) *Service {
	rps := opts.RateLimitRPS
	if rps == 0 {
		rps = 10.0
	}
	return &Service{
		api:     api,
		limiter: rate.NewLimiter(rate.Limit(rps), int(rps)),
		lights:  NewLightCache(opts.CacheTTL),
		scenes:  NewSceneIndex(),
	}
}

// Connect verifies the connection by priming the caches. An unauthorized
// response means the stored username is no longer valid.
func (s *Service) Connect(ctx context.Context) error {
	n, err := s.Refresh(ctx)
	if err != nil {
		return err
	}
	log.Info().Int("lights", n).Int("scenes", s.scenes.Count()).Msg("Connected to Hue bridge")
	return nil
}

// Refresh re-fetches lights and scenes from the bridge, replacing both
// caches. Returns the number of lights found.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	lights, err := s.api.GetLightsContext(ctx)
	if err != nil {
		return 0, classify(err, ErrLightNotFound)
	}
	s.lights.Load(lights)

	if err := s.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	scenes, err := s.api.GetScenesContext(ctx)
	if err != nil {
		return 0, classify(err, ErrSceneNotFound)
	}
	s.scenes.Load(scenes)

	log.Debug().Int("lights", len(lights)).Int("scenes", len(scenes)).Msg("Caches refreshed")
	return len(lights), nil
}

// Invalidate drops the light cache so the next read fetches fresh state.
func (s *Service) Invalidate() {
	s.lights.Invalidate()
}

// Lights returns all lights, from cache when fresh.
func (s *Service) Lights(ctx context.Context) ([]huego.Light, error) {
	if cached, ok := s.lights.All(); ok {
		return cached, nil
	}
	if _, err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	cached, _ := s.lights.All()
	return cached, nil
}

// Light returns a single light by ID or ErrLightNotFound.
func (s *Service) Light(ctx context.Context, id int) (*huego.Light, error) {
	if light, ok := s.lights.Get(id); ok {
		return light, nil
	}
	if _, err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	if light, ok := s.lights.Get(id); ok {
		return light, nil
	}
	return nil, fmt.Errorf("light %d: %w", id, ErrLightNotFound)
}

// SetLightState validates the light exists and applies the state. The light
// cache is dropped afterwards since the bridge state changed.
func (s *Service) SetLightState(ctx context.Context, id int, state StateUpdate) error {
	if _, err := s.Light(ctx, id); err != nil {
		return err
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	if _, err := s.api.SetLightStateContext(ctx, id, state); err != nil {
		return classify(err, fmt.Errorf("light %d: %w", id, ErrLightNotFound))
	}
	s.lights.Invalidate()
	return nil
}

// Groups returns all groups. Groups are not cached: the bridge owns their
// membership and state, and group listings are cheap single calls.
func (s *Service) Groups(ctx context.Context) ([]huego.Group, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	groups, err := s.api.GetGroupsContext(ctx)
	if err != nil {
		return nil, classify(err, ErrGroupNotFound)
	}
	return groups, nil
}

// Group returns a single group by ID or ErrGroupNotFound.
func (s *Service) Group(ctx context.Context, id int) (*huego.Group, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	group, err := s.api.GetGroupContext(ctx, id)
	if err != nil {
		return nil, classify(err, fmt.Errorf("group %d: %w", id, ErrGroupNotFound))
	}
	return group, nil
}

// SetGroupState validates the group exists and applies the state.
func (s *Service) SetGroupState(ctx context.Context, id int, state StateUpdate) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	if _, err := s.api.SetGroupStateContext(ctx, id, state); err != nil {
		return classify(err, fmt.Errorf("group %d: %w", id, ErrGroupNotFound))
	}
	s.lights.Invalidate()
	return nil
}

// Scenes returns all scenes known to the bridge, refreshing the index.
func (s *Service) Scenes(ctx context.Context) ([]huego.Scene, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	scenes, err := s.api.GetScenesContext(ctx)
	if err != nil {
		return nil, classify(err, ErrSceneNotFound)
	}
	s.scenes.Load(scenes)
	return scenes, nil
}

// Scene returns a scene by ID, consulting the index first and re-fetching
// once on a miss.
func (s *Service) Scene(ctx context.Context, id string) (*huego.Scene, error) {
	if scene, ok := s.scenes.ByID(id); ok {
		return scene, nil
	}
	if _, err := s.Scenes(ctx); err != nil {
		return nil, err
	}
	if scene, ok := s.scenes.ByID(id); ok {
		return scene, nil
	}
	return nil, fmt.Errorf("scene %q: %w", id, ErrSceneNotFound)
}

// SceneByName returns a scene by name scoped to a group, consulting the
// index first and re-fetching once on a miss.
func (s *Service) SceneByName(ctx context.Context, groupID int, name string) (*huego.Scene, error) {
	gid := strconv.Itoa(groupID)
	if scene, ok := s.scenes.ByName(gid, name); ok {
		return scene, nil
	}
	if _, err := s.Scenes(ctx); err != nil {
		return nil, err
	}
	if scene, ok := s.scenes.ByName(gid, name); ok {
		return scene, nil
	}
	return nil, fmt.Errorf("scene %q in group %d: %w", name, groupID, ErrSceneNotFound)
}

// RecallScene applies a scene to a group.
func (s *Service) RecallScene(ctx context.Context, groupID int, sceneID string) error {
	if _, err := s.Scene(ctx, sceneID); err != nil {
		return err
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	if _, err := s.api.RecallSceneContext(ctx, sceneID, groupID); err != nil {
		return classify(err, fmt.Errorf("group %d: %w", groupID, ErrGroupNotFound))
	}
	s.lights.Invalidate()
	return nil
}

// CreateGroup creates a new group containing the given lights and returns
// the bridge-assigned group ID. All light IDs are validated first; every
// unknown ID is reported via InvalidLightsError.
func (s *Service) CreateGroup(ctx context.Context, name string, lightIDs []int) (string, error) {
	var invalid []int
	for _, id := range lightIDs {
		if _, err := s.Light(ctx, id); err != nil {
			if errors.Is(err, ErrLightNotFound) {
				invalid = append(invalid, id)
				continue
			}
			return "", err
		}
	}
	if len(invalid) > 0 {
		return "", &InvalidLightsError{IDs: invalid}
	}

	ids := make([]string, len(lightIDs))
	for i, id := range lightIDs {
		ids[i] = strconv.Itoa(id)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	resp, err := s.api.CreateGroupContext(ctx, huego.Group{Name: name, Lights: ids, Type: "LightGroup"})
	if err != nil {
		return "", classify(err, ErrGroupNotFound)
	}
	return groupIDFromResponse(resp)
}

// groupIDFromResponse extracts the new group ID. The v1 API reports it under
// success.id, either as a bare ID or as a "/groups/<id>" path.
func groupIDFromResponse(resp *huego.Response) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("empty response from bridge")
	}
	raw, ok := resp.Success["id"]
	if !ok {
		return "", fmt.Errorf("bridge response missing group id: %v", resp.Success)
	}
	id := fmt.Sprintf("%v", raw)
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	return id, nil
}

// FindLightsByName returns lights whose name contains the query,
// case-insensitively.
func (s *Service) FindLightsByName(ctx context.Context, query string) ([]huego.Light, error) {
	lights, err := s.Lights(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	var matches []huego.Light
	for _, l := range lights {
		if strings.Contains(strings.ToLower(l.Name), q) {
			matches = append(matches, l)
		}
	}
	return matches, nil
}

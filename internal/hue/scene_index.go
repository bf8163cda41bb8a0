package hue

import (
	"sync"

	"github.com/amimof/huego"
)

// SceneIndex provides lookup over the scenes stored on the bridge. Pure
// storage: the Service fetches scenes and loads it.
type SceneIndex struct {
	mu     sync.RWMutex
	scenes []huego.Scene
	byID   map[string]int // scene ID -> index into scenes
	byName map[string]int // "groupID:name" -> index into scenes
}

// NewSceneIndex creates a new empty scene index.
func NewSceneIndex() *SceneIndex {
	return &SceneIndex{
		byID:   make(map[string]int),
		byName: make(map[string]int),
	}
}

// Load replaces the indexed scenes.
func (s *SceneIndex) Load(scenes []huego.Scene) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scenes = scenes
	s.byID = make(map[string]int, len(scenes))
	s.byName = make(map[string]int, len(scenes))
	for i := range scenes {
		s.byID[scenes[i].ID] = i
		s.byName[scenes[i].Group+":"+scenes[i].Name] = i
	}
}

// ByID looks up a scene by its bridge-assigned ID.
func (s *SceneIndex) ByID(sceneID string) (*huego.Scene, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[sceneID]
	if !ok {
		return nil, false
	}
	scene := s.scenes[idx]
	return &scene, true
}

// ByName looks up a scene by name within a group. Scene names are only
// unique per group on the bridge, so the group scopes the lookup.
func (s *SceneIndex) ByName(groupID, name string) (*huego.Scene, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byName[groupID+":"+name]
	if !ok {
		return nil, false
	}
	scene := s.scenes[idx]
	return &scene, true
}

// All returns a copy of all indexed scenes.
func (s *SceneIndex) All() []huego.Scene {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]huego.Scene, len(s.scenes))
	copy(out, s.scenes)
	return out
}

// Count returns the number of indexed scenes.
func (s *SceneIndex) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.scenes)
}

package hue

import (
	"testing"

	"github.com/amimof/huego"
)

func TestSceneIndex_ByID(t *testing.T) {
	idx := NewSceneIndex()
	idx.Load([]huego.Scene{
		{ID: "abc", Name: "Relax", Group: "1"},
		{ID: "def", Name: "Energize", Group: "2"},
	})

	scene, ok := idx.ByID("def")
	if !ok || scene.Name != "Energize" {
		t.Errorf("ByID(def) = %v, %v; want Energize, true", scene, ok)
	}
	if _, ok := idx.ByID("missing"); ok {
		t.Error("ByID(missing) should miss")
	}
	if idx.Count() != 2 {
		t.Errorf("Count() = %d, want 2", idx.Count())
	}
}

func TestSceneIndex_ByName(t *testing.T) {
	idx := NewSceneIndex()
	idx.Load([]huego.Scene{
		{ID: "abc", Name: "Relax", Group: "1"},
		{ID: "def", Name: "Relax", Group: "2"}, // same name in another group
	})

	scene, ok := idx.ByName("2", "Relax")
	if !ok || scene.ID != "def" {
		t.Errorf("ByName(2, Relax) = %v, %v; want def, true", scene, ok)
	}
	if _, ok := idx.ByName("3", "Relax"); ok {
		t.Error("ByName should miss for a group the scene does not belong to")
	}
	if _, ok := idx.ByName("1", "Energize"); ok {
		t.Error("ByName(1, Energize) should miss")
	}
}

func TestSceneIndex_LoadReplaces(t *testing.T) {
	idx := NewSceneIndex()
	idx.Load([]huego.Scene{{ID: "abc", Name: "Relax"}})
	idx.Load([]huego.Scene{{ID: "xyz", Name: "Focus"}})

	if _, ok := idx.ByID("abc"); ok {
		t.Error("old scene should be gone after reload")
	}
	if _, ok := idx.ByID("xyz"); !ok {
		t.Error("new scene should be indexed after reload")
	}
	if idx.Count() != 1 {
		t.Errorf("Count() = %d, want 1", idx.Count())
	}
}

func TestSceneIndex_AllReturnsCopy(t *testing.T) {
	idx := NewSceneIndex()
	idx.Load([]huego.Scene{{ID: "abc", Name: "Relax"}})

	scenes := idx.All()
	scenes[0].Name = "mutated"

	if idx.All()[0].Name != "Relax" {
		t.Error("mutating the returned slice must not affect the index")
	}
}

func TestSceneIndex_Empty(t *testing.T) {
	idx := NewSceneIndex()
	if idx.Count() != 0 {
		t.Errorf("Count() = %d, want 0", idx.Count())
	}
	if got := idx.All(); len(got) != 0 {
		t.Errorf("All() = %v, want empty", got)
	}
}

package mcpserver

import (
	"strconv"

	"github.com/amimof/huego"
)

// lightSummary mirrors the fields agents most often need; the full huego
// shape is available through get_light.
type lightSummary struct {
	Name         string `json:"name"`
	On           bool   `json:"on"`
	Reachable    bool   `json:"reachable"`
	Brightness   uint8  `json:"brightness"`
	ColorMode    string `json:"color_mode,omitempty"`
	Type         string `json:"type"`
	Model        string `json:"model,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
}

type lightMatch struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	On   bool   `json:"on"`
}

type groupSummary struct {
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	Lights []string `json:"lights"`
	On     bool     `json:"on"`
	AnyOn  bool     `json:"any_on"`
}

type sceneSummary struct {
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	Group  string   `json:"group,omitempty"`
	Lights []string `json:"lights"`
	Owner  string   `json:"owner,omitempty"`
}

func formatLights(lights []huego.Light) map[string]lightSummary {
	out := make(map[string]lightSummary, len(lights))
	for _, l := range lights {
		s := lightSummary{
			Name:         l.Name,
			Type:         l.Type,
			Model:        l.ModelID,
			Manufacturer: l.ManufacturerName,
		}
		if l.State != nil {
			s.On = l.State.On
			s.Reachable = l.State.Reachable
			s.Brightness = l.State.Bri
			s.ColorMode = l.State.ColorMode
		}
		out[strconv.Itoa(l.ID)] = s
	}
	return out
}

func formatMatches(lights []huego.Light) map[string]lightMatch {
	out := make(map[string]lightMatch, len(lights))
	for _, l := range lights {
		id := strconv.Itoa(l.ID)
		m := lightMatch{ID: id, Name: l.Name, Type: l.Type}
		if l.State != nil {
			m.On = l.State.On
		}
		out[id] = m
	}
	return out
}

func formatGroup(g *huego.Group) groupSummary {
	s := groupSummary{
		Name:   g.Name,
		Type:   g.Type,
		Lights: g.Lights,
	}
	if s.Lights == nil {
		s.Lights = []string{}
	}
	if g.GroupState != nil {
		s.On = g.GroupState.AllOn
		s.AnyOn = g.GroupState.AnyOn
	}
	return s
}

func formatGroups(groups []huego.Group) map[string]groupSummary {
	out := make(map[string]groupSummary, len(groups))
	for i := range groups {
		out[strconv.Itoa(groups[i].ID)] = formatGroup(&groups[i])
	}
	return out
}

func formatScenes(scenes []huego.Scene) map[string]sceneSummary {
	out := make(map[string]sceneSummary, len(scenes))
	for _, sc := range scenes {
		lights := sc.Lights
		if lights == nil {
			lights = []string{}
		}
		out[sc.ID] = sceneSummary{
			Name:   sc.Name,
			Type:   sc.Type,
			Group:  sc.Group,
			Lights: lights,
			Owner:  sc.Owner,
		}
	}
	return out
}

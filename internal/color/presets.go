package color

import (
	"fmt"
	"sort"
	"strings"
)

// Preset is a named lighting setting. Exactly one of Ct or XY is set; Bri is
// optional and only present for the activity presets.
type Preset struct {
	Ct  uint16      // mireds, 0 if unset
	Bri uint8       // 0 if unset
	XY  *[2]float64 // nil if unset
}

// HasCt reports whether the preset sets a color temperature.
func (p Preset) HasCt() bool { return p.Ct != 0 }

// HasXY reports whether the preset sets an xy color.
func (p Preset) HasXY() bool { return p.XY != nil }

// HasBri reports whether the preset sets a brightness.
func (p Preset) HasBri() bool { return p.Bri != 0 }

func xyOf(r, g, b uint8) *[2]float64 {
	x, y := RGBToXY(r, g, b)
	return &[2]float64{x, y}
}

// presets maps mood names to bridge settings. Temperatures follow the
// Philips-recommended activity values.
var presets = map[string]Preset{
	// White temperature presets
	"warm":     {Ct: KelvinToMired(2500)},
	"cool":     {Ct: KelvinToMired(4500)},
	"daylight": {Ct: KelvinToMired(6500)},

	// Activity presets
	"concentration": {Ct: KelvinToMired(4600), Bri: 254},
	"relax":         {Ct: KelvinToMired(2700), Bri: 144},
	"reading":       {Ct: KelvinToMired(3200), Bri: 219},
	"energize":      {Ct: KelvinToMired(6000), Bri: 254},

	// Color presets
	"red":    {XY: xyOf(255, 0, 0)},
	"green":  {XY: xyOf(0, 255, 0)},
	"blue":   {XY: xyOf(0, 0, 255)},
	"purple": {XY: xyOf(128, 0, 128)},
	"orange": {XY: xyOf(255, 165, 0)},
}

// LookupPreset returns the preset for a mood name.
func LookupPreset(name string) (Preset, error) {
	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset %q, available presets: %s", name, strings.Join(PresetNames(), ", "))
	}
	return p, nil
}

// PresetNames returns all preset names, sorted for stable error messages.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package color

import (
	"strings"
	"testing"
)

func TestLookupPreset_Temperatures(t *testing.T) {
	tests := []struct {
		name    string
		wantCt  uint16
		wantBri uint8
	}{
		{"warm", 400, 0},
		{"cool", 222, 0},
		{"daylight", 153, 0},
		{"concentration", 217, 254},
		{"relax", 370, 144},
		{"reading", 312, 219},
		{"energize", 166, 254},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := LookupPreset(tt.name)
			if err != nil {
				t.Fatalf("LookupPreset(%q) error: %v", tt.name, err)
			}
			if !p.HasCt() || p.Ct != tt.wantCt {
				t.Errorf("Ct = %d, want %d", p.Ct, tt.wantCt)
			}
			if p.Bri != tt.wantBri {
				t.Errorf("Bri = %d, want %d", p.Bri, tt.wantBri)
			}
			if p.HasXY() {
				t.Error("temperature preset should not carry xy color")
			}
		})
	}
}

func TestLookupPreset_Colors(t *testing.T) {
	for _, name := range []string{"red", "green", "blue", "purple", "orange"} {
		p, err := LookupPreset(name)
		if err != nil {
			t.Fatalf("LookupPreset(%q) error: %v", name, err)
		}
		if !p.HasXY() {
			t.Errorf("preset %q should carry xy color", name)
			continue
		}
		x, y := p.XY[0], p.XY[1]
		if x < 0 || y < 0 || x+y > 1 {
			t.Errorf("preset %q xy = (%v, %v) outside chromaticity bounds", name, x, y)
		}
		if p.HasCt() {
			t.Errorf("color preset %q should not carry ct", name)
		}
	}
}

func TestLookupPreset_Unknown(t *testing.T) {
	_, err := LookupPreset("disco")
	if err == nil {
		t.Fatal("LookupPreset(disco) should fail")
	}
	// The error lists the valid options so the assistant can self-correct.
	if !strings.Contains(err.Error(), "relax") || !strings.Contains(err.Error(), "warm") {
		t.Errorf("error %q should list available presets", err)
	}
}

func TestPresetNames_Sorted(t *testing.T) {
	names := PresetNames()
	if len(names) != 12 {
		t.Fatalf("len(names) = %d, want 12", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted at %d: %q >= %q", i, names[i-1], names[i])
		}
	}
}

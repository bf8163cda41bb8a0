package mcpserver

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/amimof/huego"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/warshanks/hue-mcp/internal/db"
	"github.com/warshanks/hue-mcp/internal/hue"
	"github.com/warshanks/hue-mcp/internal/hue/huetest"
	"github.com/warshanks/hue-mcp/internal/ledger"
)

func newTestServer(t *testing.T, fake *huetest.FakeBridge) *Server {
	t.Helper()
	svc := hue.NewService(fake, hue.Options{RateLimitRPS: 10000, CacheTTL: time.Minute})
	return New("test", svc, nil)
}

func newTestServerWithLedger(t *testing.T, fake *huetest.FakeBridge) (*Server, *ledger.Ledger) {
	t.Helper()
	database, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	led := ledger.New(database.DB)
	svc := hue.NewService(fake, hue.Options{RateLimitRPS: 10000, CacheTTL: time.Minute})
	return New("test", svc, led), led
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("nil tool result")
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("tool result has no text content")
	return ""
}

func colorState() huego.State {
	return huego.State{On: false, Xy: []float32{0.4, 0.4}, Ct: 366, Reachable: true}
}

func whiteState() huego.State {
	return huego.State{On: false, Ct: 366, Reachable: true}
}

func TestTurnOnLight(t *testing.T) {
	fake := huetest.New()
	fake.AddLight(1, "Desk", colorState())
	s := newTestServer(t, fake)

	result, err := s.handleTurnOnLight(context.Background(), callRequest(map[string]any{"light_id": float64(1)}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, result))
	}
	if got := textOf(t, result); got != "Light 1 (Desk) turned on." {
		t.Errorf("text = %q", got)
	}
	state := fake.LastLightState(1)
	if state == nil || state.On == nil || !*state.On {
		t.Errorf("bridge state = %+v, want On", state)
	}
}

func TestTurnOnLight_NotFound(t *testing.T) {
	fake := huetest.New()
	fake.AddLight(1, "Desk", colorState())
	s := newTestServer(t, fake)

	result, err := s.handleTurnOnLight(context.Background(), callRequest(map[string]any{"light_id": float64(9)}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	if got := textOf(t, result); got != "Error: Light with ID 9 not found." {
		t.Errorf("text = %q", got)
	}
	if fake.LightWrites(9) != 0 {
		t.Error("no write should reach the bridge for an unknown light")
	}
}

func TestTurnOffLight(t *testing.T) {
	fake := huetest.New()
	fake.AddLight(2, "Shelf", huego.State{On: true})
	s := newTestServer(t, fake)

	result, _ := s.handleTurnOffLight(context.Background(), callRequest(map[string]any{"light_id": float64(2)}))
	if got := textOf(t, result); got != "Light 2 (Shelf) turned off." {
		t.Errorf("text = %q", got)
	}
	if state := fake.LastLightState(2); state == nil || state.On == nil || *state.On {
		t.Errorf("bridge state = %+v, want Off", state)
	}
}

func TestSetBrightness(t *testing.T) {
	fake := huetest.New()
	fake.AddLight(1, "Desk", colorState())
	s := newTestServer(t, fake)

	result, _ := s.handleSetBrightness(context.Background(), callRequest(map[string]any{
		"light_id": float64(1), "brightness": float64(127),
	}))
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, result))
	}
	if got := textOf(t, result); got != "Light 1 (Desk) brightness set to 127 (50%)." {
		t.Errorf("text = %q", got)
	}
	state := fake.LastLightState(1)
	if state == nil || state.On == nil || !*state.On || state.Bri == nil || *state.Bri != 127 {
		t.Errorf("bridge state = %+v, want On with Bri 127", state)
	}
}

func TestSetBrightness_Zero(t *testing.T) {
	fake := huetest.New()
	fake.AddLight(1, "Desk", colorState())
	s := newTestServer(t, fake)

	result, _ := s.handleSetBrightness(context.Background(), callRequest(map[string]any{
		"light_id": float64(1), "brightness": float64(0),
	}))
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, result))
	}
	if got := textOf(t, result); got != "Light 1 (Desk) brightness set to 0 (0%)." {
		t.Errorf("text = %q", got)
	}
	// Brightness 0 is a real value, not "unset": it must survive into the
	// write rather than vanish behind a zero-value check.
	state := fake.LastLightState(1)
	if state == nil || state.Bri == nil || *state.Bri != 0 {
		t.Fatalf("bridge state = %+v, want Bri 0", state)
	}
}

func TestSetBrightness_OutOfRange(t *testing.T) {
	fake := huetest.New()
	fake.AddLight(1, "Desk", colorState())
	s := newTestServer(t, fake)

	result, _ := s.handleSetBrightness(context.Background(), callRequest(map[string]any{
		"light_id": float64(1), "brightness": float64(300),
	}))
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	if got := textOf(t, result); got != "Error: Brightness must be between 0 and 254." {
		t.Errorf("text = %q", got)
	}
	if fake.LightWrites(1) != 0 {
		t.Error("invalid brightness must not reach the bridge")
	}
}

func TestSetColorRGB(t *testing.T) {
	fake := huetest.New()
	fake.AddLight(1, "Desk", colorState())
	s := newTestServer(t, fake)

	result, _ := s.handleSetColorRGB(context.Background(), callRequest(map[string]any{
		"light_id": float64(1), "red": float64(255), "green": float64(0), "blue": float64(0),
	}))
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, result))
	}
	if got := textOf(t, result); got != "Light 1 (Desk) color set to RGB(255, 0, 0)." {
		t.Errorf("text = %q", got)
	}
	state := fake.LastLightState(1)
	if state == nil || state.On == nil || !*state.On || len(state.Xy) != 2 {
		t.Fatalf("bridge state = %+v, want On with xy", state)
	}
	if state.Xy[0] < 0.6 {
		t.Errorf("red should land in the red corner of the gamut, got xy %v", state.Xy)
	}
}

func TestSetColorRGB_NoColorSupport(t *testing.T) {
	fake := huetest.New()
	fake.AddLight(3, "Hallway", whiteState())
	s := newTestServer(t, fake)

	result, _ := s.handleSetColorRGB(context.Background(), callRequest(map[string]any{
		"light_id": float64(3), "red": float64(255), "green": float64(0), "blue": float64(0),
	}))
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	if got := textOf(t, result); got != "Error: Light 3 (Hallway) does not support color." {
		t.Errorf("text = %q", got)
	}
	if fake.LightWrites(3) != 0 {
		t.Error("capability failure must not reach the bridge")
	}
}

func TestSetColorTemperature(t *testing.T) {
	fake := huetest.New()
	fake.AddLight(1, "Desk", colorState())
	s := newTestServer(t, fake)

	result, _ := s.handleSetColorTemperature(context.Background(), callRequest(map[string]any{
		"light_id": float64(1), "temperature": float64(2500),
	}))
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, result))
	}
	if got := textOf(t, result); got != "Light 1 (Desk) color temperature set to 2500K (400 mired)." {
		t.Errorf("text = %q", got)
	}
	if state := fake.LastLightState(1); state == nil || state.Ct != 400 || state.On == nil || !*state.On {
		t.Errorf("bridge state = %+v, want On with Ct 400", state)
	}
}

func TestSetColorPreset_Relax(t *testing.T) {
	fake := huetest.New()
	fake.AddLight(1, "Desk", colorState())
	s := newTestServer(t, fake)

	result, _ := s.handleSetColorPreset(context.Background(), callRequest(map[string]any{
		"light_id": float64(1), "preset": "relax",
	}))
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, result))
	}
	if got := textOf(t, result); got != "Applied 'relax' preset to light 1 (Desk)." {
		t.Errorf("text = %q", got)
	}
	state := fake.LastLightState(1)
	if state == nil || state.On == nil || !*state.On || state.Ct != 370 || state.Bri == nil || *state.Bri != 144 {
		t.Errorf("bridge state = %+v, want On with Ct 370 Bri 144", state)
	}
}

func TestSetColorPreset_Unknown(t *testing.T) {
	fake := huetest.New()
	fake.AddLight(1, "Desk", colorState())
	s := newTestServer(t, fake)

	result, _ := s.handleSetColorPreset(context.Background(), callRequest(map[string]any{
		"light_id": float64(1), "preset": "disco",
	}))
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	if got := textOf(t, result); !strings.Contains(got, "relax") {
		t.Errorf("error should list available presets, got %q", got)
	}
}

func TestAlertLight_PreservesPowerState(t *testing.T) {
	fake := huetest.New()
	fake.AddLight(1, "Desk", whiteState()) // off
	s := newTestServer(t, fake)

	result, _ := s.handleAlertLight(context.Background(), callRequest(map[string]any{"light_id": float64(1)}))
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, result))
	}
	state := fake.LastLightState(1)
	if state == nil || state.Alert != "select" {
		t.Fatalf("bridge state = %+v, want alert select", state)
	}
	if state.On != nil {
		t.Error("an alert write must not carry a power state")
	}
}

func TestSetLightEffect(t *testing.T) {
	fake := huetest.New()
	fake.AddLight(1, "Desk", colorState())
	s := newTestServer(t, fake)

	result, _ := s.handleSetLightEffect(context.Background(), callRequest(map[string]any{
		"light_id": float64(1), "effect": "colorloop",
	}))
	if got := textOf(t, result); got != "Set color loop on light 1 (Desk)." {
		t.Errorf("text = %q", got)
	}
	if state := fake.LastLightState(1); state == nil || state.Effect != "colorloop" {
		t.Errorf("bridge state = %+v, want colorloop", state)
	}
}

func TestSetLightEffect_Invalid(t *testing.T) {
	fake := huetest.New()
	fake.AddLight(1, "Desk", colorState())
	s := newTestServer(t, fake)

	result, _ := s.handleSetLightEffect(context.Background(), callRequest(map[string]any{
		"light_id": float64(1), "effect": "strobe",
	}))
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	if got := textOf(t, result); got != "Error: Effect must be one of: none, colorloop" {
		t.Errorf("text = %q", got)
	}
}

func TestTurnOnGroup(t *testing.T) {
	fake := huetest.New()
	fake.AddGroup(1, "Living room", []string{"1", "2"}, false)
	s := newTestServer(t, fake)

	result, _ := s.handleTurnOnGroup(context.Background(), callRequest(map[string]any{"group_id": float64(1)}))
	if got := textOf(t, result); got != "Group 1 (Living room) turned on." {
		t.Errorf("text = %q", got)
	}
	if state := fake.LastGroupState(1); state == nil || state.On == nil || !*state.On {
		t.Errorf("bridge state = %+v, want On", state)
	}
}

func TestTurnOffGroup_NotFound(t *testing.T) {
	fake := huetest.New()
	s := newTestServer(t, fake)

	result, _ := s.handleTurnOffGroup(context.Background(), callRequest(map[string]any{"group_id": float64(5)}))
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	if got := textOf(t, result); got != "Error: Group with ID 5 not found." {
		t.Errorf("text = %q", got)
	}
}

func TestSetGroupBrightness(t *testing.T) {
	fake := huetest.New()
	fake.AddGroup(2, "Kitchen", []string{"3"}, false)
	s := newTestServer(t, fake)

	result, _ := s.handleSetGroupBrightness(context.Background(), callRequest(map[string]any{
		"group_id": float64(2), "brightness": float64(254),
	}))
	if got := textOf(t, result); got != "Group 2 (Kitchen) brightness set to 254 (100%)." {
		t.Errorf("text = %q", got)
	}
	if state := fake.LastGroupState(2); state == nil || state.On == nil || !*state.On || state.Bri == nil || *state.Bri != 254 {
		t.Errorf("bridge state = %+v, want On with Bri 254", state)
	}
}

func TestSetScene(t *testing.T) {
	fake := huetest.New()
	fake.AddGroup(1, "Living room", []string{"1"}, true)
	fake.AddScene("abc123", "Sunset", "1")
	s := newTestServer(t, fake)

	result, _ := s.handleSetScene(context.Background(), callRequest(map[string]any{
		"group_id": float64(1), "scene_id": "abc123",
	}))
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, result))
	}
	if got := textOf(t, result); got != "Scene 'Sunset' applied to group 'Living room'." {
		t.Errorf("text = %q", got)
	}
	recalled := fake.Recalled()
	if len(recalled) != 1 || recalled[0] != "abc123@1" {
		t.Errorf("recalled = %v, want [abc123@1]", recalled)
	}
}

func TestSetScene_UnknownScene(t *testing.T) {
	fake := huetest.New()
	fake.AddGroup(1, "Living room", []string{"1"}, true)
	s := newTestServer(t, fake)

	result, _ := s.handleSetScene(context.Background(), callRequest(map[string]any{
		"group_id": float64(1), "scene_id": "nope",
	}))
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	if got := textOf(t, result); got != "Error: Scene with ID nope not found." {
		t.Errorf("text = %q", got)
	}
}

func TestSetScene_ByName(t *testing.T) {
	fake := huetest.New()
	fake.AddGroup(1, "Living room", []string{"1"}, true)
	fake.AddScene("abc123", "Sunset", "1")
	s := newTestServer(t, fake)

	result, _ := s.handleSetScene(context.Background(), callRequest(map[string]any{
		"group_id": float64(1), "scene_name": "Sunset",
	}))
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, result))
	}
	if got := textOf(t, result); got != "Scene 'Sunset' applied to group 'Living room'." {
		t.Errorf("text = %q", got)
	}
	recalled := fake.Recalled()
	if len(recalled) != 1 || recalled[0] != "abc123@1" {
		t.Errorf("recalled = %v, want [abc123@1]", recalled)
	}
}

func TestSetScene_NameInOtherGroup(t *testing.T) {
	fake := huetest.New()
	fake.AddGroup(1, "Living room", []string{"1"}, true)
	fake.AddScene("abc123", "Sunset", "2") // belongs to a different group
	s := newTestServer(t, fake)

	result, _ := s.handleSetScene(context.Background(), callRequest(map[string]any{
		"group_id": float64(1), "scene_name": "Sunset",
	}))
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	if got := textOf(t, result); got != "Error: Scene 'Sunset' not found in group 'Living room'." {
		t.Errorf("text = %q", got)
	}
}

func TestSetScene_MissingIdentifier(t *testing.T) {
	fake := huetest.New()
	fake.AddGroup(1, "Living room", []string{"1"}, true)
	s := newTestServer(t, fake)

	result, _ := s.handleSetScene(context.Background(), callRequest(map[string]any{"group_id": float64(1)}))
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	if got := textOf(t, result); got != "Error: Provide scene_id or scene_name." {
		t.Errorf("text = %q", got)
	}
}

func TestCreateGroup(t *testing.T) {
	fake := huetest.New()
	fake.AddLight(1, "Desk", colorState())
	fake.AddLight(2, "Shelf", colorState())
	s := newTestServer(t, fake)

	result, _ := s.handleCreateGroup(context.Background(), callRequest(map[string]any{
		"name": "Office", "light_ids": []any{float64(1), float64(2)},
	}))
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, result))
	}
	if got := textOf(t, result); got != "Group 'Office' created with ID 10, containing 2 lights." {
		t.Errorf("text = %q", got)
	}
}

func TestCreateGroup_EmptyLights(t *testing.T) {
	fake := huetest.New()
	s := newTestServer(t, fake)

	result, _ := s.handleCreateGroup(context.Background(), callRequest(map[string]any{
		"name": "Office", "light_ids": []any{},
	}))
	if !result.IsError {
		t.Fatal("expected tool error")
	}
}

func TestCreateGroup_InvalidLights(t *testing.T) {
	fake := huetest.New()
	fake.AddLight(1, "Desk", colorState())
	s := newTestServer(t, fake)

	result, _ := s.handleCreateGroup(context.Background(), callRequest(map[string]any{
		"name": "Office", "light_ids": []any{float64(1), float64(99)},
	}))
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	if got := textOf(t, result); got != "Error: Invalid light IDs: [99]" {
		t.Errorf("text = %q", got)
	}
}

func TestQuickScene(t *testing.T) {
	fake := huetest.New()
	fake.AddGroup(0, "All lights", []string{"1"}, false)
	s := newTestServer(t, fake)

	result, _ := s.handleQuickScene(context.Background(), callRequest(map[string]any{
		"name":        "Movie night",
		"brightness":  float64(80),
		"temperature": float64(2500),
	}))
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, result))
	}
	got := textOf(t, result)
	want := "Scene 'Movie night' applied to group 'All lights' with brightness 80 (31%), temperature 2500K."
	if got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
	state := fake.LastGroupState(0)
	if state == nil || state.On == nil || !*state.On || state.Bri == nil || *state.Bri != 80 || state.Ct != 400 {
		t.Errorf("bridge state = %+v, want On with Bri 80 Ct 400", state)
	}
}

func TestQuickScene_NoSettings(t *testing.T) {
	fake := huetest.New()
	fake.AddGroup(0, "All lights", []string{"1"}, false)
	s := newTestServer(t, fake)

	result, _ := s.handleQuickScene(context.Background(), callRequest(map[string]any{"name": "Nothing"}))
	if !result.IsError {
		t.Fatal("expected tool error when no settings are given")
	}
}

func TestFindLightByName_NoMatch(t *testing.T) {
	fake := huetest.New()
	fake.AddLight(1, "Desk", colorState())
	s := newTestServer(t, fake)

	result, _ := s.handleFindLightByName(context.Background(), callRequest(map[string]any{"name": "garage"}))
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, result))
	}
	if got := textOf(t, result); got != "No lights found with name containing 'garage'." {
		t.Errorf("text = %q", got)
	}
}

func TestGetAllLights(t *testing.T) {
	fake := huetest.New()
	fake.AddLight(1, "Desk", huego.State{On: true, Bri: 200, Reachable: true, ColorMode: "xy"})
	s := newTestServer(t, fake)

	result, _ := s.handleGetAllLights(context.Background(), callRequest(nil))
	got := textOf(t, result)
	for _, want := range []string{`"name": "Desk"`, `"on": true`, `"brightness": 200`} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRefreshLights(t *testing.T) {
	fake := huetest.New()
	fake.AddLight(1, "Desk", colorState())
	fake.AddLight(2, "Shelf", colorState())
	s := newTestServer(t, fake)

	result, _ := s.handleRefreshLights(context.Background(), callRequest(nil))
	if got := textOf(t, result); got != "Refreshed information for 2 lights." {
		t.Errorf("text = %q", got)
	}
}

func TestCommandHistoryRecording(t *testing.T) {
	fake := huetest.New()
	fake.AddLight(1, "Desk", colorState())
	s, led := newTestServerWithLedger(t, fake)

	req := callRequest(map[string]any{"light_id": float64(1)})
	result, err := s.handleTurnOnLight(context.Background(), req)
	s.record("turn_on_light", req, result, err)

	entries, err := led.Recent(5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].Tool != "turn_on_light" || entries[0].Outcome != ledger.OutcomeOK {
		t.Errorf("entry = %+v", entries[0])
	}
	if entries[0].Detail != "Light 1 (Desk) turned on." {
		t.Errorf("detail = %q", entries[0].Detail)
	}
}

func TestCommandHistoryTool(t *testing.T) {
	fake := huetest.New()
	s, led := newTestServerWithLedger(t, fake)

	if _, err := led.Record("turn_on_light", map[string]any{"light_id": 1}, ledger.OutcomeOK, "ok"); err != nil {
		t.Fatalf("Record: %v", err)
	}

	result, _ := s.handleCommandHistory(context.Background(), callRequest(map[string]any{"limit": float64(5)}))
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, result))
	}
	if got := textOf(t, result); !strings.Contains(got, "turn_on_light") {
		t.Errorf("history output missing tool name:\n%s", got)
	}
}

func TestReadLightsResource(t *testing.T) {
	fake := huetest.New()
	fake.AddLight(1, "Desk", huego.State{On: true, Reachable: true})
	s := newTestServer(t, fake)

	var req mcp.ReadResourceRequest
	req.Params.URI = "hue://lights"
	contents, err := s.readLightsResource(context.Background(), req)
	if err != nil {
		t.Fatalf("resource error: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("len(contents) = %d, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents[0] is %T, want TextResourceContents", contents[0])
	}
	if tc.URI != "hue://lights" || tc.MIMEType != "application/json" {
		t.Errorf("uri = %q, mime = %q", tc.URI, tc.MIMEType)
	}
	if !strings.Contains(tc.Text, `"name": "Desk"`) {
		t.Errorf("resource text missing light:\n%s", tc.Text)
	}
}

package hue_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/amimof/huego"

	"github.com/warshanks/hue-mcp/internal/hue"
)

// recordingBridge captures the raw requests a Client sends.
type recordingBridge struct {
	mu       sync.Mutex
	srv      *httptest.Server
	method   string
	path     string
	body     string
	response string
}

func newRecordingBridge(t *testing.T) *recordingBridge {
	t.Helper()
	rb := &recordingBridge{response: `[{"success":{"/lights/1/state/on":true}}]`}
	rb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rb.mu.Lock()
		rb.method = r.Method
		rb.path = r.URL.Path
		rb.body = string(body)
		response := rb.response
		rb.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, response)
	}))
	t.Cleanup(rb.srv.Close)
	return rb
}

func (rb *recordingBridge) client() *hue.Client {
	return hue.NewClient(huego.New(rb.srv.URL, "testuser"))
}

func (rb *recordingBridge) respondWith(response string) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.response = response
}

func (rb *recordingBridge) request() (method, path, body string) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.method, rb.path, rb.body
}

func TestClientSetLightState_Body(t *testing.T) {
	tests := []struct {
		name  string
		state hue.StateUpdate
		want  string
	}{
		// Brightness 0 must stay in the payload; the bridge treats a
		// missing bri as "leave brightness alone".
		{"brightness zero", hue.StateUpdate{On: hue.Bool(true), Bri: hue.Uint8(0)}, `{"on":true,"bri":0}`},
		{"brightness mid", hue.StateUpdate{On: hue.Bool(true), Bri: hue.Uint8(127)}, `{"on":true,"bri":127}`},
		{"turn off", hue.StateUpdate{On: hue.Bool(false)}, `{"on":false}`},
		{"alert only", hue.StateUpdate{Alert: "select"}, `{"alert":"select"}`},
		{"color temperature", hue.StateUpdate{On: hue.Bool(true), Ct: 400}, `{"on":true,"ct":400}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb := newRecordingBridge(t)
			if _, err := rb.client().SetLightStateContext(context.Background(), 1, tt.state); err != nil {
				t.Fatalf("SetLightStateContext error: %v", err)
			}
			method, path, body := rb.request()
			if method != http.MethodPut {
				t.Errorf("method = %s, want PUT", method)
			}
			if path != "/api/testuser/lights/1/state" {
				t.Errorf("path = %q", path)
			}
			if body != tt.want {
				t.Errorf("body = %s, want %s", body, tt.want)
			}
		})
	}
}

func TestClientSetGroupState_Path(t *testing.T) {
	rb := newRecordingBridge(t)
	state := hue.StateUpdate{On: hue.Bool(true), Bri: hue.Uint8(0)}
	if _, err := rb.client().SetGroupStateContext(context.Background(), 2, state); err != nil {
		t.Fatalf("SetGroupStateContext error: %v", err)
	}
	_, path, body := rb.request()
	if path != "/api/testuser/groups/2/action" {
		t.Errorf("path = %q", path)
	}
	if body != `{"on":true,"bri":0}` {
		t.Errorf("body = %s", body)
	}
}

func TestClientSetLightState_BridgeError(t *testing.T) {
	rb := newRecordingBridge(t)
	rb.respondWith(`[{"error":{"type":3,"address":"/lights/1/state","description":"resource, /lights/1/state, not available"}}]`)

	_, err := rb.client().SetLightStateContext(context.Background(), 1, hue.StateUpdate{On: hue.Bool(true)})
	var apiErr *huego.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *huego.APIError", err)
	}
	if apiErr.Type != 3 {
		t.Errorf("error type = %d, want 3", apiErr.Type)
	}
}

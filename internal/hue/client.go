package hue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/amimof/huego"
)

// Client implements BridgeAPI against a real bridge. Reads go through
// huego; state writes are sent directly so the request body is marshaled
// from StateUpdate. huego's own setters marshal huego.State, whose bri
// field carries omitempty and drops brightness 0 from the payload.
type Client struct {
	bridge *huego.Bridge
	http   *http.Client
}

var _ BridgeAPI = (*Client)(nil)

// NewClient wraps an authenticated bridge handle. Per-call deadlines come
// from the request context (see WithTimeout).
func NewClient(bridge *huego.Bridge) *Client {
	return &Client{bridge: bridge, http: &http.Client{}}
}

func (c *Client) GetLightsContext(ctx context.Context) ([]huego.Light, error) {
	return c.bridge.GetLightsContext(ctx)
}

func (c *Client) SetLightStateContext(ctx context.Context, i int, s StateUpdate) (*huego.Response, error) {
	return c.putState(ctx, fmt.Sprintf("lights/%d/state", i), s)
}

func (c *Client) GetGroupsContext(ctx context.Context) ([]huego.Group, error) {
	return c.bridge.GetGroupsContext(ctx)
}

func (c *Client) GetGroupContext(ctx context.Context, i int) (*huego.Group, error) {
	return c.bridge.GetGroupContext(ctx, i)
}

func (c *Client) SetGroupStateContext(ctx context.Context, i int, s StateUpdate) (*huego.Response, error) {
	return c.putState(ctx, fmt.Sprintf("groups/%d/action", i), s)
}

func (c *Client) GetScenesContext(ctx context.Context) ([]huego.Scene, error) {
	return c.bridge.GetScenesContext(ctx)
}

func (c *Client) RecallSceneContext(ctx context.Context, id string, gid int) (*huego.Response, error) {
	return c.bridge.RecallSceneContext(ctx, id, gid)
}

func (c *Client) CreateGroupContext(ctx context.Context, g huego.Group) (*huego.Response, error) {
	return c.bridge.CreateGroupContext(ctx, g)
}

// putState PUTs a state body to a v1 API path relative to /api/<user>/.
func (c *Client) putState(ctx context.Context, path string, s StateUpdate) (*huego.Response, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.v1URL(path), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bridge returned status %d for %s", resp.StatusCode, path)
	}

	var results []huego.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, err
	}
	success := make(map[string]interface{})
	for _, r := range results {
		if r.Error != nil {
			return nil, r.Error
		}
		for k, v := range r.Success {
			success[k] = v
		}
	}
	return &huego.Response{Success: success}, nil
}

func (c *Client) v1URL(path string) string {
	host := c.bridge.Host
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return fmt.Sprintf("%s/api/%s/%s", host, c.bridge.User, path)
}

package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerResources() {
	s.mcp.AddResource(mcp.NewResource(
		"hue://lights",
		"All Hue lights",
		mcp.WithResourceDescription("Current state of every light connected to the bridge"),
		mcp.WithMIMEType("application/json"),
	), s.readLightsResource)

	s.mcp.AddResource(mcp.NewResource(
		"hue://groups",
		"Hue light groups",
		mcp.WithResourceDescription("All light groups configured on the bridge"),
		mcp.WithMIMEType("application/json"),
	), s.readGroupsResource)

	s.mcp.AddResource(mcp.NewResource(
		"hue://scenes",
		"Hue scenes",
		mcp.WithResourceDescription("All scenes stored on the bridge"),
		mcp.WithMIMEType("application/json"),
	), s.readScenesResource)
}

func (s *Server) readLightsResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	lights, err := s.hue.Lights(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(request.Params.URI, formatLights(lights))
}

func (s *Server) readGroupsResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	groups, err := s.hue.Groups(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(request.Params.URI, formatGroups(groups))
}

func (s *Server) readScenesResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	scenes, err := s.hue.Scenes(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(request.Params.URI, formatScenes(scenes))
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

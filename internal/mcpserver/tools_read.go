package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/warshanks/hue-mcp/internal/hue"
	"github.com/warshanks/hue-mcp/internal/ledger"
)

func (s *Server) registerReadTools() {
	s.addTool(mcp.NewTool("get_all_lights",
		mcp.WithDescription("Get information about all lights connected to the Hue bridge."),
	), s.handleGetAllLights)

	s.addTool(mcp.NewTool("get_light",
		mcp.WithDescription("Get detailed information about a specific light."),
		mcp.WithNumber("light_id", mcp.Required(), mcp.Description("The ID of the light")),
	), s.handleGetLight)

	s.addTool(mcp.NewTool("get_all_groups",
		mcp.WithDescription("Get information about all light groups."),
	), s.handleGetAllGroups)

	s.addTool(mcp.NewTool("get_group",
		mcp.WithDescription("Get information about a specific light group."),
		mcp.WithNumber("group_id", mcp.Required(), mcp.Description("The ID of the group")),
	), s.handleGetGroup)

	s.addTool(mcp.NewTool("get_all_scenes",
		mcp.WithDescription("Get information about all scenes stored on the bridge."),
	), s.handleGetAllScenes)

	s.addTool(mcp.NewTool("find_light_by_name",
		mcp.WithDescription("Find lights by searching their names (case-insensitive substring match)."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Partial or full name to search for")),
	), s.handleFindLightByName)

	s.addTool(mcp.NewTool("refresh_lights",
		mcp.WithDescription("Refresh the cached light and scene information. Useful if lights were added, removed, or changed outside this server."),
	), s.handleRefreshLights)

	s.addTool(mcp.NewTool("command_history",
		mcp.WithDescription("Show recent tool invocations recorded by this server, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum entries to return (default 20)")),
		mcp.WithString("tool", mcp.Description("Only show invocations of this tool")),
	), s.handleCommandHistory)
}

func (s *Server) handleGetAllLights(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lights, err := s.hue.Lights(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	return jsonResult(formatLights(lights))
}

func (s *Server) handleGetLight(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lightID, err := request.RequireInt("light_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	light, err := s.hue.Light(ctx, lightID)
	if err != nil {
		if errors.Is(err, hue.ErrLightNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("Error: Light with ID %d not found.", lightID)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	return jsonResult(light)
}

func (s *Server) handleGetAllGroups(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	groups, err := s.hue.Groups(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	return jsonResult(formatGroups(groups))
}

func (s *Server) handleGetGroup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	groupID, err := request.RequireInt("group_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	group, err := s.hue.Group(ctx, groupID)
	if err != nil {
		if errors.Is(err, hue.ErrGroupNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("Error: Group with ID %d not found.", groupID)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	return jsonResult(group)
}

func (s *Server) handleGetAllScenes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scenes, err := s.hue.Scenes(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	return jsonResult(formatScenes(scenes))
}

func (s *Server) handleFindLightByName(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	matches, err := s.hue.FindLightsByName(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	if len(matches) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No lights found with name containing '%s'.", name)), nil
	}
	return jsonResult(formatMatches(matches))
}

func (s *Server) handleRefreshLights(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, err := s.hue.Refresh(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Refreshed information for %d lights.", n)), nil
}

func (s *Server) handleCommandHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.led == nil {
		return mcp.NewToolResultError("Error: command history is not enabled."), nil
	}

	limit := request.GetInt("limit", 20)
	tool := request.GetString("tool", "")

	var entries []*ledger.Entry
	var err error
	if tool != "" {
		entries, err = s.led.RecentByTool(tool, limit)
	} else {
		entries, err = s.led.Recent(limit)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("No commands recorded yet."), nil
	}
	return jsonResult(entries)
}

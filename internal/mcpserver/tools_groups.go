package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amimof/huego"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cast"

	"github.com/warshanks/hue-mcp/internal/color"
	"github.com/warshanks/hue-mcp/internal/hue"
)

func (s *Server) registerGroupTools() {
	s.addTool(mcp.NewTool("turn_on_group",
		mcp.WithDescription("Turn on all lights in a specific group."),
		mcp.WithNumber("group_id", mcp.Required(), mcp.Description("The ID of the group")),
	), s.handleTurnOnGroup)

	s.addTool(mcp.NewTool("turn_off_group",
		mcp.WithDescription("Turn off all lights in a specific group."),
		mcp.WithNumber("group_id", mcp.Required(), mcp.Description("The ID of the group")),
	), s.handleTurnOffGroup)

	s.addTool(mcp.NewTool("set_group_brightness",
		mcp.WithDescription("Set the brightness of all lights in a group. Turns the group on if it is off."),
		mcp.WithNumber("group_id", mcp.Required(), mcp.Description("The ID of the group")),
		mcp.WithNumber("brightness", mcp.Required(), mcp.Description("Brightness level (0-254)")),
	), s.handleSetGroupBrightness)

	s.addTool(mcp.NewTool("set_group_color_rgb",
		mcp.WithDescription("Set color for all lights in a group using RGB values. Turns the group on if it is off."),
		mcp.WithNumber("group_id", mcp.Required(), mcp.Description("The ID of the group")),
		mcp.WithNumber("red", mcp.Required(), mcp.Description("Red value (0-255)")),
		mcp.WithNumber("green", mcp.Required(), mcp.Description("Green value (0-255)")),
		mcp.WithNumber("blue", mcp.Required(), mcp.Description("Blue value (0-255)")),
	), s.handleSetGroupColorRGB)

	s.addTool(mcp.NewTool("set_group_color_preset",
		mcp.WithDescription(fmt.Sprintf("Apply a color preset to a group. Available presets: %s.", presetList())),
		mcp.WithNumber("group_id", mcp.Required(), mcp.Description("The ID of the group")),
		mcp.WithString("preset", mcp.Required(), mcp.Description("Color preset name")),
	), s.handleSetGroupColorPreset)

	s.addTool(mcp.NewTool("set_scene",
		mcp.WithDescription("Apply a scene to a group, identified by scene ID or by scene name within the group."),
		mcp.WithNumber("group_id", mcp.Required(), mcp.Description("The ID of the group")),
		mcp.WithString("scene_id", mcp.Description("The ID of the scene")),
		mcp.WithString("scene_name", mcp.Description("The name of a scene belonging to the group, used when scene_id is not given")),
	), s.handleSetScene)

	s.addTool(mcp.NewTool("create_group",
		mcp.WithDescription("Create a new group of lights."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name for the new group")),
		mcp.WithArray("light_ids", mcp.Required(), mcp.Description("Light IDs to include in the group")),
	), s.handleCreateGroup)

	s.addTool(mcp.NewTool("quick_scene",
		mcp.WithDescription("Quickly set up a lighting scene for a group. Turns the group on and applies any of brightness, RGB color, and color temperature."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name for the scene")),
		mcp.WithArray("rgb", mcp.Description("Optional RGB values [r, g, b]")),
		mcp.WithNumber("temperature", mcp.Description("Optional color temperature (2000-6500K)")),
		mcp.WithNumber("brightness", mcp.Description("Optional brightness (0-254)")),
		mcp.WithNumber("group_id", mcp.Description("Group ID to apply settings to (default: 0, usually all lights)")),
	), s.handleQuickScene)
}

// requireGroup resolves and validates the group_id argument. A non-nil
// result is the error reply to return as-is.
func (s *Server) requireGroup(ctx context.Context, request mcp.CallToolRequest) (*huego.Group, *mcp.CallToolResult) {
	groupID, err := request.RequireInt("group_id")
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	return s.groupByID(ctx, groupID)
}

func (s *Server) groupByID(ctx context.Context, groupID int) (*huego.Group, *mcp.CallToolResult) {
	group, err := s.hue.Group(ctx, groupID)
	if err != nil {
		if errors.Is(err, hue.ErrGroupNotFound) {
			return nil, mcp.NewToolResultError(fmt.Sprintf("Error: Group with ID %d not found.", groupID))
		}
		return nil, mcp.NewToolResultError(fmt.Sprintf("Error: %v", err))
	}
	return group, nil
}

func (s *Server) handleTurnOnGroup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group, errResult := s.requireGroup(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	if err := s.hue.SetGroupState(ctx, group.ID, hue.StateUpdate{On: hue.Bool(true)}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Group %d (%s) turned on.", group.ID, group.Name)), nil
}

func (s *Server) handleTurnOffGroup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group, errResult := s.requireGroup(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	if err := s.hue.SetGroupState(ctx, group.ID, hue.StateUpdate{On: hue.Bool(false)}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Group %d (%s) turned off.", group.ID, group.Name)), nil
}

func (s *Server) handleSetGroupBrightness(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	brightness, err := request.RequireInt("brightness")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !color.ValidBrightness(brightness) {
		return mcp.NewToolResultError("Error: Brightness must be between 0 and 254."), nil
	}

	group, errResult := s.requireGroup(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	if err := s.hue.SetGroupState(ctx, group.ID, hue.StateUpdate{On: hue.Bool(true), Bri: hue.Uint8(uint8(brightness))}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Group %d (%s) brightness set to %d (%d%%).",
		group.ID, group.Name, brightness, color.BrightnessPercent(brightness))), nil
}

func (s *Server) handleSetGroupColorRGB(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	red, err := request.RequireInt("red")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	green, err := request.RequireInt("green")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	blue, err := request.RequireInt("blue")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !color.ValidRGB(red, green, blue) {
		return mcp.NewToolResultError("Error: RGB values must be between 0 and 255."), nil
	}

	group, errResult := s.requireGroup(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	x, y := color.RGBToXY(uint8(red), uint8(green), uint8(blue))
	state := hue.StateUpdate{On: hue.Bool(true), Xy: []float32{float32(x), float32(y)}}
	if err := s.hue.SetGroupState(ctx, group.ID, state); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Group %d (%s) color set to RGB(%d, %d, %d).",
		group.ID, group.Name, red, green, blue)), nil
}

func (s *Server) handleSetGroupColorPreset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("preset")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	preset, err := color.LookupPreset(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}

	group, errResult := s.requireGroup(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	if err := s.hue.SetGroupState(ctx, group.ID, presetState(preset)); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Applied '%s' preset to group '%s'.", name, group.Name)), nil
}

func (s *Server) handleSetScene(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sceneID := request.GetString("scene_id", "")
	sceneName := request.GetString("scene_name", "")
	if sceneID == "" && sceneName == "" {
		return mcp.NewToolResultError("Error: Provide scene_id or scene_name."), nil
	}

	group, errResult := s.requireGroup(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	var scene *huego.Scene
	var err error
	if sceneID != "" {
		scene, err = s.hue.Scene(ctx, sceneID)
		if err != nil {
			if errors.Is(err, hue.ErrSceneNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("Error: Scene with ID %s not found.", sceneID)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
		}
	} else {
		scene, err = s.hue.SceneByName(ctx, group.ID, sceneName)
		if err != nil {
			if errors.Is(err, hue.ErrSceneNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("Error: Scene '%s' not found in group '%s'.", sceneName, group.Name)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
		}
	}

	if err := s.hue.RecallScene(ctx, group.ID, scene.ID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Scene '%s' applied to group '%s'.", scene.Name, group.Name)), nil
}

func (s *Server) handleCreateGroup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	lightIDs, err := cast.ToIntSliceE(request.GetArguments()["light_ids"])
	if err != nil || len(lightIDs) == 0 {
		return mcp.NewToolResultError("Error: light_ids must be a non-empty list of light IDs."), nil
	}

	groupID, err := s.hue.CreateGroup(ctx, name, lightIDs)
	if err != nil {
		var invalid *hue.InvalidLightsError
		if errors.As(err, &invalid) {
			return mcp.NewToolResultError(fmt.Sprintf("Error: Invalid light IDs: %v", invalid.IDs)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Error creating group: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Group '%s' created with ID %s, containing %d lights.",
		name, groupID, len(lightIDs))), nil
}

func (s *Server) handleQuickScene(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	groupID := request.GetInt("group_id", 0)

	args := request.GetArguments()
	_, hasBrightness := args["brightness"]
	_, hasRGB := args["rgb"]
	_, hasTemperature := args["temperature"]
	if !hasBrightness && !hasRGB && !hasTemperature {
		return mcp.NewToolResultError("Error: Provide at least one of brightness, rgb, or temperature."), nil
	}

	state := hue.StateUpdate{On: hue.Bool(true)}
	var changes []string

	if hasBrightness {
		brightness := request.GetInt("brightness", 0)
		if !color.ValidBrightness(brightness) {
			return mcp.NewToolResultError("Error: Brightness must be between 0 and 254."), nil
		}
		state.Bri = hue.Uint8(uint8(brightness))
		changes = append(changes, fmt.Sprintf("brightness %d (%d%%)", brightness, color.BrightnessPercent(brightness)))
	}

	if hasRGB {
		rgb, err := cast.ToIntSliceE(args["rgb"])
		if err != nil || len(rgb) != 3 || !color.ValidRGB(rgb[0], rgb[1], rgb[2]) {
			return mcp.NewToolResultError("Error: RGB values must be three values between 0 and 255."), nil
		}
		x, y := color.RGBToXY(uint8(rgb[0]), uint8(rgb[1]), uint8(rgb[2]))
		state.Xy = []float32{float32(x), float32(y)}
		changes = append(changes, fmt.Sprintf("color RGB(%d, %d, %d)", rgb[0], rgb[1], rgb[2]))
	}

	if hasTemperature {
		kelvin := request.GetInt("temperature", 0)
		if !color.ValidKelvin(kelvin) {
			return mcp.NewToolResultError("Error: Temperature must be between 2000K and 6500K."), nil
		}
		state.Ct = color.KelvinToMired(kelvin)
		changes = append(changes, fmt.Sprintf("temperature %dK", kelvin))
	}

	group, errResult := s.groupByID(ctx, groupID)
	if errResult != nil {
		return errResult, nil
	}

	if err := s.hue.SetGroupState(ctx, group.ID, state); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Scene '%s' applied to group '%s' with %s.",
		name, group.Name, strings.Join(changes, ", "))), nil
}

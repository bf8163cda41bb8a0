package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amimof/huego"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/warshanks/hue-mcp/internal/color"
	"github.com/warshanks/hue-mcp/internal/hue"
)

func (s *Server) registerLightTools() {
	s.addTool(mcp.NewTool("turn_on_light",
		mcp.WithDescription("Turn on a specific light by ID."),
		mcp.WithNumber("light_id", mcp.Required(), mcp.Description("The ID of the light to turn on")),
	), s.handleTurnOnLight)

	s.addTool(mcp.NewTool("turn_off_light",
		mcp.WithDescription("Turn off a specific light by ID."),
		mcp.WithNumber("light_id", mcp.Required(), mcp.Description("The ID of the light to turn off")),
	), s.handleTurnOffLight)

	s.addTool(mcp.NewTool("set_brightness",
		mcp.WithDescription("Set the brightness of a light. Turns the light on if it is off."),
		mcp.WithNumber("light_id", mcp.Required(), mcp.Description("The ID of the light")),
		mcp.WithNumber("brightness", mcp.Required(), mcp.Description("Brightness level (0-254)")),
	), s.handleSetBrightness)

	s.addTool(mcp.NewTool("set_color_rgb",
		mcp.WithDescription("Set light color using RGB values. Turns the light on if it is off."),
		mcp.WithNumber("light_id", mcp.Required(), mcp.Description("The ID of the light")),
		mcp.WithNumber("red", mcp.Required(), mcp.Description("Red value (0-255)")),
		mcp.WithNumber("green", mcp.Required(), mcp.Description("Green value (0-255)")),
		mcp.WithNumber("blue", mcp.Required(), mcp.Description("Blue value (0-255)")),
	), s.handleSetColorRGB)

	s.addTool(mcp.NewTool("set_color_temperature",
		mcp.WithDescription("Set the white color temperature of a light in Kelvin. Turns the light on if it is off."),
		mcp.WithNumber("light_id", mcp.Required(), mcp.Description("The ID of the light")),
		mcp.WithNumber("temperature", mcp.Required(), mcp.Description("Color temperature in Kelvin (2000-6500)")),
	), s.handleSetColorTemperature)

	s.addTool(mcp.NewTool("set_color_preset",
		mcp.WithDescription(fmt.Sprintf("Apply a color preset to a light. Available presets: %s.", presetList())),
		mcp.WithNumber("light_id", mcp.Required(), mcp.Description("The ID of the light")),
		mcp.WithString("preset", mcp.Required(), mcp.Description("Color preset name")),
	), s.handleSetColorPreset)

	s.addTool(mcp.NewTool("alert_light",
		mcp.WithDescription("Make a light flash briefly to identify it."),
		mcp.WithNumber("light_id", mcp.Required(), mcp.Description("The ID of the light to alert")),
	), s.handleAlertLight)

	s.addTool(mcp.NewTool("set_light_effect",
		mcp.WithDescription("Set a dynamic effect on a light ('none' or 'colorloop')."),
		mcp.WithNumber("light_id", mcp.Required(), mcp.Description("The ID of the light")),
		mcp.WithString("effect", mcp.Required(), mcp.Description("Effect type ('none' or 'colorloop')")),
	), s.handleSetLightEffect)
}

// requireLight resolves and validates the light_id argument. A non-nil
// result is the error reply to return as-is.
func (s *Server) requireLight(ctx context.Context, request mcp.CallToolRequest) (*huego.Light, *mcp.CallToolResult) {
	lightID, err := request.RequireInt("light_id")
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	light, err := s.hue.Light(ctx, lightID)
	if err != nil {
		if errors.Is(err, hue.ErrLightNotFound) {
			return nil, mcp.NewToolResultError(fmt.Sprintf("Error: Light with ID %d not found.", lightID))
		}
		return nil, mcp.NewToolResultError(fmt.Sprintf("Error: %v", err))
	}
	return light, nil
}

func (s *Server) handleTurnOnLight(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	light, errResult := s.requireLight(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	if err := s.hue.SetLightState(ctx, light.ID, hue.StateUpdate{On: hue.Bool(true)}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Light %d (%s) turned on.", light.ID, light.Name)), nil
}

func (s *Server) handleTurnOffLight(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	light, errResult := s.requireLight(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	if err := s.hue.SetLightState(ctx, light.ID, hue.StateUpdate{On: hue.Bool(false)}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Light %d (%s) turned off.", light.ID, light.Name)), nil
}

func (s *Server) handleSetBrightness(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	brightness, err := request.RequireInt("brightness")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !color.ValidBrightness(brightness) {
		return mcp.NewToolResultError("Error: Brightness must be between 0 and 254."), nil
	}

	light, errResult := s.requireLight(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	if err := s.hue.SetLightState(ctx, light.ID, hue.StateUpdate{On: hue.Bool(true), Bri: hue.Uint8(uint8(brightness))}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Light %d (%s) brightness set to %d (%d%%).",
		light.ID, light.Name, brightness, color.BrightnessPercent(brightness))), nil
}

func (s *Server) handleSetColorRGB(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
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

	light, errResult := s.requireLight(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	if !hue.SupportsColor(light) {
		return mcp.NewToolResultError(fmt.Sprintf("Error: Light %d (%s) does not support color.", light.ID, light.Name)), nil
	}

	x, y := color.RGBToXY(uint8(red), uint8(green), uint8(blue))
	state := hue.StateUpdate{On: hue.Bool(true), Xy: []float32{float32(x), float32(y)}}
	if err := s.hue.SetLightState(ctx, light.ID, state); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Light %d (%s) color set to RGB(%d, %d, %d).",
		light.ID, light.Name, red, green, blue)), nil
}

func (s *Server) handleSetColorTemperature(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kelvin, err := request.RequireInt("temperature")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !color.ValidKelvin(kelvin) {
		return mcp.NewToolResultError("Error: Temperature must be between 2000K and 6500K."), nil
	}

	light, errResult := s.requireLight(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	if !hue.SupportsCt(light) {
		return mcp.NewToolResultError(fmt.Sprintf("Error: Light %d does not support color temperature.", light.ID)), nil
	}

	mired := color.KelvinToMired(kelvin)
	if err := s.hue.SetLightState(ctx, light.ID, hue.StateUpdate{On: hue.Bool(true), Ct: mired}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Light %d (%s) color temperature set to %dK (%d mired).",
		light.ID, light.Name, kelvin, mired)), nil
}

func (s *Server) handleSetColorPreset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("preset")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	preset, err := color.LookupPreset(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}

	light, errResult := s.requireLight(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	if preset.HasCt() && !hue.SupportsCt(light) {
		return mcp.NewToolResultError(fmt.Sprintf("Error: Light %d does not support color temperature.", light.ID)), nil
	}
	if preset.HasXY() && !hue.SupportsColor(light) {
		return mcp.NewToolResultError(fmt.Sprintf("Error: Light %d does not support color.", light.ID)), nil
	}

	if err := s.hue.SetLightState(ctx, light.ID, presetState(preset)); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Applied '%s' preset to light %d (%s).", name, light.ID, light.Name)), nil
}

func (s *Server) handleAlertLight(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	light, errResult := s.requireLight(ctx, request)
	if errResult != nil {
		return errResult, nil
	}

	// Leave the power state alone; an alert should not switch the light
	// on or off, so the write carries only the alert field.
	if err := s.hue.SetLightState(ctx, light.ID, hue.StateUpdate{Alert: "select"}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Light %d (%s) alerted with a brief flash.", light.ID, light.Name)), nil
}

func (s *Server) handleSetLightEffect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	effect, err := request.RequireString("effect")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if effect != "none" && effect != "colorloop" {
		return mcp.NewToolResultError("Error: Effect must be one of: none, colorloop"), nil
	}

	light, errResult := s.requireLight(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	if !hue.SupportsColor(light) {
		return mcp.NewToolResultError(fmt.Sprintf("Error: Light %d (%s) does not support color effects.", light.ID, light.Name)), nil
	}

	if err := s.hue.SetLightState(ctx, light.ID, hue.StateUpdate{On: hue.Bool(true), Effect: effect}); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error: %v", err)), nil
	}

	effectName := "no effect"
	if effect == "colorloop" {
		effectName = "color loop"
	}
	return mcp.NewToolResultText(fmt.Sprintf("Set %s on light %d (%s).", effectName, light.ID, light.Name)), nil
}

// presetState builds the bridge state for a preset, always switching the
// target on.
func presetState(p color.Preset) hue.StateUpdate {
	state := hue.StateUpdate{On: hue.Bool(true)}
	if p.HasCt() {
		state.Ct = p.Ct
	}
	if p.HasBri() {
		state.Bri = hue.Uint8(p.Bri)
	}
	if p.HasXY() {
		state.Xy = []float32{float32(p.XY[0]), float32(p.XY[1])}
	}
	return state
}

func presetList() string {
	return strings.Join(color.PresetNames(), ", ")
}

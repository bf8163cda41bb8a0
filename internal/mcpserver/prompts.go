package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

const controlLightsPrompt = `You are connected to a Philips Hue lighting system. I want to control my lights using natural language.
Please help me interpret my requests and use the appropriate tools to control my lighting.

First, if needed, retrieve information about my lights using the resources: hue://lights and hue://groups.
Then, use the appropriate tools to control the lights based on my request.

For example:
- Turn on or off specific lights or groups
- Change brightness or color
- Apply presets for different activities
- Set scenes or effects

Please confirm each action you take and provide feedback on the results.`

const createMoodPrompt = `You are connected to my Philips Hue lighting system. I want to create mood lighting for a specific activity
or atmosphere. Please help me set up the perfect lighting environment.

First, gather information about my available lights and groups.
Then, suggest and implement a lighting setup based on my mood or activity request.

Consider:
- Appropriate brightness levels for the activity
- Color temperature or colors that match the mood
- Using preset scenes or creating custom settings
- Grouping lights appropriately

After implementing, summarize what you've done and ask if I'd like to make adjustments.`

const lightSchedulePrompt = `I'd like to understand how to set up scheduled lighting with my Philips Hue system.
Please explain the options available for scheduling automatic lighting changes,
including:

- Whether scheduling is handled through the Hue app rather than this interface
- The types of schedules I can create (time-based, sunrise/sunset, etc.)
- How to create routines or scenes that can be scheduled
- Any limitations I should be aware of

After explaining the scheduling capabilities, suggest some useful lighting schedules
for typical home use.`

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("control_lights",
		mcp.WithPromptDescription("Control lights with natural language"),
	), staticPrompt("Control Philips Hue lights", controlLightsPrompt))

	s.mcp.AddPrompt(mcp.NewPrompt("create_mood",
		mcp.WithPromptDescription("Set up mood lighting for an activity or atmosphere"),
	), staticPrompt("Create mood lighting", createMoodPrompt))

	s.mcp.AddPrompt(mcp.NewPrompt("light_schedule",
		mcp.WithPromptDescription("Explain options for scheduled lighting changes"),
	), staticPrompt("Lighting schedule guidance", lightSchedulePrompt))
}

func staticPrompt(description, text string) func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return mcp.NewGetPromptResult(description, []mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
		}), nil
	}
}

// Package mcpserver exposes Hue bridge control over the Model Context
// Protocol: tools for reading and changing light state, resources for
// browsing lights, groups and scenes, and prompts for common workflows.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/warshanks/hue-mcp/internal/hue"
	"github.com/warshanks/hue-mcp/internal/ledger"
)

const serverInstructions = `This server controls a Philips Hue lighting system.
Read light, group and scene state with the get_* tools or the hue:// resources,
then change it with the control tools. Light and group IDs are integers, scene
IDs are strings. Brightness runs 0-254, color temperature 2000-6500K.`

// Server wires the Hue service and command ledger into an MCP server.
type Server struct {
	mcp *server.MCPServer
	hue *hue.Service
	led *ledger.Ledger
}

// New builds the MCP server and registers all tools, resources and prompts.
// The ledger may be nil, in which case invocations are not recorded.
func New(version string, svc *hue.Service, led *ledger.Ledger) *Server {
	s := &Server{
		mcp: server.NewMCPServer(
			"Philips Hue Controller",
			version,
			server.WithToolCapabilities(true),
			server.WithResourceCapabilities(false, true),
			server.WithPromptCapabilities(true),
			server.WithRecovery(),
			server.WithInstructions(serverInstructions),
		),
		hue: svc,
		led: led,
	}

	s.registerReadTools()
	s.registerLightTools()
	s.registerGroupTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// MCP returns the underlying protocol server for transport wiring.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

type toolHandler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// addTool registers a tool with its handler wrapped so every invocation
// lands in the command ledger. Ledger failures are logged, never surfaced:
// auditing must not break light control.
func (s *Server) addTool(tool mcp.Tool, handler toolHandler) {
	name := tool.Name
	s.mcp.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := handler(ctx, request)
		s.record(name, request, result, err)
		return result, err
	})
}

func (s *Server) record(tool string, request mcp.CallToolRequest, result *mcp.CallToolResult, err error) {
	if s.led == nil {
		return
	}

	outcome := ledger.OutcomeOK
	detail := ""
	switch {
	case err != nil:
		outcome = ledger.OutcomeError
		detail = err.Error()
	case result != nil && result.IsError:
		outcome = ledger.OutcomeError
		detail = resultText(result)
	default:
		detail = resultText(result)
	}

	if _, lerr := s.led.Record(tool, request.GetArguments(), outcome, detail); lerr != nil {
		log.Warn().Err(lerr).Str("tool", tool).Msg("Failed to record invocation")
	}
}

// resultText pulls the first text content out of a tool result. Long
// payloads (light listings) are truncated for the ledger.
func resultText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			const max = 512
			if len(tc.Text) > max {
				return tc.Text[:max]
			}
			return tc.Text
		}
	}
	return ""
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

package mcp

import (
	"context"
	"io"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/sandevgo/dailyfacts/internal/core"
	"github.com/sandevgo/dailyfacts/internal/service/command"
	"github.com/sandevgo/dailyfacts/pkg/log"
)

// Server exposes the session engine as MCP tools over stdio.
type Server struct {
	mcp      *mcpserver.MCPServer
	handlers *Handlers
	in       io.Reader
	out      io.Writer
}

func NewServer(s command.Session, settings core.SettingsStore) *Server {
	srv := mcpserver.NewMCPServer(
		core.AppName,
		core.AppVersion,
		mcpserver.WithToolCapabilities(false),
	)

	return &Server{
		mcp:      srv,
		handlers: RegisterTools(srv, s, settings),
		in:       os.Stdin,
		out:      os.Stdout,
	}
}

// Start serves until ctx is done or stdin closes.
func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("serving MCP on stdio")
	return mcpserver.NewStdioServer(s.mcp).Listen(ctx, s.in, s.out)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return nil
}

// RegisterTools registers every fact tool with server.
func RegisterTools(server *mcpserver.MCPServer, s command.Session, settings core.SettingsStore) *Handlers {
	h := &Handlers{session: s, settings: settings}

	server.AddTool(mcp.Tool{
		Name:        "today_facts",
		Description: "Get today's facts for the user. Restores the facts already chosen today or selects new ones.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, h.TodayFacts)

	server.AddTool(mcp.Tool{
		Name:        "next_facts",
		Description: "Replace every displayed fact with one not yet seen today.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, h.NextFacts)

	indexSchema := mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"index": map[string]interface{}{
				"type":        "number",
				"description": "1-based position of the fact in today's list",
			},
			"fact_id": map[string]interface{}{
				"type":        "string",
				"description": "Id of the fact shown at that position; a retried call whose fact is already gone changes nothing",
			},
		},
		Required: []string{"index"},
	}

	server.AddTool(mcp.Tool{
		Name:        "discard_fact",
		Description: "Dismiss one displayed fact for the rest of the day without a replacement.",
		InputSchema: indexSchema,
	}, h.DiscardFact)

	server.AddTool(mcp.Tool{
		Name:        "replace_fact",
		Description: "Swap one displayed fact for another fact of the same topic.",
		InputSchema: indexSchema,
	}, h.ReplaceFact)

	server.AddTool(mcp.Tool{
		Name:        "get_settings",
		Description: "Get the topic filter, selection mode, language and reminder settings.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, h.GetSettings)

	server.AddTool(mcp.Tool{
		Name:        "update_settings",
		Description: "Change selection settings. Only provided fields are updated; today's facts are reconciled afterwards.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"topics": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Topics to draw facts from; empty means all",
				},
				"one_per_topic": map[string]interface{}{
					"type":        "boolean",
					"description": "One fact per selected topic instead of a single fact",
				},
				"language": map[string]interface{}{
					"type":        "string",
					"description": "Content language: en, de, uk or hu",
				},
			},
		},
	}, h.UpdateSettings)

	server.AddTool(mcp.Tool{
		Name:        "clear_history",
		Description: "Forget which facts were shown today and select afresh.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, h.ClearHistory)

	return h
}

package mcp

import (
	"log/slog"

	"github.com/claude/ironlog/internal/refresh"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, refresher *refresh.Refresher, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("IronLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("IronLog workout tracker. Solve barbell plate loadings, check per-muscle recovery, get today's training suggestion, and log or browse sets."),
	)

	h := &handlers{ds: ds, refresher: refresher, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetPlateLoading, Handler: h.getPlateLoading},
		server.ServerTool{Tool: toolGetRecoveryStatus, Handler: h.getRecoveryStatus},
		server.ServerTool{Tool: toolGetSuggestion, Handler: h.getSuggestion},
		server.ServerTool{Tool: toolGetRecentSets, Handler: h.getRecentSets},
		server.ServerTool{Tool: toolLogSet, Handler: h.logSet},
		server.ServerTool{Tool: toolDeleteSet, Handler: h.deleteSet},
		server.ServerTool{Tool: toolGetStats, Handler: h.getStats},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resTodaySuggestion, Handler: h.todaySuggestion},
		server.ServerResource{Resource: resRecentSets, Handler: h.recentSetsResource},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds        DataSource
	refresher *refresh.Refresher
	log       *slog.Logger
}

// --- Resource definitions ---

var resTodaySuggestion = mcp.NewResource(
	"ironlog://suggestion/today",
	"Today's Suggestion",
	mcp.WithResourceDescription("The current training suggestion with per-muscle recovery fractions"),
	mcp.WithMIMEType("application/json"),
)

var resRecentSets = mcp.NewResource(
	"ironlog://sets/recent",
	"Recent Sets",
	mcp.WithResourceDescription("Sets logged in the last 14 days"),
	mcp.WithMIMEType("application/json"),
)

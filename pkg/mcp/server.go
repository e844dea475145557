// Package mcp exposes a built plan graph read-only over the Model
// Context Protocol, so agent tooling can inspect dependency structure
// without driving the interactive editor.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/plurapay/planviz/pkg/graph"
)

// Server adapts a plan graph to the Model Context Protocol.
type Server struct {
	mcpServer *server.MCPServer
	graph     *graph.Graph
}

// NewServer creates an MCP server over an already-built graph.
func NewServer(g *graph.Graph) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"planviz",
			"1.0.0",
		),
		graph: g,
	}
	s.registerResources()
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}

// --- Resources ---

func (s *Server) registerResources() {
	// planviz://graph
	s.mcpServer.AddResource(mcp.NewResource(
		"planviz://graph",
		"Plan Dependency Graph",
		mcp.WithResourceDescription("All nodes and labeled edges of the compensation plan graph"),
		mcp.WithMIMEType("application/json"),
	), s.handleReadGraph)
}

// --- Tools ---

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		"get_node",
		mcp.WithDescription("Look up one node with its incoming and outgoing references"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Node id (definition value id, bonus id, or 'Rank')")),
	), s.handleGetNode)

	s.mcpServer.AddTool(mcp.NewTool(
		"get_signature",
		mcp.WithDescription("Return the content signature of the current graph shape"),
	), s.handleGetSignature)

	s.mcpServer.AddTool(mcp.NewTool(
		"list_roots",
		mcp.WithDescription("List the root nodes (no definition depends on them)"),
	), s.handleListRoots)
}

// --- Handlers ---

func (s *Server) handleReadGraph(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(s.graph, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal graph: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleGetNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := mcp.ParseString(request, "id", "")
	n, ok := s.graph.Nodes[id]
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown node: %s", id)), nil
	}

	payload := struct {
		Node     *graph.Node  `json:"node"`
		Parents  []graph.Edge `json:"parents"`
		Children []graph.Edge `json:"children"`
	}{
		Node:     n,
		Parents:  s.graph.Parents(id),
		Children: s.graph.Children(id),
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal node: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleGetSignature(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(graph.Signature(s.graph)), nil
}

func (s *Server) handleListRoots(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if len(s.graph.Roots) == 0 {
		return mcp.NewToolResultText("(no roots)"), nil
	}
	return mcp.NewToolResultText(strings.Join(s.graph.Roots, "\n")), nil
}

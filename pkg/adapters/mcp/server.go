// Package mcp exposes a dispatcher as an MCP server so agents can discover
// registered endpoints and trigger calls through them.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/tendril"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
	"github.com/aretw0/tendril/pkg/registry"
)

// Dispatcher defines the slice of the dispatch core the MCP server needs.
type Dispatcher interface {
	Registry() *registry.Registry
	Journal() ports.Journal
	Execute(ctx context.Context, call domain.Action) (domain.Action, error)
}

// DispatchResponse is the structured result of the dispatch_call tool.
type DispatchResponse struct {
	CorrelationID string `json:"correlation_id" jsonschema_description:"Correlation ID of the dispatched call"`
	ActionType    string `json:"action_type" jsonschema_description:"Type of the terminal action (success or failure label)"`
	Success       bool   `json:"success" jsonschema_description:"True when the terminal action is the success label"`
	Payload       any    `json:"payload,omitempty" jsonschema_description:"Decoded response or error body"`
}

// Server wraps a Dispatcher and exposes it as an MCP Server.
type Server struct {
	dispatcher Dispatcher
	mcpServer  *server.MCPServer
	waitLimit  time.Duration
}

// NewServer creates a new MCP Server instance.
func NewServer(d Dispatcher) *Server {
	s := &Server{
		dispatcher: d,
		mcpServer:  server.NewMCPServer("tendril-mcp", tendril.Version),
		waitLimit:  30 * time.Second,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: list_endpoints
	s.mcpServer.AddTool(mcp.NewTool("list_endpoints",
		mcp.WithDescription("List all registered endpoints with their action triplets."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(s.dispatcher.Registry().List())
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: dispatch_call
	dispatchTool := mcp.NewTool("dispatch_call",
		mcp.WithDescription("Dispatch a call to a registered endpoint and wait for its result. A call that exceeds the dispatch timeout produces no result and is reported as an error."),
		mcp.WithString("endpoint", mcp.Required(), mcp.Description("Endpoint ID to call")),
		mcp.WithString("body", mcp.Description("JSON object used as the request body (optional)")),
		mcp.WithString("path_params", mcp.Description("JSON object binding path template parameters (optional)")),
		mcp.WithString("query", mcp.Description("JSON object of query string parameters (optional)")),
		mcp.WithString("server", mcp.Description("Server URL override (optional)")),
		mcp.WithOutputSchema[DispatchResponse](),
	)
	s.mcpServer.AddTool(dispatchTool, mcp.NewStructuredToolHandler(s.handleDispatch))

	// TOOL: list_actions
	s.mcpServer.AddTool(mcp.NewTool("list_actions",
		mcp.WithDescription("List journaled actions, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of entries to return (optional)")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		journal := s.dispatcher.Journal()
		if journal == nil {
			return mcp.NewToolResultError("no journal configured"), nil
		}
		limit := 0
		if raw, ok := request.GetArguments()["limit"].(float64); ok {
			limit = int(raw)
		}
		entries, err := journal.List(ctx, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("journal error: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(entries)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleDispatch(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (DispatchResponse, error) {
	endpointID, _ := args["endpoint"].(string)
	if endpointID == "" {
		return DispatchResponse{}, fmt.Errorf("endpoint is required")
	}

	var opts []registry.CallOption
	if raw, ok := args["body"].(string); ok && raw != "" {
		var body map[string]any
		if err := json.Unmarshal([]byte(raw), &body); err != nil {
			return DispatchResponse{}, fmt.Errorf("invalid body: %w", err)
		}
		opts = append(opts, registry.WithBody(body))
	}
	if raw, ok := args["path_params"].(string); ok && raw != "" {
		var params map[string]any
		if err := json.Unmarshal([]byte(raw), &params); err != nil {
			return DispatchResponse{}, fmt.Errorf("invalid path_params: %w", err)
		}
		opts = append(opts, registry.WithPathParams(params))
	}
	if raw, ok := args["query"].(string); ok && raw != "" {
		var query map[string]string
		if err := json.Unmarshal([]byte(raw), &query); err != nil {
			return DispatchResponse{}, fmt.Errorf("invalid query: %w", err)
		}
		opts = append(opts, registry.WithQuery(query))
	}
	if raw, ok := args["server"].(string); ok && raw != "" {
		opts = append(opts, registry.WithServer(raw))
	}

	call, err := s.dispatcher.Registry().Call(endpointID, opts...)
	if err != nil {
		return DispatchResponse{}, fmt.Errorf("call failed: %w", err)
	}
	inv, err := domain.InvocationFrom(call)
	if err != nil {
		return DispatchResponse{}, err
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.waitLimit)
	defer cancel()

	act, err := s.dispatcher.Execute(waitCtx, call)
	if err != nil {
		if errors.Is(err, domain.ErrNoTerminal) {
			return DispatchResponse{}, fmt.Errorf("call %q produced no result within the dispatch timeout", endpointID)
		}
		return DispatchResponse{}, fmt.Errorf("dispatch failed: %w", err)
	}

	return DispatchResponse{
		CorrelationID: act.CorrelationID(),
		ActionType:    act.Type,
		Success:       act.Type == inv.Labels.Success,
		Payload:       act.Payload,
	}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: tendril://endpoints
	s.mcpServer.AddResource(mcp.NewResource("tendril://endpoints", "Registered Endpoints",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.dispatcher.Registry().List())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal endpoints: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "tendril://endpoints",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

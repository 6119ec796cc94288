// Package mcp provides the MCP server exposing the dementia probability
// calculator as tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/dementia-probability-mcp/internal/domain"
	"github.com/dementia-probability-mcp/internal/logging"
	"github.com/dementia-probability-mcp/internal/mcp/protocol"
	"github.com/dementia-probability-mcp/internal/mcp/tools"
	"github.com/dementia-probability-mcp/internal/service"
)

// ServerName and ServerVersion identify the server to MCP clients.
const (
	ServerName    = "dementia-probability-mcp"
	ServerVersion = "v0.1.0"
)

// Server is the MCP server. It owns the tool registry and bridges every
// registered tool into the MCP SDK.
type Server struct {
	config       *domain.Config
	mcpServer    *mcp.Server
	toolRegistry *tools.ToolRegistry
	logger       *logrus.Logger
}

// ServerOption is a functional option for Server.
type ServerOption func(*Server) error

// WithLogger sets a custom logger.
func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		s.logger = logger
		return nil
	}
}

// NewServer creates a new MCP server instance
func NewServer(cfg *domain.Config, opts ...ServerOption) (*Server, error) {
	server := &Server{config: cfg}

	for _, opt := range opts {
		if err := opt(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	if server.logger == nil {
		server.logger = logging.New(cfg.Logging, nil)
	}

	router := protocol.NewMessageRouter(server.logger)
	calculator := service.NewCalculatorService(server.logger)

	toolRegistry := tools.NewToolRegistry(server.logger, router, calculator)
	if err := toolRegistry.RegisterAllTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}
	if err := toolRegistry.ValidateAllTools(); err != nil {
		return nil, fmt.Errorf("tool validation failed: %w", err)
	}

	serverInfo := &mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}

	server.mcpServer = mcp.NewServer(serverInfo, nil)
	server.toolRegistry = toolRegistry

	if err := server.registerMCPTools(); err != nil {
		return nil, fmt.Errorf("failed to register MCP tools: %w", err)
	}

	server.logger.Info("MCP server initialized successfully")
	return server, nil
}

// registerMCPTools registers every registry tool with the MCP SDK. The
// registry's input schema is published as is; argument checking stays in
// the tool handlers so an incomplete selection comes back as a prompt.
func (s *Server) registerMCPTools() error {
	toolsInfo := s.toolRegistry.GetRegisteredToolsInfo()

	for _, toolInfo := range toolsInfo {
		name := toolInfo.Name
		schema, err := inputSchema(toolInfo.InputSchema)
		if err != nil {
			return fmt.Errorf("tool %s: %w", name, err)
		}

		toolDef := &mcp.Tool{
			Name:        name,
			Description: toolInfo.Description,
			InputSchema: schema,
		}

		s.mcpServer.AddTool(toolDef, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, err := toolArguments(req.Params.Arguments)
			if err != nil {
				return &mcp.CallToolResult{
					IsError: true,
					Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
				}, nil
			}
			return s.callTool(ctx, name, args)
		})

		s.logger.WithField("tool_name", name).Debug("Registered MCP tool")
	}

	s.logger.WithField("tool_count", len(toolsInfo)).Info("Successfully registered all tools")
	return nil
}

// inputSchema converts a registry schema map into the SDK's schema type.
func inputSchema(raw map[string]interface{}) (*jsonschema.Schema, error) {
	if raw == nil {
		return &jsonschema.Schema{Type: "object"}, nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to encode input schema: %w", err)
	}

	schema := &jsonschema.Schema{}
	if err := json.Unmarshal(data, schema); err != nil {
		return nil, fmt.Errorf("invalid input schema: %w", err)
	}
	return schema, nil
}

// toolArguments decodes the raw call arguments into a map.
func toolArguments(raw any) (map[string]any, error) {
	var data []byte
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		data = v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		data = encoded
	}

	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}

	var args map[string]any
	if err := json.Unmarshal(data, &args); err != nil {
		return nil, fmt.Errorf("arguments must be a JSON object: %w", err)
	}
	return args, nil
}

// callTool executes a registry tool and converts the JSON-RPC response into
// an MCP tool result. Tool failures become IsError results, not Go errors,
// so the client sees the message.
func (s *Server) callTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	s.logger.WithField("tool", name).Info("Tool invoked")

	if args == nil {
		args = map[string]any{}
	}
	response := s.toolRegistry.ExecuteTool(ctx, name, args)

	if response.Error != nil {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: errorText(response.Error)},
			},
		}, nil
	}

	payload, err := json.MarshalIndent(response.Result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s result: %w", name, err)
	}

	content := make([]mcp.Content, 0, 2)
	switch r := response.Result.(type) {
	case *tools.CalculateProbabilityResult:
		content = append(content, &mcp.TextContent{Text: r.Report})
	case *tools.ReferenceTablesResult:
		content = append(content, &mcp.TextContent{Text: r.Text})
	}
	content = append(content, &mcp.TextContent{Text: string(payload)})

	return &mcp.CallToolResult{Content: content}, nil
}

func errorText(rpcErr *protocol.RPCError) string {
	switch data := rpcErr.Data.(type) {
	case *domain.MCPError:
		return data.Message
	case string:
		if data != "" {
			return fmt.Sprintf("%s: %s", rpcErr.Message, data)
		}
	}
	return rpcErr.Message
}

// Start runs the MCP server on the configured transport until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	transport := strings.ToLower(s.config.MCP.Transport)
	s.logger.WithField("transport_type", transport).Info("Starting dementia probability MCP server")

	switch transport {
	case domain.TransportStdio, "":
		if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("MCP server failed: %w", err)
		}
		return nil
	case domain.TransportHTTP:
		return s.serveHTTP(ctx)
	default:
		return fmt.Errorf("unsupported MCP transport: %s", s.config.MCP.Transport)
	}
}

// Handler returns the streamable HTTP handler for this server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
}

func (s *Server) serveHTTP(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.config.MCP.HTTPPort)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("MCP streamable HTTP transport listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("MCP HTTP transport failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// Tools returns metadata for every registered tool.
func (s *Server) Tools() []protocol.ToolInfo {
	return s.toolRegistry.GetRegisteredToolsInfo()
}

package protocol

import (
	"context"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// MessageRouter dispatches tool calls to the registered tool handlers
type MessageRouter struct {
	logger       *logrus.Logger
	toolHandlers map[string]ToolHandler
	mu           sync.RWMutex
}

// ToolHandler defines the interface for MCP tool handlers
type ToolHandler interface {
	HandleTool(ctx context.Context, req *JSONRPC2Request) *JSONRPC2Response
	GetToolInfo() ToolInfo
}

// ToolInfo contains metadata about a tool
type ToolInfo struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema,omitempty"`
}

// NewMessageRouter creates a new message router
func NewMessageRouter(logger *logrus.Logger) *MessageRouter {
	return &MessageRouter{
		logger:       logger,
		toolHandlers: make(map[string]ToolHandler),
	}
}

// CallTool invokes a registered tool with the given arguments.
func (mr *MessageRouter) CallTool(ctx context.Context, name string, id interface{}, arguments interface{}) *JSONRPC2Response {
	toolReq := &JSONRPC2Request{
		JSONRPC: "2.0",
		Method:  name,
		Params:  arguments,
		ID:      id,
	}

	handler, exists := mr.GetToolHandler(name)
	if !exists {
		return NewErrorResponse(toolReq, InvalidParams, "Tool not found", name)
	}

	resp := handler.HandleTool(ctx, toolReq)
	resp.JSONRPC = "2.0"
	resp.ID = id
	return resp
}

// RegisterToolHandler registers a tool handler
func (mr *MessageRouter) RegisterToolHandler(name string, handler ToolHandler) {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	mr.toolHandlers[name] = handler
	mr.logger.WithField("tool_name", name).Debug("Registered tool handler")
}

// GetToolHandler retrieves a specific tool handler
func (mr *MessageRouter) GetToolHandler(name string) (ToolHandler, bool) {
	mr.mu.RLock()
	defer mr.mu.RUnlock()

	handler, exists := mr.toolHandlers[name]
	return handler, exists
}

// GetToolHandlers returns all registered tool handlers
func (mr *MessageRouter) GetToolHandlers() map[string]ToolHandler {
	mr.mu.RLock()
	defer mr.mu.RUnlock()

	handlers := make(map[string]ToolHandler, len(mr.toolHandlers))
	for name, handler := range mr.toolHandlers {
		handlers[name] = handler
	}
	return handlers
}

// ToolNames returns the registered tool names in sorted order.
func (mr *MessageRouter) ToolNames() []string {
	mr.mu.RLock()
	defer mr.mu.RUnlock()

	names := make([]string, 0, len(mr.toolHandlers))
	for name := range mr.toolHandlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

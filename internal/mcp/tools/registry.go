package tools

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dementia-probability-mcp/internal/mcp/protocol"
	"github.com/dementia-probability-mcp/internal/service"
)

// ToolRegistry manages registration of all MCP tools
type ToolRegistry struct {
	logger     *logrus.Logger
	router     *protocol.MessageRouter
	calculator *service.CalculatorService
}

// NewToolRegistry creates a new tool registry
func NewToolRegistry(logger *logrus.Logger, router *protocol.MessageRouter, calculator *service.CalculatorService) *ToolRegistry {
	return &ToolRegistry{
		logger:     logger,
		router:     router,
		calculator: calculator,
	}
}

// RegisterAllTools registers the calculator tools with the MCP router
func (tr *ToolRegistry) RegisterAllTools() error {
	tr.logger.Info("Registering dementia probability tools")

	tr.router.RegisterToolHandler(CalculateToolName, NewCalculateProbabilityTool(tr.logger, tr.calculator))
	tr.router.RegisterToolHandler(ReferenceToolName, NewReferenceTablesTool(tr.logger))

	tr.logger.Info("Successfully registered all tools")
	return nil
}

// GetRegisteredToolsInfo returns information about all registered tools, sorted by name
func (tr *ToolRegistry) GetRegisteredToolsInfo() []protocol.ToolInfo {
	names := tr.router.ToolNames()
	toolsInfo := make([]protocol.ToolInfo, 0, len(names))

	for _, name := range names {
		if handler, ok := tr.router.GetToolHandler(name); ok {
			toolsInfo = append(toolsInfo, handler.GetToolInfo())
		}
	}

	return toolsInfo
}

// ExecuteTool runs a registered tool by name.
func (tr *ToolRegistry) ExecuteTool(ctx context.Context, name string, arguments interface{}) *protocol.JSONRPC2Response {
	return tr.router.CallTool(ctx, name, nil, arguments)
}

// ValidateAllTools checks every registered tool has complete metadata
func (tr *ToolRegistry) ValidateAllTools() error {
	tr.logger.Info("Validating all registered tools")

	for name, handler := range tr.router.GetToolHandlers() {
		toolInfo := handler.GetToolInfo()
		if toolInfo.Name != name {
			return fmt.Errorf("tool %q reports name %q", name, toolInfo.Name)
		}
		if toolInfo.Description == "" {
			return fmt.Errorf("tool %q missing description", name)
		}
		if toolInfo.InputSchema == nil {
			tr.logger.WithField("tool", name).Warn("Tool missing input schema")
		}
	}

	tr.logger.Info("Tool validation completed")
	return nil
}

package tools

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/dementia-probability-mcp/internal/mcp/protocol"
	"github.com/dementia-probability-mcp/internal/service"
)

// ReferenceToolName is the MCP name of the reference table tool.
const ReferenceToolName = "get_reference_tables"

// ReferenceTablesTool implements the get_reference_tables MCP tool
type ReferenceTablesTool struct {
	logger *logrus.Logger
}

// ReferenceTablesResult wraps the tables with a plain-text rendering.
type ReferenceTablesResult struct {
	service.ReferenceTables
	Text string `json:"text"`
}

// NewReferenceTablesTool creates a new get_reference_tables tool
func NewReferenceTablesTool(logger *logrus.Logger) *ReferenceTablesTool {
	return &ReferenceTablesTool{logger: logger}
}

// HandleTool returns the prevalence and likelihood ratio tables. It takes no arguments.
func (t *ReferenceTablesTool) HandleTool(ctx context.Context, req *protocol.JSONRPC2Request) *protocol.JSONRPC2Response {
	t.logger.WithField("tool", ReferenceToolName).Debug("Returning reference tables")

	ref := service.GetReferenceTables()
	return protocol.NewResultResponse(req, &ReferenceTablesResult{
		ReferenceTables: ref,
		Text:            service.FormatReferenceTables(ref),
	})
}

// GetToolInfo returns tool metadata
func (t *ReferenceTablesTool) GetToolInfo() protocol.ToolInfo {
	return protocol.ToolInfo{
		Name:        ReferenceToolName,
		Description: "List the dementia prevalence table by sex and age group, the MMSE likelihood ratios, and the accepted input values",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	}
}

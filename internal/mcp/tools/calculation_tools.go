package tools

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dementia-probability-mcp/internal/domain"
	"github.com/dementia-probability-mcp/internal/logging"
	"github.com/dementia-probability-mcp/internal/mcp/protocol"
	"github.com/dementia-probability-mcp/internal/service"
)

// CalculateToolName is the MCP name of the probability tool.
const CalculateToolName = "calculate_dementia_probability"

// CalculateProbabilityTool implements the calculate_dementia_probability MCP tool
type CalculateProbabilityTool struct {
	logger     *logrus.Logger
	calculator *service.CalculatorService
}

// CalculateProbabilityParams defines parameters for the calculate_dementia_probability tool
type CalculateProbabilityParams struct {
	Gender     string `json:"gender"`
	AgeBracket string `json:"age_bracket"`
	MMSEResult string `json:"mmse_result"`
}

// CalculateProbabilityResult defines the result structure for calculate_dementia_probability
type CalculateProbabilityResult struct {
	Selection      domain.Selection       `json:"selection"`
	Stats          domain.DementiaStats   `json:"stats"`
	Formatted      service.FormattedStats `json:"formatted"`
	Report         string                 `json:"report"`
	ProcessingTime string                 `json:"processing_time"`
}

// NewCalculateProbabilityTool creates a new calculate_dementia_probability tool
func NewCalculateProbabilityTool(logger *logrus.Logger, calculator *service.CalculatorService) *CalculateProbabilityTool {
	return &CalculateProbabilityTool{
		logger:     logger,
		calculator: calculator,
	}
}

// HandleTool implements the ToolHandler interface for calculate_dementia_probability
func (t *CalculateProbabilityTool) HandleTool(ctx context.Context, req *protocol.JSONRPC2Request) *protocol.JSONRPC2Response {
	startTime := time.Now()
	t.logger.WithField("tool", CalculateToolName).Debug("Processing probability request")

	var params CalculateProbabilityParams
	if err := ParseParams(req.Params, &params); err != nil {
		return protocol.NewErrorResponse(req, protocol.InvalidParams, "Invalid parameters", err.Error())
	}

	sel, stats, err := t.calculator.CalculateRaw(domain.RawSelection{
		Gender:     params.Gender,
		AgeBracket: params.AgeBracket,
		MMSEResult: params.MMSEResult,
	})
	logging.Operation(t.logger, logging.OperationToolCall, CalculateToolName, sel, time.Since(startTime), err)
	if err != nil {
		return selectionErrorResponse(req, err)
	}

	result := &CalculateProbabilityResult{
		Selection:      sel,
		Stats:          stats,
		Formatted:      service.Format(stats),
		Report:         service.FormatReport(stats),
		ProcessingTime: time.Since(startTime).String(),
	}

	return protocol.NewResultResponse(req, result)
}

// GetToolInfo returns tool metadata
func (t *CalculateProbabilityTool) GetToolInfo() protocol.ToolInfo {
	return protocol.ToolInfo{
		Name:        CalculateToolName,
		Description: "Estimate the post-test probability of dementia from sex, age group and MMSE result using age and sex specific prevalence and the MMSE likelihood ratio",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"gender": map[string]interface{}{
					"type":        "string",
					"description": "Biological sex",
					"enum":        []string{"Male", "Female"},
				},
				"age_bracket": map[string]interface{}{
					"type":        "string",
					"description": "Age group in years",
					"enum":        []string{"60-64", "65-69", "70-74", "75-79", "80-84", "85-89", "90+"},
				},
				"mmse_result": map[string]interface{}{
					"type":        "string",
					"description": "MMSE score range: low (0-24) or high (25-30)",
					"enum":        []string{"low", "high"},
				},
			},
			"required": []string{"gender", "age_bracket", "mmse_result"},
		},
	}
}

package tools

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dementia-probability-mcp/internal/domain"
	"github.com/dementia-probability-mcp/internal/mcp/protocol"
	"github.com/dementia-probability-mcp/internal/service"
)

func newTestRegistry(t *testing.T) (*ToolRegistry, *logrus.Logger) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	router := protocol.NewMessageRouter(logger)
	registry := NewToolRegistry(logger, router, service.NewCalculatorService(logger))
	require.NoError(t, registry.RegisterAllTools())
	return registry, logger
}

// TestCalculateProbabilityTool tests a complete calculation request
func TestCalculateProbabilityTool(t *testing.T) {
	logger, _ := test.NewNullLogger()
	tool := NewCalculateProbabilityTool(logger, service.NewCalculatorService(logger))

	req := &protocol.JSONRPC2Request{
		JSONRPC: "2.0",
		Method:  CalculateToolName,
		Params: map[string]interface{}{
			"gender":      "Female",
			"age_bracket": "90+",
			"mmse_result": "low",
		},
		ID: 1,
	}

	response := tool.HandleTool(context.Background(), req)
	require.Nil(t, response.Error)

	result, ok := response.Result.(*CalculateProbabilityResult)
	require.True(t, ok, "Expected *CalculateProbabilityResult")

	assert.Equal(t, domain.Selection{Gender: domain.Female, AgeBracket: domain.Age90Plus, MMSEResult: domain.MMSELow}, result.Selection)
	assert.Equal(t, 0.480, result.Stats.Prevalence)
	assert.Equal(t, 6.30, result.Stats.LikelihoodRatio)
	assert.InDelta(t, 0.8532, result.Stats.Probability, 1e-4)
	assert.Equal(t, "85.33%", result.Formatted.Probability)
	assert.Contains(t, result.Report, "Post-test Probability: 85.33%")
	assert.NotEmpty(t, result.ProcessingTime)
}

// TestCalculateProbabilityTool_InvalidParams tests selection validation
func TestCalculateProbabilityTool_InvalidParams(t *testing.T) {
	logger, _ := test.NewNullLogger()
	tool := NewCalculateProbabilityTool(logger, service.NewCalculatorService(logger))

	testCases := []struct {
		name      string
		params    interface{}
		errorCode string
		message   string
	}{
		{
			name:      "missing_gender",
			params:    map[string]interface{}{"age_bracket": "70-74", "mmse_result": "high"},
			errorCode: domain.ErrIncompleteSelection,
			message:   "Please select a gender",
		},
		{
			name:      "missing_age",
			params:    map[string]interface{}{"gender": "Male", "mmse_result": "high"},
			errorCode: domain.ErrIncompleteSelection,
			message:   "Please select an age category",
		},
		{
			name:      "missing_mmse",
			params:    map[string]interface{}{"gender": "Male", "age_bracket": "70-74"},
			errorCode: domain.ErrIncompleteSelection,
			message:   "Please select an MMSE result",
		},
		{
			name:      "invalid_age",
			params:    map[string]interface{}{"gender": "Male", "age_bracket": "50-54", "mmse_result": "high"},
			errorCode: domain.ErrInvalidInput,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := &protocol.JSONRPC2Request{
				JSONRPC: "2.0",
				Method:  CalculateToolName,
				Params:  tc.params,
				ID:      7,
			}

			response := tool.HandleTool(context.Background(), req)
			require.NotNil(t, response.Error)
			assert.Equal(t, protocol.InvalidParams, response.Error.Code)

			mcpErr, ok := response.Error.Data.(*domain.MCPError)
			require.True(t, ok)
			assert.Equal(t, tc.errorCode, mcpErr.Code)
			assert.Equal(t, "7", mcpErr.RequestID)
			if tc.message != "" {
				assert.Equal(t, tc.message, mcpErr.Message)
			}

		})
	}

	response := tool.HandleTool(context.Background(), &protocol.JSONRPC2Request{Method: CalculateToolName})
	require.NotNil(t, response.Error)
	assert.Equal(t, protocol.InvalidParams, response.Error.Code)
}

// TestReferenceTablesTool tests the reference table tool
func TestReferenceTablesTool(t *testing.T) {
	logger, _ := test.NewNullLogger()
	tool := NewReferenceTablesTool(logger)

	response := tool.HandleTool(context.Background(), &protocol.JSONRPC2Request{Method: ReferenceToolName})
	require.Nil(t, response.Error)

	result, ok := response.Result.(*ReferenceTablesResult)
	require.True(t, ok)
	assert.Len(t, result.Prevalence, 7)
	assert.Len(t, result.LikelihoodRatios, 2)
	assert.Contains(t, result.Text, "Likelihood ratio")
}

// TestToolRegistry tests registration, listing and execution through the router
func TestToolRegistry(t *testing.T) {
	registry, _ := newTestRegistry(t)

	require.NoError(t, registry.ValidateAllTools())

	infos := registry.GetRegisteredToolsInfo()
	require.Len(t, infos, 2)
	assert.Equal(t, CalculateToolName, infos[0].Name)
	assert.Equal(t, ReferenceToolName, infos[1].Name)
	assert.NotNil(t, infos[0].InputSchema)

	response := registry.ExecuteTool(context.Background(), CalculateToolName, map[string]interface{}{
		"gender":      "male",
		"age_bracket": "70-74",
		"mmse_result": "MMSE 25-30",
	})
	require.Nil(t, response.Error)
	result := response.Result.(*CalculateProbabilityResult)
	assert.Equal(t, "0.72%", result.Formatted.Probability)
	assert.Equal(t, "3.70%", result.Formatted.Prevalence)
	assert.Equal(t, "0.19", result.Formatted.LikelihoodRatio)

	response = registry.ExecuteTool(context.Background(), "estimate_lifespan", map[string]interface{}{})
	require.NotNil(t, response.Error)
	assert.Equal(t, "Tool not found", response.Error.Message)
}

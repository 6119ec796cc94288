package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dementia-probability-mcp/internal/domain"
	"github.com/dementia-probability-mcp/internal/mcp/protocol"
)

// ParseParams parses generic parameters from interface{} into a target struct.
//
// Usage:
//
//	var params MyParams
//	if err := ParseParams(req.Params, &params); err != nil {
//	    return errorResponse(err)
//	}
func ParseParams(params interface{}, target interface{}) error {
	if params == nil {
		return fmt.Errorf("missing required parameters")
	}

	paramsBytes, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal parameters: %w", err)
	}

	if err := json.Unmarshal(paramsBytes, target); err != nil {
		return fmt.Errorf("failed to parse parameters: %w", err)
	}

	return nil
}

// selectionErrorResponse maps selection errors onto JSON-RPC errors. The
// error data carries a domain.MCPError so clients can show the message.
func selectionErrorResponse(req *protocol.JSONRPC2Request, err error) *protocol.JSONRPC2Response {
	var incomplete *domain.IncompleteSelectionError
	if errors.As(err, &incomplete) {
		return protocol.NewErrorResponse(req, protocol.InvalidParams, "Incomplete selection",
			domain.NewMCPError(domain.ErrIncompleteSelection, incomplete.Error(), incomplete.Field, requestID(req)))
	}

	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		return protocol.NewErrorResponse(req, protocol.InvalidParams, "Invalid parameters",
			domain.NewMCPError(domain.ErrInvalidInput, validation.Error(), validation.Field, requestID(req)))
	}

	return protocol.NewErrorResponse(req, protocol.MCPToolError, "Calculation failed",
		domain.NewMCPError(domain.ErrCalculation, err.Error(), "", requestID(req)))
}

func requestID(req *protocol.JSONRPC2Request) string {
	if req == nil || req.ID == nil {
		return ""
	}
	return fmt.Sprint(req.ID)
}

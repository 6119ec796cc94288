// Package protocol holds the JSON-RPC 2.0 envelope used between the MCP SDK
// bridge and the tool handlers, and the router that dispatches tool calls.
package protocol

// JSONRPC2Request represents a JSON-RPC 2.0 request message
type JSONRPC2Request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
	ID      interface{} `json:"id,omitempty"`
}

// JSONRPC2Response represents a JSON-RPC 2.0 response message
type JSONRPC2Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// RPCError represents a JSON-RPC 2.0 error object
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Error codes used in tool responses
const (
	InvalidParams = -32602 // JSON-RPC 2.0 invalid params
	MCPToolError  = -32003
)

// NewErrorResponse builds an error response for req.
func NewErrorResponse(req *JSONRPC2Request, code int, message string, data interface{}) *JSONRPC2Response {
	resp := &JSONRPC2Response{
		JSONRPC: "2.0",
		Error: &RPCError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
	if req != nil {
		resp.ID = req.ID
	}
	return resp
}

// NewResultResponse builds a successful response for req.
func NewResultResponse(req *JSONRPC2Request, result interface{}) *JSONRPC2Response {
	resp := &JSONRPC2Response{
		JSONRPC: "2.0",
		Result:  result,
	}
	if req != nil {
		resp.ID = req.ID
	}
	return resp
}

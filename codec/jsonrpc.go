package codec

import (
	"encoding/json"
	"errors"
	"net/http"
)

const JsonRPCVersion = "2.0"

type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      any             `json:"id,omitempty"`
}

// IsNotification reports whether the request expects no response.
func (r *JSONRPCRequest) IsNotification() bool { return r.ID == nil }

type JSONRPCResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	Result  any       `json:"result,omitempty"`
	Error   *RPCError `json:"error,omitempty"`
	ID      any       `json:"id"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *RPCError) Error() string { return e.Message }

// JSON-RPC 2.0 standard error codes
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
)

var rpcErrorMessages = map[int]string{
	ParseError:     "Parse error",
	InvalidRequest: "Invalid Request",
	MethodNotFound: "Method not found",
	InvalidParams:  "Invalid params",
	InternalError:  "Internal error",
}

var (
	ErrInvalidVersion = errors.New("invalid jsonrpc version")
	ErrMissingMethod  = errors.New("missing method")
)

func ParseJSONRPCRequest(r *http.Request) (*JSONRPCRequest, error) {
	var req JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	return &req, checkRequest(&req)
}

// DecodeJSONRPCRequest parses a single request from raw bytes, e.g. one
// stdio line.
func DecodeJSONRPCRequest(data []byte) (*JSONRPCRequest, error) {
	var req JSONRPCRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, checkRequest(&req)
}

func checkRequest(req *JSONRPCRequest) error {
	if req.JSONRPC != JsonRPCVersion {
		return ErrInvalidVersion
	}
	if req.Method == "" {
		return ErrMissingMethod
	}
	return nil
}

func NewResponse(result any, id any) JSONRPCResponse {
	return JSONRPCResponse{
		JSONRPC: JsonRPCVersion,
		Result:  result,
		ID:      id,
	}
}

// NewErrorResponse fills in the standard message when message is empty.
func NewErrorResponse(code int, message string, data any, id any) JSONRPCResponse {
	if message == "" {
		message = rpcErrorMessages[code]
	}
	return JSONRPCResponse{
		JSONRPC: JsonRPCVersion,
		Error: &RPCError{
			Code:    code,
			Message: message,
			Data:    data,
		},
		ID: id,
	}
}

func WriteJSONRPCResponse(w http.ResponseWriter, result any, id any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(NewResponse(result, id))
}

func WriteJSONRPCError(w http.ResponseWriter, code int, message string, id any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(NewErrorResponse(code, message, nil, id))
}

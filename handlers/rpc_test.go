package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gotoolcall/codec"
	"github.com/gotoolcall/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRPC(t *testing.T, body string) codec.JSONRPCResponse {
	t.Helper()
	h := RPCHandler(newTestProtocol(t), logger.NewWithWriter("rpc", "test", &bytes.Buffer{}))
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/rpc", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp codec.JSONRPCResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRPCHandler_Success(t *testing.T) {
	resp := doRPC(t, `{"jsonrpc": "2.0", "id": 1, "method": "toolcalls/strip", "params": {"text": "  hi  "}}`)

	require.Nil(t, resp.Error)
	assert.Equal(t, float64(1), resp.ID)
	assert.Equal(t, map[string]any{"text": "hi"}, resp.Result)
}

func TestRPCHandler_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"parse error", `{"jsonrpc":`, codec.ParseError},
		{"bad version", `{"jsonrpc": "1.0", "id": 1, "method": "ping"}`, codec.InvalidRequest},
		{"missing method", `{"jsonrpc": "2.0", "id": 1}`, codec.InvalidRequest},
		{"unknown method", `{"jsonrpc": "2.0", "id": 1, "method": "nope"}`, codec.MethodNotFound},
		{"invalid params", `{"jsonrpc": "2.0", "id": 1, "method": "toolcalls/extract", "params": {"text": 3}}`, codec.InvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRPC(t, tt.body)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

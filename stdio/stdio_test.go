package stdio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/gotoolcall/codec"
	"github.com/gotoolcall/handlers"
	"github.com/gotoolcall/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, input string) []codec.JSONRPCResponse {
	t.Helper()
	p, err := handlers.NewProtocol(logger.NewWithWriter("stdio", "test", &bytes.Buffer{}))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, Serve(context.Background(), strings.NewReader(input), &out, p))

	var resps []codec.JSONRPCResponse
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		var resp codec.JSONRPCResponse
		require.NoError(t, json.Unmarshal(sc.Bytes(), &resp))
		resps = append(resps, resp)
	}
	return resps
}

func TestServe_OneResponsePerRequest(t *testing.T) {
	input := `{"jsonrpc": "2.0", "id": 1, "method": "ping"}` + "\n\n" +
		`{"jsonrpc": "2.0", "id": 2, "method": "toolcalls/strip", "params": {"text": " a "}}` + "\n"

	resps := serve(t, input)

	require.Len(t, resps, 2)
	assert.Equal(t, float64(1), resps[0].ID)
	assert.Equal(t, map[string]any{"text": "a"}, resps[1].Result)
}

func TestServe_NotificationsGetNoReply(t *testing.T) {
	input := `{"jsonrpc": "2.0", "method": "ping"}` + "\n" +
		`{"jsonrpc": "2.0", "method": "nope"}` + "\n" +
		`{"jsonrpc": "2.0", "id": 3, "method": "ping"}`

	resps := serve(t, input)

	require.Len(t, resps, 1)
	assert.Equal(t, float64(3), resps[0].ID)
}

func TestServe_Errors(t *testing.T) {
	input := "not json\n" +
		`{"jsonrpc": "2.0", "id": 4, "method": "missing"}` + "\n"

	resps := serve(t, input)

	require.Len(t, resps, 2)
	assert.Equal(t, codec.ParseError, resps[0].Error.Code)
	assert.Nil(t, resps[0].ID)
	assert.Equal(t, codec.MethodNotFound, resps[1].Error.Code)
}

func TestServe_StopsOnCancel(t *testing.T) {
	p, err := handlers.NewProtocol(logger.NewWithWriter("stdio", "test", &bytes.Buffer{}))
	require.NoError(t, err)
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, pr, io.Discard, p) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

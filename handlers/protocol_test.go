package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/gotoolcall/logger"
	"github.com/gotoolcall/protocol"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProtocol(t *testing.T) *protocol.Protocol {
	t.Helper()
	p, err := NewProtocol(logger.NewWithWriter("handlers", "test", &bytes.Buffer{}))
	require.NoError(t, err)
	return p
}

func TestNewProtocol_RegistersMethods(t *testing.T) {
	p := newTestProtocol(t)

	assert.Equal(t, []string{
		protocol.MethodPing,
		protocol.MethodExtract,
		protocol.MethodFormat,
		protocol.MethodProcess,
		protocol.MethodStrip,
		protocol.MethodValidate,
	}, p.Methods())
}

func TestExtractMethod(t *testing.T) {
	p := newTestProtocol(t)
	params := json.RawMessage(`{"text": "` + "```json\\n{\\\"name\\\": \\\"get_time\\\", \\\"arguments\\\": {}}\\n```" + `"}`)

	res, err := p.HandleRequest(context.Background(), protocol.MethodExtract, params)
	require.NoError(t, err)

	calls := res.(ExtractResult).ToolCalls
	require.Len(t, calls, 1)
	assert.Equal(t, "get_time", calls[0].Name)
	assert.Empty(t, calls[0].Parameters)
}

func TestExtractMethod_RequiresText(t *testing.T) {
	p := newTestProtocol(t)

	_, err := p.HandleRequest(context.Background(), protocol.MethodExtract, json.RawMessage(`{"txt": "hi"}`))

	var invalid *protocol.InvalidParamsError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, protocol.MethodExtract, invalid.Method)
}

func TestProcessMethod_NoCallsIsNull(t *testing.T) {
	p := newTestProtocol(t)

	res, err := p.HandleRequest(context.Background(), protocol.MethodProcess, json.RawMessage(`{"content": "just text"}`))
	require.NoError(t, err)

	out, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"content": "just text", "display_content": "just text", "tool_calls": null}`, string(out))
}

func TestStripMethod(t *testing.T) {
	p := newTestProtocol(t)
	params, _ := json.Marshal(TextParams{Text: "Before\n```function\nname: ping\n```\nAfter"})

	res, err := p.HandleRequest(context.Background(), protocol.MethodStrip, params)
	require.NoError(t, err)
	assert.Equal(t, "Before\n\nAfter", res.(StripResult).Text)
}

func TestFormatMethod(t *testing.T) {
	p := newTestProtocol(t)

	tests := []struct {
		name   string
		params string
		want   string
	}{
		{"object", `{"tool_name": "w", "result": {"b": 1, "a": 2}}`, "### Tool Result: w\n```json\n{\n  \"a\": 2,\n  \"b\": 1\n}\n```"},
		{"string", `{"tool_name": "w", "result": "sunny"}`, "### Tool Result: w\n```\nsunny\n```"},
		{"number", `{"tool_name": "w", "result": 42}`, "### Tool Result: w\n```\n42\n```"},
		{"absent", `{"tool_name": "w"}`, "### Tool Result: w\n```json\nnull\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.HandleRequest(context.Background(), protocol.MethodFormat, json.RawMessage(tt.params))
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.(FormatResult).Markdown)
		})
	}
}

func TestValidateMethod(t *testing.T) {
	p := newTestProtocol(t)
	params := json.RawMessage(`{
		"call": {"name": "get_weather", "parameters": {"city": 7}},
		"tools": [{"name": "get_weather", "parameters": {"type": "object", "properties": {"city": {"type": "string"}}}}]
	}`)

	res, err := p.HandleRequest(context.Background(), protocol.MethodValidate, params)
	require.NoError(t, err)

	vr := res.(ValidateResult)
	assert.Equal(t, "failed", string(vr.Status))
	assert.Contains(t, vr.Error, "city")
	assert.Empty(t, vr.Detections)
}

func TestErrorCode(t *testing.T) {
	code, _ := ErrorCode(&protocol.InvalidParamsError{Method: "m"})
	assert.Equal(t, -32602, code)

	code, _ = ErrorCode(errors.New("boom"))
	assert.Equal(t, -32603, code)
}

func TestProcessMethod_MissingContentIsNull(t *testing.T) {
	p := newTestProtocol(t)

	for _, params := range []string{`{}`, `{"content": ""}`, `{"role": "assistant"}`} {
		res, err := p.HandleRequest(context.Background(), protocol.MethodProcess, json.RawMessage(params))
		require.NoError(t, err, params)

		out, err := json.Marshal(res)
		require.NoError(t, err)
		assert.JSONEq(t, `{"content": "", "display_content": "", "tool_calls": null}`, string(out), params)
	}

	res, err := p.HandleRequest(context.Background(), protocol.MethodProcess, nil)
	require.NoError(t, err)
	assert.Nil(t, res.(ProcessResult).ToolCalls)
}

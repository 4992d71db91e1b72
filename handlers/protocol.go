package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gotoolcall/extract"
	"github.com/gotoolcall/logger"
	"github.com/gotoolcall/protocol"
	"github.com/gotoolcall/types"
	"github.com/gotoolcall/validate"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const textParamsSchema = `{
	"type": "object",
	"properties": {"text": {"type": "string"}},
	"required": ["text"]
}`

const processParamsSchema = `{
	"type": "object",
	"properties": {
		"content": {"type": "string"},
		"role": {"type": "string"}
	}
}`

const formatParamsSchema = `{
	"type": "object",
	"properties": {
		"tool_name": {"type": "string", "minLength": 1},
		"result": {}
	},
	"required": ["tool_name"]
}`

const validateParamsSchema = `{
	"type": "object",
	"properties": {
		"call": {
			"type": "object",
			"properties": {
				"name": {"type": "string"},
				"parameters": {"type": ["object", "null"]}
			},
			"required": ["name"]
		},
		"tools": {"type": "array", "items": {"type": "object", "required": ["name"]}}
	},
	"required": ["call", "tools"]
}`

type TextParams struct {
	Text string `json:"text"`
}

type FormatParams struct {
	ToolName string          `json:"tool_name"`
	Result   json.RawMessage `json:"result,omitempty"`
}

type ValidateParams struct {
	Call  types.ToolCall         `json:"call"`
	Tools []types.ToolDefinition `json:"tools"`
}

// ProcessResult is what toolcalls/process and the REST route answer with.
// ToolCalls stays nil when nothing was found so it encodes as null.
type ProcessResult struct {
	Content        string           `json:"content"`
	DisplayContent string           `json:"display_content"`
	ToolCalls      []types.ToolCall `json:"tool_calls"`
}

type ValidateResult struct {
	Status     types.ExecutionStatus `json:"status"`
	Error      string                `json:"error,omitempty"`
	Detections []validate.Detection  `json:"hidden_unicode,omitempty"`
}

type FormatResult struct {
	Markdown string `json:"markdown"`
}

type StripResult struct {
	Text string `json:"text"`
}

type ExtractResult struct {
	ToolCalls []types.ToolCall `json:"tool_calls"`
}

// NewProtocol registers every tool-call operation on a fresh Protocol.
func NewProtocol(log *logger.Logger) (*protocol.Protocol, error) {
	if log == nil {
		log = logger.NewLogger("handlers", uuid.NewString())
	}
	ex := extract.New(log)
	p := protocol.NewProtocol()

	handlers := []struct {
		method  string
		schema  string
		handler protocol.RequestHandler
	}{
		{protocol.MethodPing, "", func(ctx context.Context, _ json.RawMessage) (any, error) {
			return map[string]string{}, nil
		}},
		{protocol.MethodExtract, textParamsSchema, func(ctx context.Context, params json.RawMessage) (any, error) {
			var req TextParams
			if err := json.Unmarshal(params, &req); err != nil {
				return nil, invalidParams(protocol.MethodExtract, err)
			}
			return ExtractResult{ToolCalls: ex.ExtractToolCalls(req.Text)}, nil
		}},
		{protocol.MethodProcess, processParamsSchema, func(ctx context.Context, params json.RawMessage) (any, error) {
			var msg types.Message
			if len(params) == 0 {
				return processMessage(ex, &msg), nil
			}
			if err := json.Unmarshal(params, &msg); err != nil {
				return nil, invalidParams(protocol.MethodProcess, err)
			}
			return processMessage(ex, &msg), nil
		}},
		{protocol.MethodStrip, textParamsSchema, func(ctx context.Context, params json.RawMessage) (any, error) {
			var req TextParams
			if err := json.Unmarshal(params, &req); err != nil {
				return nil, invalidParams(protocol.MethodStrip, err)
			}
			return StripResult{Text: ex.RemoveToolCallBlocks(req.Text)}, nil
		}},
		{protocol.MethodFormat, formatParamsSchema, func(ctx context.Context, params json.RawMessage) (any, error) {
			var req FormatParams
			if err := json.Unmarshal(params, &req); err != nil {
				return nil, invalidParams(protocol.MethodFormat, err)
			}
			return FormatResult{Markdown: extract.FormatToolResults(req.ToolName, ResultValue(req.Result))}, nil
		}},
		{protocol.MethodValidate, validateParamsSchema, func(ctx context.Context, params json.RawMessage) (any, error) {
			var req ValidateParams
			if err := json.Unmarshal(params, &req); err != nil {
				return nil, invalidParams(protocol.MethodValidate, err)
			}
			return validateCall(ctx, req.Call, req.Tools), nil
		}},
	}

	for _, h := range handlers {
		if err := p.SetRequestHandler(h.method, h.schema, h.handler); err != nil {
			return nil, err
		}
	}
	log.Debug(fmt.Sprintf("registered methods: %v", p.Methods()))
	return p, nil
}

func invalidParams(method string, err error) error {
	return &protocol.InvalidParamsError{Method: method, Errors: []string{err.Error()}}
}

func processMessage(ex *extract.Extractor, msg *types.Message) ProcessResult {
	return ProcessResult{
		Content:        msg.Content,
		DisplayContent: ex.RemoveToolCallBlocks(msg.Content),
		ToolCalls:      ex.ProcessMessageForToolCalls(msg),
	}
}

func validateCall(ctx context.Context, call types.ToolCall, tools []types.ToolDefinition) ValidateResult {
	status, err := validate.ValidateToolCall(ctx, call, tools)
	res := ValidateResult{Status: status, Detections: validate.ScanToolCall(call)}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

// ResultValue turns a raw JSON result into something FormatToolResults
// renders naturally: strings lose their quotes, absent results become nil.
func ResultValue(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	r := gjson.ParseBytes(raw)
	if r.Type == gjson.String {
		return r.String()
	}
	return raw
}

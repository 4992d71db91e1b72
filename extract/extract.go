// Package extract lifts tool calls out of assistant text.
//
// Three fenced-block conventions are recognized: JSON blocks (untagged or
// tagged json) holding {"name", "arguments"|"parameters"}, function and
// tool_call blocks written as "name: ..." lines, and result / tool_result
// blocks, which are only ever stripped. Extraction is best-effort and never
// returns an error.
package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/gotoolcall/logger"
	"github.com/gotoolcall/types"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

var (
	nameLine = regexp.MustCompile(`(?m)^[ \t]*name:[ \t]*(\S+)`)
	argsLine = regexp.MustCompile(`(?m)^[ \t]*(?:arguments|parameters):[ \t]*`)
	kvLine   = regexp.MustCompile(`(?m)^[ \t]*(\w+):[ \t]*(\S.*)$`)
)

var reservedKeys = map[string]bool{
	"name":       true,
	"arguments":  true,
	"parameters": true,
}

// Extractor holds nothing but its logger, so one value may be shared freely.
type Extractor struct {
	log *logger.Logger
}

func New(log *logger.Logger) *Extractor {
	if log == nil {
		log = logger.NewLogger("extract", uuid.NewString())
	}
	return &Extractor{log: log}
}

var std = sync.OnceValue(func() *Extractor { return New(nil) })

// ExtractToolCalls uses the package default Extractor.
func ExtractToolCalls(text string) []types.ToolCall { return std().ExtractToolCalls(text) }

// ProcessMessageForToolCalls uses the package default Extractor.
func ProcessMessageForToolCalls(msg *types.Message) []types.ToolCall {
	return std().ProcessMessageForToolCalls(msg)
}

// RemoveToolCallBlocks uses the package default Extractor.
func RemoveToolCallBlocks(text string) string { return std().RemoveToolCallBlocks(text) }

// ExtractToolCalls returns every tool call found in text: JSON-block calls
// first, then function/tool_call-block calls, each group in text order.
// The result is never nil.
func (e *Extractor) ExtractToolCalls(text string) []types.ToolCall {
	return e.guard(func() []types.ToolCall { return e.extract(text) })
}

// ProcessMessageForToolCalls returns nil when the message has no content or
// nothing was found, so callers can tell "nothing to do" from a result.
func (e *Extractor) ProcessMessageForToolCalls(msg *types.Message) []types.ToolCall {
	if msg == nil || msg.Content == "" {
		return nil
	}
	calls := e.ExtractToolCalls(msg.Content)
	if len(calls) == 0 {
		return nil
	}
	return calls
}

func (e *Extractor) guard(fn func() []types.ToolCall) (calls []types.ToolCall) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error(fmt.Sprintf("tool call extraction failed: %v", r))
			calls = []types.ToolCall{}
		}
	}()
	return fn()
}

func (e *Extractor) extract(text string) []types.ToolCall {
	calls := []types.ToolCall{}
	blocks := scanBlocks(text)

	for _, b := range blocks {
		if b.kind() != kindJSON {
			continue
		}
		if call, ok := e.parseJSONBlock(b.body); ok {
			calls = append(calls, call)
		}
	}
	for _, b := range blocks {
		if b.kind() != kindFunction {
			continue
		}
		if call, ok := e.parseFunctionBlock(b.body); ok {
			calls = append(calls, call)
		}
	}
	return calls
}

// parseJSONBlock accepts an object with a non-empty string "name" and an
// "arguments" or "parameters" key. "arguments" wins when both are present.
func (e *Extractor) parseJSONBlock(body string) (types.ToolCall, bool) {
	raw := strings.TrimSpace(body)
	if !gjson.Valid(raw) {
		e.log.Warn(fmt.Sprintf("skipping malformed JSON tool call block: %s", truncate(raw, 120)))
		return types.ToolCall{}, false
	}
	doc := gjson.Parse(raw)
	name := doc.Get("name")
	if name.Type != gjson.String || name.String() == "" {
		return types.ToolCall{}, false
	}
	args := doc.Get("arguments")
	if !args.Exists() {
		args = doc.Get("parameters")
	}
	if !args.Exists() {
		return types.ToolCall{}, false
	}
	return types.ToolCall{Name: name.String(), Parameters: objectParams(args)}, true
}

// objectParams returns the object held by r, or by a string that encodes an
// object. Anything else yields an empty map.
func objectParams(r gjson.Result) map[string]any {
	if r.Type == gjson.String {
		s := strings.TrimSpace(r.String())
		if !gjson.Valid(s) {
			return map[string]any{}
		}
		r = gjson.Parse(s)
	}
	if r.IsObject() {
		if m, ok := r.Value().(map[string]any); ok {
			return m
		}
	}
	return map[string]any{}
}

func (e *Extractor) parseFunctionBlock(body string) (types.ToolCall, bool) {
	m := nameLine.FindStringSubmatch(body)
	if m == nil {
		return types.ToolCall{}, false
	}
	call := types.ToolCall{Name: m[1]}
	if params, ok := e.jsonArguments(body); ok {
		call.Parameters = params
	} else {
		call.Parameters = keyValueParams(body)
	}
	return call, true
}

// jsonArguments decodes the object following an "arguments:" or
// "parameters:" line up to its balanced end.
func (e *Extractor) jsonArguments(body string) (map[string]any, bool) {
	loc := argsLine.FindStringIndex(body)
	if loc == nil {
		return nil, false
	}
	rest := strings.TrimLeft(body[loc[1]:], " \t\r\n")
	if !strings.HasPrefix(rest, "{") {
		return nil, false
	}
	var params map[string]any
	if err := json.NewDecoder(strings.NewReader(rest)).Decode(&params); err != nil {
		e.log.Warn(fmt.Sprintf("malformed arguments in function block, falling back to key/value lines: %v", err))
		return nil, false
	}
	if params == nil {
		params = map[string]any{}
	}
	return params, true
}

func keyValueParams(body string) map[string]any {
	params := map[string]any{}
	for _, m := range kvLine.FindAllStringSubmatch(body, -1) {
		if reservedKeys[m[1]] {
			continue
		}
		params[m[1]] = strings.TrimSpace(m[2])
	}
	return params
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

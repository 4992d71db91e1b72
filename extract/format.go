package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/tidwall/pretty"
)

var prettyOptions = &pretty.Options{Width: 0, Indent: "  ", SortKeys: true}

// FormatToolResults renders a tool result as a Markdown section. Structured
// values become a json block; scalars become a plain block.
func FormatToolResults(toolName string, result any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### Tool Result: %s\n", toolName)
	if body, ok := structuredJSON(result); ok {
		b.WriteString("```json\n")
		b.Write(body)
	} else {
		b.WriteString("```\n")
		b.WriteString(plainString(result))
	}
	b.WriteString("\n```")
	return b.String()
}

func structuredJSON(v any) ([]byte, bool) {
	var raw []byte
	switch t := v.(type) {
	case nil:
		raw = []byte("null")
	case json.RawMessage:
		raw = bytes.TrimSpace(t)
		if !json.Valid(raw) || (raw[0] != '{' && raw[0] != '[' && string(raw) != "null") {
			return nil, false
		}
	default:
		if !isStructured(reflect.ValueOf(v)) {
			return nil, false
		}
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return nil, false
		}
		raw = bytes.TrimRight(buf.Bytes(), "\n")
	}
	return bytes.TrimRight(pretty.PrettyOptions(raw, prettyOptions), "\n"), true
}

func isStructured(v reflect.Value) bool {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return true
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Map, reflect.Struct, reflect.Array:
		return true
	case reflect.Slice:
		return v.Type().Elem().Kind() != reflect.Uint8
	}
	return false
}

func plainString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case json.RawMessage:
		return string(bytes.TrimSpace(t))
	}
	return fmt.Sprint(v)
}

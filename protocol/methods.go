package protocol

const (
	// Verifies liveness. Returns {}.
	MethodPing string = "ping"

	// Extracts tool calls from {"text"}. Returns {"tool_calls": [...]}, an
	// empty list when nothing was found.
	MethodExtract string = "toolcalls/extract"

	// Extracts tool calls from a message {"content", "role"}. Returns
	// {"content", "display_content", "tool_calls"}; tool_calls is null when
	// content is missing or nothing was found.
	MethodProcess string = "toolcalls/process"

	// Removes tool call, function and result blocks from {"text"}. Returns
	// {"text"}.
	MethodStrip string = "toolcalls/strip"

	// Renders {"tool_name", "result"} as a Markdown section. Returns
	// {"markdown"}.
	MethodFormat string = "toolcalls/format"

	// Checks {"call"} against the {"tools"} definitions. Returns
	// {"status", "error", "hidden_unicode"}.
	MethodValidate string = "toolcalls/validate"
)

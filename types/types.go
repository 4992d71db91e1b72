package types

import "time"

// ToolCall is one invocation lifted out of assistant text.
type ToolCall struct {
	Name       string         `json:"name" yaml:"name"`
	Parameters map[string]any `json:"parameters" yaml:"parameters"`
}

// ToolDefinition describes a callable tool. Parameters holds a JSON schema.
type ToolDefinition struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Parameters  map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
	RoleSystem    Role = "system"
)

type ExecutionStatus string

const (
	StatusSucceeded ExecutionStatus = "succeeded"
	StatusFailed    ExecutionStatus = "failed"
	StatusError     ExecutionStatus = "error"
)

// ToolResultMetadata records how a tool result came to be.
type ToolResultMetadata struct {
	ExecutionStatus ExecutionStatus `json:"execution_status"`
	ExecutedAt      time.Time       `json:"executed_at"`
	ErrorMessage    string          `json:"error_message,omitempty"`
}

// Message is a chat message. Only Content is required by the extractor.
type Message struct {
	ID             string              `json:"id,omitempty"`
	Role           Role                `json:"role,omitempty"`
	Content        string              `json:"content"`
	DisplayContent string              `json:"display_content,omitempty"`
	Timestamp      time.Time           `json:"timestamp,omitempty"`
	ToolCalls      []ToolCall          `json:"tool_calls,omitempty"`
	ToolName       string              `json:"tool_name,omitempty"`
	ToolResult     *ToolResultMetadata `json:"tool_result,omitempty"`
}

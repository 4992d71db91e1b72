// Package conversation keeps a chat transcript in which assistant turns carry
// the tool calls found in their text and tool turns carry formatted results.
package conversation

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gotoolcall/extract"
	"github.com/gotoolcall/types"

	"github.com/google/uuid"
)

type Conversation struct {
	mu        sync.Mutex
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Messages  []types.Message   `json:"messages"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Update merges metadata and appends messages verbatim, without extraction.
type Update struct {
	Metadata map[string]string `json:"metadata,omitempty"`
	Append   []types.Message   `json:"append,omitempty"`
}

func newID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}

// New creates an empty conversation with optional metadata.
func New(metadata map[string]string) *Conversation {
	if metadata == nil {
		metadata = make(map[string]string)
	}
	now := time.Now()
	return &Conversation{
		ID:        newID("conv"),
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]types.Message, 0),
		Metadata:  metadata,
	}
}

func (c *Conversation) append(msg types.Message) types.Message {
	msg.Timestamp = time.Now()
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = msg.Timestamp
	return msg
}

func (c *Conversation) AppendUser(content string) types.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.append(types.Message{ID: newID("msg"), Role: types.RoleUser, Content: content})
}

// AppendAssistant stores the raw reply together with its extracted tool calls
// and the text left after removing tool-call blocks.
func (c *Conversation) AppendAssistant(content string) types.Message {
	msg := types.Message{ID: newID("msg"), Role: types.RoleAssistant, Content: content}
	msg.ToolCalls = extract.ProcessMessageForToolCalls(&msg)
	msg.DisplayContent = extract.RemoveToolCallBlocks(content)

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.append(msg)
}

// AddToolResult records a tool's output as a tool message whose content is
// the Markdown rendering of result.
func (c *Conversation) AddToolResult(toolName string, result any, status types.ExecutionStatus, execErr error) types.Message {
	meta := &types.ToolResultMetadata{ExecutionStatus: status, ExecutedAt: time.Now()}
	if execErr != nil {
		meta.ErrorMessage = execErr.Error()
		if result == nil {
			result = execErr.Error()
		}
	}
	msg := types.Message{
		ID:         newID("tool"),
		Role:       types.RoleTool,
		Content:    extract.FormatToolResults(toolName, result),
		ToolName:   toolName,
		ToolResult: meta,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.append(msg)
}

// PendingToolCalls returns calls that no later tool message answers. Results
// are matched to calls by tool name, first come first served.
func (c *Conversation) PendingToolCalls() []types.ToolCall {
	c.mu.Lock()
	defer c.mu.Unlock()

	var pending []types.ToolCall
	for _, msg := range c.Messages {
		switch msg.Role {
		case types.RoleAssistant:
			pending = append(pending, msg.ToolCalls...)
		case types.RoleTool:
			for i, call := range pending {
				if call.Name == msg.ToolName {
					pending = append(pending[:i], pending[i+1:]...)
					break
				}
			}
		}
	}
	return pending
}

// ToolCalls returns every call made in the conversation, in order.
func (c *Conversation) ToolCalls() []types.ToolCall {
	c.mu.Lock()
	defer c.mu.Unlock()

	var calls []types.ToolCall
	for _, msg := range c.Messages {
		calls = append(calls, msg.ToolCalls...)
	}
	return calls
}

// History returns a copy of the messages with the given role, or all of them
// when role is empty.
func (c *Conversation) History(role types.Role) []types.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]types.Message, 0, len(c.Messages))
	for _, msg := range c.Messages {
		if role == "" || msg.Role == role {
			out = append(out, msg)
		}
	}
	return out
}

// Clear drops all messages but keeps the metadata.
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Messages = make([]types.Message, 0)
	c.UpdatedAt = time.Now()
}

func (c *Conversation) ApplyUpdate(update Update) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Metadata == nil && len(update.Metadata) > 0 {
		c.Metadata = make(map[string]string, len(update.Metadata))
	}
	for k, v := range update.Metadata {
		c.Metadata[k] = v
	}
	for _, msg := range update.Append {
		if msg.ID == "" {
			msg.ID = newID("msg")
		}
		c.Messages = append(c.Messages, msg)
	}
	c.UpdatedAt = time.Now()
}

type snapshot struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Messages  []types.Message   `json:"messages"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (c *Conversation) MarshalJSON() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return json.Marshal(snapshot{
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Messages:  c.Messages,
		Metadata:  c.Metadata,
	})
}

func (c *Conversation) UnmarshalJSON(data []byte) error {
	var aux snapshot
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ID = aux.ID
	c.CreatedAt = aux.CreatedAt
	c.UpdatedAt = aux.UpdatedAt
	c.Messages = aux.Messages
	c.Metadata = aux.Metadata
	if c.Metadata == nil {
		c.Metadata = make(map[string]string)
	}
	return nil
}

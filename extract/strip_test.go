package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveToolCallBlocks_NoBlocksUnchanged(t *testing.T) {
	e, _ := newTestExtractor()
	text := "Hello there.\n\nHow was your day?"
	assert.Equal(t, text, e.RemoveToolCallBlocks(text))
}

func TestRemoveToolCallBlocks_StripsEveryConvention(t *testing.T) {
	e, _ := newTestExtractor()
	text := "Looking it up.\n" +
		"```json\n{\"name\":\"search\",\"arguments\":{\"query\":\"cats\"}}\n```\n" +
		"```function\nname: a\n```\n" +
		"```tool_call\nname: b\n```\n" +
		"```result\n42\n```\n" +
		"```tool_result\n{\"ok\":true}\n```\n" +
		"Done!"

	assert.Equal(t, "Looking it up.\n\nDone!", e.RemoveToolCallBlocks(text))
}

func TestRemoveToolCallBlocks_StripsMalformedJSON(t *testing.T) {
	e, _ := newTestExtractor()
	text := "Before\n```json\n{\"name\": \"x\", \"arguments\": {,}\n```\nAfter"

	assert.Equal(t, "Before\n\nAfter", e.RemoveToolCallBlocks(text))
	assert.Empty(t, e.ExtractToolCalls(text))
}

func TestRemoveToolCallBlocks_KeepsOtherCode(t *testing.T) {
	e, _ := newTestExtractor()
	text := "Here is code:\n```go\nfmt.Println(\"hi\")\n```\n```json\n[1, 2]\n```"
	assert.Equal(t, text, e.RemoveToolCallBlocks(text))
}

func TestRemoveToolCallBlocks_CollapsesBlankRuns(t *testing.T) {
	e, _ := newTestExtractor()
	assert.Equal(t, "a\n\nb\n\nc", e.RemoveToolCallBlocks("  a\n\n\n\n\nb\n\n\nc\n\n"))
}

func TestRemoveToolCallBlocks_Idempotent(t *testing.T) {
	e, _ := newTestExtractor()
	inputs := []string{
		"",
		"plain text",
		"a\n\n\n\nb",
		"x ```json\n{\"name\":\"n\",\"arguments\":{}}\n``` y ```py\nz\n``` w",
		"```function\nname: q\n```\n\n\n\n```result\nok\n```\ntrailing ``` fence",
		"``` ```json{} ```",
	}
	for _, in := range inputs {
		once := e.RemoveToolCallBlocks(in)
		assert.Equal(t, once, e.RemoveToolCallBlocks(once), "input %q", in)
	}
}

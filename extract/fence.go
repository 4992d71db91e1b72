package extract

import "strings"

const fence = "```"

type blockKind int

const (
	kindOther blockKind = iota
	kindJSON
	kindFunction
	kindResult
)

// block is one fenced span. start and end are byte offsets of the opening
// fence and just past the closing fence.
type block struct {
	tag   string
	body  string
	start int
	end   int
}

// scanBlocks pairs fences in order of appearance. An unclosed trailing fence
// produces no block.
func scanBlocks(text string) []block {
	var blocks []block
	pos := 0
	for pos < len(text) {
		open := strings.Index(text[pos:], fence)
		if open < 0 {
			break
		}
		open += pos
		inner := open + len(fence)
		closing := strings.Index(text[inner:], fence)
		if closing < 0 {
			break
		}
		closing += inner

		tagEnd := inner
		for tagEnd < closing && isTagByte(text[tagEnd]) {
			tagEnd++
		}
		blocks = append(blocks, block{
			tag:   text[inner:tagEnd],
			body:  text[tagEnd:closing],
			start: open,
			end:   closing + len(fence),
		})
		pos = closing + len(fence)
	}
	return blocks
}

func isTagByte(c byte) bool {
	return c == '_' || c == '-' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func (b block) kind() blockKind {
	switch strings.ToLower(b.tag) {
	case "", "json":
		body := strings.TrimSpace(b.body)
		if strings.HasPrefix(body, "{") && strings.HasSuffix(body, "}") {
			return kindJSON
		}
	case "function", "tool_call":
		return kindFunction
	case "result", "tool_result":
		return kindResult
	}
	return kindOther
}

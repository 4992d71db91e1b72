package extract

import (
	"fmt"
	"regexp"
	"strings"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// RemoveToolCallBlocks drops every JSON, function/tool_call and
// result/tool_result block, parsed or not, then squeezes runs of blank lines
// and trims the ends. Other fenced blocks are left alone.
func (e *Extractor) RemoveToolCallBlocks(text string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error(fmt.Sprintf("removing tool call blocks failed: %v", r))
			out = text
		}
	}()

	var b strings.Builder
	last := 0
	for _, blk := range scanBlocks(text) {
		if blk.kind() == kindOther {
			continue
		}
		b.WriteString(text[last:blk.start])
		last = blk.end
	}
	b.WriteString(text[last:])

	return strings.TrimSpace(blankRuns.ReplaceAllString(b.String(), "\n\n"))
}

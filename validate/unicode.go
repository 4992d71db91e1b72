package validate

import (
	"fmt"
	"sort"
	"unicode"

	"github.com/gotoolcall/types"
)

type Category string

const (
	CategoryTag       Category = "tag"
	CategoryBidi      Category = "bidi"
	CategoryZeroWidth Category = "zero-width"
	CategoryFormat    Category = "format"
)

// Detection is one suspicious rune. Index is a byte offset into the scanned
// string; Field names where it was found when scanning a tool call.
type Detection struct {
	Rune     rune     `json:"rune"`
	Hex      string   `json:"hex"`
	Index    int      `json:"index"`
	Category Category `json:"category"`
	Field    string   `json:"field,omitempty"`
}

func classify(r rune) (Category, bool) {
	switch {
	case r >= 0xE0000 && r <= 0xE007F:
		return CategoryTag, true
	case (r >= 0x202A && r <= 0x202E) || (r >= 0x2066 && r <= 0x2069) || r == 0x200E || r == 0x200F || r == 0x061C:
		return CategoryBidi, true
	case (r >= 0x200B && r <= 0x200D) || r == 0x2060 || r == 0xFEFF:
		return CategoryZeroWidth, true
	case unicode.Is(unicode.Cf, r):
		return CategoryFormat, true
	}
	return "", false
}

// DetectHiddenUnicode reports invisible or direction-changing runes that can
// smuggle instructions past a human reader.
func DetectHiddenUnicode(s string) []Detection {
	var found []Detection
	for i, r := range s {
		if cat, ok := classify(r); ok {
			found = append(found, Detection{
				Rune:     r,
				Hex:      fmt.Sprintf("U+%04X", r),
				Index:    i,
				Category: cat,
			})
		}
	}
	return found
}

// ScanToolCall runs DetectHiddenUnicode over the call name and every string
// found in its parameters, keys included.
func ScanToolCall(call types.ToolCall) []Detection {
	found := tagField("name", DetectHiddenUnicode(call.Name))
	keys := make([]string, 0, len(call.Parameters))
	for k := range call.Parameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		found = append(found, scanValue("parameters."+k, k, call.Parameters[k])...)
	}
	return found
}

func scanValue(field, key string, v any) []Detection {
	found := tagField(field, DetectHiddenUnicode(key))
	switch t := v.(type) {
	case string:
		found = append(found, tagField(field, DetectHiddenUnicode(t))...)
	case []any:
		for i, item := range t {
			found = append(found, scanValue(fmt.Sprintf("%s[%d]", field, i), "", item)...)
		}
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			found = append(found, scanValue(field+"."+k, k, t[k])...)
		}
	}
	return found
}

func tagField(field string, ds []Detection) []Detection {
	for i := range ds {
		ds[i].Field = field
	}
	return ds
}

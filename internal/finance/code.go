package finance

import (
	"fmt"
	"strings"
	"unicode"
)

const baseCodeLen = 3

// BaseCode is the upper-cased first three letters of a category name.
// Leading and trailing blanks are ignored; shorter names are used whole.
func BaseCode(name string) string {
	runes := []rune(strings.TrimSpace(name))
	if len(runes) > baseCodeLen {
		runes = runes[:baseCodeLen]
	}
	for i, r := range runes {
		runes[i] = unicode.ToUpper(r)
	}
	return string(runes)
}

// NextCode returns base followed by the first two-digit suffix, starting at 01,
// that is not present in existing.
func NextCode(base string, existing []string) string {
	taken := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		taken[c] = struct{}{}
	}
	for suffix := 1; ; suffix++ {
		code := fmt.Sprintf("%s%02d", base, suffix)
		if _, ok := taken[code]; !ok {
			return code
		}
	}
}

package id

import (
	"fmt"
	"strings"
	"unicode"
)

const sep = ":"

// FormatInsightID returns an id like "trend:merchant:kopi-kenangan".
// Each part is slugged so the id depends only on the condition, not on
// incidental casing or spacing in upstream labels.
func FormatInsightID(kind string, parts ...string) string {
	segs := make([]string, 0, len(parts)+1)
	segs = append(segs, kind)
	for _, p := range parts {
		segs = append(segs, Slug(p))
	}
	return strings.Join(segs, sep)
}

// ParseInsightID splits "trend:merchant:kopi-kenangan" into its kind and parts.
func ParseInsightID(id string) (kind string, parts []string, err error) {
	segs := strings.Split(id, sep)
	if len(segs) < 2 || segs[0] == "" {
		return "", nil, fmt.Errorf("invalid insight ID format: %q", id)
	}
	for _, s := range segs[1:] {
		if s == "" {
			return "", nil, fmt.Errorf("empty segment in insight ID %q", id)
		}
	}
	return segs[0], segs[1:], nil
}

// Slug lowercases s and collapses every run of non-alphanumerics into "-".
// "Kopi  Kenangan (Sudirman)" -> "kopi-kenangan-sudirman"
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

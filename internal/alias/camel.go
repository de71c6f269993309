package alias

import "strings"

// camel joins the words of every part in lower camel case:
// camel("left-&-right-view") == "leftRightView", camel("expected", "Safety.Warning") == "expectedSafetyWarning".
//
// Words are runs of ASCII letters and digits. A run is further split between a lower-case
// letter and an upper-case one, between letters and digits, and before the last capital of
// an acronym followed by lower case ("XMLHttp" is "XML", "Http"). Everything else separates words.
func camel(parts ...string) string {
	var b strings.Builder
	first := true
	for _, part := range parts {
		for _, w := range words(part) {
			if first {
				b.WriteString(strings.ToLower(w))
				first = false
				continue
			}
			b.WriteString(strings.ToUpper(w[:1]))
			b.WriteString(strings.ToLower(w[1:]))
		}
	}
	return b.String()
}

type class uint8

const (
	other class = iota
	lower
	upper
	digit
)

func classify(c byte) class {
	switch {
	case c >= 'a' && c <= 'z':
		return lower
	case c >= 'A' && c <= 'Z':
		return upper
	case c >= '0' && c <= '9':
		return digit
	}
	return other
}

func words(s string) []string {
	var out []string
	start := -1
	for i := 0; i < len(s); i++ {
		cur := classify(s[i])
		if cur == other {
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		if boundary(s, i) {
			out = append(out, s[start:i])
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

// boundary reports whether a new word starts at s[i]. s[i-1] and s[i] are alphanumeric.
func boundary(s string, i int) bool {
	prev, cur := classify(s[i-1]), classify(s[i])
	switch {
	case (prev == digit) != (cur == digit):
		return true
	case prev == lower && cur == upper:
		return true
	case prev == upper && cur == upper:
		return i+1 < len(s) && classify(s[i+1]) == lower
	}
	return false
}

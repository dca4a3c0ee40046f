package detectors

import (
	"bytes"
	"strings"
)

// Inline allowlist annotations. The next-line forms allow the line that
// follows the comment instead of the comment line itself.
var (
	allowMarkers     = []string{"pragma: allowlist secret", "keyward:allow"}
	allowNextMarkers = []string{"pragma: allowlist nextline secret", "keyward:allow-next-line"}
)

// IsAllowlisted reports whether line carries a same-line allowlist annotation.
func IsAllowlisted(line string) bool {
	if allowsNextLine(line) {
		return false
	}
	for _, m := range allowMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

func allowsNextLine(line string) bool {
	for _, m := range allowNextMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// eachLine calls fn for every line of data with its 1-based number and
// whether an annotation allowlists it. Lines have no length limit; callers
// bound the input size.
func eachLine(data []byte, fn func(n int, line string, allowed bool)) {
	n := 0
	allowNext := false
	for len(data) > 0 {
		line, rest, _ := bytes.Cut(data, []byte{'\n'})
		data = rest
		n++
		t := string(bytes.TrimSuffix(line, []byte{'\r'}))
		allowed := allowNext || IsAllowlisted(t)
		allowNext = allowsNextLine(t)
		fn(n, t, allowed)
	}
}

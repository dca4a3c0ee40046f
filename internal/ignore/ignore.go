// Package ignore loads .keywardignore files: one doublestar glob per line,
// '#' comments, and a trailing '/' to ignore a whole directory.
package ignore

import (
	"bufio"
	"os"
	"path"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// Matcher reports whether a slash-separated relative path is ignored.
type Matcher struct {
	patterns []string
}

// Load reads patterns from path. A missing file yields an empty matcher and
// the open error.
func Load(p string) (Matcher, error) {
	f, err := os.Open(p)
	if err != nil {
		return Matcher{}, err
	}
	defer f.Close()
	var m Matcher
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		m.Add(sc.Text())
	}
	return m, sc.Err()
}

// New builds a matcher from in-memory patterns.
func New(patterns ...string) Matcher {
	var m Matcher
	for _, p := range patterns {
		m.Add(p)
	}
	return m
}

// Add appends a pattern; blanks and comments are skipped.
func (m *Matcher) Add(line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}
	line = strings.TrimPrefix(line, "./")
	if strings.HasSuffix(line, "/") {
		line += "**"
	}
	m.patterns = append(m.patterns, line)
}

// Patterns returns the normalized patterns.
func (m Matcher) Patterns() []string { return append([]string(nil), m.patterns...) }

func (m Matcher) Match(rel string) bool {
	rel = strings.ReplaceAll(rel, "\\", "/")
	base := path.Base(rel)
	for _, p := range m.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if !strings.Contains(p, "/") {
			if ok, _ := doublestar.Match(p, base); ok {
				return true
			}
			continue
		}
		// directory patterns also match below nested roots
		if ok, _ := doublestar.Match("**/"+p, rel); ok {
			return true
		}
	}
	return false
}

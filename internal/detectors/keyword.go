package detectors

import (
	"regexp"
	"strings"

	"github.com/keyward/keyward/internal/types"
)

var (
	reKeywordQuoted = regexp.MustCompile(`(?i)(?:api_?key|auth_?key|passw(?:or)?d|pwd|secret|private_?key|token)[\w.-]*["']?\s*(?::=|=>|=|:)\s*["'](?P<secret>[^"'\s]{4,})["']`)
	reKeywordBare   = regexp.MustCompile(`(?i)^\s*(?:export\s+)?[\w.-]*(?:api_?key|passw(?:or)?d|secret|token)[\w.-]*\s*=\s*(?P<secret>[^"'\s#]{4,})\s*$`)
)

// falsePositiveValues are placeholder values that never count as secrets.
var falsePositiveValues = map[string]bool{
	"none": true, "null": true, "nil": true, "true": true, "false": true,
	"changeme": true, "password": true, "secret": true, "example": true,
	"xxxx": true, "****": true, "<redacted>": true,
}

// keyword reports values assigned to secret-sounding names.
type keyword struct{}

func (keyword) Name() string       { return "KeywordDetector" }
func (keyword) SecretType() string { return "Secret Keyword" }

func (keyword) Analyze(line string) []string {
	var out []string
	for _, re := range []*regexp.Regexp{reKeywordQuoted, reKeywordBare} {
		idx := re.SubexpIndex("secret")
		for _, m := range re.FindAllStringSubmatch(line, -1) {
			v := m[idx]
			if falsePositiveValues[strings.ToLower(v)] || strings.HasPrefix(v, "${") {
				continue
			}
			out = append(out, v)
		}
	}
	return out
}

func (keyword) FormatResult(types.Finding) string { return "True" }

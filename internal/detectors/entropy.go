package detectors

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/keyward/keyward/internal/types"
)

const (
	base64Charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/=-_"
	hexCharset    = "0123456789abcdefABCDEF"
)

// entropyPlugin flags quoted strings drawn from charset whose Shannon
// entropy exceeds limit.
type entropyPlugin struct {
	name       string
	secretType string
	charset    string
	limit      float64
	quoted     *regexp.Regexp
	// numeric adjusts the score for all-digit strings (hex only).
	numeric bool
}

func newBase64Entropy(limit float64) Plugin {
	return entropyPlugin{
		name:       "Base64HighEntropyString",
		secretType: "Base64 High Entropy String",
		charset:    base64Charset,
		limit:      limit,
		quoted:     regexp.MustCompile(`(["'])([A-Za-z0-9+/=_-]+)(["'])`),
	}
}

func newHexEntropy(limit float64) Plugin {
	return entropyPlugin{
		name:       "HexHighEntropyString",
		secretType: "Hex High Entropy String",
		charset:    hexCharset,
		limit:      limit,
		quoted:     regexp.MustCompile(`(["'])([0-9a-fA-F]+)(["'])`),
		numeric:    true,
	}
}

func (p entropyPlugin) Name() string       { return p.name }
func (p entropyPlugin) SecretType() string { return p.secretType }
func (p entropyPlugin) Limit() float64     { return p.limit }

func (p entropyPlugin) Analyze(line string) []string {
	var out []string
	for _, m := range p.quoted.FindAllStringSubmatch(line, -1) {
		if m[1] != m[3] {
			continue
		}
		if p.score(m[2]) > p.limit {
			out = append(out, m[2])
		}
	}
	return out
}

func (p entropyPlugin) score(s string) float64 {
	h := entropy(s, p.charset)
	if p.numeric && len(s) > 1 && strings.Trim(s, "0123456789") == "" {
		// digit-only strings draw from a smaller alphabet than hex
		h -= 1.2 / math.Log2(float64(len(s)))
	}
	return h
}

func (p entropyPlugin) FormatResult(f types.Finding) string {
	return fmt.Sprintf("True  (%.3f)", p.score(f.Secret))
}

// entropy computes the Shannon entropy of s over the given charset.
func entropy(s, charset string) float64 {
	if s == "" {
		return 0
	}
	count := map[rune]int{}
	for _, r := range s {
		if strings.ContainsRune(charset, r) {
			count[r]++
		}
	}
	H := 0.0
	n := float64(len(s))
	for _, c := range count {
		p := float64(c) / n
		H += -p * math.Log2(p)
	}
	return H
}

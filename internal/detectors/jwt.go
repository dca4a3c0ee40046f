package detectors

import (
	"encoding/base64"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/keyward/keyward/internal/types"
)

var reJWT = regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]*\.?[A-Za-z0-9_.+/=-]*`)

// jwtToken reports JWT-shaped strings whose header and payload decode to JSON.
type jwtToken struct{}

func (jwtToken) Name() string       { return "JwtTokenDetector" }
func (jwtToken) SecretType() string { return "JSON Web Token" }

func (jwtToken) Analyze(line string) []string {
	var out []string
	for _, m := range reJWT.FindAllString(line, -1) {
		if validJWT(m) {
			out = append(out, m)
		}
	}
	return out
}

func (jwtToken) FormatResult(f types.Finding) string {
	if f.Secret == "" {
		return "True"
	}
	return "True  (" + maskValue(f.Secret) + ")"
}

func validJWT(token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return false
	}
	for i, part := range parts[:2] {
		if i == 1 && part == "" {
			return false
		}
		raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(part, "="))
		if err != nil {
			return false
		}
		var v map[string]any
		if err := json.Unmarshal(raw, &v); err != nil {
			return false
		}
	}
	return true
}

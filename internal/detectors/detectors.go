package detectors

import (
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/keyward/keyward/internal/types"
)

// NotFound is the ad-hoc result shown for plugins that matched nothing.
const NotFound = "False"

// ErrDuplicateSecretType is returned when two plugins claim the same secret type.
var ErrDuplicateSecretType = errors.New("duplicate secret type")

// Plugin inspects a single line of text and yields raw secret candidates.
type Plugin interface {
	// Name is the stable display name used for listing and sorting.
	Name() string
	// SecretType labels every finding the plugin produces.
	SecretType() string
	Analyze(line string) []string
	FormatResult(f types.Finding) string
}

// Limited is implemented by plugins with a tunable threshold (entropy limit).
type Limited interface {
	Limit() float64
}

// Config is the persisted description of one plugin as recorded in a baseline.
type Config struct {
	Name  string   `json:"name"`
	Limit *float64 `json:"limit,omitempty"`
}

// Registry is an explicit, immutable set of plugins plus line filters.
// The zero value is not usable; build one with New or NewRegistry.
type Registry struct {
	plugins      []Plugin
	byType       map[string]Plugin
	excludeLines []*regexp.Regexp
}

// NewRegistry builds a registry over plugins. Secret types must be unique so
// that every finding maps back to exactly one plugin.
func NewRegistry(plugins ...Plugin) (*Registry, error) {
	r := &Registry{byType: make(map[string]Plugin, len(plugins))}
	for _, p := range plugins {
		if _, ok := r.byType[p.SecretType()]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSecretType, p.SecretType())
		}
		r.byType[p.SecretType()] = p
		r.plugins = append(r.plugins, p)
	}
	sort.SliceStable(r.plugins, func(i, j int) bool { return r.plugins[i].Name() < r.plugins[j].Name() })
	return r, nil
}

// Plugins returns the registered plugins sorted by display name.
func (r *Registry) Plugins() []Plugin {
	return append([]Plugin(nil), r.plugins...)
}

// Names returns the display names of all plugins, sorted.
func (r *Registry) Names() []string {
	out := make([]string, len(r.plugins))
	for i, p := range r.plugins {
		out[i] = p.Name()
	}
	return out
}

// Lookup finds the plugin responsible for a secret type.
func (r *Registry) Lookup(secretType string) (Plugin, bool) {
	p, ok := r.byType[secretType]
	return p, ok
}

// Configs describes the registry for the plugins_used section of a baseline.
func (r *Registry) Configs() []Config {
	out := make([]Config, 0, len(r.plugins))
	for _, p := range r.plugins {
		c := Config{Name: p.Name()}
		if l, ok := p.(Limited); ok {
			v := l.Limit()
			c.Limit = &v
		}
		out = append(out, c)
	}
	return out
}

// WithExcludeLines returns a copy of r that drops any line matching one of res.
func (r *Registry) WithExcludeLines(res []*regexp.Regexp) *Registry {
	cp := *r
	cp.excludeLines = append(append([]*regexp.Regexp(nil), r.excludeLines...), res...)
	return &cp
}

// ExcludeLines returns the active line filters.
func (r *Registry) ExcludeLines() []*regexp.Regexp {
	return append([]*regexp.Regexp(nil), r.excludeLines...)
}

func (r *Registry) excluded(line string) bool {
	for _, re := range r.excludeLines {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// AnalyzeLine runs every plugin over a single line of filename.
func (r *Registry) AnalyzeLine(filename string, lineNumber int, line string) []types.Finding {
	if r.excluded(line) {
		return nil
	}
	var out []types.Finding
	for _, p := range r.plugins {
		for _, secret := range p.Analyze(line) {
			out = append(out, types.Finding{
				Filename:     filename,
				SecretType:   p.SecretType(),
				LineNumber:   lineNumber,
				HashedSecret: types.HashSecret(secret),
				Secret:       secret,
			})
		}
	}
	return out
}

// Evaluate runs every plugin over a standalone line of text.
func (r *Registry) Evaluate(line string) []types.Finding {
	return r.AnalyzeLine("adhoc-string", 1, line)
}

// FormatResult renders f using the plugin that produced it.
func (r *Registry) FormatResult(f types.Finding) string {
	p, ok := r.byType[f.SecretType]
	if !ok {
		return "True"
	}
	return p.FormatResult(f)
}

// ScanFile returns findings for every line of data that is not allowlisted.
func (r *Registry) ScanFile(filename string, data []byte) []types.Finding {
	var out []types.Finding
	eachLine(data, func(n int, line string, allowed bool) {
		if allowed {
			return
		}
		out = append(out, r.AnalyzeLine(filename, n, line)...)
	})
	return out
}

// AllowlistedInFile returns only the findings on allowlisted lines of data.
func (r *Registry) AllowlistedInFile(filename string, data []byte) []types.Finding {
	var out []types.Finding
	eachLine(data, func(n int, line string, allowed bool) {
		if !allowed {
			return
		}
		out = append(out, r.AnalyzeLine(filename, n, line)...)
	})
	return out
}

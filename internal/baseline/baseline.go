// Package baseline persists scan results together with the settings that
// produced them, and reconciles fresh scans against a saved baseline.
package baseline

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	semver "github.com/blang/semver/v4"

	"github.com/keyward/keyward/internal/detectors"
	"github.com/keyward/keyward/internal/types"
)

// CurrentVersion is written into every saved baseline.
var CurrentVersion = semver.MustParse("1.0.0")

// Filter kinds recorded in filters_used.
const (
	FilterExcludeFiles = "exclude_files"
	FilterExcludeLines = "exclude_lines"
	// FilterExcludeFilesRegex holds file exclusions carried over from 0.x
	// baselines, which were regular expressions rather than globs.
	FilterExcludeFilesRegex = "exclude_files_regex"
)

// Filter is one scan filter that shaped the results.
type Filter struct {
	Kind    string `json:"kind"`
	Pattern string `json:"pattern"`
}

// Baseline is the persisted catalog of known findings.
type Baseline struct {
	Version     semver.Version
	PluginsUsed []detectors.Config
	FiltersUsed []Filter
	Results     *types.ResultSet
	GeneratedAt time.Time
}

// Error reports a baseline that could not be read or understood.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("invalid baseline %s: %v", e.Path, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// New describes results produced by reg under filters.
func New(reg *detectors.Registry, filters []Filter, results *types.ResultSet) *Baseline {
	if results == nil {
		results = types.NewResultSet()
	}
	return &Baseline{
		Version:     CurrentVersion,
		PluginsUsed: reg.Configs(),
		FiltersUsed: append([]Filter(nil), filters...),
		Results:     results,
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
	}
}

// Empty returns a baseline with no plugins and no results.
func Empty() *Baseline {
	return &Baseline{Version: CurrentVersion, Results: types.NewResultSet()}
}

// Patterns returns the patterns recorded for one filter kind.
func (b *Baseline) Patterns(kind string) []string {
	var out []string
	for _, f := range b.FiltersUsed {
		if f.Kind == kind {
			out = append(out, f.Pattern)
		}
	}
	return out
}

// Registry rebuilds the plugin set recorded in the baseline.
func (b *Baseline) Registry(opts detectors.Options) (*detectors.Registry, error) {
	return detectors.FromConfigs(b.PluginsUsed, opts)
}

// document is the on-disk shape. Map keys are emitted sorted by encoding/json.
type document struct {
	Version     string                     `json:"version"`
	PluginsUsed []detectors.Config         `json:"plugins_used"`
	FiltersUsed []Filter                   `json:"filters_used"`
	Results     map[string][]types.Finding `json:"results"`
	GeneratedAt string                     `json:"generated_at,omitempty"`
}

func (b *Baseline) document(slim bool) document {
	doc := document{
		Version:     b.Version.String(),
		PluginsUsed: b.PluginsUsed,
		FiltersUsed: b.FiltersUsed,
		Results:     map[string][]types.Finding{},
	}
	if doc.PluginsUsed == nil {
		doc.PluginsUsed = []detectors.Config{}
	}
	if doc.FiltersUsed == nil {
		doc.FiltersUsed = []Filter{}
	}
	if !slim && !b.GeneratedAt.IsZero() {
		doc.GeneratedAt = b.GeneratedAt.UTC().Format(time.RFC3339)
	}
	if b.Results != nil {
		for _, name := range b.Results.Files() {
			fs := b.Results.Sorted(name)
			if slim {
				for i := range fs {
					fs[i].LineNumber = 0
				}
			}
			doc.Results[name] = fs
		}
	}
	return doc
}

// Format renders b as 2-space indented JSON. Slim output omits line numbers
// and the generation timestamp so that it diffs cleanly.
func Format(b *Baseline, slim bool) ([]byte, error) {
	return json.MarshalIndent(b.document(slim), "", "  ")
}

// Parse decodes a baseline, upgrading older formats to CurrentVersion.
func Parse(data []byte) (*Baseline, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if err := upgrade(raw); err != nil {
		return nil, err
	}
	upgraded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var doc document
	if err := json.Unmarshal(upgraded, &doc); err != nil {
		return nil, err
	}

	b := &Baseline{
		Version:     CurrentVersion,
		PluginsUsed: doc.PluginsUsed,
		FiltersUsed: doc.FiltersUsed,
		Results:     types.NewResultSet(),
	}
	if doc.GeneratedAt != "" {
		if t, err := time.Parse(time.RFC3339, doc.GeneratedAt); err == nil {
			b.GeneratedAt = t
		}
	}
	for _, name := range slices.Sorted(maps.Keys(doc.Results)) {
		for _, f := range doc.Results[name] {
			if f.Filename == "" {
				f.Filename = name
			}
			if f.Filename != name || f.SecretType == "" || f.HashedSecret == "" {
				return nil, fmt.Errorf("malformed finding under %q", name)
			}
			b.Results.Add(f)
		}
	}
	return b, nil
}

// Load reads and parses the baseline at path. Every failure, including a
// missing file, is reported as *Error.
func Load(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	b, err := Parse(data)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return b, nil
}

// LoadOrEmpty is Load, except that a missing file yields Empty().
func LoadOrEmpty(path string) (*Baseline, error) {
	b, err := Load(path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return Empty(), nil
	}
	return b, err
}

// Save writes b to path atomically: a temp file in the same directory is
// renamed over the destination.
func Save(path string, b *Baseline) error {
	data, err := Format(b, false)
	if err != nil {
		return fmt.Errorf("encode baseline: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".keyward-baseline-*")
	if err != nil {
		return fmt.Errorf("save baseline: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save baseline: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("save baseline: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save baseline: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("save baseline: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save baseline: %w", err)
	}
	return nil
}

package baseline

import (
	"errors"
	"fmt"

	semver "github.com/blang/semver/v4"
)

// upgrader rewrites a decoded baseline produced by a version below `below`.
type upgrader struct {
	below semver.Version
	apply func(raw map[string]any)
}

var upgraders = []upgrader{
	{below: semver.MustParse("1.0.0"), apply: upgradeFromV0},
}

// upgrade brings raw up to CurrentVersion in place.
func upgrade(raw map[string]any) error {
	vs, ok := raw["version"].(string)
	if !ok || vs == "" {
		return errors.New("missing version")
	}
	v, err := semver.ParseTolerant(vs)
	if err != nil {
		return fmt.Errorf("version %q: %w", vs, err)
	}
	if v.Major > CurrentVersion.Major {
		return fmt.Errorf("version %s is newer than supported %s", v, CurrentVersion)
	}
	if _, ok := raw["results"].(map[string]any); !ok {
		return errors.New("missing results")
	}
	for _, u := range upgraders {
		if v.LT(u.below) {
			u.apply(raw)
		}
	}
	raw["version"] = CurrentVersion.String()
	return nil
}

// upgradeFromV0 handles the pre-1.0 layout: an "exclude" object instead of
// filters_used, per-plugin "<kind>_limit" keys, and findings without a
// filename field.
func upgradeFromV0(raw map[string]any) {
	var filters []any
	if ex, ok := raw["exclude"].(map[string]any); ok {
		for _, k := range []struct{ key, kind string }{{"files", FilterExcludeFilesRegex}, {"lines", FilterExcludeLines}} {
			if p, ok := ex[k.key].(string); ok && p != "" {
				filters = append(filters, map[string]any{"kind": k.kind, "pattern": p})
			}
		}
	}
	if _, ok := raw["filters_used"]; !ok {
		raw["filters_used"] = filters
	}
	delete(raw, "exclude")
	delete(raw, "word_list")
	delete(raw, "custom_plugin_paths")

	if plugins, ok := raw["plugins_used"].([]any); ok {
		for _, p := range plugins {
			m, ok := p.(map[string]any)
			if !ok {
				continue
			}
			for _, k := range []string{"base64_limit", "hex_limit"} {
				if v, ok := m[k]; ok {
					m["limit"] = v
					delete(m, k)
				}
			}
		}
	}

	results := raw["results"].(map[string]any)
	for name, list := range results {
		items, ok := list.([]any)
		if !ok {
			continue
		}
		for _, it := range items {
			if m, ok := it.(map[string]any); ok {
				if _, ok := m["filename"]; !ok {
					m["filename"] = name
				}
			}
		}
	}
}

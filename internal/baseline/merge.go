package baseline

import "github.com/keyward/keyward/internal/types"

// Merge reconciles a fresh scan with a previously saved baseline. The fresh
// scan decides which findings exist and which settings are recorded; audit
// labels travel across by identity. The result is always at CurrentVersion.
func Merge(old, fresh *Baseline) *Baseline {
	out := &Baseline{
		Version:     CurrentVersion,
		PluginsUsed: fresh.PluginsUsed,
		FiltersUsed: fresh.FiltersUsed,
		Results:     types.NewResultSet(),
		GeneratedAt: fresh.GeneratedAt,
	}
	for _, name := range fresh.Results.Files() {
		for _, f := range fresh.Results.FindingsFor(name) {
			if old != nil && old.Results != nil {
				if prev, ok := old.Results.Get(f.Identity()); ok {
					if prev.IsSecret != nil {
						f.IsSecret = types.Bool(*prev.IsSecret)
					}
					f.IsVerified = f.IsVerified || prev.IsVerified
				}
			}
			out.Results.Add(f)
		}
	}
	return out
}

package action

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/keyward/keyward/internal/audit"
	"github.com/keyward/keyward/internal/baseline"
	"github.com/keyward/keyward/internal/cache"
	"github.com/keyward/keyward/internal/detectors"
	"github.com/keyward/keyward/internal/engine"
	"github.com/keyward/keyward/internal/types"
)

// ScanOptions is the parsed form of the scan verb.
type ScanOptions struct {
	Paths    []string
	AllFiles bool
	// BaselinePath, when set, is merged with the fresh scan and rewritten.
	BaselinePath string
	Slim         bool

	// StringSet is true when an ad-hoc line was requested. An empty String
	// means the line is read from standard input.
	StringSet bool
	String    string

	ListPlugins     bool
	OnlyAllowlisted bool
	Threads         int

	ExcludeFiles    []string
	ExcludeLines    []string
	Detectors       detectors.Options
	ForceAllPlugins bool
	MaxBytes        int64
	DefaultExcludes bool
	UseCache        bool
}

// Scan runs exactly one branch of the scan verb, in this order: list
// plugins, ad-hoc line, allowlisted-only listing, full scan. A full scan
// either prints JSON or, with a baseline path, rewrites the baseline and
// prints nothing.
func Scan(ctx context.Context, env Env, opts ScanOptions) error {
	var old *baseline.Baseline
	if opts.BaselinePath != "" {
		var err error
		if old, err = baseline.LoadOrEmpty(opts.BaselinePath); err != nil {
			return err
		}
	}

	reg, filters, err := buildRegistry(opts, old)
	if err != nil {
		return err
	}

	switch {
	case opts.ListPlugins:
		for _, name := range reg.Names() {
			fmt.Fprintln(env.Stdout, name)
		}
		return nil

	case opts.StringSet:
		line := opts.String
		if line == "" {
			if line, err = firstLine(env.Stdin); err != nil {
				return err
			}
		}
		fmt.Fprintln(env.Stdout, EvaluateLine(reg, line))
		return nil

	case opts.OnlyAllowlisted:
		res, err := engine.ScanAllowlisted(ctx, engineConfig(env, opts, filters, nil), reg)
		if err != nil {
			return err
		}
		return printBaseline(env, baseline.New(reg, filters, res.Results), false)
	}

	var db *cache.DB
	cacheRoot := cacheRootFor(opts.Paths)
	if opts.UseCache {
		db, err = cache.Load(cacheRoot, engine.Fingerprint(reg))
		if err != nil {
			env.Logger.Debug().Err(err).Msg("starting with an empty cache")
		}
	}
	res, err := engine.Scan(ctx, engineConfig(env, opts, filters, db), reg)
	if err != nil {
		return err
	}
	if db != nil {
		if err := cache.Save(cacheRoot, db); err != nil {
			env.Logger.Warn().Err(err).Msg("saving cache")
		}
	}
	fresh := baseline.New(reg, filters, res.Results)

	if opts.BaselinePath == "" {
		return printBaseline(env, fresh, opts.Slim)
	}
	merged := baseline.Merge(old, fresh)
	if err := baseline.Save(opts.BaselinePath, merged); err != nil {
		return err
	}
	added, removed := diffCounts(old.Results, merged.Results)
	env.Logger.Info().
		Str("baseline", opts.BaselinePath).
		Int("findings", merged.Results.Len()).
		Int("added", added).
		Int("removed", removed).
		Msg("baseline updated")
	err = audit.OpenHistory(filepath.Dir(opts.BaselinePath)).Append(audit.Record{
		Kind:          audit.KindMerge,
		Baseline:      opts.BaselinePath,
		TotalFindings: merged.Results.Len(),
		Added:         added,
		Removed:       removed,
	})
	if err != nil {
		env.Logger.Warn().Err(err).Msg("recording audit history")
	}
	return nil
}

// buildRegistry picks the plugin set and line filters. A baseline that
// records its plugins pins them unless ForceAllPlugins is set; filters
// recorded in the baseline are kept alongside the ones given now.
func buildRegistry(opts ScanOptions, old *baseline.Baseline) (*detectors.Registry, []baseline.Filter, error) {
	var (
		reg *detectors.Registry
		err error
	)
	excludeFiles := opts.ExcludeFiles
	excludeLines := opts.ExcludeLines
	if old != nil && len(old.PluginsUsed) > 0 && !opts.ForceAllPlugins {
		reg, err = old.Registry(opts.Detectors)
		if err != nil {
			return nil, nil, &baseline.Error{Path: opts.BaselinePath, Err: err}
		}
	} else {
		reg, err = detectors.New(opts.Detectors)
		if err != nil {
			return nil, nil, err
		}
	}
	if old != nil {
		excludeFiles = union(old.Patterns(baseline.FilterExcludeFiles), excludeFiles)
		excludeLines = union(old.Patterns(baseline.FilterExcludeLines), excludeLines)
	}

	var res []*regexp.Regexp
	for _, p := range excludeLines {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --exclude-lines pattern %q: %w", p, err)
		}
		res = append(res, re)
	}
	var fileRegexes []string
	if old != nil {
		fileRegexes = old.Patterns(baseline.FilterExcludeFilesRegex)
	}
	for _, p := range fileRegexes {
		if _, err := regexp.Compile(p); err != nil {
			return nil, nil, &baseline.Error{Path: opts.BaselinePath, Err: fmt.Errorf("file exclusion %q: %w", p, err)}
		}
	}

	var filters []baseline.Filter
	for _, p := range fileRegexes {
		filters = append(filters, baseline.Filter{Kind: baseline.FilterExcludeFilesRegex, Pattern: p})
	}
	for _, p := range excludeFiles {
		filters = append(filters, baseline.Filter{Kind: baseline.FilterExcludeFiles, Pattern: p})
	}
	for _, p := range excludeLines {
		filters = append(filters, baseline.Filter{Kind: baseline.FilterExcludeLines, Pattern: p})
	}
	return reg.WithExcludeLines(res), filters, nil
}

func union(a, b []string) []string {
	out := slices.Clone(a)
	for _, s := range b {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func engineConfig(env Env, opts ScanOptions, filters []baseline.Filter, db *cache.DB) engine.Config {
	paths := opts.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}
	var (
		globs   []string
		regexes []*regexp.Regexp
	)
	for _, f := range filters {
		switch f.Kind {
		case baseline.FilterExcludeFiles:
			globs = append(globs, f.Pattern)
		case baseline.FilterExcludeFilesRegex:
			// validated by buildRegistry
			regexes = append(regexes, regexp.MustCompile(f.Pattern))
		}
	}
	skip := []string{cache.Path(cacheRootFor(opts.Paths))}
	if opts.BaselinePath != "" {
		skip = append(skip, opts.BaselinePath)
	}
	return engine.Config{
		Roots:              paths,
		AllFiles:           opts.AllFiles,
		ExcludeFiles:       globs,
		ExcludeFileRegexes: regexes,
		Skip:               skip,
		MaxBytes:           opts.MaxBytes,
		Threads:            opts.Threads,
		DefaultExcludes:    opts.DefaultExcludes,
		Cache:              db,
		Logger:             env.Logger,
	}
}

// cacheRootFor keeps the cache next to the first directory scanned.
func cacheRootFor(paths []string) string {
	if len(paths) == 0 {
		return "."
	}
	if st, err := os.Stat(paths[0]); err == nil && !st.IsDir() {
		return filepath.Dir(paths[0])
	}
	return paths[0]
}

func printBaseline(env Env, b *baseline.Baseline, slim bool) error {
	out, err := baseline.Format(b, slim)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(env.Stdout, string(out))
	return err
}

func diffCounts(old, merged *types.ResultSet) (added, removed int) {
	for _, f := range merged.All() {
		if _, ok := old.Get(f.Identity()); !ok {
			added++
		}
	}
	for _, f := range old.All() {
		if _, ok := merged.Get(f.Identity()); !ok {
			removed++
		}
	}
	return added, removed
}

package engine

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"

	"github.com/keyward/keyward/internal/ignore"
)

// IgnoreFileName is read from every directory root.
const IgnoreFileName = ".keywardignore"

// Enumerate lazily yields the files to scan under cfg.Roots. Directory
// roots inside a git work tree yield tracked files only, unless
// cfg.AllFiles is set. Each path is yielded once, in root order and then
// lexical order within a root. Unreadable roots are logged and skipped.
func Enumerate(cfg Config) iter.Seq[string] {
	return func(yield func(string) bool) {
		seen := map[string]bool{}
		skip := make(map[string]bool, len(cfg.Skip))
		for _, p := range cfg.Skip {
			skip[absPath(p)] = true
		}
		emit := func(p string) bool {
			p = filepath.ToSlash(filepath.Clean(p))
			if seen[p] {
				return true
			}
			seen[p] = true
			if skip[absPath(p)] {
				cfg.Logger.Debug().Str("path", p).Msg("skipping keyward file")
				return true
			}
			return yield(p)
		}
		for _, root := range cfg.Roots {
			info, err := os.Stat(root)
			if err != nil {
				cfg.Logger.Warn().Err(err).Str("path", root).Msg("skipping path")
				continue
			}
			if !info.IsDir() {
				if cfg.allowed(root, filepath.Base(root), info.Size()) && !emit(root) {
					return
				}
				continue
			}
			ign, _ := ignore.Load(filepath.Join(root, IgnoreFileName))
			if !cfg.AllFiles {
				if files, ok := trackedFiles(root, cfg); ok {
					for _, rel := range files {
						if !cfg.keep(root, rel, ign) {
							continue
						}
						if !emit(filepath.Join(root, rel)) {
							return
						}
					}
					continue
				}
			}
			if !walkRoot(root, cfg, ign, emit) {
				return
			}
		}
	}
}

func walkRoot(root string, cfg Config, ign ignore.Matcher, emit func(string) bool) bool {
	stopped := false
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if p != root && cfg.DefaultExcludes && isDefaultDirExcluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, _ := filepath.Rel(root, p)
		if !cfg.keep(root, filepath.ToSlash(rel), ign) {
			return nil
		}
		if !emit(p) {
			stopped = true
			return filepath.SkipAll
		}
		return nil
	})
	return !stopped
}

// keep applies ignore, glob, default-exclude and size filters to a file
// under a directory root.
func (cfg Config) keep(root, rel string, ign ignore.Matcher) bool {
	if ign.Match(rel) {
		return false
	}
	info, err := os.Stat(filepath.Join(root, rel))
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if cfg.DefaultExcludes {
		for _, dir := range strings.Split(rel, "/")[:strings.Count(rel, "/")] {
			if isDefaultDirExcluded(dir) {
				return false
			}
		}
	}
	return cfg.allowed(filepath.Join(root, rel), rel, info.Size())
}

func (cfg Config) allowed(full, rel string, size int64) bool {
	if cfg.MaxBytes > 0 && size > cfg.MaxBytes {
		return false
	}
	if cfg.DefaultExcludes && isDefaultFileExcluded(strings.ToLower(filepath.ToSlash(rel))) {
		return false
	}
	full, rel = filepath.ToSlash(full), filepath.ToSlash(rel)
	return !excludedByGlobs(full, rel, cfg.ExcludeFiles) && !excludedByRegexes(full, rel, cfg.ExcludeFileRegexes)
}

func excludedByGlobs(full, rel string, globs []string) bool {
	for _, g := range globs {
		for _, candidate := range []string{full, rel, filepath.Base(rel)} {
			if ok, _ := doublestar.Match(g, candidate); ok {
				return true
			}
		}
	}
	return false
}

func excludedByRegexes(full, rel string, res []*regexp.Regexp) bool {
	for _, re := range res {
		if re.MatchString(full) || re.MatchString(rel) {
			return true
		}
	}
	return false
}

func absPath(p string) string {
	if abs, err := filepath.Abs(filepath.FromSlash(p)); err == nil {
		p = abs
	}
	return filepath.ToSlash(filepath.Clean(p))
}

package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"runtime"
	"slices"
	"time"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/keyward/keyward/internal/cache"
	"github.com/keyward/keyward/internal/detectors"
	"github.com/keyward/keyward/internal/types"
)

// Config controls which files are scanned and how much parallelism is used.
type Config struct {
	Roots    []string
	AllFiles bool
	// ExcludeFiles are doublestar globs matched against the path as given
	// and relative to its root.
	ExcludeFiles []string
	// ExcludeFileRegexes skip files whose path, as given or relative to
	// its root, contains a match.
	ExcludeFileRegexes []*regexp.Regexp
	// Skip lists files that are never scanned regardless of other filters,
	// such as the baseline being written.
	Skip            []string
	MaxBytes        int64
	Threads         int
	DefaultExcludes bool
	// Cache, when non-nil, short-circuits files whose content is unchanged.
	Cache  *cache.DB
	Logger zerolog.Logger
}

// Result contains findings and basic scan statistics.
type Result struct {
	Results      *types.ResultSet
	FilesScanned int
	Duration     time.Duration
}

// Scan runs full detection over every enumerated file.
func Scan(ctx context.Context, cfg Config, reg *detectors.Registry) (Result, error) {
	return run(ctx, cfg, func(path string, data []byte) []types.Finding {
		if cfg.Cache != nil {
			if fs, ok := cfg.Cache.Lookup(path, data); ok {
				return fs
			}
		}
		fs := reg.ScanFile(path, data)
		if cfg.Cache != nil {
			cfg.Cache.Store(path, data, fs)
		}
		return fs
	})
}

// ScanAllowlisted collects only findings on allowlist-annotated lines.
func ScanAllowlisted(ctx context.Context, cfg Config, reg *detectors.Registry) (Result, error) {
	return run(ctx, cfg, reg.AllowlistedInFile)
}

// run distributes files across a bounded pool. Each worker owns one file and
// writes into its own slot; the ResultSet is assembled after the join, in
// enumeration order.
func run(ctx context.Context, cfg Config, detect func(path string, data []byte) []types.Finding) (Result, error) {
	started := time.Now()
	files := slices.Collect(Enumerate(cfg))
	perFile := make([][]types.Finding, len(files))

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	for i, p := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(p)
			if err != nil {
				cfg.Logger.Debug().Err(err).Str("file", p).Msg("unreadable file, no findings")
				return nil
			}
			if looksBinary(data) {
				return nil
			}
			perFile[i] = detect(p, data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("scan: %w", err)
	}

	rs := types.NewResultSet()
	for _, fs := range perFile {
		rs.AddAll(fs)
	}
	res := Result{Results: rs, FilesScanned: len(files), Duration: time.Since(started)}
	cfg.Logger.Info().Int("files", res.FilesScanned).Int("findings", rs.Len()).Dur("took", res.Duration).Msg("scan complete")
	return res, nil
}

// Fingerprint identifies detector settings for cache invalidation.
func Fingerprint(reg *detectors.Registry) string {
	var excl []string
	for _, re := range reg.ExcludeLines() {
		excl = append(excl, re.String())
	}
	b, _ := json.Marshal(struct {
		Plugins []detectors.Config
		Exclude []string
	}{reg.Configs(), excl})
	return fmt.Sprintf("%016x", xxhash.Sum64(b))
}

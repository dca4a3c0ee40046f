package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/keyward/keyward/internal/action"
	"github.com/keyward/keyward/internal/baseline"
	"github.com/keyward/keyward/internal/detectors"
	"github.com/keyward/keyward/internal/engine"
	"github.com/keyward/keyward/internal/types"
)

// Re-exported so callers can depend on a stable import path.
type (
	Finding  = types.Finding
	Baseline = baseline.Baseline
)

// Config selects what to scan and which plugins run.
type Config struct {
	Paths    []string
	AllFiles bool
	Threads  int
	MaxBytes int64
	// Base64Limit and HexLimit override the entropy plugin limits when non-zero.
	Base64Limit float64
	HexLimit    float64
	Disabled    []string
	Logger      *zerolog.Logger
}

// Result is a scan baseline plus execution statistics.
type Result struct {
	Baseline     *Baseline
	FilesScanned int
	Duration     time.Duration
}

func (c Config) registry() (*detectors.Registry, error) {
	return detectors.New(detectors.Options{
		Base64Limit: c.Base64Limit,
		HexLimit:    c.HexLimit,
		Disabled:    c.Disabled,
	})
}

func (c Config) engineConfig() engine.Config {
	paths := c.Paths
	if len(paths) == 0 {
		paths = []string{"."}
	}
	maxBytes := c.MaxBytes
	if maxBytes == 0 {
		maxBytes = 1 << 20
	}
	log := zerolog.Nop()
	if c.Logger != nil {
		log = *c.Logger
	}
	return engine.Config{
		Roots:           paths,
		AllFiles:        c.AllFiles,
		MaxBytes:        maxBytes,
		Threads:         c.Threads,
		DefaultExcludes: true,
		Logger:          log,
	}
}

// Scan is the stable entrypoint for other programs.
func Scan(ctx context.Context, cfg Config) (*Baseline, error) {
	res, err := ScanWithStats(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return res.Baseline, nil
}

// ScanWithStats is Scan with file counts and timing.
func ScanWithStats(ctx context.Context, cfg Config) (Result, error) {
	reg, err := cfg.registry()
	if err != nil {
		return Result{}, err
	}
	res, err := engine.Scan(ctx, cfg.engineConfig(), reg)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Baseline:     baseline.New(reg, nil, res.Results),
		FilesScanned: res.FilesScanned,
		Duration:     res.Duration,
	}, nil
}

// PluginNames lists every plugin keyward can run.
func PluginNames() []string { return detectors.Available() }

// EvaluateLine reports, per plugin, whether line looks like a secret.
func EvaluateLine(line string) string {
	return action.EvaluateLine(detectors.Default(), line)
}

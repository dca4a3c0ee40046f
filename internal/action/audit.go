package action

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/keyward/keyward/internal/audit"
	"github.com/keyward/keyward/internal/baseline"
	"github.com/keyward/keyward/internal/report"
)

// Labeler drives an interactive labeling session to completion.
type Labeler func(s *audit.Session) error

// AuditOptions is the parsed form of the audit verb.
type AuditOptions struct {
	Filenames []string
	Diff      bool
	Report    bool
	OnlyReal  bool
	OnlyFalse bool
	Stats     bool
	JSON      bool
	NoColor   bool
	// Labeler overrides the line prompt used for interactive labeling.
	Labeler Labeler
}

// AuditResult reports how the audit verb ended. Recovered holds a baseline
// error that was deliberately swallowed; the process still exits 0.
type AuditResult struct {
	Recovered error
}

// Audit runs one audit mode. Precedence is stats, report, diff, then
// interactive labeling. Baseline load failures are recovered into the
// result; every other error is returned.
func Audit(env Env, opts AuditOptions) (AuditResult, error) {
	err := dispatchAudit(env, opts)
	var be *baseline.Error
	if errors.As(err, &be) {
		env.Logger.Debug().Err(err).Msg("audit aborted on unreadable baseline")
		return AuditResult{Recovered: err}, nil
	}
	return AuditResult{}, err
}

func dispatchAudit(env Env, opts AuditOptions) error {
	if len(opts.Filenames) == 0 {
		return errors.New("audit requires a baseline file")
	}
	switch {
	case opts.Stats:
		b, err := baseline.Load(opts.Filenames[0])
		if err != nil {
			return err
		}
		stats := audit.Statistics(b)
		if opts.Diff {
			return fmt.Errorf("statistics across two baselines: %w", audit.ErrNotImplemented)
		}
		if opts.JSON {
			out, err := json.MarshalIndent(stats.JSON(), "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(env.Stdout, string(out))
			return err
		}
		return stats.Render(env.Stdout)

	case opts.Report:
		b, err := baseline.Load(opts.Filenames[0])
		if err != nil {
			return err
		}
		return report.Write(env.Stdout, report.Generate(b, report.ClassFor(opts.OnlyReal, opts.OnlyFalse)))

	case opts.Diff:
		if len(opts.Filenames) != 2 {
			return errors.New("--diff requires exactly two baseline files")
		}
		older, err := baseline.Load(opts.Filenames[0])
		if err != nil {
			return err
		}
		newer, err := baseline.Load(opts.Filenames[1])
		if err != nil {
			return err
		}
		audit.RenderChanges(env.Stdout, audit.Compare(older, newer), opts.NoColor)
		return nil
	}
	return label(env, opts)
}

func label(env Env, opts AuditOptions) error {
	path := opts.Filenames[0]
	b, err := baseline.Load(path)
	if err != nil {
		return err
	}
	session := audit.NewSession(b, func(b *baseline.Baseline) error {
		return baseline.Save(path, b)
	})
	labeler := opts.Labeler
	if labeler == nil {
		labeler = func(s *audit.Session) error {
			return s.Run(audit.PromptInput(env.Stdin, env.Stdout))
		}
	}
	if err := labeler(session); err != nil {
		return err
	}

	rec := audit.Record{Kind: audit.KindLabel, Baseline: path, TotalFindings: b.Results.Len()}
	for _, d := range session.Labeled() {
		if d == audit.Real {
			rec.Real++
		} else {
			rec.FalsePositive++
		}
	}
	env.Logger.Info().Int("real", rec.Real).Int("false_positive", rec.FalsePositive).Msg("labeling session saved")
	if err := audit.OpenHistory(filepath.Dir(path)).Append(rec); err != nil {
		env.Logger.Warn().Err(err).Msg("recording audit history")
	}
	return nil
}

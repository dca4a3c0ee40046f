package keyward

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/keyward/keyward/internal/action"
	"github.com/keyward/keyward/internal/audit"
	"github.com/keyward/keyward/internal/tui"
)

var (
	flagDiff      bool
	flagReport    bool
	flagOnlyReal  bool
	flagOnlyFalse bool
	flagStats     bool
	flagJSON      bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "audit <baseline> [other-baseline]",
		Short: "Review, label and summarize a baseline",
		Long: "Label each finding in a baseline as a real secret or a false positive. " +
			"With --stats, --report or --diff the baseline is summarized instead.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := action.AuditOptions{
				Filenames: args,
				Diff:      flagDiff,
				Report:    flagReport,
				OnlyReal:  flagOnlyReal,
				OnlyFalse: flagOnlyFalse,
				Stats:     flagStats,
				JSON:      flagJSON,
				NoColor:   flagNoColor,
			}
			if interactive() {
				noColor := flagNoColor
				opts.Labeler = func(s *audit.Session) error { return tui.Run(s, noColor) }
			}
			env := action.Env{Stdout: cmd.OutOrStdout(), Stdin: os.Stdin, Logger: log}
			res, err := action.Audit(env, opts)
			if err != nil {
				return err
			}
			if res.Recovered != nil {
				log.Debug().Err(res.Recovered).Msg("baseline could not be audited")
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.BoolVar(&flagDiff, "diff", false, "compare two baselines")
	f.BoolVar(&flagReport, "report", false, "print a JSON report of the findings")
	f.BoolVar(&flagOnlyReal, "only-real", false, "report only findings labeled real")
	f.BoolVar(&flagOnlyFalse, "only-false", false, "report only findings labeled false positive")
	f.BoolVar(&flagStats, "stats", false, "print labeling statistics")
	f.BoolVar(&flagJSON, "json", false, "print statistics as JSON")
	rootCmd.AddCommand(cmd)
}

func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

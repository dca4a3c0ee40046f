package keyward

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/keyward/keyward/internal/config"
	"github.com/keyward/keyward/internal/logger"
)

var (
	flagVerbose int
	flagNoColor bool

	version = "1.0.0"

	log       = zerolog.Nop()
	logCloser io.Closer
	layers    config.Layered
)

// rootCmd is the base Cobra command for the keyward CLI.
var rootCmd = &cobra.Command{
	Use:   "keyward",
	Short: "Catalog and audit secrets in your repo",
	Long: "keyward scans files for secrets, keeps the results in a baseline file, " +
		"and lets you label each finding as a real secret or a false positive.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		layers, err = config.Load(".")
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		flagNoColor = pickBool(flagNoColor, layers.Local.NoColor, layers.Global.NoColor)
		log, logCloser, err = logger.New(logger.Options{
			Verbosity: flagVerbose,
			NoColor:   flagNoColor,
			File:      pickString("", layers.Local.LogFile, layers.Global.LogFile),
		})
		if err != nil {
			return fmt.Errorf("log file: %w", err)
		}
		log.Debug().Str("command", cmd.Name()).Str("version", version).Msg("starting")
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
}

// Execute runs the keyward CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v", "increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
}

package keyward

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/keyward/keyward/internal/action"
	"github.com/keyward/keyward/internal/config"
	"github.com/keyward/keyward/internal/detectors"
)

// stringFromArg marks a bare --string; the value then comes from the first
// positional argument or, failing that, standard input.
const stringFromArg = "\x00arg"

var (
	flagAllFiles        bool
	flagBaseline        string
	flagSlim            bool
	flagString          string
	flagListPlugins     bool
	flagOnlyAllowlisted bool
	flagNumCores        int
	flagExcludeFiles    []string
	flagExcludeLines    []string
	flagDisablePlugins  []string
	flagBase64Limit     float64
	flagHexLimit        float64
	flagForceAll        bool
	flagCache           bool
	flagMaxBytes        int64
	flagDefaultExcludes bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Scan files for secrets",
		Long: "Scan the given paths (default: current directory) and print the results as a baseline. " +
			"With --baseline the results are merged into that file instead.",
		RunE: runScan,
	}
	f := cmd.Flags()
	f.BoolVar(&flagAllFiles, "all-files", false, "scan every file, not only those tracked by git")
	f.StringVar(&flagBaseline, "baseline", "", "baseline file to update in place")
	f.BoolVar(&flagSlim, "slim", false, "omit line numbers and timestamps from the output")
	f.StringVar(&flagString, "string", "", "evaluate a single line with every plugin (reads stdin when empty)")
	f.Lookup("string").NoOptDefVal = stringFromArg
	f.BoolVar(&flagListPlugins, "list-all-plugins", false, "list the plugins that would run and exit")
	f.BoolVar(&flagOnlyAllowlisted, "only-allowlisted", false, "list lines carrying an allowlist pragma")
	f.IntVar(&flagNumCores, "num-cores", 0, "number of worker goroutines (0 = all cores)")
	f.StringArrayVar(&flagExcludeFiles, "exclude-files", nil, "doublestar glob of file paths to skip, e.g. '**/*.lock' (repeatable)")
	f.StringArrayVar(&flagExcludeLines, "exclude-lines", nil, "regex of lines to ignore (repeatable)")
	f.StringArrayVar(&flagDisablePlugins, "disable-plugin", nil, "plugin name to disable (repeatable)")
	f.Float64Var(&flagBase64Limit, "base64-limit", 0, "entropy limit for base64 strings (default 4.5)")
	f.Float64Var(&flagHexLimit, "hex-limit", 0, "entropy limit for hex strings (default 3.0)")
	f.BoolVar(&flagForceAll, "force-use-all-plugins", false, "ignore the plugin list pinned in the baseline")
	f.BoolVar(&flagCache, "cache", false, "reuse results for unchanged files between runs")
	f.Int64Var(&flagMaxBytes, "max-bytes", 0, "skip files larger than this many bytes (default 1MiB)")
	f.BoolVar(&flagDefaultExcludes, "default-excludes", true, "skip vendored, generated and binary files")
	_ = cmd.RegisterFlagCompletionFunc("disable-plugin", completePlugins)
	rootCmd.AddCommand(cmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	opts := scanOptions(cmd, args, layers.Local, layers.Global)
	env := action.Env{Stdout: cmd.OutOrStdout(), Stdin: os.Stdin, Logger: log}
	return action.Scan(cmd.Context(), env, opts)
}

func scanOptions(cmd *cobra.Command, args []string, local, global config.FileConfig) action.ScanOptions {
	opts := action.ScanOptions{
		Paths:           args,
		AllFiles:        pickBool(flagAllFiles, local.AllFiles, global.AllFiles),
		BaselinePath:    flagBaseline,
		Slim:            flagSlim,
		ListPlugins:     flagListPlugins,
		OnlyAllowlisted: flagOnlyAllowlisted,
		Threads:         pickInt(flagNumCores, local.NumCores, global.NumCores),
		ExcludeFiles:    pickStrings(flagExcludeFiles, local.ExcludeFiles, global.ExcludeFiles),
		ExcludeLines:    pickStrings(flagExcludeLines, local.ExcludeLines, global.ExcludeLines),
		Detectors: detectors.Options{
			Base64Limit: pickFloat(flagBase64Limit, local.Base64Limit, global.Base64Limit),
			HexLimit:    pickFloat(flagHexLimit, local.HexLimit, global.HexLimit),
			Disabled:    pickStrings(flagDisablePlugins, local.DisablePlugins, global.DisablePlugins),
		},
		ForceAllPlugins: flagForceAll,
		MaxBytes:        pickInt64(flagMaxBytes, local.MaxBytes, global.MaxBytes),
		DefaultExcludes: pickBoolDefault(cmd.Flags().Changed("default-excludes"), flagDefaultExcludes,
			local.DefaultExcludes, global.DefaultExcludes, true),
		UseCache: pickBool(flagCache, local.Cache, global.Cache),
	}
	if opts.MaxBytes == 0 {
		opts.MaxBytes = 1 << 20
	}

	if cmd.Flags().Changed("string") {
		opts.StringSet = true
		opts.String = flagString
		if flagString == stringFromArg {
			opts.String = ""
			if len(args) > 0 {
				opts.String = args[0]
				opts.Paths = args[1:]
			}
		}
	}
	return opts
}

package keyward

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/keyward/keyward/internal/update"
)

var flagCheckOnly bool

func init() {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update keyward to the latest release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flagCheckOnly {
				latest, newer, err := update.Check(version, false)
				if err != nil {
					return err
				}
				if newer {
					fmt.Fprintf(cmd.OutOrStdout(), "keyward %s is available (current %s); run `keyward update`\n", latest, version)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "keyward %s is up to date\n", version)
				}
				return nil
			}
			installed, err := update.SelfUpdate(version)
			if err != nil {
				return err
			}
			log.Info().Str("from", version).Str("to", installed).Msg("updated")
			fmt.Fprintf(cmd.OutOrStdout(), "keyward is at %s\n", installed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&flagCheckOnly, "check", false, "only report whether a newer release exists")
	rootCmd.AddCommand(cmd)
}

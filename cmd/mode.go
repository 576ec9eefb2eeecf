package cmd

import (
	"context"

	"github.com/chukul/tclctl/internal"
	"github.com/chukul/tclctl/internal/ac"
	"github.com/spf13/cobra"
)

var modeCmd = &cobra.Command{
	Use:       "mode auto|cool|dry|fan_only|heat",
	Short:     "Change the operating mode",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"auto", "cool", "dry", "fan_only", "heat"},
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := ac.ParseMode(args[0])
		if err != nil {
			return err
		}

		return applySetting(cmd.Context(), "mode "+mode.String(), func(ctx context.Context, a *ac.AC) (internal.UpdateResult, error) {
			return a.SetMode(ctx, mode)
		})
	},
}

func init() {
	rootCmd.AddCommand(modeCmd)
}

package cmd

import (
	"context"

	"github.com/chukul/tclctl/internal"
	"github.com/chukul/tclctl/internal/ac"
	"github.com/spf13/cobra"
)

var fanCmd = &cobra.Command{
	Use:       "fan auto|quiet|low|medium|high|turbo",
	Short:     "Change the fan speed",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"auto", "quiet", "low", "medium", "high", "turbo"},
	RunE: func(cmd *cobra.Command, args []string) error {
		speed, err := ac.ParseFanSpeed(args[0])
		if err != nil {
			return err
		}

		return applySetting(cmd.Context(), "fan "+speed.String(), func(ctx context.Context, a *ac.AC) (internal.UpdateResult, error) {
			return a.SetFanSpeed(ctx, speed)
		})
	},
}

func init() {
	rootCmd.AddCommand(fanCmd)
}

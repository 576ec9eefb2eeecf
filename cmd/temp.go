package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/chukul/tclctl/internal"
	"github.com/chukul/tclctl/internal/ac"
	"github.com/spf13/cobra"
)

var tempCmd = &cobra.Command{
	Use:   "temp <celsius>",
	Short: fmt.Sprintf("Set the target temperature (%d-%d °C)", ac.MinTemperature, ac.MaxTemperature),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		celsius, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("temperature must be a whole number: %q", args[0])
		}
		// Reject before asking for a password.
		if celsius < ac.MinTemperature || celsius > ac.MaxTemperature {
			return &internal.ValidationError{
				Field:  "temperature",
				Value:  celsius,
				Reason: fmt.Sprintf("must be between %d and %d", ac.MinTemperature, ac.MaxTemperature),
			}
		}

		return applySetting(cmd.Context(), fmt.Sprintf("target temperature %d°C", celsius), func(ctx context.Context, a *ac.AC) (internal.UpdateResult, error) {
			return a.SetTemperature(ctx, celsius)
		})
	},
}

func init() {
	rootCmd.AddCommand(tempCmd)
}

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/chukul/tclctl/internal"
	"github.com/chukul/tclctl/internal/ac"
	"github.com/spf13/cobra"
)

var powerCmd = &cobra.Command{
	Use:       "power on|off",
	Short:     "Switch the air conditioner on or off",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var on bool
		switch strings.ToLower(args[0]) {
		case "on", "1", "true":
			on = true
		case "off", "0", "false":
		default:
			return fmt.Errorf("unknown power state %q (want on or off)", args[0])
		}

		return applySetting(cmd.Context(), "power "+onOff(on), func(ctx context.Context, a *ac.AC) (internal.UpdateResult, error) {
			return a.SetPower(ctx, on)
		})
	},
}

func init() {
	rootCmd.AddCommand(powerCmd)
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chukul/tclctl/internal"
	"github.com/chukul/tclctl/internal/ac"
	"github.com/chukul/tclctl/internal/ui"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var outputJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show power, mode, temperatures and fan speed of the air conditioner",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := connectAC(ctx, true)
		if err != nil {
			return err
		}
		st, err := ui.Spin(ctx, "Reading device shadow...", a.Fetch)
		if err != nil {
			return err
		}

		// Optional JSON output
		if outputJSON {
			jsonData, err := json.MarshalIndent(st, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(jsonData))
			return nil
		}

		printStatus(st)
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&outputJSON, "json", false, "Output results in JSON format for automation")
	rootCmd.AddCommand(statusCmd)
}

func printStatus(st *ac.Status) {
	header := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("%-22s %s\n", header("DEVICE"), header(st.DeviceID))
	fmt.Println(strings.Repeat("-", 40))

	power := color.New(color.FgRed).SprintFunc()("OFF")
	if st.Power {
		power = color.New(color.FgGreen).SprintFunc()("ON")
	}

	fmt.Printf("%-13s %s\n", "Power", power)
	fmt.Printf("%-13s %s\n", "Mode", st.Mode)
	fmt.Printf("%-13s %d°C\n", "Target", st.TargetTemperature)
	fmt.Printf("%-13s %d°C\n", "Room", st.CurrentTemperature)
	fmt.Printf("%-13s %s\n", "Fan", st.FanSpeed)
	if !st.UpdatedAt.IsZero() {
		fmt.Printf("%-13s %s (v%d)\n", "Updated", internal.FormatLocal(st.UpdatedAt), st.Version)
	}
}

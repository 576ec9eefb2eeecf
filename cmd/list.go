package cmd

import (
	"fmt"

	"github.com/chukul/tclctl/internal"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := internal.LoadConfig()
		if err != nil {
			return err
		}
		profiles, err := internal.ListProfiles()
		if err != nil {
			return err
		}
		if len(profiles) == 0 {
			fmt.Println("No profiles found. Run 'tclctl login' to create one.")
			return nil
		}

		def := color.New(color.FgGreen, color.Bold).SprintFunc()
		for _, p := range profiles {
			device := p.DeviceID
			if device == "" {
				device = "-"
			}
			line := fmt.Sprintf("📦 %-15s %-30s region=%-4s device=%s", p.Name, p.Username, p.Region, device)
			if p.Name == cfg.DefaultProfile {
				line += " " + def("(default)")
			}
			fmt.Println(line)
		}
		return nil
	},
}

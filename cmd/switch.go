package cmd

import (
	"fmt"

	"github.com/chukul/tclctl/internal"
	"github.com/spf13/cobra"
)

var switchCmd = &cobra.Command{
	Use:   "switch <profile>",
	Short: "Make a stored profile the default",
	Args:  cobra.ExactArgs(1),
	Example: `  # Use the "office" air conditioner by default
  tclctl switch office`,
	RunE: func(cmd *cobra.Command, args []string) error {
		profile := args[0]

		if err := internal.SetDefaultProfile(profile); err != nil {
			fmt.Printf("❌ Profile '%s' not found\n", profile)

			// List available profiles
			if profiles, _ := internal.ListProfiles(); len(profiles) > 0 {
				fmt.Println("\n💡 Available profiles:")
				for _, p := range profiles {
					fmt.Printf("   • %s\n", p.Name)
				}
			} else {
				fmt.Println("\n💡 No profiles found. Create one with:")
				fmt.Println("   tclctl login --username <email> --region <cc> --device <id>")
			}
			return err
		}

		fmt.Printf("✅ Switched to profile '%s'\n", profile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(switchCmd)
}

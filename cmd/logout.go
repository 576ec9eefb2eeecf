package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/chukul/tclctl/internal"
	"github.com/chukul/tclctl/internal/ui"
	"github.com/spf13/cobra"
)

var logoutAll bool

func init() {
	logoutCmd.Flags().BoolVar(&logoutAll, "all", false, "Remove all stored profiles")
	rootCmd.AddCommand(logoutCmd)
}

var logoutCmd = &cobra.Command{
	Use:   "logout [profile]",
	Short: "Remove a stored profile or all profiles",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profiles, err := internal.ListProfiles()
		if err != nil {
			return err
		}
		if len(profiles) == 0 {
			return fmt.Errorf("no stored profiles found")
		}

		if logoutAll {
			fmt.Print("⚠️  This will remove all stored profiles. Type 'yes' to confirm: ")
			reader := bufio.NewReader(os.Stdin)
			input, _ := reader.ReadString('\n')
			if strings.TrimSpace(input) != "yes" {
				fmt.Println("❌ Operation cancelled.")
				return nil
			}

			for _, p := range profiles {
				if err := internal.RemoveProfile(p.Name); err != nil {
					return fmt.Errorf("remove profile %s: %w", p.Name, err)
				}
			}
			fmt.Println("✅ All profiles removed successfully.")
			return nil
		}

		name := profileName
		if len(args) > 0 {
			name = args[0]
		}
		if name == "" {
			options := make([]ui.Option, len(profiles))
			for i, p := range profiles {
				options[i] = ui.Option{Label: p.Name, Hint: p.Username}
			}
			name, err = ui.SelectProfile("Select Profile", options)
			if err != nil {
				return err
			}
		}

		if err := internal.RemoveProfile(name); err != nil {
			return fmt.Errorf("remove profile %s: %w", name, err)
		}
		fmt.Printf("✅ Profile '%s' removed successfully.\n", name)
		return nil
	},
}

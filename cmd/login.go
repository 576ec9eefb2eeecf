package cmd

import (
	"fmt"
	"time"

	"github.com/chukul/tclctl/internal"
	"github.com/chukul/tclctl/internal/ui"
	"github.com/spf13/cobra"
)

var (
	loginVerify bool
	loginSaveAs string
	loginNoSave bool
)

func init() {
	loginCmd.Flags().BoolVar(&loginVerify, "verify", false, "Check the issued credentials with STS GetCallerIdentity")
	loginCmd.Flags().StringVar(&loginSaveAs, "save-as", "", "Profile name to store username, region and device under (default: --profile or \"default\")")
	loginCmd.Flags().BoolVar(&loginNoSave, "no-save", false, "Do not store the profile")

	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the TCL cloud and store the profile",
	Long: `Runs the full login chain (account login, cloud routing, token exchange and
federated credentials) and prints the result. Username, region and device id
are stored in ~/.tclctl/config.yaml; passwords and credentials never are.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		t, err := resolveTarget()
		if err != nil {
			return err
		}
		session, err := connect(ctx, t, true)
		if err != nil {
			return err
		}

		creds := session.Credentials()
		fmt.Printf("✅ Logged in as %s\n", t.username)
		fmt.Printf("   Account:    %s\n", session.AccountID())
		fmt.Printf("   Cloud:      %s (%s)\n", session.CloudEndpoint(), session.Region())
		fmt.Printf("   Data plane: %s\n", session.DataPlaneHost())
		fmt.Printf("   Federated:  %s\n", session.FederatedIdentityID())
		fmt.Printf("   Expires:    %s (%s)\n", internal.FormatLocal(creds.Expires), internal.Remaining(creds.Expires, time.Now()))

		if loginVerify {
			id, err := ui.Spin(ctx, "Verifying credentials with STS...", session.CallerIdentity)
			if err != nil {
				return fmt.Errorf("verify credentials: %w", err)
			}
			fmt.Printf("🔐 Identity:   %s\n", id.Arn)
		}

		if loginNoSave {
			return nil
		}

		name := loginSaveAs
		if name == "" {
			name = t.profile
		}
		if name == "" {
			name = "default"
		}
		err = internal.SaveProfile(&internal.Profile{
			Name:     name,
			Username: t.username,
			Region:   t.region,
			DeviceID: t.deviceID,
		})
		if err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
		fmt.Printf("💾 Profile '%s' saved\n", name)
		return nil
	},
}

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/chukul/tclctl/internal"
	"github.com/chukul/tclctl/internal/ui"
	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Log in, then renew the shadow credentials once",
	Long: `Runs the login chain and then forces one credential refresh (token exchange
and federated credentials only), printing the credentials before and after.
Useful to check that refresh works for an account.`,
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

		before := session.Credentials()
		_, err = ui.Spin(ctx, "Refreshing shadow credentials...", func(ctx context.Context) (struct{}, error) {
			return struct{}{}, session.RefreshShadowCredentials(ctx)
		})
		if err != nil {
			return err
		}
		after := session.Credentials()

		now := time.Now()
		fmt.Println("✅ Shadow credentials refreshed")
		fmt.Printf("   Before: %s, expires %s (%s)\n", maskKey(before.AccessKeyID), internal.FormatLocal(before.Expires), internal.Remaining(before.Expires, now))
		fmt.Printf("   After:  %s, expires %s (%s)\n", maskKey(after.AccessKeyID), internal.FormatLocal(after.Expires), internal.Remaining(after.Expires, now))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/chukul/tclctl/internal"
	"github.com/chukul/tclctl/internal/mcptools"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the air conditioner as MCP tools over stdio",
	Long: `Logs in and serves get_status, set_power, set_mode, set_temperature and
set_fan_speed over the Model Context Protocol on stdin/stdout. stdin carries
the protocol, so the password must come from --password or TCL_PASSWORD.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := connectAC(ctx, false)
		if err != nil {
			return err
		}

		server := mcptools.New("tclctl", internal.CurrentVersion, a)
		err = server.Serve(ctx, os.Stdin, os.Stdout)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/chukul/tclctl/internal"
	"github.com/chukul/tclctl/internal/ui"
	"github.com/spf13/cobra"
)

var shadowCmd = &cobra.Command{
	Use:   "shadow",
	Short: "Read or patch the raw device shadow",
}

var shadowGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the device shadow document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		client, deviceID, err := connectShadow(ctx, true)
		if err != nil {
			return err
		}
		doc, err := ui.Spin(ctx, "Reading device shadow...", func(ctx context.Context) (*internal.ShadowDocument, error) {
			return client.GetShadow(ctx, deviceID)
		})
		if err != nil {
			return err
		}

		var out bytes.Buffer
		if err := json.Indent(&out, doc.Raw, "", "  "); err != nil {
			return fmt.Errorf("format shadow: %w", err)
		}
		fmt.Println(out.String())
		return nil
	},
}

var shadowUpdateCmd = &cobra.Command{
	Use:   "update key=value...",
	Short: "Merge properties into the desired state",
	Long: `Merge properties into the desired state of the device shadow.
Values are sent as integers when they parse as one, as booleans for
true/false, and as strings otherwise. Example:

  tclctl shadow update powerSwitch=1 targetTemperature=24`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		patch, err := parsePatch(args)
		if err != nil {
			return err
		}

		client, deviceID, err := connectShadow(ctx, true)
		if err != nil {
			return err
		}
		result, err := ui.Spin(ctx, "Updating device shadow...", func(ctx context.Context) (internal.UpdateResult, error) {
			return client.UpdateShadow(ctx, deviceID, patch)
		})
		if err != nil {
			return err
		}

		fmt.Printf("✅ Update accepted for %s (HTTP %d)\n", deviceID, result.StatusCode)
		return nil
	},
}

func parsePatch(args []string) (map[string]any, error) {
	patch := make(map[string]any, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid property %q (want key=value)", arg)
		}
		if n, err := strconv.Atoi(raw); err == nil {
			patch[key] = n
		} else if b, err := strconv.ParseBool(raw); err == nil {
			patch[key] = b
		} else {
			patch[key] = raw
		}
	}
	return patch, nil
}

func init() {
	shadowCmd.AddCommand(shadowGetCmd)
	shadowCmd.AddCommand(shadowUpdateCmd)
	rootCmd.AddCommand(shadowCmd)
}

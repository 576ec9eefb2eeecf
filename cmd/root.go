package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chukul/tclctl/internal"
	"github.com/spf13/cobra"
)

var (
	profileName  string
	verbose      bool
	passwordFlag string
	usernameFlag string
	regionFlag   string
	deviceFlag   string

	logger = slog.New(slog.DiscardHandler)
)

func printLogo() {
	// Gradient colors (Cyan -> Blue -> Purple)
	ascii := []string{
		`  ████████╗ ██████╗██╗      ██████╗████████╗██╗     `,
		`  ╚══██╔══╝██╔════╝██║     ██╔════╝╚══██╔══╝██║     `,
		`     ██║   ██║     ██║     ██║        ██║   ██║     `,
		`     ██║   ██║     ██║     ██║        ██║   ██║     `,
		`     ██║   ╚██████╗███████╗╚██████╗   ██║   ███████╗`,
		`     ╚═╝    ╚═════╝╚══════╝ ╚═════╝   ╚═╝   ╚══════╝`,
	}

	fmt.Println()
	for _, line := range ascii {
		runes := []rune(line)
		for i, char := range runes {
			ratio := float64(i) / float64(len(runes))

			r, g, b := 0, 0, 255
			if ratio < 0.5 {
				subRatio := ratio * 2
				g = int(220*(1-subRatio) + 120*subRatio)
			} else {
				subRatio := (ratio - 0.5) * 2
				r = int(170 * subRatio)
				g = int(120 * (1 - subRatio))
			}

			fmt.Printf("\x1b[38;2;%d;%d;%dm%c\x1b[0m", r, g, b, char)
		}
		fmt.Println()
	}
	fmt.Println("\x1b[1m  Control TCL air conditioners through the TCL cloud\x1b[0m")
	fmt.Println()
}

var rootCmd = &cobra.Command{
	Use:           "tclctl",
	Short:         "tclctl is a CLI tool for TCL cloud air conditioners",
	Long:          `tclctl logs in to the TCL cloud and reads or changes the settings of an air conditioner through its device shadow.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.LoadDotEnv(); err != nil {
			return err
		}

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		// Check for updates on every command (non-blocking)
		internal.CheckForUpdates()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "Stored profile to use (default profile if empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests and login steps to stderr")
	rootCmd.PersistentFlags().StringVar(&passwordFlag, "password", "", "Account password (prefer TCL_PASSWORD or the prompt)")
	rootCmd.PersistentFlags().StringVarP(&usernameFlag, "username", "u", "", "Account username (overrides profile and TCL_USERNAME)")
	rootCmd.PersistentFlags().StringVarP(&regionFlag, "region", "r", "", "Account country code, e.g. ru (overrides profile and TCL_REGION)")
	rootCmd.PersistentFlags().StringVarP(&deviceFlag, "device", "d", "", "Device id (overrides profile and TCL_DEVICE_ID)")
}

// Execute runs the CLI
func Execute() {
	if len(os.Args) <= 1 || (len(os.Args) > 1 && os.Args[1] == "help") {
		printLogo()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		stop()
		os.Exit(1)
	}
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/chukul/tclctl/internal"
	"github.com/chukul/tclctl/internal/ac"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var (
	watchInterval    time.Duration
	watchMetricsAddr string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the air conditioner and print every change",
	Long: `Logs in once and polls the device shadow at a fixed interval, printing a diff
whenever a setting changes. Stale credentials are renewed automatically.
With --metrics-addr, Prometheus metrics are served on /metrics.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if watchInterval < time.Second {
			return fmt.Errorf("--interval must be at least 1s")
		}

		a, err := connectAC(ctx, true)
		if err != nil {
			return err
		}

		if watchMetricsAddr != "" {
			srv, err := startMetricsServer(watchMetricsAddr)
			if err != nil {
				return err
			}
			defer srv.Shutdown(context.Background())
			fmt.Printf("📈 Metrics: http://%s/metrics\n", watchMetricsAddr)
		}

		fmt.Printf("👀 Watching %s every %s (Ctrl+C to stop)\n", a.DeviceID(), watchInterval)
		watchLoop(ctx, a, watchInterval)
		return nil
	},
}

func watchLoop(ctx context.Context, a *ac.AC, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var prev *ac.Status
	for {
		prev = pollOnce(ctx, a, prev)

		select {
		case <-ctx.Done():
			fmt.Println("\n🛑 Stopped.")
			return
		case <-ticker.C:
		}
	}
}

func pollOnce(ctx context.Context, a *ac.AC, prev *ac.Status) *ac.Status {
	now := internal.FormatLog(time.Now())

	st, err := a.Fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			fmt.Printf("[%s] ❌ %v\n", now, err)
		}
		return prev
	}

	if prev == nil {
		fmt.Printf("[%s] Current state:\n%s", now, st)
		return st
	}

	diff, err := ac.DiffStatus(prev, st)
	if err != nil {
		logger.Warn("diff failed", slog.String("error", err.Error()))
		return st
	}
	if diff != "" {
		fmt.Printf("[%s] Changed:\n%s", now, diff)
	}
	return st
}

func startMetricsServer(addr string) (*http.Server, error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	for _, c := range internal.MetricsCollectors() {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", slog.String("error", err.Error()))
		}
	}()
	return srv, nil
}

func init() {
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", time.Minute, "Poll interval")
	watchCmd.Flags().StringVar(&watchMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9108")
	rootCmd.AddCommand(watchCmd)
}

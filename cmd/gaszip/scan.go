package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vitwit/gaszip"
	"github.com/vitwit/gaszip/clients"
	"github.com/vitwit/gaszip/export"
	"github.com/vitwit/gaszip/logger"
	"github.com/vitwit/gaszip/metrics"
	"github.com/vitwit/gaszip/scanner"
	"github.com/vitwit/gaszip/types"
	"github.com/vitwit/gaszip/utils"
)

func newScanCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a block range for deposits and write them as CSV",
		Example: `  gaszip scan --rpc https://mainnet.base.org \
    --contract 0x391e7c679d29bd940d63be94ad22a25d25b5a604 \
    --from 20000000 --to 20001000 --out deposits.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, configPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runScan(ctx, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "config file (yaml, toml or json)")
	f.String("rpc", "", "JSON-RPC endpoint of the source chain")
	f.String("contract", "", "deposit contract address")
	f.Uint64("from", 0, "first block to scan")
	f.Uint64("to", 0, "last block to scan (0 for the current head)")
	f.Uint64("window", types.DefaultWindowSize, "blocks fetched per window")
	f.Int("workers", types.DefaultWorkers, "concurrent block fetches")
	f.Int("retries", types.DefaultRetryCount, "retries per RPC request")
	f.Duration("timeout", types.DefaultRequestTimeout, "timeout per RPC request")
	f.String("log-level", "info", "log level (debug, info, warn, error)")
	f.String("out", "", "CSV output file (stdout when empty)")
	f.String("metrics-addr", "", "serve Prometheus metrics on this address")
	f.String("registry", "", "YAML chain table to use instead of the embedded one")

	return cmd
}

func runScan(ctx context.Context, cfg *types.ScanConfig, stdout, stderr io.Writer) error {
	log, err := logger.NewZapLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	reg, err := loadRegistry(cfg.RegistryFile)
	if err != nil {
		return err
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.MetricsAddr != "" {
		promReg := prometheus.NewRegistry()
		rec, err := metrics.NewPrometheusRecorder(promReg)
		if err != nil {
			return err
		}
		recorder = rec

		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server stopped", map[string]any{"error": err})
			}
		}()
		defer srv.Close()
	}

	indexer, err := clients.NewEVMIndexer(*cfg, clients.WithLogger(log), clients.WithMetrics(recorder))
	if err != nil {
		return err
	}
	defer indexer.Close()

	out := stdout
	if cfg.Output != "" && cfg.Output != "-" {
		file, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", cfg.Output, err)
		}
		defer file.Close()
		out = file
	}

	g := gaszip.New(gaszip.WithRegistry(reg), gaszip.WithLogger(log), gaszip.WithMetrics(recorder))
	svc := scanner.NewService(g, indexer, export.NewCSVWriter(out),
		scanner.WithLogger(log),
		scanner.WithMetrics(recorder),
	)

	summary, err := svc.Run(ctx, cfg.FromBlock, cfg.ToBlock)
	if summary != nil {
		b, jerr := utils.NormalizeJSON(summary)
		if jerr == nil {
			fmt.Fprintln(stderr, string(b))
		}
	}
	return err
}

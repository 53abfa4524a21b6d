package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/sheetloom/internal/server"
	"github.com/KaramelBytes/sheetloom/internal/workbook"
)

var (
	serveAddr    string
	servePreload string
	serveFlags   pageFlags
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	Long: `Starts the dashboard server. The page shows the built-in sample workbook until
a file is uploaded. Theme and palette can be changed per request with the
theme and palette query parameters.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := serveFlags.options()
		if err != nil {
			return err
		}
		addr := cfg.ListenAddr
		if serveAddr != "" {
			addr = serveAddr
		}

		cache := workbook.NewCache(logger)
		if servePreload != "" {
			data, err := os.ReadFile(servePreload)
			if err != nil {
				return fmt.Errorf("read %s: %w", servePreload, err)
			}
			_, key, err := cache.Load(servePreload, data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Loaded %s: http://%s/?wb=%s\n", servePreload, addr, key)
		}

		srv := server.New(server.Config{
			Addr:           addr,
			Schema:         opt.Schema,
			Charts:         opt.Charts,
			PreviewRows:    opt.PreviewRows,
			MaxUploadBytes: int64(cfg.MaxUploadMB) << 20,
		}, cache, logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Serving dashboard on http://%s\n", addr)
		if err := srv.ListenAndServe(ctx, time.Duration(cfg.ShutdownTimeoutSec)*time.Second); err != nil {
			logger.Error("server stopped", zap.Error(err))
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config listen_addr)")
	serveCmd.Flags().StringVar(&servePreload, "preload", "", "workbook to load into the cache at startup")
	serveFlags.register(serveCmd)
}

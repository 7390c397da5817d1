// Command echo is a debugging listener that prints every line each client
// sends. Point a STOMP client at it to see the raw frames.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/Zereker/stomp"
	"github.com/Zereker/stomp/internal/config"
)

func main() {
	var (
		configFile string
		listen     string
	)

	root := &cobra.Command{
		Use:          "echo",
		Short:        "Print every line received from TCP clients",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cfg *config.Config
				err error
			)
			if configFile != "" {
				cfg, err = config.LoadFile(configFile)
			} else {
				cfg, err = config.Load()
			}
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				cfg.Echo.Listen = listen
			}

			logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
				Level:      cfg.Log.SlogLevel(),
				TimeFormat: time.Kitchen,
			}))
			slog.SetDefault(logger)

			server, err := stomp.NewServer(cfg.Echo.Listen, stomp.ServerLoggerOption(logger))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = server.Serve(ctx, newLineLogger(cmd.OutOrStdout(), logger))
			if errors.Is(err, context.Canceled) {
				logger.Info("shutting down")
				return nil
			}
			return err
		},
	}

	root.Flags().StringVar(&configFile, "config", "", "Configuration file (YAML or JSON); defaults to STOMP_CONFIG_FILE")
	root.Flags().StringVar(&listen, "listen", "127.0.0.1:12321", "Listen address")

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

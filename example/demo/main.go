// Command demo runs a consumer and a producer against a STOMP broker.
//
// The consumer subscribes to a queue, the producer sends numbered text
// messages to it one at a time, and every delivery is printed.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/Zereker/stomp/internal/config"
)

func main() {
	var (
		configFile string
		address    string
		queue      string
		count      int
		receipts   bool
	)

	root := &cobra.Command{
		Use:          "demo",
		Short:        "STOMP producer/consumer demo",
		Long:         "Connects a consumer and a producer to a STOMP broker and passes numbered messages through a queue.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("address") {
				cfg.Broker.Address = address
			}
			if flags.Changed("queue") {
				cfg.Demo.Queue = queue
			}
			if flags.Changed("count") {
				cfg.Demo.Count = count
			}
			if flags.Changed("receipts") {
				cfg.Broker.Receipts = receipts
			}

			logger := newLogger(cfg.Log.SlogLevel())
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			d := &demo{cfg: cfg, out: cmd.OutOrStdout(), logger: logger}
			return d.run(ctx)
		},
	}

	root.Flags().StringVar(&configFile, "config", "", "Configuration file (YAML or JSON); defaults to STOMP_CONFIG_FILE")
	root.Flags().StringVar(&address, "address", "127.0.0.1:61613", "Broker address")
	root.Flags().StringVar(&queue, "queue", "q", "Destination queue")
	root.Flags().IntVar(&count, "count", 3000, "Number of messages to pass")
	root.Flags().BoolVar(&receipts, "receipts", false, "Request a receipt for every frame")

	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

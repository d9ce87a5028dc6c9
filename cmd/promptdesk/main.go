package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hupe1980/promptdesk"
	"github.com/hupe1980/promptdesk/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "promptdesk",
	Short: "Web playground proxying chat and image generation to AI providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if cfgFile != "" {
			loaded, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = loaded
		}

		app, err := promptdesk.New(func(o *promptdesk.Options) {
			o.Config = cfg
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return app.Run(ctx)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("execution failed", "error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default is built-in defaults)")
}

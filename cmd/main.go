package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/latoulicious/Reaxn/internal/config"
	"github.com/latoulicious/Reaxn/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		envFile  string
		platform string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:          "reaxnbot",
		Short:        "Chat bot that attaches reaction buttons to messages",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var files []string
			if envFile != "" {
				files = append(files, envFile)
			}
			cfg, err := config.LoadConfig(files...)
			if err != nil {
				return err
			}
			if platform != "" {
				cfg.Platform = platform
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return errors.Wrap(err, "invalid configuration")
			}

			log := logging.New(cfg.Logging)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info().Str("platform", cfg.Platform).Msg("starting")
			if err := run(ctx, cfg, log); err != nil {
				log.Error().Err(err).Msg("bot stopped with error")
				return err
			}
			log.Info().Msg("bot stopped")
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load instead of .env")
	cmd.Flags().StringVar(&platform, "platform", "", "platform to run on: telegram or discord (overrides REAXN_PLATFORM)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")

	cmd.AddCommand(newCommandsCmd(&envFile))
	return cmd
}

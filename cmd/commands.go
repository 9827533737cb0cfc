package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"

	"github.com/latoulicious/Reaxn/internal/config"
	"github.com/latoulicious/Reaxn/internal/logging"
	"github.com/latoulicious/Reaxn/internal/platform/telegram"
)

// newCommandsCmd manages the command list Telegram shows in its "/" menu.
// Discord commands are typed with "!" and need no registration.
func newCommandsCmd(envFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commands",
		Short: "Manage the bot command list published to Telegram",
	}

	connect := func() (*telegram.Client, error) {
		var files []string
		if *envFile != "" {
			files = append(files, *envFile)
		}
		cfg, err := config.LoadConfig(files...)
		if err != nil {
			return nil, err
		}
		if cfg.TelegramToken == "" {
			return nil, config.ErrTelegramTokenNotSet
		}
		api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
		if err != nil {
			return nil, errors.Wrap(err, "connecting to telegram")
		}
		return telegram.NewClient(api, logging.New(cfg.Logging)), nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "register",
			Short: "Publish the current command list",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				client, err := connect()
				if err != nil {
					return err
				}
				return client.RegisterCommands(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove the published command list",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				client, err := connect()
				if err != nil {
					return err
				}
				if err := client.ClearCommands(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Command list cleared.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "check",
			Short: "Print the command list Telegram currently shows",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				client, err := connect()
				if err != nil {
					return err
				}
				cmds, err := client.RegisteredCommands(cmd.Context())
				if err != nil {
					return err
				}
				if len(cmds) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No commands registered.")
					return nil
				}
				for _, c := range cmds {
					fmt.Fprintf(cmd.OutOrStdout(), "/%s - %s\n", c.Command, c.Description)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Total: %d\n", len(cmds))
				return nil
			},
		},
	)
	return cmd
}

package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/bcdannyboy/stocsim/slack"
	"github.com/bcdannyboy/stocsim/tradier"
	"github.com/spf13/cobra"
)

func newSlackCommand(a *app) *cobra.Command {
	var defaultPaths int
	cmd := &cobra.Command{
		Use:   "slack",
		Short: "Serve pricing slash commands over Slack socket mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.SlackAppToken == "" || a.cfg.SlackBotToken == "" {
				return fmt.Errorf("SLACK_APP_TOKEN and SLACK_BOT_TOKEN must be set")
			}

			opts := simslack.Options{
				MaxPaths:     a.cfg.MaxPaths,
				DefaultPaths: defaultPaths,
				Seed:         a.cfg.Seed,
			}
			if a.cfg.TradierKey != "" {
				opts.Quotes = tradier.NewClient(a.cfg.TradierKey, a.log.Named("tradier"))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			handler := simslack.NewHandler(opts, a.log.Named("handler"))
			bot := simslack.NewSlackBot(a.cfg.SlackAppToken, a.cfg.SlackBotToken, handler, a.log.Named("slack"), a.cfg.Debug)
			return bot.Start(ctx)
		},
	}
	cmd.Flags().IntVar(&defaultPaths, "default-paths", 10000, "paths per request when none is given")
	return cmd
}

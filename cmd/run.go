package main

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/cockroachdb/errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/latoulicious/Reaxn/internal/bot"
	"github.com/latoulicious/Reaxn/internal/config"
	"github.com/latoulicious/Reaxn/internal/handlers"
	"github.com/latoulicious/Reaxn/internal/platform/discord"
	"github.com/latoulicious/Reaxn/internal/platform/telegram"
	"github.com/latoulicious/Reaxn/internal/presence"
	"github.com/latoulicious/Reaxn/pkg/cron"
)

const (
	shutdownTimeout  = 15 * time.Second
	presenceSchedule = "0 */5 * * * *"
)

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	locks := bot.NewLocks()
	sched := cron.NewScheduler(log.With().Str("component", "scheduler").Logger())
	if cfg.SerializeToggles {
		err := sched.Add(cron.Job{
			Name:     "lock-sweep",
			Schedule: cfg.SweepSchedule,
			Run: func() error {
				removed := locks.Sweep(cfg.LockIdleTTL)
				log.Debug().Int("removed", removed).Int("remaining", locks.Len()).Msg("swept message locks")
				return nil
			},
		})
		if err != nil {
			return err
		}
	}

	switch cfg.Platform {
	case config.PlatformTelegram:
		return runTelegram(ctx, cfg, locks, sched, log)
	case config.PlatformDiscord:
		return runDiscord(ctx, cfg, locks, sched, log)
	default:
		return errors.Newf("unknown platform %q", cfg.Platform)
	}
}

func botConfig(cfg *config.Config, prefix string) bot.Config {
	return bot.Config{
		CommandPrefix:     prefix,
		LookupConcurrency: cfg.LookupConcurrency,
		SerializeToggles:  cfg.SerializeToggles,
	}
}

func runTelegram(ctx context.Context, cfg *config.Config, locks *bot.Locks, sched *cron.Scheduler, log zerolog.Logger) error {
	log = log.With().Str("platform", config.PlatformTelegram).Logger()

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return errors.Wrap(err, "connecting to telegram")
	}
	api.Debug = log.GetLevel() <= zerolog.TraceLevel

	client := telegram.NewClient(api, log)
	log.Info().Str("username", client.Self().UserName).Msg("authorized")
	if err := client.RegisterCommands(ctx); err != nil {
		log.Warn().Err(err).Msg("could not register command list")
	}

	b := bot.New(client, botConfig(cfg, telegram.CommandPrefix), locks, log)
	dispatcher := handlers.NewDispatcher(b, handlers.DefaultEventTimeout, log)

	updates, stopUpdates, err := client.Updates(ctx, telegram.UpdatesConfig{
		WebhookURL: cfg.WebhookURL,
		ListenAddr: cfg.ListenAddr,
	})
	if err != nil {
		return err
	}

	sched.Start()
	defer sched.Stop()

	handlers.ServeTelegram(ctx, dispatcher, updates, client.Self())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := stopUpdates(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("stopping updates")
	}
	dispatcher.Wait()
	return nil
}

func runDiscord(ctx context.Context, cfg *config.Config, locks *bot.Locks, sched *cron.Scheduler, log zerolog.Logger) error {
	log = log.With().Str("platform", config.PlatformDiscord).Logger()

	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return errors.Wrap(err, "creating discord session")
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	client := discord.NewClient(dg, log)
	b := bot.New(client, botConfig(cfg, discord.CommandPrefix), locks, log)
	dispatcher := handlers.NewDispatcher(b, handlers.DefaultEventTimeout, log)

	gateway := handlers.NewDiscord(ctx, dispatcher)
	dg.AddHandler(gateway.MessageCreate)
	dg.AddHandler(gateway.InteractionCreate)

	if err := dg.Open(); err != nil {
		return errors.Wrap(err, "opening discord session")
	}
	defer func() {
		if err := dg.Close(); err != nil {
			log.Warn().Err(err).Msg("closing discord session")
		}
	}()

	pm := presence.NewPresenceManager(dg, presence.SessionGuilds(dg), discord.CommandPrefix, log)
	if err := sched.Add(cron.Job{Name: "presence", Schedule: presenceSchedule, Run: pm.Update}); err != nil {
		return err
	}
	if err := pm.Update(); err != nil {
		log.Warn().Err(err).Msg("setting initial presence")
	}

	sched.Start()
	defer sched.Stop()

	log.Info().Msg("bot is running, press CTRL-C to exit")
	<-ctx.Done()
	dispatcher.Wait()
	return nil
}

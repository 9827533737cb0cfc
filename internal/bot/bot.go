package bot

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/latoulicious/Reaxn/internal/commands"
)

// Config tunes the orchestration layer.
type Config struct {
	// CommandPrefix is how commands are typed on the platform ("/" or "!").
	CommandPrefix string
	// LookupConcurrency bounds parallel display-name lookups per summary.
	LookupConcurrency int
	// SerializeToggles enables the per-message lock.
	SerializeToggles bool
}

// DefaultConfig returns the Telegram defaults.
func DefaultConfig() Config {
	return Config{
		CommandPrefix:     "/",
		LookupConcurrency: 4,
		SerializeToggles:  true,
	}
}

// Bot routes events to the react, toggle, summary and inline flows. It holds
// no reaction state: every event re-reads the state from the message.
type Bot struct {
	platform Platform
	cfg      Config
	locks    *Locks
	log      zerolog.Logger
}

// New creates a Bot. locks may be nil when SerializeToggles is off.
func New(p Platform, cfg Config, locks *Locks, log zerolog.Logger) *Bot {
	if cfg.LookupConcurrency <= 0 {
		cfg.LookupConcurrency = 1
	}
	if cfg.SerializeToggles && locks == nil {
		locks = NewLocks()
	}
	return &Bot{
		platform: p,
		cfg:      cfg,
		locks:    locks,
		log:      log,
	}
}

// Handle processes one event. Returned errors are for logging only; the
// event is not retried.
func (b *Bot) Handle(ctx context.Context, ev Event) error {
	switch ev := ev.(type) {
	case CommandReceived:
		return b.handleCommand(ctx, ev)
	case ControlPressed:
		return b.handlePress(ctx, ev)
	case InlineQueried:
		return b.handleInline(ctx, ev)
	default:
		return errors.Newf("unsupported event %T", ev)
	}
}

func (b *Bot) handleCommand(ctx context.Context, ev CommandReceived) error {
	cmd, ok := commands.Lookup(ev.Name)
	if !ok {
		b.log.Debug().Str("command", ev.Name).Msg("ignoring unknown command")
		return nil
	}

	switch cmd.Action {
	case commands.ActionHelp:
		_, err := b.platform.Send(ctx, ev.Message.Chat, "", Content{Text: commands.HelpText(b.cfg.CommandPrefix)})
		return errors.Wrap(err, "sending help")
	case commands.ActionReact:
		return b.react(ctx, ev, cmd)
	case commands.ActionSummary:
		return b.summary(ctx, ev, cmd)
	default:
		return errors.Newf("command %q has no action", cmd.Name)
	}
}

// reply answers the command message with plain text.
func (b *Bot) reply(ctx context.Context, to MessageRef, text string) error {
	_, err := b.platform.Send(ctx, to.Chat, to.ID, Content{Text: text})
	return errors.Wrap(err, "replying")
}

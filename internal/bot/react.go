package bot

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/latoulicious/Reaxn/internal/commands"
	"github.com/latoulicious/Reaxn/pkg/reaction"
)

// react publishes a new reaction message anchored to the replied-to message.
func (b *Bot) react(ctx context.Context, ev CommandReceived, cmd commands.Command) error {
	if ev.ReplyTo == nil {
		return b.reply(ctx, ev.Message, commands.MissingReplyText(b.cfg.CommandPrefix, cmd))
	}

	state := reaction.State{}
	if cmd.Shortcut() {
		if ev.From == nil {
			return errors.New("could not get user that issued the command")
		}
		state, _ = reaction.Toggle(state, cmd.Seed, ev.From.ID)
	}

	if err := b.platform.Delete(ctx, ev.Message); err != nil {
		if !errors.Is(err, ErrPermissionDenied) {
			return errors.Wrap(err, "deleting command message")
		}
		// No rights to delete in this chat; the command just stays visible.
		b.log.Debug().Err(err).Str("chat", ev.Message.Chat).Msg("cannot delete command message")
	}

	target := ev.ReplyTo.Ref
	if _, err := b.platform.Send(ctx, target.Chat, target.ID, reactionContent(state)); err != nil {
		return errors.Wrap(err, "publishing reaction message")
	}
	return nil
}

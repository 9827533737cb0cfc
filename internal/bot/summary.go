package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/latoulicious/Reaxn/internal/commands"
	"github.com/latoulicious/Reaxn/pkg/reaction"
)

const (
	unknownUserName = "(unknown)"
	noReactionsText = "No one reacted to this message."
	summarySep      = " — "
)

// summary replies to a reaction message with who voted for what.
func (b *Bot) summary(ctx context.Context, ev CommandReceived, cmd commands.Command) error {
	if ev.ReplyTo == nil {
		return b.reply(ctx, ev.Message, commands.MissingReplyText(b.cfg.CommandPrefix, cmd))
	}

	target := ev.ReplyTo
	if !target.FromSelf || !reaction.IsReactionText(target.Text) {
		return b.reply(ctx, ev.Message, commands.NotReactionText(b.cfg.CommandPrefix))
	}

	state, _, err := reaction.Decode(target.Text, target.Links)
	if err != nil {
		return errors.CombineErrors(
			errors.Wrap(err, "decoding summary target"),
			b.reply(ctx, ev.Message, unreadableStateNotice),
		)
	}

	lines := b.summaryLines(ctx, target.Ref.Chat, state)
	content := Content{Text: strings.Join(lines, "\n")}
	if len(lines) == 0 {
		content = Content{Text: noReactionsText, Italic: true}
	}

	_, err = b.platform.Send(ctx, target.Ref.Chat, target.Ref.ID, content)
	return errors.Wrap(err, "sending summary")
}

// summaryLines resolves voter names concurrently. Lines follow display
// order and names follow user id order, whatever order lookups finish in.
func (b *Bot) summaryLines(ctx context.Context, chat string, state reaction.State) []string {
	type row struct {
		kind  reaction.Kind
		users []reaction.UserID
		names []string
	}

	var rows []*row
	for _, k := range reaction.Kinds() {
		users := state.Users(k)
		if len(users) == 0 {
			continue
		}
		rows = append(rows, &row{kind: k, users: users, names: make([]string, len(users))})
	}

	var g errgroup.Group
	g.SetLimit(b.cfg.LookupConcurrency)
	for _, r := range rows {
		r := r
		for i, u := range r.users {
			i, u := i, u
			g.Go(func() error {
				r.names[i] = b.displayName(ctx, chat, u)
				return nil
			})
		}
	}
	// Lookups never fail the group; failures become placeholders.
	_ = g.Wait()

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%s%s%s", r.kind.Glyph(), summarySep, strings.Join(r.names, ", ")))
	}
	return lines
}

func (b *Bot) displayName(ctx context.Context, chat string, user reaction.UserID) string {
	name, err := b.platform.DisplayName(ctx, chat, user)
	if err != nil {
		b.log.Debug().Err(err).Str("user", user.String()).Msg("display name lookup failed")
		return unknownUserName
	}
	if strings.TrimSpace(name) == "" {
		return unknownUserName
	}
	return name
}

package handlers

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/latoulicious/Reaxn/internal/platform/discord"
)

// Discord adapts gateway callbacks to the dispatcher. Register its methods
// with Session.AddHandler.
type Discord struct {
	ctx        context.Context
	dispatcher *Dispatcher
}

// NewDiscord creates gateway handlers whose events inherit ctx.
func NewDiscord(ctx context.Context, d *Dispatcher) *Discord {
	return &Discord{ctx: ctx, dispatcher: d}
}

// MessageCreate handles "!" commands.
func (h *Discord) MessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if s == nil || m == nil || s.State == nil || s.State.User == nil {
		return
	}
	ev, ok := discord.EventFromMessage(m.Message, s.State.User.ID)
	if !ok {
		return
	}
	h.dispatcher.Dispatch(h.ctx, ev)
}

// InteractionCreate handles presses on reaction buttons.
func (h *Discord) InteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i == nil || i.Interaction == nil {
		return
	}
	ev, ok := discord.EventFromInteraction(i.Interaction)
	if !ok {
		h.dispatcher.log.Debug().Int("type", int(i.Type)).Msg("ignoring interaction")
		return
	}
	h.dispatcher.Dispatch(h.ctx, ev)
}

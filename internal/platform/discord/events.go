package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/latoulicious/Reaxn/internal/bot"
	"github.com/latoulicious/Reaxn/internal/commands"
	"github.com/latoulicious/Reaxn/pkg/reaction"
)

// CommandPrefix is how Discord users type commands.
const CommandPrefix = "!"

// EventFromMessage translates a created message into a command event.
// Messages from bots, and text that names no command, report false.
func EventFromMessage(m *discordgo.Message, selfID string) (bot.Event, bool) {
	if m == nil || m.Author == nil || m.Author.Bot || m.Author.ID == selfID {
		return nil, false
	}
	cmd, args, ok := commands.Parse(m.Content, CommandPrefix)
	if !ok {
		return nil, false
	}
	from, ok := userOf(m.Author)
	if !ok {
		return nil, false
	}

	ev := bot.CommandReceived{
		Name:    cmd.Name,
		Args:    args,
		Message: bot.MessageRef{Chat: m.ChannelID, ID: m.ID},
		From:    &from,
	}
	if m.ReferencedMessage != nil {
		ev.ReplyTo = messageOf(m.ReferencedMessage, selfID)
	}
	return ev, true
}

// EventFromInteraction translates a button press. Other interaction types
// report false.
func EventFromInteraction(i *discordgo.Interaction) (bot.Event, bool) {
	if i == nil || i.Type != discordgo.InteractionMessageComponent {
		return nil, false
	}
	author := i.User
	if i.Member != nil && i.Member.User != nil {
		author = i.Member.User
	}
	if author == nil {
		return nil, false
	}
	from, ok := userOf(author)
	if !ok {
		return nil, false
	}
	if i.Member != nil && i.Member.Nick != "" {
		from.Name = i.Member.Nick
	}

	ev := bot.ControlPressed{
		PressID: i.ID + pressSep + i.Token,
		From:    from,
		Payload: i.MessageComponentData().CustomID,
	}
	// A bot's user id equals its application id.
	if i.Message != nil {
		ev.Message = messageOf(i.Message, i.AppID)
	}
	return ev, true
}

func messageOf(m *discordgo.Message, selfID string) *bot.Message {
	text, links := parseText(m.Content)
	return &bot.Message{
		Ref:      bot.MessageRef{Chat: m.ChannelID, ID: m.ID},
		Text:     text,
		Links:    links,
		FromSelf: m.Author != nil && m.Author.ID == selfID,
	}
}

func userOf(u *discordgo.User) (bot.User, bool) {
	id, err := reaction.ParseUserID(u.ID)
	if err != nil {
		return bot.User{}, false
	}
	return bot.User{ID: id, Name: userName(u)}, true
}

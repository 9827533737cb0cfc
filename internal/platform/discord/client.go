package discord

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/latoulicious/Reaxn/internal/bot"
	"github.com/latoulicious/Reaxn/pkg/reaction"
)

// ErrInlineUnsupported is returned for inline answers, which Discord lacks.
var ErrInlineUnsupported = errors.New("inline queries are not supported on discord")

// pressSep joins an interaction id and token into a press id.
const pressSep = ":"

// Client implements bot.Platform on a Discord gateway session.
type Client struct {
	session *discordgo.Session
	log     zerolog.Logger
}

// NewClient wraps an opened or unopened session.
func NewClient(session *discordgo.Session, log zerolog.Logger) *Client {
	return &Client{session: session, log: log}
}

// Send implements bot.Platform.
func (c *Client) Send(ctx context.Context, chat, replyTo string, content bot.Content) (bot.MessageRef, error) {
	data := &discordgo.MessageSend{
		Content:         renderText(content),
		Components:      components(content.Controls),
		AllowedMentions: &discordgo.MessageAllowedMentions{},
		Flags:           discordgo.MessageFlagsSuppressEmbeds,
	}
	if content.Silent {
		data.Flags |= discordgo.MessageFlagsSuppressNotifications
	}
	if replyTo != "" {
		failIfMissing := false
		data.Reference = &discordgo.MessageReference{
			MessageID:       replyTo,
			ChannelID:       chat,
			FailIfNotExists: &failIfMissing,
		}
	}

	sent, err := c.session.ChannelMessageSendComplex(chat, data, discordgo.WithContext(ctx))
	if err != nil {
		return bot.MessageRef{}, classify(err)
	}
	return bot.MessageRef{Chat: sent.ChannelID, ID: sent.ID}, nil
}

// Edit implements bot.Platform.
func (c *Client) Edit(ctx context.Context, ref bot.MessageRef, content bot.Content) error {
	text := renderText(content)
	rows := components(content.Controls)
	edit := discordgo.NewMessageEdit(ref.Chat, ref.ID)
	edit.Content = &text
	edit.Components = &rows

	_, err := c.session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx))
	return classify(err)
}

// Delete implements bot.Platform.
func (c *Client) Delete(ctx context.Context, ref bot.MessageRef) error {
	return classify(c.session.ChannelMessageDelete(ref.Chat, ref.ID, discordgo.WithContext(ctx)))
}

// AnswerPress implements bot.Platform.
func (c *Client) AnswerPress(ctx context.Context, pressID string, n bot.Notice) error {
	id, token, ok := strings.Cut(pressID, pressSep)
	if !ok {
		return errors.Newf("malformed press id %q", pressID)
	}
	err := c.session.InteractionRespond(&discordgo.Interaction{ID: id, Token: token}, pressResponse(n), discordgo.WithContext(ctx))
	return classify(err)
}

// pressResponse shows a notice to the presser only. Discord has no toast,
// so every notice is an ephemeral reply; a bare acknowledgement is used
// only when there is nothing to say.
func pressResponse(n bot.Notice) *discordgo.InteractionResponse {
	if n.Text == "" {
		return &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredMessageUpdate}
	}
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:         n.Text,
			Flags:           discordgo.MessageFlagsEphemeral,
			AllowedMentions: &discordgo.MessageAllowedMentions{},
		},
	}
}

// DisplayName implements bot.Platform. Guild nicknames win over global
// names, which win over usernames.
func (c *Client) DisplayName(ctx context.Context, chat string, user reaction.UserID) (string, error) {
	channel, err := c.session.State.Channel(chat)
	if err != nil {
		channel, err = c.session.Channel(chat, discordgo.WithContext(ctx))
		if err != nil {
			return "", classify(err)
		}
	}

	if channel.GuildID != "" {
		member, err := c.session.GuildMember(channel.GuildID, user.String(), discordgo.WithContext(ctx))
		if err != nil {
			return "", classify(err)
		}
		if member.Nick != "" {
			return member.Nick, nil
		}
		return userName(member.User), nil
	}

	u, err := c.session.User(user.String(), discordgo.WithContext(ctx))
	if err != nil {
		return "", classify(err)
	}
	return userName(u), nil
}

// AnswerInline implements bot.Platform.
func (c *Client) AnswerInline(context.Context, string, []bot.InlineResult) error {
	return ErrInlineUnsupported
}

func userName(u *discordgo.User) string {
	if u == nil {
		return ""
	}
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}

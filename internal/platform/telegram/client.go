package telegram

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/cockroachdb/errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/latoulicious/Reaxn/internal/bot"
	"github.com/latoulicious/Reaxn/internal/commands"
	"github.com/latoulicious/Reaxn/pkg/reaction"
)

// CommandPrefix is how Telegram users type commands.
const CommandPrefix = "/"

// inlineCacheTime is how long Telegram may cache inline answers, in seconds.
// Answers are per user because each result carries the asker's vote.
const inlineCacheTime = 300

// Client implements bot.Platform on the Telegram Bot API.
type Client struct {
	api *tgbotapi.BotAPI
	log zerolog.Logger
}

// NewClient wraps an authenticated Bot API handle.
func NewClient(api *tgbotapi.BotAPI, log zerolog.Logger) *Client {
	return &Client{api: api, log: log}
}

// Self returns the bot's own user.
func (c *Client) Self() tgbotapi.User {
	return c.api.Self
}

// RegisterCommands publishes the command list shown in Telegram clients.
func (c *Client) RegisterCommands(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var cmds []tgbotapi.BotCommand
	for _, cmd := range commands.All() {
		cmds = append(cmds, tgbotapi.BotCommand{Command: cmd.Name, Description: cmd.Description})
	}
	if _, err := c.api.Request(tgbotapi.NewSetMyCommands(cmds...)); err != nil {
		return errors.Wrap(err, "registering commands")
	}
	c.log.Info().Int("count", len(cmds)).Msg("registered bot commands")
	return nil
}

// ClearCommands removes the published command list.
func (c *Client) ClearCommands(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.api.Request(tgbotapi.NewDeleteMyCommands()); err != nil {
		return errors.Wrap(err, "clearing commands")
	}
	return nil
}

// RegisteredCommands returns the command list Telegram clients currently show.
func (c *Client) RegisteredCommands(ctx context.Context) ([]tgbotapi.BotCommand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cmds, err := c.api.GetMyCommands()
	if err != nil {
		return nil, errors.Wrap(err, "fetching commands")
	}
	return cmds, nil
}

// Send implements bot.Platform.
func (c *Client) Send(ctx context.Context, chat, replyTo string, content bot.Content) (bot.MessageRef, error) {
	if err := ctx.Err(); err != nil {
		return bot.MessageRef{}, err
	}
	chatID, err := parseChatID(chat)
	if err != nil {
		return bot.MessageRef{}, err
	}

	text, entities := textAndEntities(content)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.Entities = entities
	msg.DisableWebPagePreview = true
	msg.DisableNotification = content.Silent
	if replyTo != "" {
		id, err := strconv.Atoi(replyTo)
		if err != nil {
			return bot.MessageRef{}, errors.Wrapf(err, "invalid reply target %q", replyTo)
		}
		msg.ReplyToMessageID = id
		msg.AllowSendingWithoutReply = true
	}
	if len(content.Controls) > 0 {
		msg.ReplyMarkup = keyboard(content.Controls)
	}

	sent, err := c.api.Send(msg)
	if err != nil {
		return bot.MessageRef{}, classify(err)
	}
	return bot.MessageRef{Chat: chat, ID: strconv.Itoa(sent.MessageID)}, nil
}

// Edit implements bot.Platform.
func (c *Client) Edit(ctx context.Context, ref bot.MessageRef, content bot.Content) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	chatID, err := parseChatID(ref.Chat)
	if err != nil {
		return err
	}
	msgID, err := strconv.Atoi(ref.ID)
	if err != nil {
		return errors.Wrapf(err, "invalid message id %q", ref.ID)
	}

	text, entities := textAndEntities(content)
	cfg := tgbotapi.NewEditMessageText(chatID, msgID, text)
	cfg.Entities = entities
	cfg.DisableWebPagePreview = true
	if len(content.Controls) > 0 {
		markup := keyboard(content.Controls)
		cfg.ReplyMarkup = &markup
	}

	_, err = c.api.Send(cfg)
	return classify(err)
}

// Delete implements bot.Platform.
func (c *Client) Delete(ctx context.Context, ref bot.MessageRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	chatID, err := parseChatID(ref.Chat)
	if err != nil {
		return err
	}
	msgID, err := strconv.Atoi(ref.ID)
	if err != nil {
		return errors.Wrapf(err, "invalid message id %q", ref.ID)
	}
	_, err = c.api.Request(tgbotapi.NewDeleteMessage(chatID, msgID))
	return classify(err)
}

// AnswerPress implements bot.Platform.
func (c *Client) AnswerPress(ctx context.Context, pressID string, n bot.Notice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := c.api.Request(tgbotapi.CallbackConfig{
		CallbackQueryID: pressID,
		Text:            n.Text,
		ShowAlert:       n.Alert,
	})
	return classify(err)
}

// DisplayName implements bot.Platform.
func (c *Client) DisplayName(ctx context.Context, chat string, user reaction.UserID) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	chatID, err := parseChatID(chat)
	if err != nil {
		return "", err
	}
	member, err := c.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: chatID, UserID: int64(user)},
	})
	if err != nil {
		return "", classify(err)
	}
	if member.User == nil {
		return "", errors.Newf("no user in chat member %d", user)
	}
	return fullName(member.User), nil
}

// AnswerInline implements bot.Platform.
func (c *Client) AnswerInline(ctx context.Context, queryID string, results []bot.InlineResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	articles := make([]interface{}, 0, len(results))
	for _, r := range results {
		text, entities := textAndEntities(r.Content)
		article := tgbotapi.NewInlineQueryResultArticle(r.ID, r.Title, text)
		article.InputMessageContent = tgbotapi.InputTextMessageContent{
			Text:                  text,
			Entities:              entities,
			DisableWebPagePreview: true,
		}
		if len(r.Content.Controls) > 0 {
			markup := keyboard(r.Content.Controls)
			article.ReplyMarkup = &markup
		}
		articles = append(articles, article)
	}

	_, err := c.api.Request(tgbotapi.InlineConfig{
		InlineQueryID: queryID,
		Results:       articles,
		CacheTime:     inlineCacheTime,
		IsPersonal:    true,
	})
	return classify(err)
}

// textAndEntities lays out content as Telegram text plus entities. The
// reaction state rides on a text_link entity covering the marker.
func textAndEntities(c bot.Content) (string, []tgbotapi.MessageEntity) {
	text := c.Text
	var entities []tgbotapi.MessageEntity
	if c.State != nil {
		text = c.State.Text
		entities = append(entities, tgbotapi.MessageEntity{
			Type:   "text_link",
			Offset: c.State.LinkOffset,
			Length: c.State.LinkLength,
			URL:    c.State.URL,
		})
	}
	if c.Italic && text != "" {
		entities = append(entities, tgbotapi.MessageEntity{
			Type:   "italic",
			Offset: 0,
			Length: utf16Len(text),
		})
	}
	return text, entities
}

// keyboard lays every control out on a single row.
func keyboard(controls []reaction.Control) tgbotapi.InlineKeyboardMarkup {
	buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(controls))
	for _, ctl := range controls {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(ctl.Label, ctl.Payload))
	}
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(buttons...))
}

// Entity offsets and lengths are measured in UTF-16 code units.
func utf16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}

func fullName(u *tgbotapi.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.UserName
	}
	return name
}

func parseChatID(chat string) (int64, error) {
	id, err := strconv.ParseInt(chat, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid chat id %q", chat)
	}
	return id, nil
}

package telegram

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/latoulicious/Reaxn/internal/bot"
	"github.com/latoulicious/Reaxn/pkg/reaction"
)

// EventFromUpdate translates a Telegram update into a bot event. Updates
// the bot does not act on, and commands addressed to another bot, report
// false.
func EventFromUpdate(u tgbotapi.Update, self tgbotapi.User) (bot.Event, bool) {
	switch {
	case u.Message != nil:
		return commandEvent(u.Message, self)
	case u.CallbackQuery != nil:
		cq := u.CallbackQuery
		if cq.From == nil {
			return nil, false
		}
		ev := bot.ControlPressed{
			PressID: cq.ID,
			From:    userOf(cq.From),
			Payload: cq.Data,
		}
		// Presses on inline messages arrive without the message, so
		// Message stays nil for them.
		if cq.Message != nil {
			ev.Message = messageOf(cq.Message, self)
		}
		return ev, true
	case u.InlineQuery != nil:
		iq := u.InlineQuery
		if iq.From == nil {
			return nil, false
		}
		return bot.InlineQueried{
			QueryID: iq.ID,
			From:    userOf(iq.From),
			Query:   iq.Query,
		}, true
	default:
		return nil, false
	}
}

func commandEvent(m *tgbotapi.Message, self tgbotapi.User) (bot.Event, bool) {
	if !m.IsCommand() {
		return nil, false
	}
	if at := strings.IndexByte(m.CommandWithAt(), '@'); at >= 0 {
		if !strings.EqualFold(m.CommandWithAt()[at+1:], self.UserName) {
			return nil, false
		}
	}

	ev := bot.CommandReceived{
		Name:    m.Command(),
		Args:    m.CommandArguments(),
		Message: refOf(m),
	}
	if m.From != nil {
		u := userOf(m.From)
		ev.From = &u
	}
	if m.ReplyToMessage != nil {
		ev.ReplyTo = messageOf(m.ReplyToMessage, self)
	}
	return ev, true
}

func refOf(m *tgbotapi.Message) bot.MessageRef {
	var chat string
	if m.Chat != nil {
		chat = strconv.FormatInt(m.Chat.ID, 10)
	}
	return bot.MessageRef{Chat: chat, ID: strconv.Itoa(m.MessageID)}
}

// messageOf snapshots a message. Captioned media carry their text and
// entities in the caption fields.
func messageOf(m *tgbotapi.Message, self tgbotapi.User) *bot.Message {
	text, entities := m.Text, m.Entities
	if text == "" && m.Caption != "" {
		text, entities = m.Caption, m.CaptionEntities
	}

	msg := &bot.Message{
		Ref:      refOf(m),
		Text:     text,
		FromSelf: m.From != nil && m.From.ID == self.ID,
	}
	for _, e := range entities {
		if e.Type == "text_link" && e.URL != "" {
			msg.Links = append(msg.Links, e.URL)
		}
	}
	return msg
}

func userOf(u *tgbotapi.User) bot.User {
	return bot.User{ID: reaction.UserID(u.ID), Name: fullName(u)}
}

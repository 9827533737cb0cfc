package telegram

import (
	"testing"

	"github.com/cockroachdb/errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latoulicious/Reaxn/internal/bot"
	"github.com/latoulicious/Reaxn/pkg/reaction"
)

var testSelf = tgbotapi.User{ID: 999, IsBot: true, FirstName: "Reaxn", UserName: "reaxnbot"}

func TestTextAndEntitiesCarriesStateLink(t *testing.T) {
	s := reaction.State{}
	s, _ = reaction.Toggle(s, reaction.Heart, 7)
	enc := reaction.Encode(s)

	text, entities := textAndEntities(bot.Content{Text: enc.Text, State: &enc})

	assert.Equal(t, enc.Text, text)
	require.Len(t, entities, 1)
	assert.Equal(t, "text_link", entities[0].Type)
	assert.Equal(t, enc.URL, entities[0].URL)
	assert.Equal(t, enc.LinkOffset, entities[0].Offset)
	assert.Equal(t, enc.LinkLength, entities[0].Length)
}

func TestTextAndEntitiesItalicCoversUTF16Length(t *testing.T) {
	text, entities := textAndEntities(bot.Content{Text: "ok 👍", Italic: true})

	assert.Equal(t, "ok 👍", text)
	require.Len(t, entities, 1)
	assert.Equal(t, "italic", entities[0].Type)
	assert.Equal(t, 0, entities[0].Offset)
	// The emoji is a surrogate pair.
	assert.Equal(t, 5, entities[0].Length)
}

func TestTextAndEntitiesPlain(t *testing.T) {
	text, entities := textAndEntities(bot.Content{Text: "hello"})
	assert.Equal(t, "hello", text)
	assert.Empty(t, entities)
}

func TestKeyboardKeepsControlOrder(t *testing.T) {
	controls := reaction.Render(reaction.State{})
	markup := keyboard(controls)

	require.Len(t, markup.InlineKeyboard, 1)
	row := markup.InlineKeyboard[0]
	require.Len(t, row, len(controls))
	for i, ctl := range controls {
		assert.Equal(t, ctl.Label, row[i].Text)
		require.NotNil(t, row[i].CallbackData)
		assert.Equal(t, ctl.Payload, *row[i].CallbackData)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		permission bool
		gone       bool
		unchanged  bool
	}{
		{
			name: "nil",
			err:  nil,
		},
		{
			name: "not an api error",
			err:  errors.New("connection reset"),
		},
		{
			name:       "forbidden",
			err:        &tgbotapi.Error{Code: 403, Message: "Forbidden: bot was kicked from the group chat"},
			permission: true,
		},
		{
			name:       "cannot delete",
			err:        &tgbotapi.Error{Code: 400, Message: "Bad Request: message can't be deleted"},
			permission: true,
		},
		{
			name:       "not enough rights",
			err:        &tgbotapi.Error{Code: 400, Message: "Bad Request: not enough rights to delete a message"},
			permission: true,
		},
		{
			name: "edit target missing",
			err:  &tgbotapi.Error{Code: 400, Message: "Bad Request: message to edit not found"},
			gone: true,
		},
		{
			name: "delete target missing",
			err:  &tgbotapi.Error{Code: 400, Message: "Bad Request: message to delete not found"},
			gone: true,
		},
		{
			name:      "edit changes nothing",
			err:       &tgbotapi.Error{Code: 400, Message: "Bad Request: message is not modified: specified new message content and reply markup are exactly the same"},
			unchanged: true,
		},
		{
			name: "unrelated bad request",
			err:  &tgbotapi.Error{Code: 400, Message: "Bad Request: query is too old and response timeout expired"},
		},
		{
			name:       "wrapped",
			err:        errors.Wrap(&tgbotapi.Error{Code: 403, Message: "Forbidden"}, "deleting"),
			permission: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}
			require.Error(t, got)
			assert.Equal(t, tt.permission, errors.Is(got, bot.ErrPermissionDenied))
			assert.Equal(t, tt.gone, errors.Is(got, bot.ErrMessageGone))
			assert.Equal(t, tt.unchanged, errors.Is(got, bot.ErrNotModified))
		})
	}
}

func commandMessage(text string, reply *tgbotapi.Message) *tgbotapi.Message {
	cmdLen := len(text)
	for i, r := range text {
		if r == ' ' {
			cmdLen = i
			break
		}
	}
	return &tgbotapi.Message{
		MessageID:      10,
		From:           &tgbotapi.User{ID: 1, FirstName: "Ann", LastName: "Lee"},
		Chat:           &tgbotapi.Chat{ID: -100},
		Text:           text,
		Entities:       []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
		ReplyToMessage: reply,
	}
}

func TestEventFromUpdateCommand(t *testing.T) {
	s, _ := reaction.Toggle(reaction.State{}, reaction.Up, 3)
	enc := reaction.Encode(s)
	target := &tgbotapi.Message{
		MessageID: 5,
		From:      &testSelf,
		Chat:      &tgbotapi.Chat{ID: -100},
		Text:      enc.Text,
		Entities: []tgbotapi.MessageEntity{
			{Type: "bold", Offset: 0, Length: 1},
			{Type: "text_link", Offset: enc.LinkOffset, Length: enc.LinkLength, URL: enc.URL},
		},
	}

	ev, ok := EventFromUpdate(tgbotapi.Update{Message: commandMessage("/s@reaxnbot now", target)}, testSelf)
	require.True(t, ok)

	cmd, ok := ev.(bot.CommandReceived)
	require.True(t, ok)
	assert.Equal(t, "s", cmd.Name)
	assert.Equal(t, "now", cmd.Args)
	assert.Equal(t, bot.MessageRef{Chat: "-100", ID: "10"}, cmd.Message)
	require.NotNil(t, cmd.From)
	assert.Equal(t, reaction.UserID(1), cmd.From.ID)
	assert.Equal(t, "Ann Lee", cmd.From.Name)
	require.NotNil(t, cmd.ReplyTo)
	assert.True(t, cmd.ReplyTo.FromSelf)
	assert.Equal(t, []string{enc.URL}, cmd.ReplyTo.Links)
	assert.Equal(t, bot.MessageRef{Chat: "-100", ID: "5"}, cmd.ReplyTo.Ref)
}

func TestEventFromUpdateIgnores(t *testing.T) {
	tests := []struct {
		name   string
		update tgbotapi.Update
	}{
		{name: "empty update", update: tgbotapi.Update{}},
		{name: "plain text", update: tgbotapi.Update{Message: &tgbotapi.Message{
			MessageID: 1, Chat: &tgbotapi.Chat{ID: 1}, Text: "hello",
		}}},
		{name: "command for another bot", update: tgbotapi.Update{Message: commandMessage("/r@otherbot", nil)}},
		{name: "press without sender", update: tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{ID: "q"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := EventFromUpdate(tt.update, testSelf)
			assert.False(t, ok)
		})
	}
}

func TestEventFromUpdateCaptionedTarget(t *testing.T) {
	photo := &tgbotapi.Message{
		MessageID:       4,
		From:            &tgbotapi.User{ID: 2},
		Chat:            &tgbotapi.Chat{ID: 1},
		Caption:         "look",
		CaptionEntities: []tgbotapi.MessageEntity{{Type: "text_link", Offset: 0, Length: 4, URL: "https://example.com"}},
	}
	ev, ok := EventFromUpdate(tgbotapi.Update{Message: commandMessage("/r", photo)}, testSelf)
	require.True(t, ok)

	cmd := ev.(bot.CommandReceived)
	require.NotNil(t, cmd.ReplyTo)
	assert.Equal(t, "look", cmd.ReplyTo.Text)
	assert.False(t, cmd.ReplyTo.FromSelf)
	assert.Equal(t, []string{"https://example.com"}, cmd.ReplyTo.Links)
}

func TestEventFromUpdatePress(t *testing.T) {
	update := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "press-1",
		From: &tgbotapi.User{ID: 8, FirstName: "Bea"},
		Data: "laugh",
		Message: &tgbotapi.Message{
			MessageID: 6,
			From:      &testSelf,
			Chat:      &tgbotapi.Chat{ID: 42},
			Text:      reaction.Marker,
		},
	}}

	ev, ok := EventFromUpdate(update, testSelf)
	require.True(t, ok)

	press, ok := ev.(bot.ControlPressed)
	require.True(t, ok)
	assert.Equal(t, "press-1", press.PressID)
	assert.Equal(t, "laugh", press.Payload)
	assert.Equal(t, bot.User{ID: 8, Name: "Bea"}, press.From)
	require.NotNil(t, press.Message)
	assert.Equal(t, bot.MessageRef{Chat: "42", ID: "6"}, press.Message.Ref)
}

func TestEventFromUpdateInlinePressHasNoMessage(t *testing.T) {
	update := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:              "press-2",
		From:            &tgbotapi.User{ID: 8},
		Data:            "up",
		InlineMessageID: "AAA",
	}}

	ev, ok := EventFromUpdate(update, testSelf)
	require.True(t, ok)
	assert.Nil(t, ev.(bot.ControlPressed).Message)
}

func TestEventFromUpdateInlineQuery(t *testing.T) {
	update := tgbotapi.Update{InlineQuery: &tgbotapi.InlineQuery{
		ID:    "iq",
		From:  &tgbotapi.User{ID: 3, UserName: "cat"},
		Query: "hi",
	}}

	ev, ok := EventFromUpdate(update, testSelf)
	require.True(t, ok)
	assert.Equal(t, bot.InlineQueried{QueryID: "iq", From: bot.User{ID: 3, Name: "cat"}, Query: "hi"}, ev)
}

package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latoulicious/Reaxn/pkg/reaction"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		found  bool
		action Action
		seed   reaction.Kind
	}{
		{name: "react", input: "r", found: true, action: ActionReact},
		{name: "summary", input: "s", found: true, action: ActionSummary},
		{name: "help upper case", input: "HELP", found: true, action: ActionHelp},
		{name: "heart shortcut", input: "heart", found: true, action: ActionReact, seed: reaction.Heart},
		{name: "up shortcut", input: "up", found: true, action: ActionReact, seed: reaction.Up},
		{name: "wire id is not a command", input: "love", found: false},
		{name: "unknown", input: "play", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := Lookup(tt.input)
			require.Equal(t, tt.found, ok)
			if !tt.found {
				return
			}
			assert.Equal(t, tt.action, c.Action)
			assert.Equal(t, tt.seed, c.Seed)
			assert.Equal(t, tt.seed.Valid(), c.Shortcut())
		})
	}
}

func TestEveryKindHasShortcut(t *testing.T) {
	for _, k := range reaction.Kinds() {
		c, ok := Lookup(k.Name())
		require.True(t, ok, k.Name())
		assert.Equal(t, k, c.Seed)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		prefix string
		want   string
		args   string
		ok     bool
	}{
		{name: "discord prefix", text: "!r", prefix: "!", want: "r", ok: true},
		{name: "telegram with username", text: "/up@reaxnbot", prefix: "/", want: "up", ok: true},
		{name: "with arguments", text: "!s  please ", prefix: "!", want: "s", args: "please", ok: true},
		{name: "wrong prefix", text: "/r", prefix: "!", ok: false},
		{name: "unknown command", text: "!play x", prefix: "!", ok: false},
		{name: "plain text", text: "hello", prefix: "!", ok: false},
		{name: "empty prefix", text: "r", prefix: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, args, ok := Parse(tt.text, tt.prefix)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, c.Name)
				assert.Equal(t, tt.args, args)
			}
		})
	}
}

func TestHelpText(t *testing.T) {
	text := HelpText("/")
	for _, c := range All() {
		assert.True(t, strings.Contains(text, "/"+c.Name+" — "), c.Name)
	}
	assert.Contains(t, HelpText("!"), "!r — react to a message.")
}

func TestGuidanceTexts(t *testing.T) {
	react, _ := Lookup("r")
	show, _ := Lookup("s")
	up, _ := Lookup("up")

	assert.Equal(t, "You need to reply to a message with /r so I know which message you're reacting to.", MissingReplyText("/", react))
	assert.Equal(t, "You need to reply to a message with !up so I know which message you're reacting to.", MissingReplyText("!", up))
	assert.Equal(t, "You need to reply to a message with /s so I know which message you're asking about.", MissingReplyText("/", show))
	assert.Equal(t, "You can only use /s to reply to a reaction message.", NotReactionText("/"))
}

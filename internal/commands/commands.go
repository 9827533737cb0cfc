package commands

import (
	"strings"

	"github.com/latoulicious/Reaxn/pkg/reaction"
)

// Action is what a command asks the bot to do.
type Action int

const (
	ActionHelp Action = iota + 1
	ActionReact
	ActionSummary
)

// Command describes one user-facing command.
type Command struct {
	Name        string
	Description string
	Action      Action
	// Seed is the kind a shortcut command pre-votes for. Zero for plain /r.
	Seed reaction.Kind
}

// Shortcut reports whether the command seeds a vote.
func (c Command) Shortcut() bool {
	return c.Seed.Valid()
}

var table = buildTable()

func buildTable() []Command {
	cmds := []Command{
		{Name: "help", Description: "display this text.", Action: ActionHelp},
		{Name: "r", Description: "react to a message.", Action: ActionReact},
		{Name: "s", Description: "show who reacted to a reaction message.", Action: ActionSummary},
	}
	for _, k := range reaction.Kinds() {
		cmds = append(cmds, Command{
			Name:        k.Name(),
			Description: "react to a message with " + k.Glyph() + ".",
			Action:      ActionReact,
			Seed:        k,
		})
	}
	return cmds
}

// All returns every command in help order.
func All() []Command {
	out := make([]Command, len(table))
	copy(out, table)
	return out
}

// Lookup finds a command by name, ignoring case.
func Lookup(name string) (Command, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range table {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

// Parse splits a prefixed command line such as "!r" or "/up@reaxnbot extra"
// into the command and its arguments. It returns false when text does not
// start with prefix or names no known command.
func Parse(text, prefix string) (Command, string, bool) {
	if prefix == "" || !strings.HasPrefix(text, prefix) {
		return Command{}, "", false
	}
	head, args, _ := strings.Cut(strings.TrimPrefix(text, prefix), " ")
	// Telegram appends the bot username in groups.
	head, _, _ = strings.Cut(head, "@")
	cmd, ok := Lookup(head)
	if !ok {
		return Command{}, "", false
	}
	return cmd, strings.TrimSpace(args), true
}

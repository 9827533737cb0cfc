package commands

import (
	"fmt"
	"strings"
)

// HelpText lists every command using the platform's command prefix.
func HelpText(prefix string) string {
	var b strings.Builder
	b.WriteString("These commands are supported:\n")
	for _, c := range table {
		fmt.Fprintf(&b, "%s%s — %s\n", prefix, c.Name, c.Description)
	}
	b.WriteString("\nSend a command as a reply to the message it is about.")
	return b.String()
}

// MissingReplyText is the guidance sent when a command has no reply target.
func MissingReplyText(prefix string, c Command) string {
	if c.Action == ActionSummary {
		return fmt.Sprintf("You need to reply to a message with %s%s so I know which message you're asking about.", prefix, c.Name)
	}
	return fmt.Sprintf("You need to reply to a message with %s%s so I know which message you're reacting to.", prefix, c.Name)
}

// NotReactionText is the refusal sent when the summary target is not ours.
func NotReactionText(prefix string) string {
	return fmt.Sprintf("You can only use %ss to reply to a reaction message.", prefix)
}

package discord

import (
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/latoulicious/Reaxn/internal/bot"
	"github.com/latoulicious/Reaxn/pkg/reaction"
)

// buttonsPerRow keeps every action row under Discord's five-button limit.
const buttonsPerRow = 3

// maskedLink matches [label](url) and [label](<url>). The angle brackets
// suppress Discord's link preview.
var maskedLink = regexp.MustCompile(`\[([^\[\]]*)\]\(<?(https?://[^\s<>()]+)>?\)`)

// renderText lays content out as Discord markdown. The reaction state rides
// on a masked link whose label is the marker.
func renderText(c bot.Content) string {
	text := c.Text
	if c.State != nil {
		rest := strings.TrimPrefix(c.State.Text, reaction.Marker)
		text = "[" + reaction.Marker + "](<" + c.State.URL + ">)" + rest
	}
	if c.Italic && text != "" {
		text = "_" + text + "_"
	}
	return text
}

// parseText splits message markdown into its visible text and the targets
// of its masked links.
func parseText(content string) (string, []string) {
	var links []string
	for _, m := range maskedLink.FindAllStringSubmatch(content, -1) {
		links = append(links, m[2])
	}
	return maskedLink.ReplaceAllString(content, "$1"), links
}

func components(controls []reaction.Control) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	for _, row := range reaction.Rows(controls, buttonsPerRow) {
		buttons := make([]discordgo.MessageComponent, 0, len(row))
		for _, ctl := range row {
			buttons = append(buttons, discordgo.Button{
				Label:    ctl.Label,
				Style:    discordgo.SecondaryButton,
				CustomID: ctl.Payload,
			})
		}
		rows = append(rows, discordgo.ActionsRow{Components: buttons})
	}
	return rows
}

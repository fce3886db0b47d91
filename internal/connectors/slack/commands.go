package slack

import (
	"strings"

	"github.com/slack-go/slack"
)

// parseCommand maps a slash command to a registry name and its argument
// text. "/remember fact: likes telescopes" becomes ("remember", "likes
// telescopes"); the key prefix is optional.
func parseCommand(cmd slack.SlashCommand) (string, string) {
	name := strings.TrimPrefix(cmd.Command, "/")
	text := strings.TrimSpace(cmd.Text)

	var argKey string
	switch name {
	case "remember":
		argKey = "fact:"
	case "chat":
		argKey = "message:"
	}

	if argKey != "" && strings.HasPrefix(text, argKey) {
		text = strings.TrimSpace(strings.TrimPrefix(text, argKey))
	}
	return name, text
}

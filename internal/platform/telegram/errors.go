package telegram

import (
	"strings"

	"github.com/cockroachdb/errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/latoulicious/Reaxn/internal/bot"
)

// Telegram reports most failures as 400 with a free-form description, so
// classification matches known descriptions as well as codes.
var (
	permissionCodes = map[int]bool{
		401: true,
		403: true,
	}
	permissionPhrases = []string{
		"message can't be deleted",
		"not enough rights",
		"have no rights",
	}
	gonePhrases = []string{
		"message to edit not found",
		"message to delete not found",
		"message_id_invalid",
		"message can't be edited",
		"message identifier is not specified",
	}
	notModifiedPhrase = "message is not modified"
)

// classify marks Bot API errors with the bot error kinds. Errors outside
// the fixed sets are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	desc := strings.ToLower(apiErr.Message)
	if strings.Contains(desc, notModifiedPhrase) {
		return errors.Mark(err, bot.ErrNotModified)
	}
	for _, phrase := range gonePhrases {
		if strings.Contains(desc, phrase) {
			return errors.Mark(err, bot.ErrMessageGone)
		}
	}
	if permissionCodes[apiErr.Code] {
		return errors.Mark(err, bot.ErrPermissionDenied)
	}
	for _, phrase := range permissionPhrases {
		if strings.Contains(desc, phrase) {
			return errors.Mark(err, bot.ErrPermissionDenied)
		}
	}
	return err
}

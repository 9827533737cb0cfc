package discord

import (
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/cockroachdb/errors"

	"github.com/latoulicious/Reaxn/internal/bot"
)

// classify marks REST errors with the bot error kinds.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return err
	}

	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeMissingPermissions, discordgo.ErrCodeMissingAccess:
			return errors.Mark(err, bot.ErrPermissionDenied)
		case discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeUnknownChannel:
			return errors.Mark(err, bot.ErrMessageGone)
		}
	}
	if restErr.Response != nil {
		switch restErr.Response.StatusCode {
		case http.StatusForbidden:
			return errors.Mark(err, bot.ErrPermissionDenied)
		case http.StatusNotFound:
			return errors.Mark(err, bot.ErrMessageGone)
		}
	}
	return err
}

package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/latoulicious/Reaxn/internal/platform/telegram"
)

// ServeTelegram feeds updates to d until ctx ends or updates closes.
func ServeTelegram(ctx context.Context, d *Dispatcher, updates <-chan tgbotapi.Update, self tgbotapi.User) {
	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			ev, ok := telegram.EventFromUpdate(u, self)
			if !ok {
				d.log.Trace().Int("update_id", u.UpdateID).Msg("skipping update")
				continue
			}
			d.Dispatch(ctx, ev)
		}
	}
}

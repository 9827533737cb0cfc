package telegram

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const pollTimeout = 60

var allowedUpdates = []string{"message", "callback_query", "inline_query"}

// UpdatesConfig selects how updates are received. An empty WebhookURL
// means long polling.
type UpdatesConfig struct {
	WebhookURL string
	ListenAddr string
}

// Updates opens the update stream. The returned stop func ends delivery;
// the channel is not closed in webhook mode.
func (c *Client) Updates(ctx context.Context, cfg UpdatesConfig) (tgbotapi.UpdatesChannel, func(context.Context) error, error) {
	if cfg.WebhookURL == "" {
		return c.poll(ctx)
	}
	return c.webhook(ctx, cfg)
}

func (c *Client) poll(ctx context.Context) (tgbotapi.UpdatesChannel, func(context.Context) error, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	// A registered webhook blocks getUpdates.
	if _, err := c.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return nil, nil, errors.Wrap(err, "removing webhook")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	u.AllowedUpdates = allowedUpdates
	updates := c.api.GetUpdatesChan(u)
	c.log.Info().Msg("receiving updates by long polling")

	stop := func(context.Context) error {
		c.api.StopReceivingUpdates()
		return nil
	}
	return updates, stop, nil
}

func (c *Client) webhook(ctx context.Context, cfg UpdatesConfig) (tgbotapi.UpdatesChannel, func(context.Context) error, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	endpoint, err := url.Parse(cfg.WebhookURL)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "invalid webhook url %q", cfg.WebhookURL)
	}

	wh, err := tgbotapi.NewWebhook(cfg.WebhookURL)
	if err != nil {
		return nil, nil, errors.Wrap(err, "building webhook")
	}
	wh.AllowedUpdates = allowedUpdates
	if _, err := c.api.Request(wh); err != nil {
		return nil, nil, errors.Wrap(err, "registering webhook")
	}

	updates := make(chan tgbotapi.Update, c.api.Buffer)
	path := endpoint.Path
	if path == "" {
		path = "/"
	}
	mux := http.NewServeMux()
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		update, err := c.api.HandleUpdate(r)
		if err != nil {
			c.log.Warn().Err(err).Msg("rejecting webhook request")
			http.Error(w, "bad update", http.StatusBadRequest)
			return
		}
		select {
		case updates <- *update:
		case <-r.Context().Done():
		}
	})

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.log.Error().Err(err).Str("addr", cfg.ListenAddr).Msg("webhook server stopped")
		}
	}()
	c.log.Info().Str("addr", cfg.ListenAddr).Str("path", path).Msg("receiving updates by webhook")

	return updates, server.Shutdown, nil
}

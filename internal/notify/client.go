package notify

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// PhotoClient is the part of the Telegram client the sender uses.
type PhotoClient interface {
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
}

// ClientFactory builds a client for one delivery.
type ClientFactory func(cfg Config) (PhotoClient, error)

// pollTimeout only matters for getUpdates, which the sender never calls.
const pollTimeout = time.Minute

// newHTTPClient returns the client used for uploads. It has no timeout:
// a send is bounded by the caller's context only.
func newHTTPClient() *http.Client {
	return &http.Client{}
}

// NewBotClient creates a go-telegram client for cfg.
// The getMe handshake is skipped so a delivery costs exactly one request.
func NewBotClient(cfg Config) (PhotoClient, error) {
	opts := []bot.Option{
		bot.WithSkipGetMe(),
		bot.WithHTTPClient(pollTimeout, newHTTPClient()),
	}
	if cfg.ServerURL != "" {
		opts = append(opts, bot.WithServerURL(strings.TrimRight(cfg.ServerURL, "/")))
	}
	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// isTelegramError reports whether err was returned by the Bot API itself
// rather than by the transport.
func isTelegramError(err error) bool {
	return errors.Is(err, bot.ErrorBadRequest) ||
		errors.Is(err, bot.ErrorForbidden) ||
		errors.Is(err, bot.ErrorUnauthorized) ||
		errors.Is(err, bot.ErrorNotFound) ||
		errors.Is(err, bot.ErrorConflict)
}

func isChatNotFound(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "chat not found")
}

package notify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/sirupsen/logrus"

	"github.com/cjeanneret/BoothGo/internal/debug"
)

// chatNotFoundHints are attached to the error entry when Telegram cannot
// resolve the chat id.
var chatNotFoundHints = []string{
	"the bot must be added to the group or channel",
	"for a group, the id starts with '-' (e.g. -123456789)",
	"for a channel, use '@channel_name' or add the bot as admin",
	"for a private chat, use the user's numeric id",
}

// Sender delivers photo notifications.
// A Sender holds no connection: every call builds its own client.
type Sender struct {
	log       logrus.FieldLogger
	newClient ClientFactory
}

// Option customizes a Sender.
type Option func(*Sender)

// WithLogger replaces the default "notify" component logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Sender) { s.log = l }
}

// WithClientFactory replaces the go-telegram client factory.
func WithClientFactory(f ClientFactory) Option {
	return func(s *Sender) { s.newClient = f }
}

// NewSender creates a Sender.
func NewSender(opts ...Option) *Sender {
	s := &Sender{
		log:       debug.Component("notify"),
		newClient: NewBotClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendPhotoNotification sends photoPath with the default sender.
func SendPhotoNotification(ctx context.Context, photoPath string, cfg Config, photoType string) Status {
	return NewSender().SendPhotoNotification(ctx, photoPath, cfg, photoType)
}

// SendPhotoNotification posts the photo at photoPath to the configured chat.
// It blocks until Telegram answers. Failures are logged, never returned.
func (s *Sender) SendPhotoNotification(ctx context.Context, photoPath string, cfg Config, photoType string) Status {
	if !cfg.NotificationEnabled {
		return StatusSkipped
	}
	if strings.TrimSpace(cfg.BotToken) == "" || strings.TrimSpace(cfg.ChatID) == "" {
		s.log.Warn(ErrConfigIncomplete.Error())
		return StatusSkipped
	}

	chatID := NormalizeChatID(cfg.ChatID)
	log := s.log.WithFields(logrus.Fields{
		"photo":      photoPath,
		"photo_type": photoType,
		"chat_id":    chatID,
	})
	log.Info("sending photo to telegram")

	if err := s.deliver(ctx, photoPath, cfg, chatID); err != nil {
		report(log, redactToken(err, cfg.BotToken))
		return StatusFailed
	}

	log.Info("photo sent")
	return StatusSent
}

// deliver performs the single sendPhoto request.
func (s *Sender) deliver(ctx context.Context, photoPath string, cfg Config, chatID string) error {
	client, err := s.newClient(cfg)
	if err != nil {
		return fmt.Errorf("create telegram client: %w", err)
	}

	f, err := os.Open(photoPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPhotoIO, err)
	}
	defer f.Close()

	_, err = client.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileUpload{Filename: filepath.Base(photoPath), Data: f},
		Caption: Caption,
	})
	switch {
	case err == nil:
		return nil
	case isChatNotFound(err):
		return fmt.Errorf("%w: %w", ErrChatNotFound, err)
	case isTelegramError(err):
		return fmt.Errorf("%w: %w", ErrRemoteService, err)
	default:
		return fmt.Errorf("send photo: %w", err)
	}
}

func report(log logrus.FieldLogger, err error) {
	switch {
	case errors.Is(err, ErrChatNotFound):
		log.WithError(err).WithField("hints", chatNotFoundHints).Error("telegram chat not found")
	case errors.Is(err, ErrRemoteService):
		log.WithError(err).Error("telegram error")
	case errors.Is(err, ErrPhotoIO):
		log.WithError(err).Error("cannot read photo")
	default:
		log.WithError(err).Error("sending photo failed")
	}
}

// tokenError hides the bot token in the message of a wrapped error.
// Transport errors carry the request URL, which embeds the token.
type tokenError struct {
	err    error
	token  string
	masked string
}

func (e *tokenError) Error() string {
	return strings.ReplaceAll(e.err.Error(), e.token, e.masked)
}

func (e *tokenError) Unwrap() error { return e.err }

func redactToken(err error, token string) error {
	token = strings.TrimSpace(token)
	if err == nil || token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return &tokenError{err: err, token: token, masked: maskToken(token)}
}

// maskToken keeps the first five characters of the token.
func maskToken(token string) string {
	if len(token) > 5 {
		return token[:5] + "***"
	}
	return "***"
}

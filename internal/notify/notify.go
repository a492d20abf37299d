// Package notify posts captured photos to a Telegram chat.
//
// Delivery is fire-and-log: every failure is classified, logged and
// swallowed, and the caller only gets a Status back.
package notify

import (
	"errors"
	"strings"
	"unicode"
)

// Caption is attached to every photo.
const Caption = "📸 Nouvelle photo du photobooth!"

// Config holds the notification options supplied by the host application.
type Config struct {
	NotificationEnabled bool   `yaml:"notification_enabled"`
	BotToken            string `yaml:"bot_token"`
	ChatID              string `yaml:"chat_id"`
	ServerURL           string `yaml:"server_url,omitempty"` // Bot API base URL, empty for api.telegram.org
}

var (
	ErrConfigIncomplete = errors.New("notification config incomplete (bot token or chat id missing)")
	ErrChatNotFound     = errors.New("telegram chat not found")
	ErrRemoteService    = errors.New("telegram service error")
	ErrPhotoIO          = errors.New("photo not readable")
)

// Status reports what happened to a notification.
type Status int

const (
	StatusSkipped Status = iota // disabled or incomplete config, nothing sent
	StatusSent
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSkipped:
		return "skipped"
	case StatusSent:
		return "sent"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// NormalizeChatID trims id and turns a bare name into a channel handle.
// Numeric, group (leading '-') and '@' prefixed ids are returned unchanged.
func NormalizeChatID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.HasPrefix(id, "@") {
		return id
	}
	first := []rune(id)[0]
	if unicode.IsLetter(first) {
		return "@" + id
	}
	return id
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the YAML file.
const (
	EnvBotToken            = "TELEGRAM_BOT_TOKEN"
	EnvChatID              = "TELEGRAM_CHAT_ID"
	EnvNotificationEnabled = "PHOTOBOOTH_NOTIFICATION_ENABLED"
)

// Camera types.
const (
	CameraNone = "none"
	CameraUSB  = "usb"
)

// NotificationConfig holds the Telegram delivery settings.
type NotificationConfig struct {
	NotificationEnabled bool   `yaml:"notification_enabled"`
	BotToken            string `yaml:"bot_token"`
	ChatID              string `yaml:"chat_id"`    // numeric id, -group id, @channel or bare channel name
	ServerURL           string `yaml:"server_url"` // optional self-hosted Bot API server
}

// CameraConfig selects a camera implementation.
type CameraConfig struct {
	Type  string `yaml:"type"`  // "none" or "usb"
	Index int    `yaml:"index"` // USB camera index
}

// WatchConfig describes the directory where the photobooth drops new photos.
type WatchConfig struct {
	Dir           string   `yaml:"dir"`             // empty = watcher disabled
	Extensions    []string `yaml:"extensions"`      // accepted file extensions
	SettleDelayMs *int     `yaml:"settle_delay_ms"` // wait after creation before sending; nil = default
	PhotoType     string   `yaml:"photo_type"`      // e.g., "photo", "gif"
}

// LogConfig holds logging parameters.
type LogConfig struct {
	DebugLevel int    `yaml:"debug_level"` // debug level 0-4 (0=errors, 1=info, 2=live, 3=verbose, 4=trace)
	Format     string `yaml:"format"`      // "text" or "json"
	Output     string `yaml:"output"`      // "stdout", "stderr" or file path
	Rotation   bool   `yaml:"rotation"`    // rotate file output
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Config aggregates all application configuration.
type Config struct {
	Notification NotificationConfig `yaml:"notification"`
	Camera       CameraConfig       `yaml:"camera"`
	Watch        WatchConfig        `yaml:"watch"`
	Log          LogConfig          `yaml:"log"`
}

// DefaultExtensions are the photo extensions watched when none are configured.
var DefaultExtensions = []string{".jpg", ".jpeg", ".png"}

// DefaultSettleDelayMs lets the writer finish the file when settle_delay_ms is absent.
const DefaultSettleDelayMs = 500

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML content, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := Config{
		Log: LogConfig{DebugLevel: 1},
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() error {
	// Camera
	c.Camera.Type = strings.ToLower(strings.TrimSpace(c.Camera.Type))
	if c.Camera.Type == "" {
		c.Camera.Type = CameraNone
	}
	if c.Camera.Type != CameraNone && c.Camera.Type != CameraUSB {
		return fmt.Errorf("unsupported camera type: %s", c.Camera.Type)
	}
	if c.Camera.Index < 0 {
		return fmt.Errorf("camera.index must be >= 0, got %d", c.Camera.Index)
	}

	// Watch
	if len(c.Watch.Extensions) == 0 {
		c.Watch.Extensions = append([]string(nil), DefaultExtensions...)
	}
	for i, ext := range c.Watch.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			return fmt.Errorf("watch.extensions[%d] is empty", i)
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Watch.Extensions[i] = ext
	}
	if c.Watch.SettleDelayMs == nil {
		ms := DefaultSettleDelayMs
		c.Watch.SettleDelayMs = &ms
	}
	if *c.Watch.SettleDelayMs < 0 {
		return fmt.Errorf("watch.settle_delay_ms must be >= 0, got %d", *c.Watch.SettleDelayMs)
	}
	if c.Watch.PhotoType == "" {
		c.Watch.PhotoType = "photo"
	}

	// Log
	if c.Log.DebugLevel < 0 || c.Log.DebugLevel > 4 {
		return fmt.Errorf("log.debug_level must be between 0 and 4, got %d", c.Log.DebugLevel)
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = 100
	}
	if c.Log.MaxBackups <= 0 {
		c.Log.MaxBackups = 3
	}
	if c.Log.MaxAgeDays <= 0 {
		c.Log.MaxAgeDays = 28
	}
	return nil
}

// ApplyEnv loads envFile (if not empty) into the process environment and
// lets the environment override notification settings.
// Variables already set in the environment win over the file.
func ApplyEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
	}

	if v := os.Getenv(EnvBotToken); v != "" {
		cfg.Notification.BotToken = v
	}
	if v := os.Getenv(EnvChatID); v != "" {
		cfg.Notification.ChatID = v
	}
	if v := os.Getenv(EnvNotificationEnabled); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvNotificationEnabled, err)
		}
		cfg.Notification.NotificationEnabled = enabled
	}
	return nil
}

// SettleDelay returns the wait between file creation and sending.
func (c *Config) SettleDelay() time.Duration {
	if c.Watch.SettleDelayMs == nil {
		return DefaultSettleDelayMs * time.Millisecond
	}
	return time.Duration(*c.Watch.SettleDelayMs) * time.Millisecond
}

// WatchEnabled reports whether a watch directory is configured.
func (c *Config) WatchEnabled() bool {
	return c.Watch.Dir != ""
}

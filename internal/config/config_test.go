package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeConfig creates a temporary configs/ dir with the given YAML content and returns the path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "configs")
	if err := os.Mkdir(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfgDir, "test.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validYAML = `
notification:
  notification_enabled: true
  bot_token: "123456:ABC-DEF"
  chat_id: "mychannel"
camera:
  type: "usb"
  index: 2
watch:
  dir: "/srv/photobooth/photos"
  extensions: ["JPG", ".png"]
  settle_delay_ms: 250
  photo_type: "gif"
log:
  debug_level: 3
  format: "json"
  output: "/var/log/boothgo.log"
  rotation: true
  max_size_mb: 10
  max_backups: 5
  max_age_days: 7
  compress: true
`

// ---------- Load ----------

func TestLoad_ValidFullConfig(t *testing.T) {
	path := writeConfig(t, validYAML)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Notification.NotificationEnabled {
		t.Error("notification_enabled should be true")
	}
	if cfg.Notification.BotToken != "123456:ABC-DEF" {
		t.Errorf("bot_token = %q", cfg.Notification.BotToken)
	}
	if cfg.Notification.ChatID != "mychannel" {
		t.Errorf("chat_id = %q, want raw value (normalized at send time)", cfg.Notification.ChatID)
	}
	if cfg.Camera.Type != CameraUSB || cfg.Camera.Index != 2 {
		t.Errorf("camera = %+v, want usb/2", cfg.Camera)
	}
	if cfg.Watch.Dir != "/srv/photobooth/photos" {
		t.Errorf("watch.dir = %q", cfg.Watch.Dir)
	}
	if got := cfg.Watch.Extensions; len(got) != 2 || got[0] != ".jpg" || got[1] != ".png" {
		t.Errorf("watch.extensions = %v, want [.jpg .png]", got)
	}
	if cfg.SettleDelay() != 250*time.Millisecond {
		t.Errorf("SettleDelay() = %v, want 250ms", cfg.SettleDelay())
	}
	if cfg.Watch.PhotoType != "gif" {
		t.Errorf("photo_type = %q, want gif", cfg.Watch.PhotoType)
	}
	if cfg.Log.DebugLevel != 3 || cfg.Log.Format != "json" || !cfg.Log.Rotation {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.Log.MaxSizeMB != 10 || cfg.Log.MaxBackups != 5 || cfg.Log.MaxAgeDays != 7 {
		t.Errorf("log rotation = %+v", cfg.Log)
	}
	if !cfg.WatchEnabled() {
		t.Error("WatchEnabled() should be true")
	}
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, "")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Notification.NotificationEnabled {
		t.Error("notifications should be disabled by default")
	}
	if cfg.Camera.Type != CameraNone {
		t.Errorf("camera.type = %q, want %q", cfg.Camera.Type, CameraNone)
	}
	if len(cfg.Watch.Extensions) != len(DefaultExtensions) {
		t.Errorf("watch.extensions = %v, want %v", cfg.Watch.Extensions, DefaultExtensions)
	}
	if cfg.SettleDelay() != 500*time.Millisecond {
		t.Errorf("SettleDelay() = %v, want 500ms", cfg.SettleDelay())
	}
	if cfg.Watch.PhotoType != "photo" {
		t.Errorf("photo_type = %q, want photo", cfg.Watch.PhotoType)
	}
	if cfg.Log.DebugLevel != 1 {
		t.Errorf("debug_level = %d, want 1", cfg.Log.DebugLevel)
	}
	if cfg.Log.Format != "text" || cfg.Log.Output != "stdout" {
		t.Errorf("log = %+v, want text/stdout", cfg.Log)
	}
	if cfg.WatchEnabled() {
		t.Error("WatchEnabled() should be false without watch.dir")
	}
}

func TestLoad_DefaultExtensionsNotShared(t *testing.T) {
	cfg, err := Parse([]byte(""))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Watch.Extensions[0] = ".gif"
	if DefaultExtensions[0] != ".jpg" {
		t.Error("modifying a config must not modify DefaultExtensions")
	}
}

func TestLoad_DebugLevelZeroKept(t *testing.T) {
	cfg, err := Parse([]byte("log:\n  debug_level: 0\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log.DebugLevel != 0 {
		t.Errorf("debug_level = %d, want 0", cfg.Log.DebugLevel)
	}
}

func TestLoad_SettleDelayZeroKept(t *testing.T) {
	cfg, err := Parse([]byte("watch:\n  settle_delay_ms: 0\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SettleDelay() != 0 {
		t.Errorf("SettleDelay() = %v, want 0", cfg.SettleDelay())
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"camera_type", "camera:\n  type: webcam\n"},
		{"camera_index", "camera:\n  index: -1\n"},
		{"settle_delay", "watch:\n  settle_delay_ms: -5\n"},
		{"empty_extension", "watch:\n  extensions: [\"\"]\n"},
		{"debug_level_high", "log:\n  debug_level: 5\n"},
		{"debug_level_negative", "log:\n  debug_level: -1\n"},
		{"log_format", "log:\n  format: xml\n"},
		{"bad_yaml", "notification: [\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.yaml)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file, got nil")
	}
}

func TestLoad_CameraTypeCaseInsensitive(t *testing.T) {
	cfg, err := Parse([]byte("camera:\n  type: \" USB \"\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Camera.Type != CameraUSB {
		t.Errorf("camera.type = %q, want %q", cfg.Camera.Type, CameraUSB)
	}
}

// ---------- ApplyEnv ----------

func TestApplyEnv_EnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvBotToken, "999:env-token")
	t.Setenv(EnvChatID, "-100200300")
	t.Setenv(EnvNotificationEnabled, "true")

	cfg, err := Parse([]byte("notification:\n  bot_token: file-token\n  chat_id: file-chat\n"))
	if err != nil {
		t.Fatal(err)
	}
	if err := ApplyEnv(cfg, ""); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Notification.BotToken != "999:env-token" {
		t.Errorf("bot_token = %q, want env value", cfg.Notification.BotToken)
	}
	if cfg.Notification.ChatID != "-100200300" {
		t.Errorf("chat_id = %q, want env value", cfg.Notification.ChatID)
	}
	if !cfg.Notification.NotificationEnabled {
		t.Error("notification_enabled should be enabled by env")
	}
}

func TestApplyEnv_UnsetKeepsFileValues(t *testing.T) {
	t.Setenv(EnvBotToken, "")
	t.Setenv(EnvChatID, "")
	t.Setenv(EnvNotificationEnabled, "")

	cfg, err := Parse([]byte("notification:\n  notification_enabled: true\n  bot_token: file-token\n  chat_id: file-chat\n"))
	if err != nil {
		t.Fatal(err)
	}
	if err := ApplyEnv(cfg, ""); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Notification.BotToken != "file-token" || cfg.Notification.ChatID != "file-chat" {
		t.Errorf("notification = %+v, want file values", cfg.Notification)
	}
	if !cfg.Notification.NotificationEnabled {
		t.Error("notification_enabled should keep file value")
	}
}

func TestApplyEnv_DotenvFile(t *testing.T) {
	t.Setenv(EnvBotToken, "")
	t.Setenv(EnvChatID, "")
	t.Setenv(EnvNotificationEnabled, "")
	// godotenv.Load only sets variables that are not already present.
	os.Unsetenv(EnvBotToken)
	os.Unsetenv(EnvChatID)
	os.Unsetenv(EnvNotificationEnabled)

	envFile := filepath.Join(t.TempDir(), "boothgo.env")
	content := EnvBotToken + "=555:dotenv\n" + EnvChatID + "=@booth\n" + EnvNotificationEnabled + "=1\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := ApplyEnv(cfg, envFile); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Notification.BotToken != "555:dotenv" || cfg.Notification.ChatID != "@booth" {
		t.Errorf("notification = %+v, want dotenv values", cfg.Notification)
	}
	if !cfg.Notification.NotificationEnabled {
		t.Error("notification_enabled should be enabled by dotenv")
	}
}

func TestApplyEnv_MissingDotenvFile(t *testing.T) {
	cfg, _ := Parse(nil)
	if err := ApplyEnv(cfg, filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("expected error for missing env file, got nil")
	}
}

func TestApplyEnv_InvalidBool(t *testing.T) {
	t.Setenv(EnvNotificationEnabled, "maybe")
	cfg, _ := Parse(nil)
	if err := ApplyEnv(cfg, ""); err == nil {
		t.Error("expected error for invalid boolean, got nil")
	}
}

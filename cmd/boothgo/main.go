package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/cjeanneret/BoothGo/internal/config"
	"github.com/cjeanneret/BoothGo/internal/debug"
	"github.com/cjeanneret/BoothGo/internal/hw/camera"
	"github.com/cjeanneret/BoothGo/internal/notify"
	"github.com/cjeanneret/BoothGo/internal/watch"
)

func main() {
	// CLI flags
	debugLevel := &debugLevelFlag{val: -1}
	flag.Var(debugLevel, "debug_level", "override debug level (0-4)")
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	envFile := flag.String("env", "", "dotenv file providing TELEGRAM_BOT_TOKEN / TELEGRAM_CHAT_ID")
	photoPath := flag.String("photo", "", "send this photo once and exit")
	photoType := flag.String("photo_type", "", "override photo type (e.g. photo, gif)")
	watchDir := flag.String("watch", "", "override watch directory")
	chatID := flag.String("chat_id", "", "override Telegram chat id")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logrus.Fatalf("load config failed: %v", err)
	}
	if err := config.ApplyEnv(cfg, *envFile); err != nil {
		logrus.Fatalf("load environment failed: %v", err)
	}

	// Apply CLI overrides to config
	applyOverrides(cfg, overrides{
		ChatID:     *chatID,
		WatchDir:   *watchDir,
		PhotoType:  *photoType,
		DebugLevel: debugLevel.level(),
	})

	// Initialize logging
	if err := debug.Setup(logOptions(cfg)); err != nil {
		logrus.Fatalf("init logging failed: %v", err)
	}
	debug.Section("Initialization")
	debug.Value("config_path", *cfgPath)
	debug.Value("debug_level", cfg.Log.DebugLevel)
	debug.Value("notification_enabled", cfg.Notification.NotificationEnabled)

	// Cameras are reported for callers that still probe them; photos come from disk.
	debug.Step(1, "Detecting cameras")
	cams := camera.Detect()
	debug.Verbose("Detected %d camera(s)", len(cams))
	if _, err := newCameraFromConfig(cfg); err != nil {
		debug.Info("Camera unavailable: %v", err)
	}

	debug.Step(2, "Preparing notification sender")
	sender := notify.NewSender()
	notifyCfg := notificationConfig(cfg)

	switch {
	case *photoPath != "":
		status := sender.SendPhotoNotification(ctx, *photoPath, notifyCfg, cfg.Watch.PhotoType)
		debug.Info("Notification %s", status)
		cancel()
		os.Exit(exitCode(status))

	case cfg.WatchEnabled():
		debug.Step(3, "Starting photo watcher")
		w, err := watch.New(cfg.Watch.Dir, cfg.Watch.Extensions, cfg.SettleDelay())
		if err != nil {
			logrus.Fatalf("start watcher failed: %v", err)
		}
		defer func() {
			if err := w.Close(); err != nil {
				debug.Error(fmt.Errorf("closing watcher failed: %w", err))
			}
		}()
		sent := runWatch(ctx, w.Photos(), func(path string) notify.Status {
			return sender.SendPhotoNotification(ctx, path, notifyCfg, cfg.Watch.PhotoType)
		})
		debug.Info("Watcher stopped, %d photo(s) sent", sent)

	default:
		debug.Info("Nothing to do: pass -photo or set watch.dir")
	}
}

// runWatch sends every photo received on photos until ctx is cancelled
// or the channel closes. It returns the number of photos sent.
func runWatch(ctx context.Context, photos <-chan string, send func(path string) notify.Status) int {
	sent := 0
	for {
		select {
		case <-ctx.Done():
			return sent
		case path, ok := <-photos:
			if !ok {
				return sent
			}
			if send(path) == notify.StatusSent {
				sent++
			}
		}
	}
}

// overrides holds values given on the command line. Zero values mean "use config".
type overrides struct {
	ChatID     string
	WatchDir   string
	PhotoType  string
	DebugLevel int // -1 = use config
}

// applyOverrides mutates cfg with overrides. Only non-zero override values are applied.
func applyOverrides(cfg *config.Config, o overrides) {
	if o.ChatID != "" {
		cfg.Notification.ChatID = o.ChatID
	}
	if o.WatchDir != "" {
		cfg.Watch.Dir = o.WatchDir
	}
	if o.PhotoType != "" {
		cfg.Watch.PhotoType = o.PhotoType
	}
	if o.DebugLevel >= 0 {
		cfg.Log.DebugLevel = o.DebugLevel
	}
}

func notificationConfig(cfg *config.Config) notify.Config {
	return notify.Config{
		NotificationEnabled: cfg.Notification.NotificationEnabled,
		BotToken:            cfg.Notification.BotToken,
		ChatID:              cfg.Notification.ChatID,
		ServerURL:           cfg.Notification.ServerURL,
	}
}

func logOptions(cfg *config.Config) debug.Options {
	return debug.Options{
		Level:      cfg.Log.DebugLevel,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		Rotate:     cfg.Log.Rotation,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	}
}

// exitCode maps a single-shot notification status to a process exit code.
func exitCode(s notify.Status) int {
	if s == notify.StatusFailed {
		return 1
	}
	return 0
}

// debugLevelFlag implements flag.Value for -debug_level: unset = -1, otherwise 0-4.
type debugLevelFlag struct {
	val int
}

func (d *debugLevelFlag) String() string {
	return strconv.Itoa(d.val)
}

func (d *debugLevelFlag) Set(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v < debug.LevelQuiet || v > debug.LevelTrace {
		return fmt.Errorf("debug level must be 0-4, got %d", v)
	}
	d.val = v
	return nil
}

func (d *debugLevelFlag) level() int { return d.val }

// newCameraFromConfig selects a camera implementation based on configuration.
// It returns a nil camera when none is configured.
func newCameraFromConfig(cfg *config.Config) (camera.Camera, error) {
	switch cfg.Camera.Type {
	case config.CameraNone:
		return nil, nil
	case config.CameraUSB:
		cam, err := camera.OpenUSB(cfg.Camera.Index)
		if err != nil {
			return nil, err
		}
		return cam, nil
	default:
		return nil, fmt.Errorf("unsupported camera type: %s", cfg.Camera.Type)
	}
}

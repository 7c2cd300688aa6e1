package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/atomicstack/tmux-reminder-popup/internal/alert"
	"github.com/atomicstack/tmux-reminder-popup/internal/app"
	"github.com/atomicstack/tmux-reminder-popup/internal/reminder"
)

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, []string{"HOME=/home/rem"})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.App.Store != app.StoreSQLite || cfg.App.Channel != app.ChannelHTTP {
		t.Fatalf("unexpected backends %q/%q", cfg.App.Store, cfg.App.Channel)
	}
	want := filepath.Join("/home/rem", ".local", "share", "tmux-reminder-popup", "reminders.db")
	if cfg.App.DBPath != want {
		t.Fatalf("expected db %q, got %q", want, cfg.App.DBPath)
	}
	if !cfg.App.Sound || cfg.App.Volume != alert.DefaultVolume {
		t.Fatalf("expected chime on at default volume, got %v/%v", cfg.App.Sound, cfg.App.Volume)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadArgsEnvironmentFallbacks(t *testing.T) {
	env := []string{
		"TMUX_REMINDER_POPUP_WINDOW_ID=@12",
		"TMUX_REMINDER_POPUP_STORE=redis",
		"TMUX_REMINDER_POPUP_REDIS_URL=redis://cache:6379/2",
		"TMUX_REMINDER_POPUP_WIDTH=72",
		"TMUX_REMINDER_POPUP_SOUND=false",
		"TMUX_REMINDER_POPUP_TRACE=1",
		"XDG_DATA_HOME=/data",
	}
	cfg, err := LoadArgs(nil, env)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.App.WindowID != "@12" || cfg.App.Store != "redis" || cfg.App.RedisURL != "redis://cache:6379/2" {
		t.Fatalf("unexpected app config %#v", cfg.App)
	}
	if cfg.App.Width != 72 || cfg.App.Sound {
		t.Fatalf("expected width 72 and sound off, got %#v", cfg.App)
	}
	if !cfg.Logging.Trace {
		t.Fatalf("expected trace enabled from env")
	}
	if cfg.App.DBPath != filepath.Join("/data", "tmux-reminder-popup", "reminders.db") {
		t.Fatalf("unexpected db path %q", cfg.App.DBPath)
	}
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	args := []string{"--window-id", "@3", "--channel", "REDIS", "--queue", "q1", "--height", "10"}
	cfg, err := LoadArgs(args, []string{"TMUX_REMINDER_POPUP_WINDOW_ID=@12"})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.App.WindowID != "@3" || cfg.App.Channel != "redis" || cfg.App.Queue != "q1" || cfg.App.Height != 10 {
		t.Fatalf("unexpected app config %#v", cfg.App)
	}
	if cfg.Flags["windowId"] != "@3" || cfg.Flags["height"] != "10" {
		t.Fatalf("unexpected flags %#v", cfg.Flags)
	}
	if len(cfg.Args) != len(args) {
		t.Fatalf("expected args recorded, got %#v", cfg.Args)
	}
}

func TestLoadArgsRejectsNegativeWidth(t *testing.T) {
	if _, err := LoadArgs([]string{"--width", "-1"}, nil); err == nil {
		t.Fatalf("expected error for negative width")
	}
}

func TestLoadArgsRejectsUnknownFlag(t *testing.T) {
	if _, err := LoadArgs([]string{"--bogus"}, nil); err == nil {
		t.Fatalf("expected error for unknown flag")
	}
}

func TestInvalidEnvNumbersFallBack(t *testing.T) {
	cfg, err := LoadArgs(nil, []string{"TMUX_REMINDER_POPUP_HEIGHT=tall", "TMUX_REMINDER_POPUP_VOLUME=loud"})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.App.Height != 0 || cfg.App.Volume != alert.DefaultVolume {
		t.Fatalf("expected fallbacks, got %#v", cfg.App)
	}
}

func TestValidateRejectsUnknownStore(t *testing.T) {
	cfg, err := LoadArgs([]string{"--store", "etcd"}, nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	err = Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "--store must be one of sqlite, redis") {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestValidateRequiresEndpointForHTTP(t *testing.T) {
	cfg, err := LoadArgs([]string{"--endpoint", ""}, nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	err = Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "--endpoint is required when --channel=http") {
		t.Fatalf("expected endpoint error, got %v", err)
	}
}

func TestValidateRequiresQueueForRedisChannel(t *testing.T) {
	cfg, err := LoadArgs([]string{"--channel", "redis", "--queue", ""}, nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	err = Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "--queue is required when --channel=redis") {
		t.Fatalf("expected queue error, got %v", err)
	}
}

func TestValidateRejectsVolumeAboveOne(t *testing.T) {
	cfg, err := LoadArgs([]string{"--volume", "1.5"}, nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	err = Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "--volume must be <= 1") {
		t.Fatalf("expected volume error, got %v", err)
	}
}

func TestTimeFormatFlag(t *testing.T) {
	cfg, err := LoadArgs(nil, nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.App.TimeLayout != reminder.DefaultTimeLayout {
		t.Fatalf("expected default layout, got %q", cfg.App.TimeLayout)
	}
	cfg, err = LoadArgs([]string{"--time-format", "02.01.2006 15:04"}, []string{"TMUX_REMINDER_POPUP_TIME_FORMAT=15:04"})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.App.TimeLayout != "02.01.2006 15:04" || cfg.Flags["timeFormat"] != "02.01.2006 15:04" {
		t.Fatalf("expected flag to win, got %q", cfg.App.TimeLayout)
	}
}

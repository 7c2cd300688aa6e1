package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atomicstack/tmux-reminder-popup/internal/alert"
	"github.com/atomicstack/tmux-reminder-popup/internal/app"
	"github.com/atomicstack/tmux-reminder-popup/internal/reminder"
	"github.com/go-playground/validator/v10"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envWindowID = "TMUX_REMINDER_POPUP_WINDOW_ID"
	envSocket   = "TMUX_REMINDER_POPUP_SOCKET"
	envStore    = "TMUX_REMINDER_POPUP_STORE"
	envDB       = "TMUX_REMINDER_POPUP_DB"
	envRedisURL = "TMUX_REMINDER_POPUP_REDIS_URL"
	envChannel  = "TMUX_REMINDER_POPUP_CHANNEL"
	envEndpoint = "TMUX_REMINDER_POPUP_ENDPOINT"
	envQueue    = "TMUX_REMINDER_POPUP_QUEUE"
	envWidth    = "TMUX_REMINDER_POPUP_WIDTH"
	envHeight   = "TMUX_REMINDER_POPUP_HEIGHT"
	envSound    = "TMUX_REMINDER_POPUP_SOUND"
	envVolume   = "TMUX_REMINDER_POPUP_VOLUME"
	envNotify   = "TMUX_REMINDER_POPUP_NOTIFY"
	envTimeFmt  = "TMUX_REMINDER_POPUP_TIME_FORMAT"
	envTrace    = "TMUX_REMINDER_POPUP_TRACE"
	envLogFile  = "TMUX_REMINDER_POPUP_LOG_FILE"

	defaultRedisURL = "redis://127.0.0.1:6379/0"
	defaultEndpoint = "http://127.0.0.1:7377/reminder/action"
	defaultQueue    = "tmux-reminder:actions"
)

var validate = validator.New()

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("tmux-reminder-popup", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	windowID := fs.String("window-id", envOrDefault(env, envWindowID, ""), "tmux window id whose reminder to show (defaults to the launching pane's window)")
	socket := fs.String("socket", envOrDefault(env, envSocket, ""), "path to the tmux socket (overrides environment detection)")
	storeKind := fs.String("store", envOrDefault(env, envStore, app.StoreSQLite), "record store backend: sqlite or redis")
	db := fs.String("db", envOrDefault(env, envDB, defaultDBPath(env)), "path to the sqlite reminder database")
	redisURL := fs.String("redis-url", envOrDefault(env, envRedisURL, defaultRedisURL), "redis URL for the redis store and channel")
	channelKind := fs.String("channel", envOrDefault(env, envChannel, app.ChannelHTTP), "action channel: http or redis")
	endpoint := fs.String("endpoint", envOrDefault(env, envEndpoint, defaultEndpoint), "daemon URL receiving action messages")
	queue := fs.String("queue", envOrDefault(env, envQueue, defaultQueue), "redis list the daemon consumes actions from")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	sound := fs.Bool("sound", envOrBool(env, envSound, true), "play the chime when the reminder opens")
	volume := fs.Float64("volume", envOrFloat(env, envVolume, alert.DefaultVolume), "chime volume between 0 and 1")
	notify := fs.Bool("notify", envOrBool(env, envNotify, false), "raise a desktop notification as well")
	timeFormat := fs.String("time-format", envOrDefault(env, envTimeFmt, reminder.DefaultTimeLayout), "Go time layout for the reminder time")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}

	cfg := Config{
		App: app.Config{
			WindowID:   strings.TrimSpace(*windowID),
			SocketPath: *socket,
			Store:      strings.ToLower(strings.TrimSpace(*storeKind)),
			DBPath:     *db,
			RedisURL:   *redisURL,
			Channel:    strings.ToLower(strings.TrimSpace(*channelKind)),
			Endpoint:   *endpoint,
			Queue:      *queue,
			Width:      *width,
			Height:     *height,
			Sound:      *sound,
			Volume:     *volume,
			Notify:     *notify,
			TimeLayout: *timeFormat,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"windowId":   *windowID,
			"socket":     *socket,
			"store":      *storeKind,
			"db":         *db,
			"redisUrl":   *redisURL,
			"channel":    *channelKind,
			"endpoint":   *endpoint,
			"queue":      *queue,
			"width":      strconv.Itoa(*width),
			"height":     strconv.Itoa(*height),
			"sound":      strconv.FormatBool(*sound),
			"volume":     strconv.FormatFloat(*volume, 'f', -1, 64),
			"notify":     strconv.FormatBool(*notify),
			"timeFormat": *timeFormat,
			"trace":      strconv.FormatBool(*trace),
			"logFile":    *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// defaultDBPath follows the XDG data directory, falling back to ~/.local/share.
func defaultDBPath(env map[string]string) string {
	base := env["XDG_DATA_HOME"]
	if base == "" {
		home := env["HOME"]
		if home == "" {
			return filepath.Join(os.TempDir(), "tmux-reminder-popup", "reminders.db")
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "tmux-reminder-popup", "reminders.db")
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrFloat(env map[string]string, key string, fallback float64) float64 {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate checks backend selection and the settings each backend needs.
func Validate(cfg Config) error {
	err := validate.Struct(cfg.App)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	name := flagName(fe.Field())
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("--%s must be one of %s (got %q)", name, strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value())
	case "required_if":
		return fmt.Sprintf("--%s is required when %s", name, requiredWhen(fe.Param()))
	case "gte":
		return fmt.Sprintf("--%s must be >= %s (got %v)", name, fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("--%s must be <= %s (got %v)", name, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("--%s failed %s validation", name, fe.Tag())
	}
}

func requiredWhen(param string) string {
	parts := strings.Fields(param)
	if len(parts) != 2 {
		return param
	}
	return fmt.Sprintf("--%s=%s", flagName(parts[0]), parts[1])
}

func flagName(field string) string {
	switch field {
	case "DBPath":
		return "db"
	case "RedisURL":
		return "redis-url"
	case "WindowID":
		return "window-id"
	case "SocketPath":
		return "socket"
	default:
		return strings.ToLower(field)
	}
}

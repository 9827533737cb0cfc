package config

import (
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"

	"github.com/latoulicious/Reaxn/pkg/cron"
)

// Platforms the bot can run on.
const (
	PlatformTelegram = "telegram"
	PlatformDiscord  = "discord"
)

var (
	ErrTelegramTokenNotSet = errors.New("TELEGRAM_TOKEN is not set")
	ErrDiscordTokenNotSet  = errors.New("DISCORD_TOKEN is not set")
	ErrInvalidConfig       = errors.New("invalid configuration")
)

// Config holds every runtime setting.
type Config struct {
	Platform      string
	TelegramToken string
	DiscordToken  string

	// WebhookURL switches Telegram from long polling to a webhook served on
	// ListenAddr.
	WebhookURL string
	ListenAddr string

	Logging LoggingConfig

	LookupConcurrency int
	SerializeToggles  bool
	LockIdleTTL       time.Duration
	SweepSchedule     string
}

// LoggingConfig selects log verbosity and encoding.
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Platform:   PlatformTelegram,
		ListenAddr: ":8080",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
		LookupConcurrency: 4,
		SerializeToggles:  true,
		LockIdleTTL:       10 * time.Minute,
		SweepSchedule:     "0 */5 * * * *",
	}
}

// LoadConfig reads the given env files, then the environment. With no files
// named it reads ".env" if present. The result is not validated so callers
// can apply flag overrides first.
func LoadConfig(envFiles ...string) (*Config, error) {
	err := godotenv.Load(envFiles...)
	if err != nil && (len(envFiles) > 0 || !errors.Is(err, fs.ErrNotExist)) {
		return nil, errors.Wrap(err, "loading env file")
	}

	cfg := Default()
	if err := cfg.LoadFromEnvironment(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnvironment overrides fields from environment variables.
func (c *Config) LoadFromEnvironment() error {
	var problems []string

	if val := os.Getenv("REAXN_PLATFORM"); val != "" {
		c.Platform = strings.ToLower(val)
	}

	c.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if c.TelegramToken == "" {
		c.TelegramToken = os.Getenv("BOT_TOKEN")
	}
	c.DiscordToken = os.Getenv("DISCORD_TOKEN")

	if val := os.Getenv("TELEGRAM_WEBHOOK_URL"); val != "" {
		c.WebhookURL = val
	}
	if val := os.Getenv("LISTEN_ADDR"); val != "" {
		c.ListenAddr = val
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Logging.Level = strings.ToLower(val)
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Logging.Format = strings.ToLower(val)
	}
	if val := os.Getenv("LOG_OUTPUT"); val != "" {
		c.Logging.Output = strings.ToLower(val)
	}

	if val := os.Getenv("LOOKUP_CONCURRENCY"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			problems = append(problems, "LOOKUP_CONCURRENCY must be an integer")
		} else {
			c.LookupConcurrency = n
		}
	}
	if val := os.Getenv("SERIALIZE_TOGGLES"); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			problems = append(problems, "SERIALIZE_TOGGLES must be a boolean")
		} else {
			c.SerializeToggles = b
		}
	}
	if val := os.Getenv("LOCK_IDLE_TTL"); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			problems = append(problems, "LOCK_IDLE_TTL must be a duration")
		} else {
			c.LockIdleTTL = d
		}
	}
	if val := os.Getenv("SWEEP_SCHEDULE"); val != "" {
		c.SweepSchedule = val
	}

	if len(problems) > 0 {
		return errors.Mark(errors.Newf("%s", strings.Join(problems, "; ")), ErrInvalidConfig)
	}
	return nil
}

// Validate checks that the configuration can start a bot.
func (c *Config) Validate() error {
	switch c.Platform {
	case PlatformTelegram:
		if c.TelegramToken == "" {
			return ErrTelegramTokenNotSet
		}
	case PlatformDiscord:
		if c.DiscordToken == "" {
			return ErrDiscordTokenNotSet
		}
	default:
		return errors.Mark(errors.Newf("unknown platform %q", c.Platform), ErrInvalidConfig)
	}

	var problems []string
	if c.WebhookURL != "" && c.ListenAddr == "" {
		problems = append(problems, "LISTEN_ADDR is required with TELEGRAM_WEBHOOK_URL")
	}
	if c.LookupConcurrency <= 0 {
		problems = append(problems, "LOOKUP_CONCURRENCY must be > 0")
	}
	if c.LockIdleTTL <= 0 {
		problems = append(problems, "LOCK_IDLE_TTL must be > 0")
	}
	if err := cron.ValidateSchedule(c.SweepSchedule); err != nil {
		problems = append(problems, "SWEEP_SCHEDULE is not a valid cron expression")
	}

	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[c.Logging.Level] {
		problems = append(problems, "LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		problems = append(problems, "LOG_FORMAT must be console or json")
	}

	if len(problems) > 0 {
		return errors.Mark(errors.Newf("%s", strings.Join(problems, "; ")), ErrInvalidConfig)
	}
	return nil
}

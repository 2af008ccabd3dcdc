package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// FileName is the config file at the project root.
const FileName = "pantau.yaml"

// Config represents the top-level pantau.yaml configuration.
type Config struct {
	Owner    OwnerConfig    `yaml:"owner"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Insights InsightsConfig `yaml:"insights"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Email    EmailConfig    `yaml:"email"`
	Telegram TelegramConfig `yaml:"telegram"`
	Log      LogConfig      `yaml:"log"`
	Git      GitConfig      `yaml:"git"`
}

// OwnerConfig identifies whose money this is.
type OwnerConfig struct {
	Name string `yaml:"name"`
}

// LedgerConfig locates the SQLite ledger.
type LedgerConfig struct {
	DBPath string `yaml:"db_path"` // relative to the project root
}

// InsightsConfig tunes a run.
type InsightsConfig struct {
	Limit int `yaml:"limit"`
}

// ScheduleConfig controls the watch command.
type ScheduleConfig struct {
	Cron string `yaml:"cron"` // 5-field cron spec evaluated in UTC+7
}

// EmailConfig holds SMTP delivery settings.
type EmailConfig struct {
	Enabled    bool   `yaml:"enabled"`
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	SMTPUser   string `yaml:"smtp_user"`
	SMTPPass   string `yaml:"smtp_pass,omitempty"`
	From       string `yaml:"from"`
	To         string `yaml:"to"`
}

// TelegramConfig holds bot delivery settings.
type TelegramConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token,omitempty"`
	ChatID  int64  `yaml:"chat_id"`
}

// LogConfig sets the log level: debug, info, warn or error.
type LogConfig struct {
	Level string `yaml:"level"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a pantau.yaml file from disk. Secrets may be supplied through
// PANTAU_SMTP_PASS and PANTAU_TELEGRAM_TOKEN instead of the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if v := os.Getenv("PANTAU_SMTP_PASS"); v != "" {
		cfg.Email.SMTPPass = v
	}
	if v := os.Getenv("PANTAU_TELEGRAM_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(owner string) *Config {
	return &Config{
		Owner:    OwnerConfig{Name: owner},
		Ledger:   LedgerConfig{DBPath: "pantau.db"},
		Insights: InsightsConfig{Limit: 5},
		Schedule: ScheduleConfig{Cron: "0 7 * * *"},
		Email:    EmailConfig{SMTPPort: 587},
		Log:      LogConfig{Level: "info"},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Pantau",
			AuthorEmail: "pantau@localhost",
		},
	}
}

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Ledger.DBPath == "" {
		return fmt.Errorf("ledger.db_path is required")
	}
	if c.Insights.Limit < 1 {
		return fmt.Errorf("insights.limit must be at least 1, got %d", c.Insights.Limit)
	}
	if _, err := cron.ParseStandard(c.Schedule.Cron); err != nil {
		return fmt.Errorf("schedule.cron %q: %w", c.Schedule.Cron, err)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Email.Enabled && (c.Email.SMTPServer == "" || c.Email.To == "" || c.Email.From == "") {
		return fmt.Errorf("email is enabled but smtp_server, from or to is empty")
	}
	if c.Telegram.Enabled && c.Telegram.ChatID == 0 {
		return fmt.Errorf("telegram is enabled but chat_id is empty")
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log.level %q: want debug, info, warn or error", c.Log.Level)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"StockPanel/internal/classify"
	"StockPanel/internal/notifier"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Data providers.
const (
	ProviderYahoo = "yahoo"
	ProviderEODHD = "eodhd"
	ProviderMock  = "mock"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider  string `yaml:"provider"`
		APIKey    string `yaml:"api_key"`
		BaseURL   string `yaml:"base_url"`
		RateLimit int    `yaml:"rate_limit"`
	} `yaml:"data_source"`
	Watchlist []string `yaml:"watchlist"`
	Schedule  struct {
		PanelCron string `yaml:"panel_cron"`
	} `yaml:"schedule"`
	Thresholds classify.Thresholds `yaml:"thresholds"`
	Render     struct {
		Markup               string `yaml:"markup"`
		ShowIndicatorClasses bool   `yaml:"show_indicator_classes"`
	} `yaml:"render"`
	CacheTTL        time.Duration `yaml:"cache_ttl"`
	HistorySessions int           `yaml:"history_sessions"`
	Proxy           string        `yaml:"proxy"`
	LogLevel        string        `yaml:"log_level"`
	Metrics         struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
}

// defaults are applied before the file is decoded so a file only needs the keys it changes.
func defaults() *Config {
	cfg := &Config{
		Thresholds:      classify.DefaultThresholds(),
		CacheTTL:        15 * time.Minute,
		HistorySessions: 300,
		LogLevel:        "info",
	}
	cfg.DataSource.Provider = ProviderYahoo
	cfg.Schedule.PanelCron = "0 30 22 * * 1-5"
	cfg.Render.Markup = string(notifier.MarkupHTML)
	cfg.Render.ShowIndicatorClasses = true
	return cfg
}

// Load reads .env and the YAML file at path, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("EODHD_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("PANEL_WATCHLIST"); v != "" {
		cfg.Watchlist = splitList(v)
	}
	if v := os.Getenv("PANEL_CRON"); v != "" {
		cfg.Schedule.PanelCron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	for i, s := range cfg.Watchlist {
		cfg.Watchlist[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	if len(cfg.Watchlist) == 0 {
		cfg.Watchlist = []string{"SPY"}
	}
	cfg.DataSource.Provider = strings.ToLower(cfg.DataSource.Provider)

	return cfg, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// RenderOptions returns the configured panel layout.
func (c *Config) RenderOptions() (notifier.RenderOptions, error) {
	m, err := notifier.ParseMarkup(c.Render.Markup)
	if err != nil {
		return notifier.RenderOptions{}, fmt.Errorf("render.markup: %w", err)
	}
	return notifier.RenderOptions{Markup: m, ShowIndicatorClasses: c.Render.ShowIndicatorClasses}, nil
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case ProviderYahoo, ProviderMock:
	case ProviderEODHD:
		if c.DataSource.APIKey == "" {
			return fmt.Errorf("data_source.api_key is required for the eodhd provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not one of yahoo, eodhd, mock", c.DataSource.Provider)
	}
	if c.HistorySessions < 1 {
		return fmt.Errorf("history_sessions must be positive")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must not be negative")
	}
	if _, err := c.RenderOptions(); err != nil {
		return err
	}
	return c.Thresholds.Validate()
}

// ValidateServe additionally checks what the long-running bot needs.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if _, err := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor).
		Parse(c.Schedule.PanelCron); err != nil {
		return fmt.Errorf("schedule.panel_cron: %w", err)
	}
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"StockPanel/internal/classify"
	"StockPanel/internal/notifier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	for _, k := range []string{"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "EODHD_API_KEY", "HTTPS_PROXY",
		"PANEL_WATCHLIST", "PANEL_CRON", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ProviderYahoo, cfg.DataSource.Provider)
	assert.Equal(t, []string{"SPY"}, cfg.Watchlist)
	assert.Equal(t, classify.DefaultThresholds(), cfg.Thresholds)
	assert.Equal(t, 300, cfg.HistorySessions)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
	require.NoError(t, cfg.Validate())

	opts, err := cfg.RenderOptions()
	require.NoError(t, err)
	assert.Equal(t, notifier.DefaultRenderOptions(), opts)
}

func TestLoad_FileAndPartialThresholds(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
data_source:
  provider: EODHD
  api_key: k
watchlist: [aapl, " msft "]
thresholds:
  rsi:
    buy: 80
render:
  markup: ansi
  show_indicator_classes: false
cache_ttl: 2m
history_sessions: 400
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderEODHD, cfg.DataSource.Provider)
	assert.Equal(t, []string{"AAPL", "MSFT"}, cfg.Watchlist)
	assert.Equal(t, classify.Band{Buy: 80, Sell: 30}, cfg.Thresholds.RSI)
	assert.Equal(t, classify.DefaultThresholds().PERatio, cfg.Thresholds.PERatio)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 400, cfg.HistorySessions)

	opts, err := cfg.RenderOptions()
	require.NoError(t, err)
	assert.Equal(t, notifier.RenderOptions{Markup: notifier.MarkupANSI}, opts)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "99")
	t.Setenv("EODHD_API_KEY", "env-key")
	t.Setenv("PANEL_WATCHLIST", "nvda, ,tsla")
	t.Setenv("PANEL_CRON", "@daily")
	t.Setenv("LOG_LEVEL", "debug")
	path := writeConfig(t, "telegram:\n  bot_token: file\nschedule:\n  panel_cron: \"0 0 9 * * *\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tok", cfg.Telegram.BotToken)
	assert.Equal(t, "99", cfg.Telegram.ChatID)
	assert.Equal(t, "env-key", cfg.DataSource.APIKey)
	assert.Equal(t, []string{"NVDA", "TSLA"}, cfg.Watchlist)
	assert.Equal(t, "@daily", cfg.Schedule.PanelCron)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.NoError(t, cfg.ValidateServe())
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "watchlist: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	base := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		serve  bool
		errMsg string
	}{
		{"eodhd without key", func(c *Config) { c.DataSource.Provider = ProviderEODHD }, false, "api_key"},
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }, false, "provider"},
		{"bad markup", func(c *Config) { c.Render.Markup = "rtf" }, false, "render.markup"},
		{"zero sessions", func(c *Config) { c.HistorySessions = 0 }, false, "history_sessions"},
		{"serve without token", func(c *Config) {}, true, "bot_token"},
		{"serve without chat", func(c *Config) { c.Telegram.BotToken = "t" }, true, "chat_id"},
		{"serve bad cron", func(c *Config) {
			c.Telegram.BotToken, c.Telegram.ChatID = "t", "c"
			c.Schedule.PanelCron = "every day"
		}, true, "panel_cron"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			var err error
			if tt.serve {
				err = cfg.ValidateServe()
			} else {
				err = cfg.Validate()
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

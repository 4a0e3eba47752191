package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"StockPanel/internal/collector"
	"StockPanel/internal/config"
	"StockPanel/internal/metrics"
	"StockPanel/internal/notifier"
	"StockPanel/internal/panel"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "panel",
		Short: "Single-instrument market analysis panel",
		Long: `panel fetches daily price history and fundamentals for a ticker and renders
variations, technical indicators, fundamentals and volume, each classified as
favorable, neutral or unfavorable.`,
		SilenceUsage: true,
	}

	defaultCfg := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultCfg = v
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultCfg, "path to the YAML config file")

	rootCmd.AddCommand(showCmd(), chartCmd(), serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config and installs the global logger.
func loadConfig(console bool) (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	setupLogger(cfg.LogLevel, console)
	return cfg, nil
}

func setupLogger(level string, console bool) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	if console {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		return
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	var f collector.Fetcher
	switch cfg.DataSource.Provider {
	case config.ProviderEODHD:
		opts := []collector.EODHDOption{collector.WithEODHDProxy(cfg.Proxy)}
		if cfg.DataSource.BaseURL != "" {
			opts = append(opts, collector.WithEODHDBaseURL(cfg.DataSource.BaseURL))
		}
		if cfg.DataSource.RateLimit > 0 {
			opts = append(opts, collector.WithEODHDRateLimit(cfg.DataSource.RateLimit))
		}
		f = collector.NewEODHDFetcher(cfg.DataSource.APIKey, opts...)
	case config.ProviderMock:
		f = &collector.MockFetcher{Price: 100}
	default:
		f = collector.NewYahooFetcher(cfg.Proxy)
	}
	if cfg.CacheTTL > 0 {
		f = collector.NewCachingFetcher(f, cfg.CacheTTL)
	}
	return f
}

func newCollector(cfg *config.Config, m *metrics.Metrics) *collector.Collector {
	col := collector.NewCollector(newFetcher(cfg), panel.NewAssembler(cfg.Thresholds), m)
	col.Sessions = cfg.HistorySessions
	return col
}

func showCmd() *cobra.Command {
	var markup string
	var noClasses bool
	cmd := &cobra.Command{
		Use:   "show TICKER",
		Short: "Print the panel for one instrument",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(true)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			m, err := notifier.ParseMarkup(markup)
			if err != nil {
				return err
			}
			snap, err := newCollector(cfg, nil).Collect(cmd.Context(), strings.ToUpper(args[0]))
			if err != nil {
				return err
			}
			opts := notifier.RenderOptions{Markup: m, ShowIndicatorClasses: !noClasses}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), notifier.FormatPanel(snap, opts))
			return err
		},
	}
	cmd.Flags().StringVar(&markup, "markup", string(notifier.MarkupANSI), "output markup: ansi, plain or html")
	cmd.Flags().BoolVar(&noClasses, "no-classes", false, "do not classify technical indicators")
	return cmd
}

func chartCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "chart TICKER",
		Short: "Write close, SMA and MACD series as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(true)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			snap, err := newCollector(cfg, nil).Collect(cmd.Context(), strings.ToUpper(args[0]))
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create chart file: %w", err)
				}
				defer f.Close()
				w = f
			}
			if err := notifier.WriteChartCSV(w, snap.Chart); err != nil {
				return fmt.Errorf("write chart: %w", err)
			}
			log.Info().Str("symbol", snap.Symbol).Int("rows", len(snap.Chart.Dates)).Str("out", out).Msg("chart written")
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "CSV output file, - for stdout")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot and the scheduled watchlist panels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(false)
			if err != nil {
				return err
			}
			if err := cfg.ValidateServe(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

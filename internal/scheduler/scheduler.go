package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"StockPanel/internal/model"
	"StockPanel/internal/notifier"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// PanelSource builds a panel for one symbol.
type PanelSource interface {
	Collect(ctx context.Context, symbol string) (*model.PanelSnapshot, error)
}

// Sender delivers a rendered message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

const sendRetries = 3

// Scheduler runs the watchlist panel job on a cron schedule and answers bot commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector PanelSource
	Notifier  Sender
	Watchlist []string
	Render    notifier.RenderOptions
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col PanelSource, n Sender, watchlist []string, render notifier.RenderOptions) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  n,
		Watchlist: watchlist,
		Render:    render,
		Ctx:       ctx,
	}
}

// Register adds the watchlist panel job.
func (s *Scheduler) Register(panelCron string) error {
	if _, err := s.Cron.AddFunc(panelCron, s.panelTask); err != nil {
		return fmt.Errorf("register panel task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("entries", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunNow executes the watchlist job immediately.
func (s *Scheduler) RunNow() {
	s.panelTask()
}

func (s *Scheduler) panelTask() {
	log.Info().Strs("watchlist", s.Watchlist).Msg("running panel task")
	for _, symbol := range s.Watchlist {
		if s.Ctx.Err() != nil {
			return
		}
		s.trySend(s.renderPanel(s.Ctx, symbol))
	}
}

// renderPanel builds the message for one symbol, or a failure notice.
func (s *Scheduler) renderPanel(ctx context.Context, symbol string) string {
	snap, err := s.Collector.Collect(ctx, symbol)
	if err != nil {
		log.Error().Err(err).Str("symbol", symbol).Msg("collect panel")
		if errors.Is(err, model.ErrDataUnavailable) {
			return fmt.Sprintf("❌ No price data available for %s", html.EscapeString(symbol))
		}
		return fmt.Sprintf("❌ Failed to build panel for %s: %s", html.EscapeString(symbol), html.EscapeString(err.Error()))
	}
	return notifier.FormatPanel(snap, s.Render)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp(s.Render.Markup)
	}
	// Commands may arrive as /panel@BotName in group chats.
	name, _, _ := strings.Cut(fields[0], "@")
	switch name {
	case "/panel":
		if len(fields) < 2 {
			return "Usage: /panel TICKER"
		}
		return s.renderPanel(ctx, strings.ToUpper(fields[1]))
	case "/watchlist":
		s.panelTask()
		return ""
	default:
		return notifier.FormatHelp(s.Render.Markup)
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, sendRetries); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}

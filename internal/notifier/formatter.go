package notifier

import (
	"fmt"
	"html"
	"math"
	"strings"

	"StockPanel/internal/model"
)

// Markup selects how a panel is decorated for its destination.
type Markup string

const (
	MarkupHTML  Markup = "html"  // Telegram parse_mode=HTML
	MarkupANSI  Markup = "ansi"  // terminal colors
	MarkupPlain Markup = "plain" // classification spelled out in brackets
)

// ParseMarkup validates a markup name.
func ParseMarkup(s string) (Markup, error) {
	switch m := Markup(strings.ToLower(strings.TrimSpace(s))); m {
	case MarkupHTML, MarkupANSI, MarkupPlain:
		return m, nil
	default:
		return "", fmt.Errorf("unknown markup %q (want html, ansi or plain)", s)
	}
}

// RenderOptions controls FormatPanel output.
type RenderOptions struct {
	Markup Markup
	// ShowIndicatorClasses decorates RSI, the moving averages and MACD with their
	// classification. Variations and fundamentals are always decorated.
	ShowIndicatorClasses bool
}

// DefaultRenderOptions is the Telegram layout.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{Markup: MarkupHTML, ShowIndicatorClasses: true}
}

// ANSI escape codes.
const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiGray   = "\033[90m"
)

type styler struct {
	markup Markup
}

func (s styler) heading(text string) string {
	switch s.markup {
	case MarkupHTML:
		return "<b>" + html.EscapeString(text) + "</b>"
	case MarkupANSI:
		return ansiBold + text + ansiReset
	default:
		return "== " + text + " =="
	}
}

func (s styler) text(text string) string {
	if s.markup == MarkupHTML {
		return html.EscapeString(text)
	}
	return text
}

// classed decorates one line with its classification.
func (s styler) classed(c model.Classification, text string) string {
	switch s.markup {
	case MarkupHTML:
		return classMarker(c) + " " + html.EscapeString(text)
	case MarkupANSI:
		return classColor(c) + text + ansiReset
	default:
		return text + " [" + c.String() + "]"
	}
}

func classMarker(c model.Classification) string {
	switch c {
	case model.Favorable:
		return "🟢"
	case model.Neutral:
		return "🟡"
	case model.Unfavorable:
		return "🔴"
	default:
		return "⚪"
	}
}

func classColor(c model.Classification) string {
	switch c {
	case model.Favorable:
		return ansiGreen
	case model.Neutral:
		return ansiYellow
	case model.Unfavorable:
		return ansiRed
	default:
		return ansiGray
	}
}

// value renders r with format, or a marker when r has no usable number.
func value(r model.Reading, format string) string {
	switch r.Status {
	case model.StatusOK:
		return fmt.Sprintf(format, r.Value)
	case model.StatusIndeterminate:
		return "indeterminate"
	default:
		return "N/A"
	}
}

// FormatPanel renders a panel snapshot as a message.
func FormatPanel(snap *model.PanelSnapshot, opts RenderOptions) string {
	if opts.Markup == "" {
		opts.Markup = MarkupHTML
	}
	s := styler{markup: opts.Markup}
	var b strings.Builder
	line := func(text string) {
		b.WriteString(text)
		b.WriteByte('\n')
	}
	indicatorLine := func(c model.Classification, text string) {
		if opts.ShowIndicatorClasses {
			line(s.classed(c, text))
		} else {
			line(s.text(text))
		}
	}

	title := fmt.Sprintf("%s | %s", snap.Symbol, snap.AsOf.Format("2006-01-02"))
	if opts.Markup == MarkupHTML {
		line("📊 " + s.heading(title))
	} else {
		line(s.heading(title))
	}
	line("")

	line(s.heading("Price and variations"))
	line(s.text(fmt.Sprintf("Current price: $%.2f", snap.CurrentPrice)))
	v := snap.Variations
	for _, row := range []struct {
		label string
		r     model.ClassifiedReading
	}{
		{"Daily", v.Daily},
		{"Weekly", v.Weekly},
		{"Monthly", v.Monthly},
		{"YTD", v.YTD},
		{"Annual", v.Annual},
	} {
		line(s.classed(row.r.Class, fmt.Sprintf("%s variation: %s", row.label, value(row.r.Reading, "%+.2f%%"))))
	}
	if rg := snap.Range; rg.High.OK() && rg.Low.OK() {
		line(s.text(fmt.Sprintf("52-week range: $%.2f - $%.2f (at %s)",
			rg.Low.Value, rg.High.Value, value(rg.Position.Map(func(p float64) float64 { return p * 100 }), "%.0f%%"))))
	}
	line("")

	line(s.heading("Technical indicators"))
	indicatorLine(snap.RSI.Class, "RSI: "+value(snap.RSI.Latest, "%.2f"))
	indicatorLine(snap.SMA50.Class, "SMA 50: "+value(snap.SMA50.Latest, "$%.2f"))
	indicatorLine(snap.SMA200.Class, "SMA 200: "+value(snap.SMA200.Latest, "$%.2f"))
	macd := "MACD: " + value(snap.MACD.Latest, "%.2f")
	if sig := snap.MACD.Signal.Last(); snap.MACD.Latest.OK() && !math.IsNaN(sig) {
		macd += fmt.Sprintf(" (signal %.2f)", sig)
	}
	indicatorLine(snap.MACD.Class, macd)
	line("")

	f := snap.Fundamentals
	line(s.heading("Fundamentals"))
	line(s.classed(f.PERatio.Class, "P/E ratio: "+value(f.PERatio.Reading, "%.2f")))
	line(s.classed(f.ROE.Class, "ROE: "+value(f.ROE.Reading, "%.2f%%")))
	line(s.classed(f.EPS.Class, "EPS: "+value(f.EPS.Reading, "%.2f")))
	line(s.classed(f.DividendYield.Class, "Dividend yield: "+value(f.DividendYield.Reading, "%.2f%%")))
	line(s.text("Beta: " + value(f.Beta, "%.2f")))
	line(s.text("Market cap: " + value(f.MarketCap, "$%.2fT")))
	line("")

	vol := snap.Volume
	thousands := func(x float64) float64 { return x / 1e3 }
	line(s.heading("Volume"))
	line(s.classed(vol.Class, "Volume: "+value(vol.Current.Map(thousands), "%.0fK")))
	line(s.text("Average volume: " + value(vol.Average.Map(thousands), "%.0fK")))

	return strings.TrimRight(b.String(), "\n")
}

// FormatHelp lists the bot commands in the given markup.
func FormatHelp(markup Markup) string {
	s := styler{markup: markup}
	return s.heading("Commands") + "\n" +
		s.text("/panel TICKER - build the panel for one instrument") + "\n" +
		s.text("/watchlist - send the panel for every watched symbol") + "\n" +
		s.text("/help - show this message")
}

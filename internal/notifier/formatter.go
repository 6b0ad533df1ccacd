package notifier

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"text/tabwriter"
	"time"

	"StockScanner/internal/model"
)

// FormatScanTable renders the results as an aligned plain-text table with one
// row per ticker, followed by any per-ticker failures.
func FormatScanTable(report *model.ScanReport) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Ticker\tPrice\tTrend\tConfidence (%)\tSupport\tResistance\tSmart Money (Z)\tRSI\t")
	for _, r := range report.Results {
		ticker := r.Ticker
		if r.Degraded {
			ticker += "*"
		}
		fmt.Fprintf(w, "%s\t%.2f\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%s\t\n",
			ticker, r.Price, r.Trend, r.Confidence, r.Support, r.Resistance, r.SmartMoneyScore, formatRSI(r.RSI))
	}
	w.Flush()

	var b strings.Builder
	b.Write(buf.Bytes())
	if hasDegraded(report) {
		b.WriteString("* insufficient history for one or more indicator windows\n")
	}
	for _, e := range report.Errors {
		b.WriteString(fmt.Sprintf("FAILED %s [%s]: %v\n", e.Ticker, e.Kind(), e.Err))
	}
	return b.String()
}

// FormatScanReport formats a scan as a Telegram HTML message.
func FormatScanReport(report *model.ScanReport) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Stock Scan</b> | %s\n", report.StartedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("%d analyzed, %d failed in %v\n\n",
		len(report.Results), len(report.Errors), report.Duration.Round(time.Millisecond)))

	for _, r := range report.Results {
		b.WriteString(fmt.Sprintf("%s <b>%s</b> %.2f | %s %.0f%%\n",
			trendIcon(r.Trend), html.EscapeString(r.Ticker), r.Price, r.Trend, r.Confidence))
		b.WriteString(fmt.Sprintf("   S/R: %.2f / %.2f | Z: %+.2f | RSI: %s\n",
			r.Support, r.Resistance, r.SmartMoneyScore, formatRSI(r.RSI)))
		if r.Degraded {
			b.WriteString("   ⚠️ short history, indicators degraded\n")
		}
	}

	if len(report.Errors) > 0 {
		b.WriteString("\n❌ <b>Failed:</b>\n")
		for _, e := range report.Errors {
			b.WriteString(fmt.Sprintf("  %s: %s\n", html.EscapeString(e.Ticker), e.Kind()))
		}
	}
	return b.String()
}

// FormatWatchlist lists the configured tickers.
func FormatWatchlist(tickers []string) string {
	if len(tickers) == 0 {
		return "Watchlist is empty."
	}
	return fmt.Sprintf("👀 <b>Watchlist</b> (%d)\n%s", len(tickers), html.EscapeString(strings.Join(tickers, ", ")))
}

func formatRSI(v model.Value) string {
	if x, ok := v.Get(); ok {
		return fmt.Sprintf("%.2f", x)
	}
	return "n/a"
}

func trendIcon(t model.Trend) string {
	switch t {
	case model.TrendBullish:
		return "🟢"
	case model.TrendBearish:
		return "🔴"
	}
	return "⚪"
}

func hasDegraded(report *model.ScanReport) bool {
	for _, r := range report.Results {
		if r.Degraded {
			return true
		}
	}
	return false
}

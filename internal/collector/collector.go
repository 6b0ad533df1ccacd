package collector

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"StockScanner/internal/calculator"
	"StockScanner/internal/metrics"
	"StockScanner/internal/model"
	"StockScanner/internal/strategy"
)

// MaxTickers bounds a single interactive scan request.
const MaxTickers = 50

// Options configures a Collector.
type Options struct {
	Lookback   model.Lookback
	Interval   model.Interval
	Indicators calculator.IndicatorOptions
	// Concurrency bounds parallel fetches. Values <= 1 scan sequentially.
	Concurrency int
}

// DefaultOptions returns a one-month hourly scan with EMA 20/50 and RSI 14.
func DefaultOptions() Options {
	return Options{
		Lookback:    model.Lookback1mo,
		Interval:    model.Interval1h,
		Indicators:  calculator.DefaultIndicatorOptions(),
		Concurrency: 1,
	}
}

// Collector orchestrates fetching, sanitizing, indicator computation and
// analysis over a list of tickers.
type Collector struct {
	Fetcher Fetcher
	Options Options
	Metrics *metrics.Metrics // optional
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, opts Options) *Collector {
	return &Collector{Fetcher: fetcher, Options: opts}
}

// NormalizeTickers splits a comma-separated list, trims and uppercases each
// entry and drops empties. Duplicates are kept.
func NormalizeTickers(raw string) []string {
	return normalize(strings.Split(raw, ","))
}

func normalize(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// tickerOutcome is the per-ticker result of the pipeline.
type tickerOutcome struct {
	result *model.AnalysisResult
	chart  *model.ChartData
	err    error
}

// Scan runs the pipeline for every ticker in input order. A failing ticker is
// recorded in Report.Errors and never aborts the others. The first successful
// ticker's series becomes Report.Chart.
func (c *Collector) Scan(ctx context.Context, tickers []string) (*model.ScanReport, error) {
	tickers = normalize(tickers)
	if len(tickers) == 0 {
		return nil, model.ErrNoTickers
	}

	report := &model.ScanReport{
		ID:        uuid.NewString(),
		Tickers:   tickers,
		StartedAt: time.Now(),
	}
	log.Printf("[INFO] scan %s started: %d tickers via %s", report.ID, len(tickers), c.Fetcher.Name())

	outcomes := make([]tickerOutcome, len(tickers))
	workers := c.Options.Concurrency
	if workers <= 1 {
		for i, t := range tickers {
			outcomes[i] = c.analyzeTicker(ctx, t)
		}
	} else {
		sem := make(chan struct{}, workers)
		var wg sync.WaitGroup
		for i, t := range tickers {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int, t string) {
				defer wg.Done()
				defer func() { <-sem }()
				outcomes[i] = c.analyzeTicker(ctx, t)
			}(i, t)
		}
		wg.Wait()
	}

	for i, o := range outcomes {
		if o.err != nil {
			log.Printf("[WARN] scan %s: %s failed: %v", report.ID, tickers[i], o.err)
			report.Errors = append(report.Errors, model.TickerError{Ticker: tickers[i], Err: o.err})
			c.Metrics.ObserveTicker(model.ErrorKind(o.err))
			continue
		}
		report.Results = append(report.Results, *o.result)
		if report.Chart == nil {
			report.Chart = o.chart
		}
		c.Metrics.ObserveTicker("")
	}

	report.Duration = time.Since(report.StartedAt)
	c.Metrics.ObserveScan(report.Duration)
	log.Printf("[INFO] scan %s finished in %v: %d ok, %d failed",
		report.ID, report.Duration.Round(time.Millisecond), len(report.Results), len(report.Errors))
	return report, nil
}

// analyzeTicker runs fetch → sanitize → compute → analyze for one ticker.
// Panics are converted into errors so they stay isolated to the ticker.
func (c *Collector) analyzeTicker(ctx context.Context, ticker string) (out tickerOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = tickerOutcome{err: fmt.Errorf("analyze %s: panic: %v", ticker, r)}
		}
	}()

	if err := ctx.Err(); err != nil {
		return tickerOutcome{err: fmt.Errorf("%s: %v: %w", ticker, err, model.ErrProviderUnavailable)}
	}
	frame, err := c.Fetcher.FetchBars(ctx, ticker, c.Options.Lookback, c.Options.Interval)
	if err != nil {
		return tickerOutcome{err: err}
	}
	if frame.Len() < 2 {
		return tickerOutcome{err: fmt.Errorf("%s: %d bars returned: %w", ticker, frame.Len(), model.ErrInsufficientData)}
	}
	named := *frame
	named.Symbol = ticker

	series, err := calculator.Sanitize(&named)
	if err != nil {
		return tickerOutcome{err: err}
	}
	ind := calculator.Compute(series, c.Options.Indicators)
	if ind.Degraded {
		log.Printf("[WARN] %s: %d bars, indicators degraded (fast=%d slow=%d rsi=%d)",
			ticker, series.Len(), ind.FastWindow, ind.SlowWindow, ind.RSIWindow)
	}
	res, err := strategy.Analyze(series, ind)
	if err != nil {
		return tickerOutcome{err: err}
	}
	return tickerOutcome{
		result: res,
		chart:  &model.ChartData{Ticker: ticker, Series: series, Indicators: ind},
	}
}

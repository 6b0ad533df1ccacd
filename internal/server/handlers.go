package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"StockScanner/internal/chart"
	"StockScanner/internal/collector"
	"StockScanner/internal/model"
)

type handler struct {
	scanner Scanner
	timeout time.Duration
	started time.Time
}

type failure struct {
	Ticker  string `json:"ticker"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type scanResponse struct {
	*model.ScanReport
	DurationMs int64     `json:"duration_ms"`
	Failures   []failure `json:"failures"`
}

type chartResponse struct {
	Ticker     string      `json:"ticker"`
	Interval   string      `json:"interval"`
	FastWindow int         `json:"fast_window"`
	SlowWindow int         `json:"slow_window"`
	RSIWindow  int         `json:"rsi_window"`
	Degraded   bool        `json:"degraded"`
	Rows       []chart.Row `json:"rows"`
}

// health handles GET /healthz
func (h *handler) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}

// scan handles GET /v1/scan?tickers=AAPL,MSFT
func (h *handler) scan(c *fiber.Ctx) error {
	tickers := collector.NormalizeTickers(c.Query("tickers"))
	if len(tickers) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Error:   "Tickers are required",
			Message: "Please provide at least one ticker symbol, e.g. ?tickers=AAPL,MSFT",
			Code:    fiber.StatusBadRequest,
		})
	}
	if len(tickers) > collector.MaxTickers {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Error:   "Too many tickers",
			Message: "Maximum 50 tickers allowed per request",
			Code:    fiber.StatusBadRequest,
		})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()
	report, err := h.scanner.Scan(ctx, tickers)
	if err != nil {
		return err
	}

	resp := scanResponse{
		ScanReport: report,
		DurationMs: report.Duration.Milliseconds(),
		Failures:   make([]failure, 0, len(report.Errors)),
	}
	if resp.Results == nil {
		resp.Results = []model.AnalysisResult{}
	}
	for _, e := range report.Errors {
		resp.Failures = append(resp.Failures, failure{Ticker: e.Ticker, Kind: e.Kind(), Message: e.Err.Error()})
	}
	return c.JSON(resp)
}

// chart handles GET /v1/chart?ticker=AAPL
func (h *handler) chart(c *fiber.Ctx) error {
	tickers := collector.NormalizeTickers(c.Query("ticker"))
	if len(tickers) != 1 {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
			Error: "Exactly one ticker is required",
			Code:  fiber.StatusBadRequest,
		})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()
	report, err := h.scanner.Scan(ctx, tickers)
	if err != nil {
		return err
	}
	if len(report.Errors) > 0 {
		e := report.Errors[0]
		code := fiber.StatusUnprocessableEntity
		if errors.Is(e.Err, model.ErrProviderUnavailable) {
			code = fiber.StatusBadGateway
		}
		return c.Status(code).JSON(errorResponse{Error: e.Kind(), Message: e.Err.Error(), Code: code})
	}

	data := report.Chart
	return c.JSON(chartResponse{
		Ticker:     data.Ticker,
		Interval:   data.Series.Interval,
		FastWindow: data.Indicators.FastWindow,
		SlowWindow: data.Indicators.SlowWindow,
		RSIWindow:  data.Indicators.RSIWindow,
		Degraded:   data.Indicators.Degraded,
		Rows:       chart.Rows(data),
	})
}

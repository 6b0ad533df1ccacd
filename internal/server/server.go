// Package server exposes scans over HTTP with Fiber.
package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"StockScanner/internal/model"
)

// Scanner runs a scan over a ticker list.
type Scanner interface {
	Scan(ctx context.Context, tickers []string) (*model.ScanReport, error)
}

// Options configures the HTTP app.
type Options struct {
	Scanner Scanner
	// Gatherer backs /metrics; nil uses the default registry.
	Gatherer    prometheus.Gatherer
	ScanTimeout time.Duration
	// Quiet disables the access log.
	Quiet bool
}

// New builds the Fiber app with all routes registered.
func New(opts Options) *fiber.App {
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.ScanTimeout == 0 {
		opts.ScanTimeout = 60 * time.Second
	}

	app := fiber.New(fiber.Config{
		StrictRouting: true,
		CaseSensitive: true,
		ServerHeader:  "StockScanner",
		AppName:       "StockScanner",
		ReadTimeout:   10 * time.Second,
		WriteTimeout:  opts.ScanTimeout + 5*time.Second,
		ErrorHandler:  errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	if !opts.Quiet {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}?${queryParams}\n",
		}))
	}

	h := &handler{scanner: opts.Scanner, timeout: opts.ScanTimeout, started: time.Now()}
	app.Get("/healthz", h.health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))

	v1 := app.Group("/v1")
	v1.Get("/scan", h.scan)
	v1.Get("/chart", h.chart)
	return app
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(errorResponse{
		Error:   "Request failed",
		Message: err.Error(),
		Code:    code,
	})
}

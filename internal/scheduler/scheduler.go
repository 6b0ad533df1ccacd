package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"StockScanner/internal/collector"
	"StockScanner/internal/model"
	"StockScanner/internal/notifier"
)

// Scanner runs a scan over a ticker list.
type Scanner interface {
	Scan(ctx context.Context, tickers []string) (*model.ScanReport, error)
}

// Sender delivers a formatted report.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Pruner is implemented by caches that can drop expired entries.
type Pruner interface {
	Prune(ctx context.Context) (int64, error)
}

// Scheduler manages the periodic watchlist scan and Telegram commands.
type Scheduler struct {
	Cron      *cron.Cron
	Scanner   Scanner
	Notifier  Sender
	Watchlist []string
	Cache     Pruner // optional
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, sc Scanner, sender Sender, watchlist []string) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Scanner:   sc,
		Notifier:  sender,
		Watchlist: watchlist,
		Ctx:       ctx,
	}
}

// RegisterAll registers the watchlist scan and, when a prunable cache is set,
// an hourly cache cleanup.
func (s *Scheduler) RegisterAll(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	if s.Cache != nil {
		if _, err := s.Cron.AddFunc("0 0 * * * *", s.pruneTask); err != nil {
			return fmt.Errorf("register cache prune: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunScanNow executes the watchlist scan immediately.
func (s *Scheduler) RunScanNow() {
	s.scanTask()
}

func (s *Scheduler) scanTask() {
	log.Println("[INFO] running scheduled watchlist scan")
	s.trySend(s.scanReply(s.Ctx, s.Watchlist))
}

func (s *Scheduler) pruneTask() {
	n, err := s.Cache.Prune(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] prune bar cache: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[INFO] pruned %d expired cache entries", n)
	}
}

// scanReply runs a scan and formats the outcome as a message.
func (s *Scheduler) scanReply(ctx context.Context, tickers []string) string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	report, err := s.Scanner.Scan(ctx, tickers)
	if errors.Is(err, model.ErrNoTickers) {
		return "No tickers given. Usage: /scan AAPL,MSFT"
	}
	if err != nil {
		log.Printf("[ERROR] scan: %v", err)
		return fmt.Sprintf("❌ Scan failed: %v", err)
	}
	return notifier.FormatScanReport(report)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	name, args, _ := strings.Cut(strings.TrimSpace(command), " ")
	// Commands sent in groups carry a @botname suffix.
	name, _, _ = strings.Cut(name, "@")

	switch strings.ToLower(name) {
	case "/scan":
		tickers := s.Watchlist
		if strings.TrimSpace(args) != "" {
			tickers = collector.NormalizeTickers(strings.ReplaceAll(args, " ", ","))
		}
		if len(tickers) > collector.MaxTickers {
			return fmt.Sprintf("Too many tickers: %d (max %d)", len(tickers), collector.MaxTickers)
		}
		return s.scanReply(ctx, tickers)
	case "/watchlist":
		return notifier.FormatWatchlist(s.Watchlist)
	default:
		return "Available commands:\n• /scan [TICKER,TICKER,...]\n• /watchlist"
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"StockScanner/internal/barcache"
	"StockScanner/internal/chart"
	"StockScanner/internal/collector"
	"StockScanner/internal/config"
	"StockScanner/internal/metrics"
	"StockScanner/internal/model"
	"StockScanner/internal/notifier"
	"StockScanner/internal/scheduler"
	"StockScanner/internal/server"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	tickersFlag := flag.String("tickers", "", "comma-separated tickers (overrides scan.tickers)")
	exportPath := flag.String("export", "", "write the representative chart series to this path")
	format := flag.String("format", "json", "chart export format: json, csv or parquet")
	serve := flag.Bool("serve", false, "start the HTTP API")
	watch := flag.Bool("watch", false, "run the scheduled scan and Telegram commands")
	mock := flag.Bool("mock", false, "use generated data instead of a market data provider")
	flag.Parse()

	cfg, err := config.Load(config.PathFromEnv())
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if *mock {
		cfg.DataSource.Provider = "mock"
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	fetcher := newFetcher(cfg)
	m := metrics.NewMetrics(nil)

	store, err := newStore(cfg)
	if err != nil {
		log.Printf("[WARN] init %s cache failed, caching disabled: %v", cfg.Cache.Backend, err)
		store = barcache.NewNoopStore()
	}
	defer store.Close()
	if _, isNoop := store.(*barcache.NoopStore); !isNoop {
		cached := collector.NewCachedFetcher(fetcher, store, cfg.Cache.TTL)
		cached.Metrics = m
		fetcher = cached
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	col := collector.NewCollector(fetcher, cfg.CollectorOptions())
	col.Metrics = m

	watchlist := cfg.Scan.Tickers
	if *tickersFlag != "" {
		watchlist = collector.NormalizeTickers(*tickersFlag)
	}

	if !*serve && !*watch {
		code := runOnce(col, watchlist, *exportPath, *format)
		store.Close()
		os.Exit(code)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *watch {
		if err := cfg.ValidateTelegram(); err != nil {
			log.Fatalf("[FATAL] config validation: %v", err)
		}
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sched := scheduler.NewScheduler(ctx, col, tn, watchlist)
		if p, ok := store.(scheduler.Pruner); ok {
			sched.Cache = p
		}
		if err := sched.RegisterAll(cfg.Schedule.ScanCron); err != nil {
			log.Fatalf("[FATAL] register cron tasks: %v", err)
		}
		sched.Start()
		defer sched.Stop()

		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")

		if os.Getenv("RUN_ON_START") == "true" {
			log.Println("[INFO] RUN_ON_START enabled, scanning watchlist now")
			go sched.RunScanNow()
		}
	}

	app := server.New(server.Options{Scanner: col})
	if *serve {
		go func() {
			if err := app.Listen(cfg.Server.Addr); err != nil {
				log.Fatalf("[FATAL] http server: %v", err)
			}
		}()
		log.Printf("[INFO] HTTP API listening on %s", cfg.Server.Addr)
	}

	log.Println("[INFO] StockScanner is running. Press Ctrl+C to stop.")
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	if *serve {
		shutdownCtx, done := context.WithTimeout(context.Background(), 15*time.Second)
		defer done()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("[ERROR] http shutdown: %v", err)
		}
	}
	log.Println("[INFO] StockScanner stopped")
}

// runOnce scans, prints the table and optionally exports the chart series.
// It returns the process exit code.
func runOnce(col *collector.Collector, tickers []string, exportPath, format string) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := col.Scan(ctx, tickers)
	if err != nil {
		log.Printf("[ERROR] scan: %v", err)
		return 2
	}
	fmt.Print(notifier.FormatScanTable(report))

	if exportPath != "" {
		if err := export(report.Chart, exportPath, format); err != nil {
			log.Printf("[ERROR] export chart: %v", err)
			return 1
		}
	}
	if len(report.Results) == 0 {
		return 1
	}
	return 0
}

func export(data *model.ChartData, path, format string) error {
	if data == nil {
		return fmt.Errorf("no successful ticker to export")
	}
	exp, err := chart.NewExporter(format)
	if err != nil {
		return err
	}
	if filepath.Ext(path) == "" {
		path += "." + exp.Extension()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := exp.Save(chart.Rows(data), path); err != nil {
		return err
	}
	log.Printf("[INFO] exported %s chart (%d bars) to %s", data.Ticker, data.Series.Len(), path)
	return nil
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	switch cfg.DataSource.Provider {
	case "mock":
		return &collector.MockFetcher{}
	case "rest":
		return collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	default:
		return collector.NewYahooFetcher(cfg.Proxy)
	}
}

func newStore(cfg *config.Config) (barcache.Store, error) {
	switch cfg.Cache.Backend {
	case "sqlite":
		if dir := filepath.Dir(cfg.Cache.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		return barcache.NewSQLiteStore(cfg.Cache.SQLitePath)
	case "redis":
		return barcache.NewRedisStore(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
	default:
		return barcache.NewNoopStore(), nil
	}
}

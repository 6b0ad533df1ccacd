package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"StockScanner/internal/collector"
	"StockScanner/internal/model"
)

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider string `yaml:"provider"` // yahoo | rest | mock
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
	} `yaml:"data_source"`
	Scan struct {
		Tickers     []string `yaml:"tickers"`
		Lookback    string   `yaml:"lookback"`
		Interval    string   `yaml:"interval"`
		FastWindow  int      `yaml:"fast_window"`
		SlowWindow  int      `yaml:"slow_window"`
		RSIWindow   int      `yaml:"rsi_window"`
		FillNA      bool     `yaml:"fill_na"`
		Concurrency int      `yaml:"concurrency"`
	} `yaml:"scan"`
	Schedule struct {
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	Cache struct {
		Backend       string        `yaml:"backend"` // none | sqlite | redis
		TTL           time.Duration `yaml:"ttl"`
		SQLitePath    string        `yaml:"sqlite_path"`
		RedisAddr     string        `yaml:"redis_addr"`
		RedisPassword string        `yaml:"redis_password"`
		RedisDB       int           `yaml:"redis_db"`
	} `yaml:"cache"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Proxy string `yaml:"proxy"`
}

// PathFromEnv returns $CONFIG_PATH or DefaultPath.
func PathFromEnv() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads a .env file if present, then the YAML config, then applies
// environment variable overrides and defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Printf("[INFO] Loaded environment from .env")
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"TELEGRAM_BOT_TOKEN": &c.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":   &c.Telegram.ChatID,
		"DATA_PROVIDER":      &c.DataSource.Provider,
		"DATA_BASE_URL":      &c.DataSource.BaseURL,
		"DATA_API_KEY":       &c.DataSource.APIKey,
		"LOOKBACK":           &c.Scan.Lookback,
		"INTERVAL":           &c.Scan.Interval,
		"SCAN_CRON":          &c.Schedule.ScanCron,
		"CACHE_BACKEND":      &c.Cache.Backend,
		"SQLITE_PATH":        &c.Cache.SQLitePath,
		"REDIS_ADDR":         &c.Cache.RedisAddr,
		"REDIS_PASSWORD":     &c.Cache.RedisPassword,
		"HTTP_ADDR":          &c.Server.Addr,
		"HTTPS_PROXY":        &c.Proxy,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"FAST_WINDOW":      &c.Scan.FastWindow,
		"SLOW_WINDOW":      &c.Scan.SlowWindow,
		"RSI_WINDOW":       &c.Scan.RSIWindow,
		"SCAN_CONCURRENCY": &c.Scan.Concurrency,
		"REDIS_DB":         &c.Cache.RedisDB,
	}
	for key, dst := range ints {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("env %s: %w", key, err)
			}
			*dst = n
		}
	}

	if v := os.Getenv("SCANNER_TICKERS"); v != "" {
		c.Scan.Tickers = collector.NormalizeTickers(v)
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("env CACHE_TTL: %w", err)
		}
		c.Cache.TTL = d
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	if len(c.Scan.Tickers) == 0 {
		c.Scan.Tickers = []string{"AAPL", "MSFT", "NVDA", "TSLA", "AMZN"}
	}
	if c.Scan.Lookback == "" {
		c.Scan.Lookback = string(model.Lookback1mo)
	}
	if c.Scan.Interval == "" {
		c.Scan.Interval = string(model.Interval1h)
	}
	if c.Scan.FastWindow == 0 {
		c.Scan.FastWindow = 20
	}
	if c.Scan.SlowWindow == 0 {
		c.Scan.SlowWindow = 50
	}
	if c.Scan.RSIWindow == 0 {
		c.Scan.RSIWindow = 14
	}
	if c.Scan.Concurrency == 0 {
		c.Scan.Concurrency = 4
	}
	if c.Schedule.ScanCron == "" {
		c.Schedule.ScanCron = "0 */30 14-21 * * 1-5"
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "none"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 5 * time.Minute
	}
	if c.Cache.SQLitePath == "" {
		c.Cache.SQLitePath = "data/bar_cache.db"
	}
	if c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = "localhost:6379"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}

// Validate checks that the scan parameters are usable.
func (c *Config) Validate() error {
	if _, err := model.ParseLookback(c.Scan.Lookback); err != nil {
		return fmt.Errorf("scan.lookback: %w", err)
	}
	if _, err := model.ParseInterval(c.Scan.Interval); err != nil {
		return fmt.Errorf("scan.interval: %w", err)
	}
	if c.Scan.FastWindow <= 0 || c.Scan.SlowWindow <= 0 || c.Scan.RSIWindow <= 0 {
		return fmt.Errorf("scan windows must be positive")
	}
	if c.Scan.FastWindow >= c.Scan.SlowWindow {
		return fmt.Errorf("scan.fast_window (%d) must be shorter than scan.slow_window (%d)",
			c.Scan.FastWindow, c.Scan.SlowWindow)
	}
	if c.Scan.Concurrency < 0 {
		return fmt.Errorf("scan.concurrency must not be negative")
	}
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "rest":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	switch c.Cache.Backend {
	case "none", "sqlite", "redis":
	default:
		return fmt.Errorf("cache.backend %q is not supported", c.Cache.Backend)
	}
	return nil
}

// ValidateTelegram checks the fields needed by the notifier.
func (c *Config) ValidateTelegram() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}

// CollectorOptions converts the scan section into collector options.
// Call Validate first.
func (c *Config) CollectorOptions() collector.Options {
	opts := collector.DefaultOptions()
	opts.Lookback, _ = model.ParseLookback(c.Scan.Lookback)
	opts.Interval, _ = model.ParseInterval(c.Scan.Interval)
	opts.Indicators.FastWindow = c.Scan.FastWindow
	opts.Indicators.SlowWindow = c.Scan.SlowWindow
	opts.Indicators.RSIWindow = c.Scan.RSIWindow
	opts.Indicators.FillNA = c.Scan.FillNA
	opts.Concurrency = c.Scan.Concurrency
	return opts
}

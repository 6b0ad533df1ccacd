package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"StockScanner/internal/model"
)

func sampleReport() *model.ScanReport {
	return &model.ScanReport{
		ID:        "scan-1",
		StartedAt: time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC),
		Duration:  1500 * time.Millisecond,
		Results: []model.AnalysisResult{
			{Ticker: "AAPL", Price: 182.5, Trend: model.TrendBullish, Confidence: 12.34,
				Support: 178, Resistance: 185.25, SmartMoneyScore: 1.5, RSI: model.Defined(61.2)},
			{Ticker: "NEWCO", Price: 10, Trend: model.TrendNeutral, Confidence: 0,
				Support: 9, Resistance: 11, RSI: model.Undefined(), Degraded: true},
		},
		Errors: []model.TickerError{
			{Ticker: "BAD", Err: fmt.Errorf("yahoo BAD: no data: %w", model.ErrProviderUnavailable)},
		},
	}
}

func TestFormatScanTable(t *testing.T) {
	out := FormatScanTable(sampleReport())
	for _, want := range []string{
		"Ticker", "Confidence (%)", "Smart Money (Z)",
		"AAPL", "182.50", "Bullish", "12.34", "185.25", "61.20",
		"NEWCO*", "n/a",
		"insufficient history",
		"FAILED BAD [ProviderUnavailable]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestFormatScanTable_Empty(t *testing.T) {
	out := FormatScanTable(&model.ScanReport{})
	if !strings.HasPrefix(out, "Ticker") {
		t.Errorf("expected header only, got %q", out)
	}
	if strings.Contains(out, "FAILED") || strings.Contains(out, "insufficient") {
		t.Errorf("unexpected footer: %q", out)
	}
}

func TestFormatScanReport(t *testing.T) {
	r := sampleReport()
	r.Results[0].Ticker = "A<B"
	out := FormatScanReport(r)
	for _, want := range []string{
		"<b>Stock Scan</b>", "2024-03-01 15:30", "2 analyzed, 1 failed",
		"🟢 <b>A&lt;B</b>", "Z: +1.50", "RSI: n/a", "degraded",
		"<b>Failed:</b>", "BAD: ProviderUnavailable",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestFormatWatchlist(t *testing.T) {
	if got := FormatWatchlist(nil); got != "Watchlist is empty." {
		t.Errorf("got %q", got)
	}
	if got := FormatWatchlist([]string{"AAPL", "MSFT"}); !strings.Contains(got, "(2)") || !strings.Contains(got, "AAPL, MSFT") {
		t.Errorf("got %q", got)
	}
}

func TestSplitMessage(t *testing.T) {
	if parts := splitMessage("short", 10); len(parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(parts))
	}
	text := strings.Repeat("abcdefgh\n", 5) // 45 bytes
	parts := splitMessage(text, 20)
	if strings.Join(parts, "") != text {
		t.Error("parts must reassemble to the original text")
	}
	for _, p := range parts {
		if len(p) > 20 {
			t.Errorf("part exceeds limit: %q", p)
		}
	}
	long := strings.Repeat("x", 25)
	parts = splitMessage(long, 10)
	if len(parts) != 3 || strings.Join(parts, "") != long {
		t.Errorf("unexpected split of long line: %q", parts)
	}
}

type fakeTelegram struct {
	mu       sync.Mutex
	sent     []string
	failures int
	updates  string
}

func (f *fakeTelegram) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			f.mu.Lock()
			defer f.mu.Unlock()
			if f.failures > 0 {
				f.failures--
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			var payload map[string]string
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Errorf("decode payload: %v", err)
			}
			if payload["parse_mode"] != "HTML" || payload["chat_id"] != "42" {
				t.Errorf("unexpected payload: %v", payload)
			}
			f.sent = append(f.sent, payload["text"])
			w.Write([]byte(`{"ok":true}`))
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			w.Write([]byte(f.updates))
		default:
			http.NotFound(w, r)
		}
	})
}

func newTestNotifier(srv *httptest.Server) *TelegramNotifier {
	n := NewTelegramNotifier("token", "42", "")
	n.APIBase = srv.URL
	n.Client = srv.Client()
	return n
}

func TestSendWithRetry(t *testing.T) {
	fake := &fakeTelegram{failures: 1}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	n := newTestNotifier(srv)
	if err := n.SendWithRetry(context.Background(), "hello", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.sent) != 1 || fake.sent[0] != "hello" {
		t.Errorf("sent = %v", fake.sent)
	}
}

func TestSendWithRetry_Exhausted(t *testing.T) {
	fake := &fakeTelegram{failures: 10}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	n := newTestNotifier(srv)
	err := n.SendWithRetry(context.Background(), "hello", 0)
	if err == nil || !strings.Contains(err.Error(), "retries exhausted") {
		t.Errorf("expected exhausted error, got %v", err)
	}
}

func TestSendWithRetry_Cancelled(t *testing.T) {
	fake := &fakeTelegram{failures: 10}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n := newTestNotifier(srv)
	if err := n.SendWithRetry(ctx, "hello", 3); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPollingDispatch(t *testing.T) {
	fake := &fakeTelegram{updates: `{"ok":true,"result":[
		{"update_id":7,"message":{"text":" /watchlist "}},
		{"update_id":8},
		{"update_id":9,"message":{"text":"hello"}}
	]}`}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	n := newTestNotifier(srv)
	ctx := context.Background()
	updates, err := n.getUpdates(ctx, 0, 0)
	if err != nil {
		t.Fatalf("getUpdates: %v", err)
	}
	var seen []string
	next := n.dispatch(ctx, updates, 0, func(_ context.Context, cmd string) string {
		seen = append(seen, cmd)
		if cmd == "/watchlist" {
			return "AAPL"
		}
		return ""
	})
	if next != 10 {
		t.Errorf("next offset = %d, want 10", next)
	}
	if len(seen) != 2 || seen[0] != "/watchlist" {
		t.Errorf("handled = %v", seen)
	}
	if len(fake.sent) != 1 || fake.sent[0] != "AAPL" {
		t.Errorf("replies = %v", fake.sent)
	}
}

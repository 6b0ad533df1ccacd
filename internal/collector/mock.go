package collector

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"StockScanner/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Symbols in Frames or Errors get that response; anything else gets
// generated bars around Price.
type MockFetcher struct {
	Price  float64
	Bars   int
	Frames map[string]*model.RawFrame
	Errors map[string]error

	mu    sync.Mutex
	calls []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ context.Context, symbol string, _ model.Lookback, interval model.Interval) (*model.RawFrame, error) {
	m.mu.Lock()
	m.calls = append(m.calls, symbol)
	m.mu.Unlock()
	if err, ok := m.Errors[symbol]; ok {
		return nil, err
	}
	if f, ok := m.Frames[symbol]; ok {
		if f == nil || f.Len() == 0 {
			return nil, fmt.Errorf("mock %s: no data: %w", symbol, model.ErrProviderUnavailable)
		}
		return f, nil
	}
	count := m.Bars
	if count == 0 {
		count = 120
	}
	price := m.Price
	if price == 0 {
		price = 100
	}
	return GenerateMockFrame(symbol, interval, price, count), nil
}

// Calls returns the symbols requested so far.
func (m *MockFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// GenerateMockFrame builds a gently oscillating hourly frame ending now.
func GenerateMockFrame(symbol string, interval model.Interval, basePrice float64, count int) *model.RawFrame {
	now := time.Now().UTC().Truncate(time.Hour)
	f := &model.RawFrame{
		Symbol:     symbol,
		Interval:   string(interval),
		Timestamps: make([]time.Time, count),
		Columns: map[string][]any{
			model.ColOpen:   make([]any, count),
			model.ColHigh:   make([]any, count),
			model.ColLow:    make([]any, count),
			model.ColClose:  make([]any, count),
			model.ColVolume: make([]any, count),
		},
	}
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001 + 0.01*math.Sin(float64(i)/5))
		f.Timestamps[i] = now.Add(-time.Duration(count-i) * time.Hour)
		f.Columns[model.ColOpen][i] = p * 0.999
		f.Columns[model.ColHigh][i] = p * 1.005
		f.Columns[model.ColLow][i] = p * 0.995
		f.Columns[model.ColClose][i] = p
		f.Columns[model.ColVolume][i] = 1000000.0 + float64(i%9)*25000
	}
	return f
}

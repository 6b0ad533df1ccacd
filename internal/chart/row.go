// Package chart flattens a scan's representative series and its indicator
// overlays into rows for candlestick rendering and file export.
package chart

import (
	"StockScanner/internal/model"
)

// Row is one candle plus the overlays aligned to it. Undefined values are nil.
type Row struct {
	Ticker    string   `json:"ticker" parquet:"ticker"`
	Timestamp int64    `json:"t" parquet:"t"` // Unix milliseconds
	Open      float64  `json:"o" parquet:"o"`
	High      float64  `json:"h" parquet:"h"`
	Low       float64  `json:"l" parquet:"l"`
	Close     float64  `json:"c" parquet:"c"`
	Volume    *float64 `json:"v" parquet:"v,optional"`
	EMAFast   *float64 `json:"ema_fast" parquet:"ema_fast,optional"`
	EMASlow   *float64 `json:"ema_slow" parquet:"ema_slow,optional"`
	RSI       *float64 `json:"rsi" parquet:"rsi,optional"`
}

// Rows converts chart data into rows. Indicator slices shorter than the
// series leave the trailing overlays nil.
func Rows(data *model.ChartData) []Row {
	if data == nil || data.Series == nil {
		return nil
	}
	var fast, slow, rsi []model.Value
	if ind := data.Indicators; ind != nil {
		fast, slow, rsi = ind.EMAFast, ind.EMASlow, ind.RSI
	}

	rows := make([]Row, len(data.Series.Bars))
	for i, b := range data.Series.Bars {
		rows[i] = Row{
			Ticker:    data.Ticker,
			Timestamp: b.Time.UnixMilli(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    ptr(b.Volume),
			EMAFast:   at(fast, i),
			EMASlow:   at(slow, i),
			RSI:       at(rsi, i),
		}
	}
	return rows
}

func at(vals []model.Value, i int) *float64 {
	if i >= len(vals) {
		return nil
	}
	return ptr(vals[i])
}

func ptr(v model.Value) *float64 {
	x, ok := v.Get()
	if !ok {
		return nil
	}
	return &x
}

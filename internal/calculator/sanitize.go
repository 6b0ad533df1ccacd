package calculator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"StockScanner/internal/model"
)

// Sanitize coerces a provider frame into a clean Series.
// Rows without a usable close are dropped; rows with an unusable volume are
// kept with an undefined volume. Undefined open/high/low fall back to the
// row's close.
func Sanitize(frame *model.RawFrame) (*model.Series, error) {
	if frame == nil {
		return nil, fmt.Errorf("sanitize: nil frame: %w", model.ErrMalformedInput)
	}
	n := len(frame.Timestamps)

	closes, ok := frame.Columns[model.ColClose]
	if !ok {
		return nil, fmt.Errorf("sanitize %s: close column absent: %w", frame.Symbol, model.ErrMalformedInput)
	}
	if len(closes) != n {
		return nil, fmt.Errorf("sanitize %s: close has %d rows, want %d: %w",
			frame.Symbol, len(closes), n, model.ErrMalformedInput)
	}

	cell := func(col string, i int) model.Value {
		vals, ok := frame.Columns[col]
		if !ok || i >= len(vals) {
			return model.Undefined()
		}
		return Coerce(vals[i])
	}

	bars := make([]model.Bar, 0, n)
	for i, ts := range frame.Timestamps {
		c, ok := Coerce(closes[i]).Get()
		if !ok {
			continue
		}
		bars = append(bars, model.Bar{
			Time:   ts,
			Open:   cell(model.ColOpen, i).OrElse(c),
			High:   cell(model.ColHigh, i).OrElse(c),
			Low:    cell(model.ColLow, i).OrElse(c),
			Close:  c,
			Volume: cell(model.ColVolume, i),
		})
	}

	// Ensure strictly increasing timestamps; on duplicates the later row wins.
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	deduped := bars[:0]
	for _, b := range bars {
		if k := len(deduped); k > 0 && deduped[k-1].Time.Equal(b.Time) {
			deduped[k-1] = b
			continue
		}
		deduped = append(deduped, b)
	}

	if len(deduped) < 2 {
		return nil, fmt.Errorf("sanitize %s: %d valid closes: %w", frame.Symbol, len(deduped), model.ErrInsufficientData)
	}
	return &model.Series{
		Symbol:   strings.ToUpper(frame.Symbol),
		Interval: frame.Interval,
		Bars:     deduped,
	}, nil
}

// Coerce converts a decoded cell into a Value. Anything that is not a finite
// number (or a string holding one) is undefined.
func Coerce(v any) model.Value {
	switch n := v.(type) {
	case nil:
		return model.Undefined()
	case float64:
		return model.Defined(n)
	case float32:
		return model.Defined(float64(n))
	case int:
		return model.Defined(float64(n))
	case int32:
		return model.Defined(float64(n))
	case int64:
		return model.Defined(float64(n))
	case uint64:
		return model.Defined(float64(n))
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return model.Undefined()
		}
		return model.Defined(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return model.Undefined()
		}
		return model.Defined(f)
	case model.Value:
		return n
	default:
		return model.Undefined()
	}
}

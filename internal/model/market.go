package model

import "time"

// Column names recognised in a RawFrame.
const (
	ColOpen   = "open"
	ColHigh   = "high"
	ColLow    = "low"
	ColClose  = "close"
	ColVolume = "volume"
)

// RawFrame is a provider response before sanitizing. Cells are left as the
// provider decoded them (nil, numbers, strings) so that coercion happens in
// one place.
type RawFrame struct {
	Symbol     string
	Interval   string
	Timestamps []time.Time
	Columns    map[string][]any
}

// Len returns the number of rows.
func (f *RawFrame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Timestamps)
}

// Bar represents a single sanitized candlestick bar.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume Value     `json:"volume"`
}

// Series is an ordered, sanitized bar sequence for one ticker and one request.
type Series struct {
	Symbol   string `json:"symbol"`
	Interval string `json:"interval"`
	Bars     []Bar  `json:"bars"`
}

func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// Last returns the most recent bar. ok is false for an empty series.
func (s *Series) Last() (Bar, bool) {
	if s.Len() == 0 {
		return Bar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

func (s *Series) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

func (s *Series) Highs() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.High
	}
	return out
}

func (s *Series) Lows() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Low
	}
	return out
}

// Volumes returns the defined volumes only, in order.
func (s *Series) Volumes() []float64 {
	out := make([]float64, 0, len(s.Bars))
	for _, b := range s.Bars {
		if v, ok := b.Volume.Get(); ok {
			out = append(out, v)
		}
	}
	return out
}

// LastVolume returns the volume of the most recent bar, which is undefined
// when that bar carried none.
func (s *Series) LastVolume() Value {
	if s.Len() == 0 {
		return Undefined()
	}
	return s.Bars[len(s.Bars)-1].Volume
}

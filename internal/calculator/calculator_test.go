package calculator

import (
	"errors"
	"math"
	"testing"
	"time"

	talib "github.com/markcheno/go-talib"

	"StockScanner/internal/model"
)

func assertClose(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %.6f, want %.6f (tol=%.6f)", label, got, want, tol)
	}
}

func frame(closes ...any) *model.RawFrame {
	start := time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC)
	ts := make([]time.Time, len(closes))
	vols := make([]any, len(closes))
	for i := range closes {
		ts[i] = start.Add(time.Duration(i) * time.Hour)
		vols[i] = 1000.0
	}
	return &model.RawFrame{
		Symbol:     "aapl",
		Interval:   "1h",
		Timestamps: ts,
		Columns: map[string][]any{
			model.ColClose:  closes,
			model.ColVolume: vols,
		},
	}
}

func wave(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 5*math.Sin(float64(i)/3) + float64(i%7)*0.4
	}
	return out
}

// ── Sanitizer ────────────────────────────────────────────────

func TestSanitize_CoercesAndDropsBadCloses(t *testing.T) {
	f := frame(101.0, nil, "102.5", "n/a", 103, math.NaN(), 104.25)
	s, err := Sanitize(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{101, 102.5, 103, 104.25}
	got := s.Closes()
	if len(got) != len(want) {
		t.Fatalf("closes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("close[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if s.Symbol != "AAPL" {
		t.Errorf("symbol = %q, want AAPL", s.Symbol)
	}
	// Missing open/high/low fall back to close.
	if b := s.Bars[0]; b.Open != 101 || b.High != 101 || b.Low != 101 {
		t.Errorf("fallback OHL wrong: %+v", b)
	}
}

func TestSanitize_KeepsRowsWithUndefinedVolume(t *testing.T) {
	f := frame(1.0, 2.0, 3.0)
	f.Columns[model.ColVolume] = []any{100.0, "bad", nil}
	s, err := Sanitize(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("expected 3 bars, got %d", s.Len())
	}
	if vols := s.Volumes(); len(vols) != 1 || vols[0] != 100 {
		t.Errorf("volumes = %v, want [100]", vols)
	}
	if s.LastVolume().IsDefined() {
		t.Errorf("LastVolume must report the newest bar, got %v", s.LastVolume())
	}
}

func TestSanitize_MissingCloseColumn(t *testing.T) {
	f := frame(1.0, 2.0)
	delete(f.Columns, model.ColClose)
	if _, err := Sanitize(f); !errors.Is(err, model.ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput, got %v", err)
	}
}

func TestSanitize_MisalignedColumns(t *testing.T) {
	f := frame(1.0, 2.0, 3.0)
	f.Columns[model.ColClose] = []any{1.0}
	if _, err := Sanitize(f); !errors.Is(err, model.ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput, got %v", err)
	}
}

func TestSanitize_InsufficientData(t *testing.T) {
	for _, f := range []*model.RawFrame{frame(), frame(1.0), frame(1.0, nil, "x")} {
		if _, err := Sanitize(f); !errors.Is(err, model.ErrInsufficientData) {
			t.Errorf("rows=%d: expected ErrInsufficientData, got %v", f.Len(), err)
		}
	}
}

func TestSanitize_SortsAndDeduplicatesTimestamps(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	f := &model.RawFrame{
		Symbol:     "MSFT",
		Timestamps: []time.Time{t0.Add(2 * time.Hour), t0, t0.Add(time.Hour), t0.Add(time.Hour)},
		Columns:    map[string][]any{model.ColClose: {3.0, 1.0, 2.0, 2.5}},
	}
	s, err := Sanitize(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := s.Closes()
	want := []float64{1, 2.5, 3}
	if len(got) != 3 || got[0] != want[0] || got[1] != want[1] || got[2] != want[2] {
		t.Errorf("closes = %v, want %v", got, want)
	}
}

func TestSanitize_NilFrame(t *testing.T) {
	if _, err := Sanitize(nil); !errors.Is(err, model.ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput, got %v", err)
	}
}

// ── EMA ──────────────────────────────────────────────────────

func TestEMA_Correctness_Period3(t *testing.T) {
	// Seed SMA(1,2,3)=2, alpha=0.5: 4→3, 5→4
	out := CalculateEMA([]float64{1, 2, 3, 4, 5}, 3)
	if out[0].IsDefined() || out[1].IsDefined() {
		t.Errorf("warm-up positions must be undefined: %+v", out[:2])
	}
	for i, want := range map[int]float64{2: 2, 3: 3, 4: 4} {
		v, ok := out[i].Get()
		if !ok {
			t.Fatalf("index %d undefined", i)
		}
		assertClose(t, "ema", v, want, 1e-12)
	}
}

func TestEMA_InsufficientHistoryIsUndefined(t *testing.T) {
	for _, v := range CalculateEMA([]float64{1, 2, 3}, 5) {
		if v.IsDefined() {
			t.Fatal("expected entirely undefined output")
		}
	}
	for _, v := range CalculateEMA([]float64{1, 2, 3}, 0) {
		if v.IsDefined() {
			t.Fatal("expected entirely undefined output for period 0")
		}
	}
}

func TestEMA_MatchesTALib(t *testing.T) {
	closes := wave(80)
	for _, period := range []int{5, 20, 50} {
		ours := CalculateEMA(closes, period)
		ref := talib.Ema(closes, period)
		for i := period - 1; i < len(closes); i++ {
			v, ok := ours[i].Get()
			if !ok {
				t.Fatalf("period %d index %d undefined", period, i)
			}
			assertClose(t, "ema vs talib", v, ref[i], 1e-9)
		}
	}
}

func TestFillLeading(t *testing.T) {
	out := FillLeading(CalculateEMA([]float64{1, 2, 3, 4}, 3))
	for i, v := range out {
		if !v.IsDefined() {
			t.Errorf("index %d still undefined", i)
		}
	}
	if v, _ := out[0].Get(); v != 2 {
		t.Errorf("filled value = %v, want 2", v)
	}
	empty := FillLeading(make([]model.Value, 3))
	for _, v := range empty {
		if v.IsDefined() {
			t.Error("fully undefined input must stay undefined")
		}
	}
}

// ── RSI ──────────────────────────────────────────────────────

func TestRSI_Bounds(t *testing.T) {
	closes := wave(60)
	for i, v := range CalculateRSI(closes, 14) {
		if r, ok := v.Get(); ok && (r < 0 || r > 100) {
			t.Errorf("rsi[%d] = %v out of range", i, r)
		}
	}
}

func TestRSI_WarmupAndInsufficient(t *testing.T) {
	tests := []struct {
		name       string
		n          int
		firstValid int // -1 when the whole output is undefined
	}{
		{"exactly period closes", 14, 13},
		{"one more than period", 15, 13},
		{"one fewer than period", 13, -1},
		{"two closes", 2, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := CalculateRSI(wave(tt.n), 14)
			if len(out) != tt.n {
				t.Fatalf("len = %d, want %d", len(out), tt.n)
			}
			for i, v := range out {
				want := tt.firstValid >= 0 && i >= tt.firstValid
				if v.IsDefined() != want {
					t.Errorf("rsi[%d] defined = %v, want %v", i, v.IsDefined(), want)
				}
			}
		})
	}
}

func TestRSI_EdgeCases(t *testing.T) {
	up := make([]float64, 20)
	flat := make([]float64, 20)
	for i := range up {
		up[i] = float64(100 + i)
		flat[i] = 100
	}
	if v := model.LastDefined(CalculateRSI(up, 14)).OrElse(-1); v != 100 {
		t.Errorf("monotonic rise RSI = %v, want 100", v)
	}
	if v := model.LastDefined(CalculateRSI(flat, 14)).OrElse(-1); v != 100 {
		t.Errorf("flat RSI = %v, want 100", v)
	}
}

func TestRSI_MatchesTALib(t *testing.T) {
	// Seeds differ by one zero change; the gap decays away over a long series.
	closes := wave(400)
	ours := model.LastDefined(CalculateRSI(closes, 14)).OrElse(-1)
	ref := talib.Rsi(closes, 14)
	assertClose(t, "rsi vs talib", ours, ref[len(ref)-1], 1e-6)
}

// ── Range / stats ────────────────────────────────────────────

func TestTailRange_Scenario(t *testing.T) {
	lows := []float64{10, 12, 11, 9, 13, 14, 10, 11, 12, 15}
	bars := make([]model.Bar, len(lows))
	for i, l := range lows {
		bars[i] = model.Bar{Low: l, High: l, Close: l}
	}
	low, high, err := CalculateTailRange(bars, SupportResistanceWindow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if low != 9 || high != 15 {
		t.Errorf("got support=%v resistance=%v, want 9/15", low, high)
	}
}

func TestTailRange_OnlyLooksAtTail(t *testing.T) {
	bars := []model.Bar{{Low: 1, High: 500}}
	for i := 0; i < 10; i++ {
		bars = append(bars, model.Bar{Low: 50, High: 60})
	}
	low, high, _ := CalculateTailRange(bars, 10)
	if low != 50 || high != 60 {
		t.Errorf("got %v/%v, want 50/60", low, high)
	}
	if _, _, err := CalculateTailRange(nil, 10); err == nil {
		t.Error("expected error for empty bars")
	}
}

func TestZScore(t *testing.T) {
	vols := []float64{100, 100, 100, 100, 500}
	z := ZScore(500, vols)
	// mean=180, population sd=160 → z=2
	assertClose(t, "zscore", z, 2.0, 1e-12)

	if ZScore(100, []float64{100, 100, 100}) != 0 {
		t.Error("constant series must give 0")
	}
	if ZScore(100, []float64{100}) != 0 {
		t.Error("single value must give 0")
	}
}

// ── Engine ───────────────────────────────────────────────────

func TestCompute_DegradedSlowWindow(t *testing.T) {
	closes := make([]any, 25)
	for i := range closes {
		closes[i] = 100.0
	}
	s, err := Sanitize(frame(closes...))
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	set := Compute(s, DefaultIndicatorOptions())
	if !set.Degraded {
		t.Error("expected degraded set")
	}
	if v, ok := model.LastDefined(set.EMAFast).Get(); !ok || v != 100 {
		t.Errorf("ema fast last = %v, %v; want 100", v, ok)
	}
	if model.LastDefined(set.EMASlow).IsDefined() {
		t.Error("ema slow must be entirely undefined")
	}
	// Degraded mode fills the fast EMA warm-up for chart overlays.
	if !set.EMAFast[0].IsDefined() {
		t.Error("expected fast EMA warm-up to be filled in degraded mode")
	}
	if len(set.EMAFast) != s.Len() || len(set.RSI) != s.Len() {
		t.Error("indicators must align with the series")
	}
}

func TestCompute_RSIWindowExactlyMet(t *testing.T) {
	vals := wave(14)
	closes := make([]any, len(vals))
	for i, v := range vals {
		closes[i] = v
	}
	s, err := Sanitize(frame(closes...))
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	opts := IndicatorOptions{FastWindow: 5, SlowWindow: 10, RSIWindow: 14}
	set := Compute(s, opts)
	if set.Degraded {
		t.Error("14 bars satisfy RSI(14); set must not be degraded")
	}
	if !model.LastDefined(set.RSI).IsDefined() {
		t.Error("expected a defined RSI with exactly 14 bars")
	}
	if set.RSI[12].IsDefined() {
		t.Error("rsi[12] should still be warming up")
	}
}

func TestCompute_FullHistoryLeavesWarmupUndefined(t *testing.T) {
	vals := wave(80)
	closes := make([]any, len(vals))
	for i, v := range vals {
		closes[i] = v
	}
	s, err := Sanitize(frame(closes...))
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	set := Compute(s, DefaultIndicatorOptions())
	if set.Degraded {
		t.Error("80 bars should satisfy all windows")
	}
	if set.EMASlow[48].IsDefined() || !set.EMASlow[49].IsDefined() {
		t.Error("slow EMA warm-up boundary wrong")
	}

	opts := DefaultIndicatorOptions()
	opts.FillNA = true
	filled := Compute(s, opts)
	if !filled.EMASlow[0].IsDefined() {
		t.Error("FillNA should fill warm-up")
	}
}

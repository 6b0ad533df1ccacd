package calculator

import "StockScanner/internal/model"

// CalculateSMA computes the simple mean of values. Undefined when empty.
func CalculateSMA(values []float64) model.Value {
	if len(values) == 0 {
		return model.Undefined()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return model.Defined(sum / float64(len(values)))
}

// CalculateEMA returns the exponential moving average of closes over period,
// aligned with closes. The recursion uses alpha = 2/(period+1) and is seeded
// with the SMA of the first period values, so the first period-1 positions are
// undefined. With fewer than period closes the whole output is undefined.
func CalculateEMA(closes []float64, period int) []model.Value {
	out := make([]model.Value, len(closes))
	if period <= 0 || len(closes) < period {
		return out
	}

	seed, _ := CalculateSMA(closes[:period]).Get()
	out[period-1] = model.Defined(seed)

	alpha := 2.0 / float64(period+1)
	prev := seed
	for i := period; i < len(closes); i++ {
		prev += alpha * (closes[i] - prev)
		out[i] = model.Defined(prev)
	}
	return out
}

// FillLeading replaces the undefined prefix of vals with the first defined
// value. An entirely undefined slice is returned unchanged.
func FillLeading(vals []model.Value) []model.Value {
	out := make([]model.Value, len(vals))
	copy(out, vals)
	first := -1
	for i, v := range out {
		if v.IsDefined() {
			first = i
			break
		}
	}
	if first <= 0 {
		return out
	}
	for i := 0; i < first; i++ {
		out[i] = out[first]
	}
	return out
}

// Package strategy turns a sanitized series and its indicators into a
// per-ticker trend/confidence reading.
package strategy

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"StockScanner/internal/calculator"
	"StockScanner/internal/model"
)

// confidenceScale maps the EMA gap (as % of price) onto the 0~100 confidence
// range. This is a display heuristic, not a statistical confidence interval.
const confidenceScale = 2.0

// Analyze computes the AnalysisResult for one ticker. It is a pure function of
// its inputs; undefined indicators fall back to the last close, which yields a
// Neutral trend with zero confidence rather than an error.
func Analyze(series *model.Series, ind *model.IndicatorSet) (*model.AnalysisResult, error) {
	last, ok := series.Last()
	if !ok {
		return nil, fmt.Errorf("analyze: %w", model.ErrEmptySeries)
	}
	if ind == nil {
		ind = &model.IndicatorSet{}
	}
	lastClose := last.Close

	emaFast := model.LastDefined(ind.EMAFast).OrElse(lastClose)
	emaSlow := model.LastDefined(ind.EMASlow).OrElse(lastClose)

	support, resistance, err := calculator.CalculateTailRange(series.Bars, calculator.SupportResistanceWindow)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", series.Symbol, err)
	}

	return &model.AnalysisResult{
		Ticker:          series.Symbol,
		Price:           lastClose,
		Trend:           classifyTrend(emaFast, emaSlow),
		Confidence:      confidence(emaFast, emaSlow, lastClose),
		Support:         support,
		Resistance:      resistance,
		SmartMoneyScore: smartMoneyScore(series),
		RSI:             model.LastDefined(ind.RSI),
		Degraded:        ind.Degraded,
	}, nil
}

func classifyTrend(fast, slow float64) model.Trend {
	switch {
	case fast > slow:
		return model.TrendBullish
	case fast < slow:
		return model.TrendBearish
	default:
		return model.TrendNeutral
	}
}

// confidence = min(100, round2(|fast-slow| / lastClose * 100 * 2)).
func confidence(fast, slow, lastClose float64) float64 {
	if lastClose == 0 {
		return 0
	}
	distance := math.Abs(fast-slow) / math.Abs(lastClose) * 100
	c := Round2(distance * confidenceScale)
	if c > 100 || math.IsInf(c, 1) {
		return 100
	}
	if c < 0 || math.IsNaN(c) {
		return 0
	}
	return c
}

// smartMoneyScore is the population z-score of the newest bar's volume against
// all defined volumes in the series. It is 0 when the newest bar has none.
func smartMoneyScore(series *model.Series) float64 {
	vols := series.Volumes()
	last, ok := series.LastVolume().Get()
	if !ok || len(vols) < 2 {
		return 0
	}
	return Round2(calculator.ZScore(last, vols))
}

// Round2 rounds half away from zero to two decimal places.
func Round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}

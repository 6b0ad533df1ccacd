package model

import (
	"fmt"
	"strings"
	"time"
)

// Interval is the bar width requested from a provider.
type Interval string

const (
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval1d  Interval = "1d"
	Interval1wk Interval = "1wk"
)

// Lookback is the history window requested from a provider.
type Lookback string

const (
	Lookback5d  Lookback = "5d"
	Lookback1mo Lookback = "1mo"
	Lookback3mo Lookback = "3mo"
	Lookback6mo Lookback = "6mo"
	Lookback1y  Lookback = "1y"
)

var lookbackDurations = map[Lookback]time.Duration{
	Lookback5d:  5 * 24 * time.Hour,
	Lookback1mo: 30 * 24 * time.Hour,
	Lookback3mo: 91 * 24 * time.Hour,
	Lookback6mo: 182 * 24 * time.Hour,
	Lookback1y:  365 * 24 * time.Hour,
}

// ParseInterval validates s as an Interval.
func ParseInterval(s string) (Interval, error) {
	switch iv := Interval(strings.ToLower(strings.TrimSpace(s))); iv {
	case Interval15m, Interval30m, Interval1h, Interval1d, Interval1wk:
		return iv, nil
	}
	return "", fmt.Errorf("unsupported interval %q", s)
}

// ParseLookback validates s as a Lookback.
func ParseLookback(s string) (Lookback, error) {
	lb := Lookback(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := lookbackDurations[lb]; !ok {
		return "", fmt.Errorf("unsupported lookback %q", s)
	}
	return lb, nil
}

// Duration returns the approximate calendar span of the lookback.
func (l Lookback) Duration() time.Duration { return lookbackDurations[l] }

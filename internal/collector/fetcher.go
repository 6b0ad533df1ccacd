package collector

import (
	"context"

	"StockScanner/internal/model"
)

// Fetcher defines the interface for fetching market data.
// Implementations return ErrProviderUnavailable (wrapped) when the source
// cannot be reached or has nothing for the symbol.
type Fetcher interface {
	FetchBars(ctx context.Context, symbol string, lookback model.Lookback, interval model.Interval) (*model.RawFrame, error)
	Name() string
}

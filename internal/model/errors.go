package model

import "errors"

var (
	// ErrInsufficientData means fewer than 2 usable closes were available.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrProviderUnavailable means the data source failed or returned nothing.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrMalformedInput means a required column (close) was absent or misshapen.
	ErrMalformedInput = errors.New("malformed input")
	// ErrEmptySeries is raised when analysis is invoked on an empty series.
	// Reaching it is a programming error, not a user-facing condition.
	ErrEmptySeries = errors.New("empty series")
	// ErrNoTickers is a caller-level validation error raised before scanning.
	ErrNoTickers = errors.New("no tickers supplied")
)

// ErrorKind maps err onto the error taxonomy.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInsufficientData):
		return "InsufficientData"
	case errors.Is(err, ErrProviderUnavailable):
		return "ProviderUnavailable"
	case errors.Is(err, ErrMalformedInput):
		return "MalformedInput"
	case errors.Is(err, ErrEmptySeries):
		return "EmptySeries"
	default:
		return "Unknown"
	}
}

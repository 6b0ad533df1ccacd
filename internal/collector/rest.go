package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"StockScanner/internal/model"
)

// RESTFetcher implements Fetcher against a generic JSON bar API:
// GET {base}/api/v1/bars?symbol=..&interval=..&range=.. returning an array of
// {timestamp, open, high, low, close, volume}.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string) *RESTFetcher {
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar keeps the numeric fields loosely typed; the sanitizer coerces them.
type restBar struct {
	Timestamp int64 `json:"timestamp"`
	Open      any   `json:"open"`
	High      any   `json:"high"`
	Low       any   `json:"low"`
	Close     any   `json:"close"`
	Volume    any   `json:"volume"`
}

func (f *RESTFetcher) FetchBars(ctx context.Context, symbol string, lookback model.Lookback, interval model.Interval) (*model.RawFrame, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", string(interval))
	q.Set("range", string(lookback))
	endpoint := fmt.Sprintf("%s/api/v1/bars?%s", f.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bars %s: %v: %w", symbol, err, model.ErrProviderUnavailable)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch bars %s: status %d, body: %s: %w",
			symbol, resp.StatusCode, truncate(body, 200), model.ErrProviderUnavailable)
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	var rows []restBar
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode bars %s: %v: %w", symbol, err, model.ErrMalformedInput)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("fetch bars %s: empty response: %w", symbol, model.ErrProviderUnavailable)
	}
	// Ensure chronological order
	sort.Slice(rows, func(i, j int) bool { return rows[i].Timestamp < rows[j].Timestamp })

	frame := &model.RawFrame{
		Symbol:     symbol,
		Interval:   string(interval),
		Timestamps: make([]time.Time, len(rows)),
		Columns: map[string][]any{
			model.ColOpen:   make([]any, len(rows)),
			model.ColHigh:   make([]any, len(rows)),
			model.ColLow:    make([]any, len(rows)),
			model.ColClose:  make([]any, len(rows)),
			model.ColVolume: make([]any, len(rows)),
		},
	}
	for i, r := range rows {
		frame.Timestamps[i] = time.Unix(r.Timestamp, 0).UTC()
		frame.Columns[model.ColOpen][i] = r.Open
		frame.Columns[model.ColHigh][i] = r.High
		frame.Columns[model.ColLow][i] = r.Low
		frame.Columns[model.ColClose][i] = r.Close
		frame.Columns[model.ColVolume][i] = r.Volume
	}
	return frame, nil
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}
